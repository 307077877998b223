package realtime

import (
	"strings"
	"sync"

	"rental-admin/models"
	"rental-admin/pkg/logger"
)

const DefaultSchema = "public"

// Filter selects the changes a subscription receives. Empty fields match
// everything; Event "*" matches all event types.
type Filter struct {
	Schema string
	Table  string
	Event  string
}

func (f Filter) Matches(c models.Change) bool {
	if f.Schema != "" && f.Schema != c.Schema {
		return false
	}
	if f.Table != "" && f.Table != c.Table {
		return false
	}
	if f.Event != "" && f.Event != models.EventAll && !strings.EqualFold(f.Event, c.Type) {
		return false
	}
	return true
}

type Subscription struct {
	C <-chan models.Change

	id     uint64
	filter Filter
	ch     chan models.Change
}

// Hub fans change notifications out to subscribers.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	nextID  uint64
	buffer  int
	closed  bool
	log     logger.ILogger
	dropped uint64
}

func NewHub(buffer int, log logger.ILogger) *Hub {
	if buffer < 1 {
		buffer = 16
	}
	return &Hub{
		subs:   map[uint64]*Subscription{},
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a new subscription. It must be released with
// Unsubscribe. On a closed hub the returned channel is already closed.
func (h *Hub) Subscribe(f Filter) *Subscription {
	ch := make(chan models.Change, h.buffer)
	sub := &Subscription{C: ch, filter: f, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.nextID++
	sub.id = h.nextID
	h.subs[sub.id] = sub
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.ch)
}

// Publish delivers c to every matching subscriber without blocking. A
// subscriber whose buffer is full misses the change.
func (h *Hub) Publish(c models.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if !sub.filter.Matches(c) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			h.dropped++
			h.log.Warning("subscriber buffer full, change dropped",
				logger.String("table", c.Table),
				logger.Uint64("subscription", sub.id))
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Close releases every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
	}
}
