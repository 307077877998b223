package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"
	"rental-admin/utils"

	"github.com/spf13/cast"
)

// SearchDebounce is the quiet period before a search change reloads a list.
const SearchDebounce = 500 * time.Millisecond

type ListLoader func(ctx context.Context, q UserQuery) (repositories.ListResult[models.User], error)

type ListSnapshot struct {
	Version uint64        `json:"version"`
	Query   UserQuery     `json:"query"`
	Data    []models.User `json:"data"`
	Total   int           `json:"total"`
	Error   string        `json:"error,omitempty"`
}

// ListSession is the live state of one list page. Every change replaces
// the whole page; responses to superseded requests are dropped.
type ListSession struct {
	load     ListLoader
	log      logger.ILogger
	debounce *utils.Debouncer
	gate     utils.VersionGate

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	query   UserQuery
	closed  bool
	updates chan ListSnapshot
	wg      sync.WaitGroup
}

func NewListSession(ctx context.Context, load ListLoader, initial UserQuery, delay time.Duration, log logger.ILogger) *ListSession {
	ctx, cancel := context.WithCancel(ctx)
	return &ListSession{
		load:     load,
		log:      log,
		debounce: utils.NewDebouncer(delay),
		ctx:      ctx,
		cancel:   cancel,
		query:    initial.Normalize(),
		updates:  make(chan ListSnapshot, 1),
	}
}

func (s *ListSession) Updates() <-chan ListSnapshot {
	return s.updates
}

func (s *ListSession) Query() UserQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetSearch changes the search text and reloads after the debounce delay.
func (s *ListSession) SetSearch(text string) {
	s.mu.Lock()
	s.query.Search = text
	s.query.Page = 1
	s.mu.Unlock()
	s.debounce.Trigger(s.Reload)
}

func (s *ListSession) SetPage(page, pageSize int) {
	s.mu.Lock()
	s.query.Page = page
	if pageSize > 0 {
		s.query.Limit = pageSize
	}
	s.query = s.query.Normalize()
	s.mu.Unlock()
	s.Reload()
}

// SetFilter sets or clears (value nil) one equality filter.
func (s *ListSession) SetFilter(field string, value *string) error {
	s.mu.Lock()
	next := s.query
	s.mu.Unlock()

	var flag *bool
	if value != nil && field != "role" {
		b, err := cast.ToBoolE(*value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", repositories.ErrInvalidValue, field, err)
		}
		flag = &b
	}

	switch field {
	case "isVerified":
		next.IsVerified = flag
	case "isOwner":
		next.IsOwner = flag
	case "isRenter":
		next.IsRenter = flag
	case "role":
		next.Role = ""
		if value != nil {
			next.Role = strings.TrimSpace(*value)
		}
	default:
		return fmt.Errorf("%w: %s", repositories.ErrInvalidField, field)
	}
	next.Page = 1

	s.mu.Lock()
	s.query = next
	s.mu.Unlock()
	s.Reload()
	return nil
}

// Reload fetches the current query in the background.
func (s *ListSession) Reload() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	q := s.query
	seq := s.gate.Begin()
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.fetch(seq, q)
	}()
}

func (s *ListSession) fetch(seq uint64, q UserQuery) {
	res, err := s.load(s.ctx, q)
	if s.ctx.Err() != nil {
		return
	}

	snap := ListSnapshot{Version: seq, Query: q, Data: res.Data, Total: res.Total}
	if err != nil {
		s.log.Warning("list reload failed", logger.Error(err))
		snap.Data = nil
		snap.Total = 0
		snap.Error = err.Error()
	}
	if snap.Data == nil {
		snap.Data = []models.User{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.gate.TryApply(seq) {
		return
	}
	select {
	case <-s.updates:
	default:
	}
	s.updates <- snap
}

// Close stops pending reloads and waits for in-flight ones.
func (s *ListSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debounce.Stop()
	s.cancel()
	s.wg.Wait()
}
