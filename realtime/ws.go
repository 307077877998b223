package realtime

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"rental-admin/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

const (
	FrameChange = "change"
	FrameBoard  = "board"
	FrameList   = "list"
	FrameError  = "error"
)

// Frame is the envelope of every server message.
type Frame struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Upgrader accepts handshakes without an Origin header, from the serving
// host, or from one of the allowed origins.
type Upgrader struct {
	ws      websocket.Upgrader
	origins map[string]struct{}
}

func NewUpgrader(origins ...string) *Upgrader {
	u := &Upgrader{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o = normalizeOrigin(o); o != "" {
			u.origins[o] = struct{}{}
		}
	}
	u.ws = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     u.checkOrigin,
	}
	return u
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}

func (u *Upgrader) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(parsed.Host, r.Host) {
		return true
	}
	_, ok := u.origins[normalizeOrigin(origin)]
	return ok
}

// Session is one upgraded websocket connection. Its context ends when the
// peer goes away or Close is called.
type Session struct {
	conn *websocket.Conn
	log  logger.ILogger

	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex
	wg      sync.WaitGroup
	once    sync.Once
}

// Accept upgrades the request. A rejected origin gets 403.
func (u *Upgrader) Accept(ctx context.Context, w http.ResponseWriter, r *http.Request, log logger.ILogger) (*Session, error) {
	conn, err := u.ws.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(ctx)
	return &Session{conn: conn, log: log, ctx: ctx, cancel: cancel}, nil
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Start runs the read and ping loops. handle receives every inbound
// message on the read goroutine; nil discards input.
func (s *Session) Start(handle func(msg []byte)) {
	s.wg.Add(2)
	go s.readLoop(handle)
	go s.pingLoop()
}

func (s *Session) readLoop(handle func(msg []byte)) {
	defer s.wg.Done()
	defer s.cancel()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warning("ws read error", logger.Error(err))
			}
			return
		}
		if handle != nil {
			handle(msg)
		}
	}
}

func (s *Session) pingLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.cancel()
				return
			}
		}
	}
}

// Send writes v as one JSON frame. Safe for concurrent use.
func (s *Session) Send(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		s.cancel()
		return err
	}
	return nil
}

func (s *Session) SendError(err error) {
	if serr := s.Send(Frame{Type: FrameError, Error: err.Error()}); serr != nil {
		s.log.Debug("ws error frame not delivered", logger.Error(serr))
	}
}

// Close sends a close frame, drops the connection and waits for the
// session goroutines.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = s.conn.Close()
		s.wg.Wait()
	})
}

// Forward relays sub to the session until either side ends.
func (s *Session) Forward(sub *Subscription) {
	for {
		select {
		case <-s.Done():
			return
		case change, ok := <-sub.C:
			if !ok {
				return
			}
			if err := s.Send(Frame{Type: FrameChange, Data: change}); err != nil {
				return
			}
		}
	}
}
