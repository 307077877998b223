package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/realtime"
	"rental-admin/repositories"
	"rental-admin/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeBoardSource struct {
	mu      sync.Mutex
	items   []models.Verification
	updated []string
}

func (f *fakeBoardSource) Board(ctx context.Context) (*models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.NewBoard(append([]models.Verification{}, f.items...)), nil
}

func (f *fakeBoardSource) UpdateStatus(ctx context.Context, id string, status string) (*models.Verification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id+":"+status)
	for i := range f.items {
		if strconv.FormatInt(f.items[i].ID, 10) == id {
			f.items[i].Status = models.VerificationStatus(status)
			return &f.items[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeBoardSource) Updated() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.updated...)
}

type fakeUserLister struct {
	mu      sync.Mutex
	queries []services.UserQuery
}

func (f *fakeUserLister) List(ctx context.Context, q services.UserQuery) (repositories.ListResult[models.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return repositories.ListResult[models.User]{
		Data:  []models.User{{ID: "u1", Name: "Fleet Co", IsCompany: q.Companies}},
		Total: 1,
	}, nil
}

func (f *fakeUserLister) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// wsFrame mirrors realtime.Frame with the payload left raw.
type wsFrame struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// serveOnce mounts handler at /ws and reports when its single
// invocation returns.
func serveOnce(handler gin.HandlerFunc) (*httptest.Server, <-chan struct{}) {
	done := make(chan struct{})
	var once sync.Once
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		defer once.Do(func() { close(done) })
		handler(c)
	})
	return httptest.NewServer(r), done
}

func dialWS(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

// readUntil returns the first frame accepted by match. Frames that do not
// match are skipped.
func readUntil(t *testing.T, conn *websocket.Conn, match func(wsFrame) bool) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		if match(f) {
			return f
		}
	}
}

func waitHandler(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("websocket handler did not return")
	}
}

func isError(f wsFrame) bool {
	return f.Type == realtime.FrameError
}

func newRealtimeController(hub *realtime.Hub, board services.BoardSource, users UserLister) *RealtimeController {
	ctrl := NewRealtimeController(hub, realtime.NewUpgrader(), board, users, logger.NewNop())
	ctrl.search = 10 * time.Millisecond
	return ctrl
}

func TestRealtimeChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := realtime.NewHub(4, logger.NewNop())
	defer hub.Close()
	ctrl := newRealtimeController(hub, &fakeBoardSource{}, &fakeUserLister{})

	srv, done := serveOnce(ctrl.Changes)
	defer srv.Close()

	conn := dialWS(t, srv, "?table=verification&event=UPDATE")
	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.Publish(models.Change{Schema: "public", Table: "users", Type: models.EventUpdate, ID: "u1"})
	hub.Publish(models.Change{Schema: "public", Table: "verification", Type: models.EventInsert, ID: "6"})
	hub.Publish(models.Change{Schema: "public", Table: "verification", Type: models.EventUpdate, ID: "7"})

	f := readUntil(t, conn, func(wsFrame) bool { return true })
	assert.Equal(t, realtime.FrameChange, f.Type)
	var change models.Change
	require.NoError(t, json.Unmarshal(f.Data, &change))
	assert.Equal(t, models.Change{Schema: "public", Table: "verification", Type: models.EventUpdate, ID: "7"}, change)

	require.NoError(t, conn.Close())
	waitHandler(t, done)
	srv.Close()
	assert.Equal(t, 0, hub.Len())
}

func boardOf(t *testing.T, f wsFrame) models.BoardSnapshot {
	t.Helper()
	var snap models.BoardSnapshot
	require.NoError(t, json.Unmarshal(f.Data, &snap))
	require.NotNil(t, snap.Board)
	return snap
}

func columnIDs(b *models.Board, status models.VerificationStatus) []int64 {
	ids := []int64{}
	for _, col := range b.Columns {
		if col.Status == status {
			for _, item := range col.Items {
				ids = append(ids, item.ID)
			}
		}
	}
	return ids
}

func TestRealtimeVerifications(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := realtime.NewHub(4, logger.NewNop())
	defer hub.Close()
	src := &fakeBoardSource{items: []models.Verification{
		{ID: 1, UserID: "u1", Status: models.StatusPending},
		{ID: 2, UserID: "u2", Status: models.StatusPending},
	}}
	ctrl := newRealtimeController(hub, src, &fakeUserLister{})

	srv, done := serveOnce(ctrl.Verifications)
	defer srv.Close()
	conn := dialWS(t, srv, "")

	first := boardOf(t, readUntil(t, conn, func(f wsFrame) bool { return f.Type == realtime.FrameBoard }))
	assert.Positive(t, first.Version)
	assert.ElementsMatch(t, []int64{1, 2}, columnIDs(first.Board, models.StatusPending))

	t.Run("move", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"move","id":1,"status":"APPROVED"}`)
		readUntil(t, conn, func(f wsFrame) bool {
			return f.Type == realtime.FrameBoard && assert.ObjectsAreEqual([]int64{1}, columnIDs(boardOf(t, f).Board, models.StatusApproved))
		})
		assert.Eventually(t, func() bool {
			return assert.ObjectsAreEqual([]string{"1:APPROVED"}, src.Updated())
		}, 2*time.Second, 5*time.Millisecond)
	})

	t.Run("bad status", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"move","id":2,"status":"LOST"}`)
		f := readUntil(t, conn, isError)
		assert.NotEmpty(t, f.Error)
	})

	t.Run("refresh and change feed", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"refresh"}`)
		refreshed := boardOf(t, readUntil(t, conn, func(f wsFrame) bool { return f.Type == realtime.FrameBoard }))
		assert.Greater(t, refreshed.Version, first.Version)

		hub.Publish(models.Change{Schema: "public", Table: "verification", Type: models.EventInsert, ID: "3"})
		readUntil(t, conn, func(f wsFrame) bool {
			return f.Type == realtime.FrameBoard && boardOf(t, f).Version > refreshed.Version
		})
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"shuffle"}`)
		assert.Contains(t, readUntil(t, conn, isError).Error, `unknown command "shuffle"`)

		sendJSON(t, conn, `{not json`)
		assert.Contains(t, readUntil(t, conn, isError).Error, repositories.ErrInvalidValue.Error())
	})

	require.NoError(t, conn.Close())
	waitHandler(t, done)
	srv.Close()
	assert.Equal(t, 0, hub.Len())
}

func TestRealtimeVerificationsEndWhenHubCloses(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := realtime.NewHub(4, logger.NewNop())
	ctrl := newRealtimeController(hub, &fakeBoardSource{}, &fakeUserLister{})

	srv, done := serveOnce(ctrl.Verifications)
	defer srv.Close()
	conn := dialWS(t, srv, "")
	defer conn.Close()

	readUntil(t, conn, func(f wsFrame) bool { return f.Type == realtime.FrameBoard })
	hub.Close()
	waitHandler(t, done)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, hub.Len())
}

func listOf(t *testing.T, f wsFrame) services.ListSnapshot {
	t.Helper()
	var snap services.ListSnapshot
	require.NoError(t, json.Unmarshal(f.Data, &snap))
	return snap
}

func TestRealtimeUsers(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := realtime.NewHub(4, logger.NewNop())
	defer hub.Close()
	users := &fakeUserLister{}
	ctrl := newRealtimeController(hub, &fakeBoardSource{}, users)

	t.Run("unknown kind", func(t *testing.T) {
		r := gin.New()
		r.GET("/ws", ctrl.Users)
		w := request(r, http.MethodGet, "/ws?kind=vehicles", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, users.Calls())
	})

	srv, done := serveOnce(ctrl.Users)
	defer srv.Close()
	conn := dialWS(t, srv, "?kind=companies")

	isList := func(f wsFrame) bool { return f.Type == realtime.FrameList }
	first := listOf(t, readUntil(t, conn, isList))
	assert.True(t, first.Query.Companies)
	assert.Equal(t, 1, first.Query.Page)
	assert.Equal(t, services.CompaniesPageSize, first.Query.Limit)
	require.Len(t, first.Data, 1)
	assert.Equal(t, 1, first.Total)

	last := first
	next := func(t *testing.T, match func(services.ListSnapshot) bool) services.ListSnapshot {
		t.Helper()
		f := readUntil(t, conn, func(f wsFrame) bool {
			return isList(f) && match(listOf(t, f))
		})
		snap := listOf(t, f)
		assert.Greater(t, snap.Version, last.Version)
		last = snap
		return snap
	}

	t.Run("search", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"search","search":"fleet"}`)
		snap := next(t, func(s services.ListSnapshot) bool { return s.Query.Search == "fleet" })
		assert.Equal(t, 1, snap.Query.Page)
	})

	t.Run("page", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"page","page":3,"pageSize":5}`)
		snap := next(t, func(s services.ListSnapshot) bool { return s.Query.Page == 3 })
		assert.Equal(t, 5, snap.Query.Limit)
		assert.Equal(t, "fleet", snap.Query.Search)
	})

	t.Run("filter", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"filter","field":"isVerified","value":"true"}`)
		snap := next(t, func(s services.ListSnapshot) bool { return s.Query.IsVerified != nil })
		assert.True(t, *snap.Query.IsVerified)
		assert.Equal(t, 1, snap.Query.Page)

		sendJSON(t, conn, `{"type":"filter","field":"password","value":"x"}`)
		assert.Contains(t, readUntil(t, conn, isError).Error, repositories.ErrInvalidField.Error())
	})

	t.Run("users change reloads", func(t *testing.T) {
		calls := users.Calls()
		hub.Publish(models.Change{Schema: "public", Table: "users", Type: models.EventUpdate, ID: "u1"})
		next(t, func(services.ListSnapshot) bool { return true })
		assert.Greater(t, users.Calls(), calls)
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		sendJSON(t, conn, `{"type":"sort"}`)
		assert.Contains(t, readUntil(t, conn, isError).Error, `unknown command "sort"`)
	})

	require.NoError(t, conn.Close())
	waitHandler(t, done)
	srv.Close()
	assert.Equal(t, 0, hub.Len())
}
