package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/realtime"
	"rental-admin/repositories"
	"rental-admin/services"

	"github.com/gin-gonic/gin"
)

type UserLister interface {
	List(ctx context.Context, q services.UserQuery) (repositories.ListResult[models.User], error)
}

// RealtimeController serves the websocket endpoints. Each connection owns
// its hub subscription and releases it when the socket closes.
type RealtimeController struct {
	hub      *realtime.Hub
	upgrader *realtime.Upgrader
	board    services.BoardSource
	users    UserLister
	log      logger.ILogger
	search   time.Duration
}

func NewRealtimeController(hub *realtime.Hub, upgrader *realtime.Upgrader, board services.BoardSource, users UserLister, log logger.ILogger) *RealtimeController {
	return &RealtimeController{
		hub:      hub,
		upgrader: upgrader,
		board:    board,
		users:    users,
		log:      log,
		search:   services.SearchDebounce,
	}
}

// command is an inbound client message.
type command struct {
	Type     string  `json:"type"`
	ID       int64   `json:"id"`
	Status   string  `json:"status"`
	Search   string  `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Field    string  `json:"field"`
	Value    *string `json:"value"`
}

func (ctrl *RealtimeController) accept(c *gin.Context) (*realtime.Session, bool) {
	sess, err := ctrl.upgrader.Accept(c.Request.Context(), c.Writer, c.Request, ctrl.log)
	if err != nil {
		ctrl.log.Warning("ws upgrade failed", logger.Error(err))
		return nil, false
	}
	return sess, true
}

// Changes godoc
// @Summary Row change feed
// @Description WebSocket. Streams {type:"change", data:{schema,table,type,id}} frames.
// @Tags Realtime
// @Param token query string true "Access token"
// @Param table query string false "Table name"
// @Param event query string false "INSERT, UPDATE, DELETE or *"
// @Router /admin/ws/changes [get]
func (ctrl *RealtimeController) Changes(c *gin.Context) {
	filter := realtime.Filter{
		Schema: c.DefaultQuery("schema", realtime.DefaultSchema),
		Table:  c.Query("table"),
		Event:  c.DefaultQuery("event", models.EventAll),
	}

	sess, ok := ctrl.accept(c)
	if !ok {
		return
	}
	defer sess.Close()

	sub := ctrl.hub.Subscribe(filter)
	defer ctrl.hub.Unsubscribe(sub)

	sess.Start(nil)
	sess.Forward(sub)
}

// Verifications godoc
// @Summary Live verification board
// @Description WebSocket. Streams {type:"board", data:{version, board}} frames. Accepts {type:"move", id, status} and {type:"refresh"}.
// @Tags Realtime
// @Param token query string true "Access token"
// @Router /admin/ws/verifications [get]
func (ctrl *RealtimeController) Verifications(c *gin.Context) {
	sess, ok := ctrl.accept(c)
	if !ok {
		return
	}
	defer sess.Close()

	sub := ctrl.hub.Subscribe(realtime.Filter{Schema: realtime.DefaultSchema, Table: "verification", Event: models.EventAll})
	defer ctrl.hub.Unsubscribe(sub)

	live := services.NewLiveBoard(ctrl.board, ctrl.log)
	ctx := sess.Context()

	done := make(chan struct{})
	go func() {
		defer close(done)
		live.Run(ctx, sub.C)
	}()
	defer func() { <-done }()

	sess.Start(func(msg []byte) {
		var cmd command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			sess.SendError(fmt.Errorf("%w: %v", repositories.ErrInvalidValue, err))
			return
		}
		switch cmd.Type {
		case "move":
			if err := live.Move(ctx, cmd.ID, cmd.Status); err != nil {
				sess.SendError(err)
			}
		case "refresh":
			if err := live.Refresh(ctx); err != nil {
				sess.SendError(err)
			}
		default:
			sess.SendError(fmt.Errorf("unknown command %q", cmd.Type))
		}
	})

	for {
		select {
		case <-sess.Done():
			return
		case <-done:
			return
		case snap := <-live.Updates():
			if err := sess.Send(realtime.Frame{Type: realtime.FrameBoard, Data: snap}); err != nil {
				return
			}
		}
	}
}

// Users godoc
// @Summary Live users or companies list
// @Description WebSocket. Streams {type:"list", data:{version, query, data, total, error}} frames. Accepts {type:"search"}, {type:"page"}, {type:"filter"} and {type:"reload"}.
// @Tags Realtime
// @Param token query string true "Access token"
// @Param kind query string false "users or companies" default(users)
// @Router /admin/ws/users [get]
func (ctrl *RealtimeController) Users(c *gin.Context) {
	kind := c.DefaultQuery("kind", "users")
	if kind != "users" && kind != "companies" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "kind must be users or companies",
		})
		return
	}

	sess, ok := ctrl.accept(c)
	if !ok {
		return
	}
	defer sess.Close()

	sub := ctrl.hub.Subscribe(realtime.Filter{Schema: realtime.DefaultSchema, Table: "users", Event: models.EventAll})
	defer ctrl.hub.Unsubscribe(sub)

	session := services.NewListSession(sess.Context(), ctrl.users.List,
		services.UserQuery{Companies: kind == "companies"}, ctrl.search, ctrl.log)
	defer session.Close()

	sess.Start(func(msg []byte) {
		var cmd command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			sess.SendError(fmt.Errorf("%w: %v", repositories.ErrInvalidValue, err))
			return
		}
		switch cmd.Type {
		case "search":
			session.SetSearch(cmd.Search)
		case "page":
			session.SetPage(cmd.Page, cmd.PageSize)
		case "filter":
			if err := session.SetFilter(cmd.Field, cmd.Value); err != nil {
				sess.SendError(err)
			}
		case "reload":
			session.Reload()
		default:
			sess.SendError(fmt.Errorf("unknown command %q", cmd.Type))
		}
	})
	session.Reload()

	for {
		select {
		case <-sess.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			session.Reload()
		case snap := <-session.Updates():
			if err := sess.Send(realtime.Frame{Type: realtime.FrameList, Data: snap}); err != nil {
				return
			}
		}
	}
}
