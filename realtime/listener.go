package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ChangesChannel = "table_changes"

type Publisher interface {
	Publish(c models.Change)
}

// Listener forwards Postgres NOTIFY payloads from one channel to a Publisher.
type Listener struct {
	pool    *pgxpool.Pool
	pub     Publisher
	log     logger.ILogger
	channel string
	retry   time.Duration
}

func NewListener(pool *pgxpool.Pool, pub Publisher, log logger.ILogger) *Listener {
	return &Listener{
		pool:    pool,
		pub:     pub,
		log:     log,
		channel: ChangesChannel,
		retry:   2 * time.Second,
	}
}

// Run listens until ctx is cancelled, reconnecting after failures.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.log.Info("change listener stopped")
			return
		}
		l.log.Warning("change listener disconnected, retrying",
			logger.Error(err),
			logger.Duration("retry_in", l.retry))

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retry):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer func() {
		if !conn.Conn().IsClosed() {
			unlistenCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			conn.Exec(unlistenCtx, "UNLISTEN *")
		}
	}()

	l.log.Info("listening for changes", logger.String("channel", l.channel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		change, err := DecodeChange(n.Payload)
		if err != nil {
			l.log.Warning("ignoring malformed change payload", logger.Error(err))
			continue
		}
		l.pub.Publish(change)
	}
}

func DecodeChange(payload string) (models.Change, error) {
	var c models.Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return c, err
	}
	if c.Table == "" || c.Type == "" {
		return c, fmt.Errorf("change payload missing table or type: %s", payload)
	}
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
	return c, nil
}
