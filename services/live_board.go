package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/utils"
)

type BoardSource interface {
	Board(ctx context.Context) (*models.Board, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Verification, error)
}

// LiveBoard keeps a verification board current for one viewer. Every
// fetch and every local move takes a sequence number; results older than
// the last applied one are dropped.
type LiveBoard struct {
	src  BoardSource
	log  logger.ILogger
	gate utils.VersionGate

	mu      sync.Mutex
	board   *models.Board
	version uint64
	updates chan models.BoardSnapshot

	wg sync.WaitGroup
}

func NewLiveBoard(src BoardSource, log logger.ILogger) *LiveBoard {
	return &LiveBoard{
		src:     src,
		log:     log,
		updates: make(chan models.BoardSnapshot, 1),
	}
}

// Updates yields the latest snapshot. Unread snapshots are replaced.
func (b *LiveBoard) Updates() <-chan models.BoardSnapshot {
	return b.updates
}

func (b *LiveBoard) Snapshot() models.BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.board == nil {
		return models.BoardSnapshot{Version: b.version}
	}
	return models.BoardSnapshot{Version: b.version, Board: b.board.Clone()}
}

// Run loads the board, then refetches on every change until ctx ends or
// changes is closed. Refetches run concurrently.
func (b *LiveBoard) Run(ctx context.Context, changes <-chan models.Change) {
	defer b.wg.Wait()

	if err := b.Refresh(ctx); err != nil {
		b.log.Warning("initial board load failed", logger.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				if err := b.Refresh(ctx); err != nil && ctx.Err() == nil {
					b.log.Warning("board refresh failed", logger.Error(err))
				}
			}()
		}
	}
}

func (b *LiveBoard) Refresh(ctx context.Context) error {
	seq := b.gate.Begin()
	board, err := b.src.Board(ctx)
	if err != nil {
		return err
	}
	if !b.apply(seq, board) {
		b.log.Debug("discarding stale board", logger.Uint64("seq", seq))
	}
	return nil
}

// Move applies a status change locally, then persists it. When the write
// fails the board is refetched.
func (b *LiveBoard) Move(ctx context.Context, id int64, status string) error {
	parsed, err := models.ParseVerificationStatus(status)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.board != nil {
		next := b.board.Clone()
		if next.Move(id, parsed, time.Now()) {
			b.applyLocked(b.gate.Begin(), next)
		}
	}
	b.mu.Unlock()

	if _, err := b.src.UpdateStatus(ctx, strconv.FormatInt(id, 10), string(parsed)); err != nil {
		if rerr := b.Refresh(ctx); rerr != nil {
			b.log.Warning("board refresh after failed move", logger.Error(rerr))
		}
		return err
	}
	return nil
}

func (b *LiveBoard) apply(seq uint64, board *models.Board) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyLocked(seq, board)
}

func (b *LiveBoard) applyLocked(seq uint64, board *models.Board) bool {
	if !b.gate.TryApply(seq) {
		return false
	}
	b.board = board
	b.version = seq

	snap := models.BoardSnapshot{Version: seq, Board: board.Clone()}
	select {
	case <-b.updates:
	default:
	}
	b.updates <- snap
	return true
}

var _ BoardSource = (*VerificationService)(nil)
