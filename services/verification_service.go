package services

import (
	"context"
	"fmt"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"
)

// boardPageSize is the batch size used while loading the whole board.
const boardPageSize = 500

type VerificationStore interface {
	List(ctx context.Context, p repositories.ListParams) (repositories.ListResult[models.Verification], error)
	GetOne(ctx context.Context, id string) (models.Verification, error)
	Update(ctx context.Context, id string, values map[string]any) (models.Verification, error)
}

type UserFinder interface {
	FindIn(ctx context.Context, field string, values []any) ([]models.User, error)
}

type VerificationService struct {
	store VerificationStore
	users UserFinder
	log   logger.ILogger
}

func NewVerificationService(store VerificationStore, users UserFinder, log logger.ILogger) *VerificationService {
	return &VerificationService{store: store, users: users, log: log}
}

// Board loads every request, newest first, grouped by status. Rows are read
// in pages until the reported total is reached.
func (s *VerificationService) Board(ctx context.Context) (*models.Board, error) {
	items, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	s.attachUsers(ctx, items)
	return models.NewBoard(items), nil
}

func (s *VerificationService) loadAll(ctx context.Context) ([]models.Verification, error) {
	var items []models.Verification
	for page := 1; ; page++ {
		res, err := s.store.List(ctx, repositories.ListParams{
			// id breaks created_at ties so pages do not overlap
			Sorts: []repositories.Sort{
				{Field: "created_at", Desc: true},
				{Field: "id", Desc: true},
			},
			Pagination: repositories.Pagination{Current: page, PageSize: boardPageSize},
		})
		if err != nil {
			return nil, err
		}
		items = append(items, res.Data...)
		if len(res.Data) < boardPageSize || len(items) >= res.Total {
			return items, nil
		}
	}
}

func (s *VerificationService) Get(ctx context.Context, id string) (*models.Verification, error) {
	item, err := s.store.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	items := []models.Verification{item}
	s.attachUsers(ctx, items)
	return &items[0], nil
}

// UpdateStatus moves a request to any of the three statuses. There is no
// transition guard and concurrent updates are last-write-wins.
func (s *VerificationService) UpdateStatus(ctx context.Context, id string, status string) (*models.Verification, error) {
	parsed, err := models.ParseVerificationStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrInvalidValue, err)
	}

	item, err := s.store.Update(ctx, id, map[string]any{"status": string(parsed)})
	if err != nil {
		return nil, err
	}

	s.log.Info("verification status updated",
		logger.Int64("id", item.ID),
		logger.String("status", string(parsed)))

	items := []models.Verification{item}
	s.attachUsers(ctx, items)
	return &items[0], nil
}

// attachUsers fills the user summary of each item with one membership
// lookup. A failed lookup leaves users nil.
func (s *VerificationService) attachUsers(ctx context.Context, items []models.Verification) {
	seen := map[string]bool{}
	ids := []any{}
	for _, item := range items {
		if item.UserID != "" && !seen[item.UserID] {
			seen[item.UserID] = true
			ids = append(ids, item.UserID)
		}
	}
	if len(ids) == 0 {
		return
	}

	users, err := s.users.FindIn(ctx, "id", ids)
	if err != nil {
		s.log.Warning("failed to load verification users", logger.Error(err))
		return
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range items {
		if u, ok := byID[items[i].UserID]; ok {
			items[i].User = u.Summary()
		}
	}
}
