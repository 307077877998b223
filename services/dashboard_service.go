package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"

	"golang.org/x/sync/errgroup"
)

const (
	activitySourceLimit = 5
	activityLimit       = 10
	activitiesCacheKey  = "latest_activities"
)

var ErrStatsUnavailable = errors.New("dashboard statistics unavailable")

type Counter interface {
	Count(ctx context.Context, filters []repositories.Filter) (int, error)
}

type HistoryLister interface {
	List(ctx context.Context, p repositories.ListParams) (repositories.ListResult[models.History], error)
}

type ApprovedRentalSource interface {
	LatestApprovedRentals(ctx context.Context, limit int) ([]models.ApprovedRental, error)
}

type DealFinder interface {
	FindIn(ctx context.Context, field string, values []any) ([]models.Deal, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type DashboardDeps struct {
	Users    Counter
	Rentals  Counter
	History  HistoryLister
	Approved ApprovedRentalSource
	People   UserFinder
	Deals    DealFinder
	// Cache is optional.
	Cache    Cache
	CacheTTL time.Duration
}

type DashboardService struct {
	deps DashboardDeps
	log  logger.ILogger
}

func NewDashboardService(deps DashboardDeps, log logger.ILogger) *DashboardService {
	return &DashboardService{deps: deps, log: log}
}

// Stats runs the three counts in parallel. Any failure fails the whole
// call; partial counts are never returned.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var companies, individuals, rentals int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.deps.Users.Count(gctx, []repositories.Filter{{Field: "isCompany", Operator: repositories.OpEq, Value: true}})
		companies = n
		return err
	})
	g.Go(func() error {
		n, err := s.deps.Users.Count(gctx, []repositories.Filter{{Field: "isCompany", Operator: repositories.OpEq, Value: false}})
		individuals = n
		return err
	})
	g.Go(func() error {
		n, err := s.deps.Rentals.Count(gctx, nil)
		rentals = n
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("dashboard counts failed", logger.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}

	return &models.DashboardStats{
		Companies:   companies,
		Individuals: individuals,
		Rentals:     rentals,
	}, nil
}

// LatestActivities merges recent history entries and approved rentals,
// newest first.
func (s *DashboardService) LatestActivities(ctx context.Context) ([]models.Activity, error) {
	if cached, ok := s.cached(ctx); ok {
		return cached, nil
	}

	var (
		history []models.History
		rentals []models.ApprovedRental
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.deps.History.List(gctx, repositories.ListParams{
			Sorts:      []repositories.Sort{{Field: "created_at", Desc: true}},
			Pagination: repositories.Pagination{Current: 1, PageSize: activitySourceLimit},
		})
		history = res.Data
		return err
	})
	g.Go(func() error {
		var err error
		rentals, err = s.deps.Approved.LatestApprovedRentals(gctx, activitySourceLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	people := s.lookupPeople(ctx, history, rentals)
	deals := s.lookupDeals(ctx, rentals)

	activities := make([]models.Activity, 0, len(history)+len(rentals))
	for _, h := range history {
		a := models.Activity{
			Type:      models.ActivityHistory,
			ID:        h.ID,
			Title:     h.Title,
			Message:   h.Message,
			CreatedAt: h.CreatedAt,
		}
		if h.UserID != nil {
			if u, ok := people[*h.UserID]; ok {
				a.User = u.Contact()
			}
		}
		activities = append(activities, a)
	}
	for _, r := range rentals {
		a := models.Activity{
			Type:      models.ActivityRental,
			ID:        r.ID,
			Title:     "Rental approved",
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		if u, ok := people[r.UserID]; ok {
			a.Renter = u.Contact()
		}
		if r.OwnerID != nil {
			if u, ok := people[*r.OwnerID]; ok {
				a.Owner = u.Contact()
			}
		}
		if d, ok := deals[r.ID]; ok {
			deal := d
			a.Deal = &deal
			a.Title = d.Title
		}
		a.Message = rentalMessage(a)
		activities = append(activities, a)
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > activityLimit {
		activities = activities[:activityLimit]
	}

	s.store(ctx, activities)
	return activities, nil
}

func rentalMessage(a models.Activity) string {
	renter, owner := "A renter", "an owner"
	if a.Renter != nil && a.Renter.Name != "" {
		renter = a.Renter.Name
	}
	if a.Owner != nil && a.Owner.Name != "" {
		owner = a.Owner.Name
	}
	return fmt.Sprintf("%s rented a vehicle from %s", renter, owner)
}

// lookupPeople resolves every referenced user with one membership query.
func (s *DashboardService) lookupPeople(ctx context.Context, history []models.History, rentals []models.ApprovedRental) map[string]models.User {
	seen := map[string]bool{}
	ids := []any{}
	add := func(id *string) {
		if id != nil && *id != "" && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	for i := range history {
		add(history[i].UserID)
	}
	for i := range rentals {
		add(&rentals[i].UserID)
		add(rentals[i].OwnerID)
	}

	out := map[string]models.User{}
	if len(ids) == 0 {
		return out
	}
	users, err := s.deps.People.FindIn(ctx, "id", ids)
	if err != nil {
		s.log.Warning("activity user lookup failed", logger.Error(err))
		return out
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}

func (s *DashboardService) lookupDeals(ctx context.Context, rentals []models.ApprovedRental) map[int64]models.Deal {
	out := map[int64]models.Deal{}
	if len(rentals) == 0 {
		return out
	}
	ids := make([]any, 0, len(rentals))
	for _, r := range rentals {
		ids = append(ids, r.ID)
	}
	deals, err := s.deps.Deals.FindIn(ctx, "id", ids)
	if err != nil {
		s.log.Warning("activity deal lookup failed", logger.Error(err))
		return out
	}
	for _, d := range deals {
		out[d.ID] = d
	}
	return out
}

func (s *DashboardService) cached(ctx context.Context) ([]models.Activity, bool) {
	if s.deps.Cache == nil {
		return nil, false
	}
	raw, err := s.deps.Cache.Get(ctx, activitiesCacheKey)
	if err != nil {
		return nil, false
	}
	var activities []models.Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, false
	}
	return activities, true
}

func (s *DashboardService) store(ctx context.Context, activities []models.Activity) {
	if s.deps.Cache == nil || s.deps.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(activities)
	if err != nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, activitiesCacheKey, raw, s.deps.CacheTTL); err != nil {
		s.log.Warning("failed to cache activities", logger.Error(err))
	}
}
