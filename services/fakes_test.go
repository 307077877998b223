package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rental-admin/models"
	"rental-admin/repositories"

	"github.com/spf13/cast"
)

// memUsers is an in-memory users table understanding the filters the
// services issue.
type memUsers struct {
	mu        sync.Mutex
	rows      map[string]models.User
	err       error
	findErr   error
	updateErr error
	lists     []repositories.ListParams
	finds     int
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{rows: map[string]models.User{}}
	for _, u := range users {
		m.rows[u.ID] = u
	}
	return m
}

func field(u models.User, name string) any {
	switch name {
	case "id":
		return u.ID
	case "email":
		return u.Email
	case "name":
		return u.Name
	case "role":
		return u.Role
	case "isVerified":
		return u.IsVerified
	case "isCompany":
		return u.IsCompany
	case "isOwner":
		return u.IsOwner
	case "isRenter":
		return u.IsRenter
	}
	panic("unknown field " + name)
}

func matches(u models.User, filters []repositories.Filter) bool {
	for _, f := range filters {
		v := field(u, f.Field)
		switch f.Operator {
		case repositories.OpEq:
			if cast.ToString(v) != cast.ToString(f.Value) {
				return false
			}
		case repositories.OpNeq:
			if cast.ToString(v) == cast.ToString(f.Value) {
				return false
			}
		case repositories.OpContains:
			if !strings.Contains(strings.ToLower(cast.ToString(v)), strings.ToLower(cast.ToString(f.Value))) {
				return false
			}
		default:
			panic("operator not supported by fake: " + string(f.Operator))
		}
	}
	return true
}

func (m *memUsers) sorted(filters []repositories.Filter) []models.User {
	out := []models.User{}
	for _, u := range m.rows {
		if matches(u, filters) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memUsers) List(ctx context.Context, p repositories.ListParams) (repositories.ListResult[models.User], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, p)
	if m.err != nil {
		return repositories.ListResult[models.User]{}, m.err
	}

	all := m.sorted(p.Filters)
	page := p.Pagination.Normalize()
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.PageSize
	if end > len(all) {
		end = len(all)
	}
	return repositories.ListResult[models.User]{Data: append([]models.User{}, all[start:end]...), Total: len(all)}, nil
}

func (m *memUsers) Count(ctx context.Context, filters []repositories.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return len(m.sorted(filters)), nil
}

func (m *memUsers) GetOne(ctx context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	u, ok := m.rows[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) FindIn(ctx context.Context, fieldName string, values []any) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := []models.User{}
	for _, v := range values {
		if u, ok := m.rows[cast.ToString(v)]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Create(ctx context.Context, values map[string]any) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: fmt.Sprintf("user-%d", len(m.rows)+1), CreatedAt: time.Now()}
	applyUser(&u, values)
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) Update(ctx context.Context, id string, values map[string]any) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	if m.updateErr != nil {
		return models.User{}, m.updateErr
	}
	u, ok := m.rows[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	applyUser(&u, values)
	u.UpdatedAt = time.Now()
	m.rows[id] = u
	return u, nil
}

func (m *memUsers) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func applyUser(u *models.User, values map[string]any) {
	for k, v := range values {
		switch k {
		case "email":
			u.Email = cast.ToString(v)
		case "name":
			u.Name = cast.ToString(v)
		case "role":
			u.Role = cast.ToString(v)
		case "phone":
			s := cast.ToString(v)
			u.Phone = &s
		case "avatar_url":
			s := cast.ToString(v)
			u.AvatarURL = &s
		case "isVerified":
			u.IsVerified = cast.ToBool(v)
		case "isCompany":
			u.IsCompany = cast.ToBool(v)
		case "isOwner":
			u.IsOwner = cast.ToBool(v)
		case "isRenter":
			u.IsRenter = cast.ToBool(v)
		}
	}
}

type memVerifications struct {
	mu    sync.Mutex
	rows  map[int64]models.Verification
	err   error
	lists []repositories.ListParams
}

func newMemVerifications(items ...models.Verification) *memVerifications {
	m := &memVerifications{rows: map[int64]models.Verification{}}
	for _, v := range items {
		m.rows[v.ID] = v
	}
	return m
}

func (m *memVerifications) List(ctx context.Context, p repositories.ListParams) (repositories.ListResult[models.Verification], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, p)
	if m.err != nil {
		return repositories.ListResult[models.Verification]{}, m.err
	}
	out := []models.Verification{}
	for _, v := range m.rows {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	total := len(out)
	from := min(p.Pagination.Offset(), total)
	to := min(from+p.Pagination.Normalize().PageSize, total)
	return repositories.ListResult[models.Verification]{Data: out[from:to], Total: total}, nil
}

func (m *memVerifications) GetOne(ctx context.Context, id string) (models.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[cast.ToInt64(id)]
	if !ok {
		return models.Verification{}, repositories.ErrNotFound
	}
	return v, nil
}

func (m *memVerifications) Update(ctx context.Context, id string, values map[string]any) (models.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Verification{}, m.err
	}
	v, ok := m.rows[cast.ToInt64(id)]
	if !ok {
		return models.Verification{}, repositories.ErrNotFound
	}
	if status, ok := values["status"]; ok {
		v.Status = models.VerificationStatus(cast.ToString(status))
	}
	v.UpdatedAt = time.Now()
	m.rows[v.ID] = v
	return v, nil
}

var errBoom = errors.New("boom")

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
