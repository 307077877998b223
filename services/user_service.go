package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"
	"rental-admin/utils"
)

const (
	UsersPageSize     = 10
	CompaniesPageSize = 12
	MaxPageSize       = 100
	avatarFolder      = "avatars"
)

var (
	ErrUnverifyNotAllowed = errors.New("removing verification is disabled")
	ErrUploadUnavailable  = errors.New("image upload is not configured")
)

type UserStore interface {
	List(ctx context.Context, p repositories.ListParams) (repositories.ListResult[models.User], error)
	GetOne(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, values map[string]any) (models.User, error)
	Update(ctx context.Context, id string, values map[string]any) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type ImageUploader interface {
	UploadImage(ctx context.Context, file multipart.File, publicID, folder string) (string, string, error)
	DeleteImage(ctx context.Context, publicID string) error
}

// UserQuery is the state of a users or companies list page.
type UserQuery struct {
	Page       int    `json:"page"`
	Limit      int    `json:"pageSize"`
	Search     string `json:"search"`
	Role       string `json:"role,omitempty"`
	IsVerified *bool  `json:"isVerified,omitempty"`
	IsOwner    *bool  `json:"isOwner,omitempty"`
	IsRenter   *bool  `json:"isRenter,omitempty"`
	Companies  bool   `json:"companies"`
}

// Params renders the query as accessor filters. Companies carry a
// permanent isCompany=true filter ahead of everything else.
func (q UserQuery) Params() repositories.ListParams {
	filters := []repositories.Filter{}
	if q.Companies {
		filters = append(filters, repositories.Filter{Field: "isCompany", Operator: repositories.OpEq, Value: true})
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		filters = append(filters, repositories.Filter{Field: "name", Operator: repositories.OpContains, Value: search})
	}
	if q.Role != "" {
		filters = append(filters, repositories.Filter{Field: "role", Operator: repositories.OpEq, Value: q.Role})
	}
	if q.IsVerified != nil {
		filters = append(filters, repositories.Filter{Field: "isVerified", Operator: repositories.OpEq, Value: *q.IsVerified})
	}
	if q.IsOwner != nil {
		filters = append(filters, repositories.Filter{Field: "isOwner", Operator: repositories.OpEq, Value: *q.IsOwner})
	}
	if q.IsRenter != nil {
		filters = append(filters, repositories.Filter{Field: "isRenter", Operator: repositories.OpEq, Value: *q.IsRenter})
	}

	return repositories.ListParams{
		Filters:    filters,
		Sorts:      []repositories.Sort{{Field: "created_at", Desc: true}},
		Pagination: repositories.Pagination{Current: q.Page, PageSize: q.Limit},
	}
}

// Normalize applies the default page size of the list and clamps paging.
func (q UserQuery) Normalize() UserQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = UsersPageSize
		if q.Companies {
			q.Limit = CompaniesPageSize
		}
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return q
}

type UserService struct {
	store         UserStore
	uploader      ImageUploader
	allowUnverify bool
	log           logger.ILogger
}

// NewUserService wires the service. uploader may be nil.
func NewUserService(store UserStore, uploader ImageUploader, allowUnverify bool, log logger.ILogger) *UserService {
	return &UserService{
		store:         store,
		uploader:      uploader,
		allowUnverify: allowUnverify,
		log:           log,
	}
}

// List issues a count and a ranged data query for q.
func (s *UserService) List(ctx context.Context, q UserQuery) (repositories.ListResult[models.User], error) {
	return s.store.List(ctx, q.Normalize().Params())
}

func (s *UserService) ListUsers(ctx context.Context, q UserQuery) (repositories.ListResult[models.User], error) {
	q.Companies = false
	return s.List(ctx, q)
}

func (s *UserService) ListCompanies(ctx context.Context, q UserQuery) (repositories.ListResult[models.User], error) {
	q.Companies = true
	return s.List(ctx, q)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	if req.IsVerified != nil && !*req.IsVerified && !s.allowUnverify {
		current, err := s.store.GetOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.IsVerified {
			return nil, ErrUnverifyNotAllowed
		}
	}

	user, err := s.store.Update(ctx, id, req.Values())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetVerified flips the isVerified flag and returns the stored row.
func (s *UserService) SetVerified(ctx context.Context, id string, verified bool) (*models.User, error) {
	user, err := s.Update(ctx, id, models.UpdateUserRequest{IsVerified: &verified})
	if err != nil {
		return nil, err
	}
	s.log.Info("user verification changed", logger.String("user_id", id), logger.Bool("verified", verified))
	return user, nil
}

// CreateCompany adds a company profile without login credentials.
func (s *UserService) CreateCompany(ctx context.Context, req models.CreateCompanyRequest) (*models.User, error) {
	values := map[string]any{
		"email":     req.Email,
		"name":      req.Name,
		"role":      RoleUser,
		"isCompany": true,
		"isOwner":   true,
	}
	if req.Phone != nil {
		values["phone"] = *req.Phone
	}

	user, err := s.store.Create(ctx, values)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *UserService) UploadAvatar(ctx context.Context, id string, fileHeader *multipart.FileHeader) (*models.User, error) {
	if s.uploader == nil {
		return nil, ErrUploadUnavailable
	}
	if err := utils.ValidateImage(fileHeader, utils.MaxImageSize); err != nil {
		return nil, err
	}
	if _, err := s.store.GetOne(ctx, id); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	url, publicID, err := s.uploader.UploadImage(ctx, file, utils.UploadName("avatar_"+id, fileHeader.Filename, time.Now()), avatarFolder)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Update(ctx, id, map[string]any{"avatar_url": url})
	if err != nil {
		// the row was not updated, so the uploaded image is orphaned
		if derr := s.uploader.DeleteImage(ctx, publicID); derr != nil {
			s.log.Warning("failed to delete orphaned avatar", logger.String("public_id", publicID), logger.Error(derr))
		}
		return nil, err
	}
	return &user, nil
}
