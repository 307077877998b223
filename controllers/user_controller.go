package controllers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"
	"rental-admin/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

type UserAPI interface {
	ListUsers(ctx context.Context, q services.UserQuery) (repositories.ListResult[models.User], error)
	ListCompanies(ctx context.Context, q services.UserQuery) (repositories.ListResult[models.User], error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error)
	SetVerified(ctx context.Context, id string, verified bool) (*models.User, error)
	CreateCompany(ctx context.Context, req models.CreateCompanyRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
	UploadAvatar(ctx context.Context, id string, fileHeader *multipart.FileHeader) (*models.User, error)
}

type UserController struct {
	users UserAPI
	log   logger.ILogger
}

func NewUserController(users UserAPI, log logger.ILogger) *UserController {
	return &UserController{users: users, log: log}
}

func optionalBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidValue, key)
	}
	return &b, nil
}

func parseUserQuery(c *gin.Context, defaultLimit int) (services.UserQuery, error) {
	page, limit, err := getPaginationParams(c, defaultLimit)
	if err != nil {
		return services.UserQuery{}, err
	}
	q := services.UserQuery{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Role:   c.Query("role"),
	}

	if q.IsVerified, err = optionalBool(c, "isVerified"); err != nil {
		return q, err
	}
	if q.IsOwner, err = optionalBool(c, "isOwner"); err != nil {
		return q, err
	}
	if q.IsRenter, err = optionalBool(c, "isRenter"); err != nil {
		return q, err
	}
	return q, nil
}

func (ctrl *UserController) writeList(c *gin.Context, message string, q services.UserQuery, res repositories.ListResult[models.User]) {
	pages := totalPages(res.Total, q.Limit)
	c.JSON(http.StatusOK, models.HATEOASResponse{
		Success: true,
		Message: message,
		Data:    res.Data,
		Meta: models.PaginationMeta{
			Page:       q.Page,
			Limit:      q.Limit,
			TotalItems: res.Total,
			TotalPages: pages,
		},
		Links: generateLinks(c, q.Page, q.Limit, pages),
	})
}

// GetAllUsers godoc
// @Summary List users
// @Description Paginated users, newest first, with name search and equality filters
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param search query string false "Name contains"
// @Param role query string false "Role"
// @Param isVerified query bool false "Verified flag"
// @Param isOwner query bool false "Owner flag"
// @Param isRenter query bool false "Renter flag"
// @Success 200 {object} models.HATEOASResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	q, err := parseUserQuery(c, services.UsersPageSize)
	if err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	res, err := ctrl.users.ListUsers(c.Request.Context(), q)
	if err != nil {
		respondError(c, ctrl.log, "Users", "Failed to retrieve users", err)
		return
	}
	ctrl.writeList(c, "Users retrieved successfully", q, res)
}

// GetAllCompanies godoc
// @Summary List companies
// @Description Users with isCompany set, newest first
// @Tags Companies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Param search query string false "Name contains"
// @Param isVerified query bool false "Verified flag"
// @Success 200 {object} models.HATEOASResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/companies [get]
func (ctrl *UserController) GetAllCompanies(c *gin.Context) {
	q, err := parseUserQuery(c, services.CompaniesPageSize)
	if err != nil {
		badRequest(c, "Invalid query", err)
		return
	}
	q.Companies = true

	res, err := ctrl.users.ListCompanies(c.Request.Context(), q)
	if err != nil {
		respondError(c, ctrl.log, "Companies", "Failed to retrieve companies", err)
		return
	}
	ctrl.writeList(c, "Companies retrieved successfully", q, res)
}

// GetUserByID godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [get]
func (ctrl *UserController) GetUserByID(c *gin.Context) {
	user, err := ctrl.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.log, "User", "Failed to retrieve user", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User retrieved successfully",
		Data:    user,
	})
}

// UpdateUser godoc
// @Summary Update user
// @Description Only the fields present in the body are written
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [patch]
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	user, err := ctrl.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, ctrl.log, "User", "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User updated successfully",
		Data:    user,
	})
}

// SetVerified godoc
// @Summary Toggle verification
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body models.SetVerifiedRequest true "New flag"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id}/verified [patch]
func (ctrl *UserController) SetVerified(c *gin.Context) {
	var req models.SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	user, err := ctrl.users.SetVerified(c.Request.Context(), c.Param("id"), *req.IsVerified)
	if err != nil {
		respondError(c, ctrl.log, "User", "Failed to update verification", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Verification updated successfully",
		Data:    user,
	})
}

// CreateCompany godoc
// @Summary Create company
// @Tags Companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCompanyRequest true "Company"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/companies [post]
func (ctrl *UserController) CreateCompany(c *gin.Context) {
	var req models.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	company, err := ctrl.users.CreateCompany(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, "Company", "Failed to create company", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Company created successfully",
		Data:    company,
	})
}

// DeleteUser godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	if err := ctrl.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, ctrl.log, "User", "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User deleted successfully",
	})
}

// UploadAvatar godoc
// @Summary Upload avatar
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param image formData file true "Image (max 5MB)"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/users/{id}/avatar [post]
func (ctrl *UserController) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required", err)
		return
	}

	user, err := ctrl.users.UploadAvatar(c.Request.Context(), c.Param("id"), fileHeader)
	if err != nil {
		respondError(c, ctrl.log, "User", "Failed to upload avatar", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Avatar uploaded successfully",
		Data:    user,
	})
}
