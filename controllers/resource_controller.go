package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"

	"github.com/gin-gonic/gin"
)

// ResourceController exposes every registered table under
// /admin/resources/:resource.
type ResourceController struct {
	provider *repositories.Provider
	log      logger.ILogger
}

func NewResourceController(provider *repositories.Provider, log logger.ILogger) *ResourceController {
	return &ResourceController{provider: provider, log: log}
}

// parseListParams reads filter=field:op:value and sort=field[:asc|:desc]
// (both repeatable, applied in order) plus current and pageSize.
func parseListParams(c *gin.Context) (repositories.ListParams, error) {
	var p repositories.ListParams

	for _, raw := range c.QueryArray("filter") {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			return p, fmt.Errorf("%w: filter %q must be field:operator:value", repositories.ErrInvalidValue, raw)
		}
		op, err := repositories.ParseOperator(parts[1])
		if err != nil {
			return p, err
		}
		var value any = parts[2]
		if parts[2] == "null" {
			value = nil
		}
		p.Filters = append(p.Filters, repositories.Filter{Field: parts[0], Operator: op, Value: value})
	}

	for _, raw := range c.QueryArray("sort") {
		field, order, _ := strings.Cut(raw, ":")
		if field == "" {
			return p, fmt.Errorf("%w: empty sort field", repositories.ErrInvalidField)
		}
		switch strings.ToLower(order) {
		case "", "asc":
			p.Sorts = append(p.Sorts, repositories.Sort{Field: field})
		case "desc":
			p.Sorts = append(p.Sorts, repositories.Sort{Field: field, Desc: true})
		default:
			return p, fmt.Errorf("%w: sort order %q", repositories.ErrInvalidValue, order)
		}
	}

	current, _ := strconv.Atoi(c.DefaultQuery("current", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(repositories.DefaultPageSize)))
	if pageSize > 100 {
		pageSize = 100
	}
	page := repositories.Pagination{Current: current, PageSize: pageSize}
	if err := page.Validate(); err != nil {
		return p, err
	}
	p.Pagination = page.Normalize()
	return p, nil
}

func (ctrl *ResourceController) accessor(c *gin.Context) (repositories.Accessor, bool) {
	a, err := ctrl.provider.Resource(c.Param("resource"))
	if err != nil {
		respondError(c, ctrl.log, "Resource", "Unknown resource", err)
		return nil, false
	}
	return a, true
}

func requireID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Record id is required",
		})
		return "", false
	}
	return id, true
}

// GetResources godoc
// @Summary Resource names
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Router /admin/resources [get]
func (ctrl *ResourceController) GetResources(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Resources retrieved successfully",
		Data:    ctrl.provider.Resources(),
	})
}

// GetList godoc
// @Summary List records
// @Description Filters are ANDed in order; operators eq, neq, lt, gt, lte, gte, contains
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource name"
// @Param filter query []string false "field:operator:value" collectionFormat(multi)
// @Param sort query []string false "field or field:desc" collectionFormat(multi)
// @Param current query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} models.ListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/resources/{resource} [get]
func (ctrl *ResourceController) GetList(c *gin.Context) {
	a, ok := ctrl.accessor(c)
	if !ok {
		return
	}
	params, err := parseListParams(c)
	if err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	res, err := a.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, ctrl.log, "Resource", "Failed to list records", err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Data:    res.Data,
		Total:   res.Total,
	})
}

// GetOne godoc
// @Summary Get record
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/resources/{resource}/{id} [get]
func (ctrl *ResourceController) GetOne(c *gin.Context) {
	a, ok := ctrl.accessor(c)
	if !ok {
		return
	}
	id, ok := requireID(c)
	if !ok {
		return
	}

	record, err := a.GetOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, "Record", "Failed to retrieve record", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Record retrieved successfully",
		Data:    record,
	})
}

// Create godoc
// @Summary Create record
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource name"
// @Param request body object true "Column values"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 405 {object} models.ErrorResponse
// @Router /admin/resources/{resource} [post]
func (ctrl *ResourceController) Create(c *gin.Context) {
	a, ok := ctrl.accessor(c)
	if !ok {
		return
	}
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	record, err := a.Create(c.Request.Context(), values)
	if err != nil {
		respondError(c, ctrl.log, "Record", "Failed to create record", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Record created successfully",
		Data:    record,
	})
}

// Update godoc
// @Summary Update record
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Param request body object true "Column values"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/resources/{resource}/{id} [patch]
func (ctrl *ResourceController) Update(c *gin.Context) {
	a, ok := ctrl.accessor(c)
	if !ok {
		return
	}
	id, ok := requireID(c)
	if !ok {
		return
	}
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	record, err := a.Update(c.Request.Context(), id, values)
	if err != nil {
		respondError(c, ctrl.log, "Record", "Failed to update record", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Record updated successfully",
		Data:    record,
	})
}

// Delete godoc
// @Summary Delete record
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/resources/{resource}/{id} [delete]
func (ctrl *ResourceController) Delete(c *gin.Context) {
	a, ok := ctrl.accessor(c)
	if !ok {
		return
	}
	id, ok := requireID(c)
	if !ok {
		return
	}

	if err := a.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, "Record", "Failed to delete record", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Record deleted successfully",
	})
}

// Bulk godoc
// @Summary Bulk operations
// @Description getMany, createMany, updateMany and deleteMany are not supported
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource name"
// @Failure 501 {object} models.ErrorResponse
// @Router /admin/bulk/{resource} [get]
// @Router /admin/bulk/{resource} [post]
// @Router /admin/bulk/{resource} [patch]
// @Router /admin/bulk/{resource} [delete]
func (ctrl *ResourceController) Bulk(c *gin.Context) {
	ctx := c.Request.Context()
	resource := c.Param("resource")
	ids := c.QueryArray("id")

	var err error
	switch c.Request.Method {
	case http.MethodGet:
		err = ctrl.provider.GetMany(ctx, resource, ids)
	case http.MethodPost:
		err = ctrl.provider.CreateMany(ctx, resource, nil)
	case http.MethodPatch:
		err = ctrl.provider.UpdateMany(ctx, resource, ids, nil)
	default:
		err = ctrl.provider.DeleteMany(ctx, resource, ids)
	}
	respondError(c, ctrl.log, "Resource", "Bulk operations are not supported", err)
}
