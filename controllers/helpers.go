package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/repositories"
	"rental-admin/services"
	"rental-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// getPaginationParams clamps page and limit. A page whose offset would
// overflow is rejected.
func getPaginationParams(c *gin.Context, defaultLimit int) (page, limit int, err error) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	if err := (repositories.Pagination{Current: page, PageSize: limit}).Validate(); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func totalPages(total, limit int) int {
	if limit < 1 || total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func generateLinks(c *gin.Context, page, limit, pages int) models.PaginationLinks {
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}

	host := c.Request.Host
	path := c.Request.URL.Path
	queryParams := c.Request.URL.Query()

	makeURL := func(pageNum int) string {
		newParams := url.Values{}
		for key, values := range queryParams {
			if key != "page" {
				for _, value := range values {
					newParams.Add(key, value)
				}
			}
		}
		newParams.Set("page", strconv.Itoa(pageNum))
		newParams.Set("limit", strconv.Itoa(limit))
		return fmt.Sprintf("%s://%s%s?%s", scheme, host, path, newParams.Encode())
	}

	links := models.PaginationLinks{
		Self: makeURL(page),
	}
	if page > 1 {
		links.Prev = makeURL(page - 1)
	}
	if page < pages {
		links.Next = makeURL(page + 1)
	}
	return links
}

// statusFor maps service and store errors onto HTTP status codes.
func statusFor(err error) int {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, repositories.ErrUnknownResource):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, repositories.ErrReadOnly):
		return http.StatusMethodNotAllowed
	case errors.Is(err, repositories.ErrInvalidField),
		errors.Is(err, repositories.ErrInvalidOperator),
		errors.Is(err, repositories.ErrInvalidValue),
		errors.Is(err, utils.ErrFileTooLarge),
		errors.Is(err, utils.ErrInvalidFileType):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnverifyNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, services.ErrStatsUnavailable),
		errors.Is(err, services.ErrUploadUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. subject names the record in the
// 404 message. Server side failures are logged.
func respondError(c *gin.Context, log logger.ILogger, subject, message string, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		message = subject + " not found"
	}
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		log.Error(message,
			logger.Error(err),
			logger.String("path", c.Request.URL.Path))
	}

	c.JSON(status, models.ErrorResponse{
		Success:   false,
		Message:   message,
		Error:     err.Error(),
		Retryable: status == http.StatusServiceUnavailable,
	})
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

func currentClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get("claims")
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
