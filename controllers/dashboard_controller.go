package controllers

import (
	"context"
	"net/http"

	"rental-admin/models"
	"rental-admin/pkg/logger"

	"github.com/gin-gonic/gin"
)

type DashboardAPI interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	LatestActivities(ctx context.Context) ([]models.Activity, error)
}

type DashboardController struct {
	dashboard DashboardAPI
	log       logger.ILogger
}

func NewDashboardController(dashboard DashboardAPI, log logger.ILogger) *DashboardController {
	return &DashboardController{dashboard: dashboard, log: log}
}

// GetStats godoc
// @Summary Dashboard counts
// @Description Companies, individuals and rental requests. Fails as a whole when any count fails.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 503 {object} models.ErrorResponse
// @Router /admin/dashboard/stats [get]
func (ctrl *DashboardController) GetStats(c *gin.Context) {
	stats, err := ctrl.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Statistics", "Failed to load dashboard statistics", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Dashboard statistics retrieved successfully",
		Data:    stats,
	})
}

// GetActivities godoc
// @Summary Latest activities
// @Description Recent history entries and approved rentals, newest first
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/dashboard/activities [get]
func (ctrl *DashboardController) GetActivities(c *gin.Context) {
	activities, err := ctrl.dashboard.LatestActivities(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Activities", "Failed to load latest activities", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Latest activities retrieved successfully",
		Data:    activities,
	})
}
