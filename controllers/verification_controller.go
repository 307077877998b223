package controllers

import (
	"context"
	"net/http"

	"rental-admin/models"
	"rental-admin/pkg/logger"

	"github.com/gin-gonic/gin"
)

type VerificationAPI interface {
	Board(ctx context.Context) (*models.Board, error)
	Get(ctx context.Context, id string) (*models.Verification, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Verification, error)
}

type VerificationController struct {
	verifications VerificationAPI
	log           logger.ILogger
}

func NewVerificationController(verifications VerificationAPI, log logger.ILogger) *VerificationController {
	return &VerificationController{verifications: verifications, log: log}
}

// GetBoard godoc
// @Summary Verification board
// @Description Requests grouped into Pending, Approved and Rejected columns
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/verifications [get]
func (ctrl *VerificationController) GetBoard(c *gin.Context) {
	board, err := ctrl.verifications.Board(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, "Verifications", "Failed to retrieve verifications", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Verifications retrieved successfully",
		Data:    board,
	})
}

// GetVerification godoc
// @Summary Get verification request
// @Tags Verifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Verification ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/verifications/{id} [get]
func (ctrl *VerificationController) GetVerification(c *gin.Context) {
	item, err := ctrl.verifications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.log, "Verification", "Failed to retrieve verification", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Verification retrieved successfully",
		Data:    item,
	})
}

// UpdateStatus godoc
// @Summary Move a verification request
// @Description Any of PENDING, APPROVED, REJECTED may follow any other
// @Tags Verifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Verification ID"
// @Param request body models.UpdateStatusRequest true "New status"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/verifications/{id}/status [patch]
func (ctrl *VerificationController) UpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	item, err := ctrl.verifications.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, ctrl.log, "Verification", "Failed to update verification status", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Verification status updated successfully",
		Data:    item,
	})
}
