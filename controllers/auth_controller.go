package controllers

import (
	"context"
	"net/http"
	"strings"

	"rental-admin/models"
	"rental-admin/pkg/logger"
	"rental-admin/utils"

	"github.com/gin-gonic/gin"
)

type AuthAPI interface {
	Login(ctx context.Context, email, password string) models.AuthResult
	LoginWithProvider(provider string) models.AuthResult
	Register(ctx context.Context, req models.RegisterRequest) models.AuthResult
	ForgotPassword(ctx context.Context, email string) models.AuthResult
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) models.AuthResult
	UpdatePassword(ctx context.Context, userID, password string) models.AuthResult
	Logout(ctx context.Context, claims *utils.Claims) models.AuthResult
	Check(ctx context.Context, token string) models.CheckResult
	GetPermissions(ctx context.Context, userID string) (*string, error)
	GetIdentity(ctx context.Context, userID string) (*models.Identity, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

type AuthController struct {
	auth AuthAPI
	log  logger.ILogger
}

func NewAuthController(auth AuthAPI, log logger.ILogger) *AuthController {
	return &AuthController{auth: auth, log: log}
}

func writeAuthResult(c *gin.Context, res models.AuthResult, failStatus int) {
	if res.Success {
		c.JSON(http.StatusOK, res)
		return
	}
	c.JSON(failStatus, res)
}

func invalidAuthRequest(c *gin.Context, name string, err error) {
	c.JSON(http.StatusBadRequest, models.AuthResult{
		Success: false,
		Error:   &models.AuthError{Name: name, Message: err.Error()},
	})
}

// Login godoc
// @Summary Login
// @Description Sign in with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.AuthResult
// @Failure 401 {object} models.AuthResult
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidAuthRequest(c, "LoginError", err)
		return
	}
	writeAuthResult(c, ctrl.auth.Login(c.Request.Context(), req.Email, req.Password), http.StatusUnauthorized)
}

// LoginWithProvider godoc
// @Summary OAuth login
// @Description Returns the authorize URL of an OAuth provider
// @Tags Authentication
// @Produce json
// @Param provider path string true "Provider name"
// @Success 200 {object} models.AuthResult
// @Failure 400 {object} models.AuthResult
// @Router /auth/providers/{provider} [get]
func (ctrl *AuthController) LoginWithProvider(c *gin.Context) {
	writeAuthResult(c, ctrl.auth.LoginWithProvider(c.Param("provider")), http.StatusBadRequest)
}

// Register godoc
// @Summary Register new user
// @Description Register a new account with the user role
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 200 {object} models.AuthResult
// @Failure 400 {object} models.AuthResult
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidAuthRequest(c, "RegisterError", err)
		return
	}
	writeAuthResult(c, ctrl.auth.Register(c.Request.Context(), req), http.StatusBadRequest)
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Forgot Password Request"
// @Success 200 {object} models.AuthResult
// @Failure 400 {object} models.AuthResult
// @Router /auth/forgot-password [post]
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidAuthRequest(c, "ForgotPasswordError", err)
		return
	}
	writeAuthResult(c, ctrl.auth.ForgotPassword(c.Request.Context(), req.Email), http.StatusBadRequest)
}

// ResetPassword godoc
// @Summary Reset password with the emailed code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset Password Request"
// @Success 200 {object} models.AuthResult
// @Failure 400 {object} models.AuthResult
// @Router /auth/reset-password [post]
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidAuthRequest(c, "UpdatePasswordError", err)
		return
	}
	writeAuthResult(c, ctrl.auth.ResetPassword(c.Request.Context(), req), http.StatusBadRequest)
}

// UpdatePassword godoc
// @Summary Change the caller's password
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdatePasswordRequest true "Update Password Request"
// @Success 200 {object} models.AuthResult
// @Failure 400 {object} models.AuthResult
// @Router /auth/password [patch]
func (ctrl *AuthController) UpdatePassword(c *gin.Context) {
	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidAuthRequest(c, "UpdatePasswordError", err)
		return
	}
	writeAuthResult(c, ctrl.auth.UpdatePassword(c.Request.Context(), currentUserID(c), req.Password), http.StatusBadRequest)
}

// Logout godoc
// @Summary Logout
// @Description Revokes the bearer token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AuthResult
// @Failure 500 {object} models.AuthResult
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	writeAuthResult(c, ctrl.auth.Logout(c.Request.Context(), currentClaims(c)), http.StatusInternalServerError)
}

// Check godoc
// @Summary Check a session
// @Description Reports whether the bearer token is still valid
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.CheckResult
// @Router /auth/check [get]
func (ctrl *AuthController) Check(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		token = c.Query("token")
	}
	c.JSON(http.StatusOK, ctrl.auth.Check(c.Request.Context(), strings.TrimSpace(token)))
}

// GetPermissions godoc
// @Summary Caller's role
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Router /auth/permissions [get]
func (ctrl *AuthController) GetPermissions(c *gin.Context) {
	role, err := ctrl.auth.GetPermissions(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctrl.log, "User", "Failed to load permissions", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Permissions retrieved successfully",
		Data:    role,
	})
}

// GetIdentity godoc
// @Summary Caller's identity
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Router /auth/identity [get]
func (ctrl *AuthController) GetIdentity(c *gin.Context) {
	identity, err := ctrl.auth.GetIdentity(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctrl.log, "User", "Failed to load identity", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Identity retrieved successfully",
		Data:    identity,
	})
}

// GetProfile godoc
// @Summary Caller's user row
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/me [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.auth.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctrl.log, "User", "Failed to retrieve profile", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}
