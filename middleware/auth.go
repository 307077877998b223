package middleware

import (
	"context"
	"net/http"
	"strings"

	"rental-admin/models"
	"rental-admin/utils"

	"github.com/gin-gonic/gin"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*utils.Claims, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		if !authenticate(c, verifier, tokenParts[1]) {
			return
		}
		c.Next()
	}
}

// WSAuthMiddleware reads the token from ?token= first, since browsers
// cannot set headers on a websocket handshake, then from the bearer header.
func WSAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "missing token",
			})
			c.Abort()
			return
		}

		if !authenticate(c, verifier, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, verifier TokenVerifier, token string) bool {
	claims, err := verifier.VerifyToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Message: "Invalid or expired token",
			Error:   err.Error(),
		})
		c.Abort()
		return false
	}

	c.Set("user_id", claims.UserID)
	c.Set("user_email", claims.Email)
	c.Set("user_role", claims.Role)
	c.Set("claims", claims)
	c.Set("token", token)
	return true
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Message: "User role not found",
			})
			c.Abort()
			return
		}

		if role != "admin" {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Message: "Access denied. Admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
