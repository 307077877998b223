package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AllowedOrigins lists the browser origins trusted by CORS and the
// websocket handshake.
func AllowedOrigins(origin string) []string {
	allowedOrigins := []string{
		"http://localhost:5173",
	}

	if origin != "" {
		allowedOrigins = append(allowedOrigins, origin)
	}
	return allowedOrigins
}

func CORSMiddleware(origin string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     AllowedOrigins(origin),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
