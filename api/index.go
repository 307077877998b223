package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"rental-admin/app"
	"rental-admin/config"
	"rental-admin/models"
	"rental-admin/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

// initApp builds the application once per serverless instance. Migrations
// and the realtime listener are left to the long-running server.
func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			initErr = err
			return
		}
		log := logger.New("rental-admin-api", cfg.AppEnv, cfg.LogLevel)

		a, err := app.New(context.Background(), cfg, log)
		if err != nil {
			log.Error("app init failed", logger.Error(err))
			initErr = err
			return
		}
		router = a.Router
	})
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Success:   false,
			Message:   "Service unavailable",
			Error:     initErr.Error(),
			Retryable: true,
		})
		return
	}
	router.ServeHTTP(w, r)
}
