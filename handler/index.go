package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var banner = func() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Rental Admin API",
			"path":    c.Request.URL.Path,
		})
	})
	return r
}()

func Handler(w http.ResponseWriter, r *http.Request) {
	banner.ServeHTTP(w, r)
}
