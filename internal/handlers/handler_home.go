package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerHomeRoutes sets up the root route.
func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "remit-backend",
			"status":  "running",
		})
	})
}
