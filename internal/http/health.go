package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports service liveness and version.
func HealthCheck(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version,
		})
	}
}
