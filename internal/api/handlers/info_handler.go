package handlers

import (
	"net/http"

	"safaipak-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "SafaiPak API"
	serviceVersion = "1.0.0"
)

type InfoHandler struct {
	// Store names the active backend, "memory" or "mongo".
	Store string
}

// Health handles GET /.
func (h *InfoHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
		"store":   h.Store,
		"endpoints": gin.H{
			"bookings":  "/api/bookings",
			"services":  "/api/services",
			"providers": "/api/providers",
			"analytics": "/api/analytics",
			"reviews":   "/api/reviews",
		},
	})
}

// Services handles GET /api/services.
func (h *InfoHandler) Services(c *gin.Context) {
	c.JSON(http.StatusOK, models.ServiceCatalog)
}
