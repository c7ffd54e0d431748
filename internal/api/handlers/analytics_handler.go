package handlers

import (
	"net/http"

	"safaipak-api-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	Analytics *service.AnalyticsService
	Log       *zap.Logger
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.Analytics.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) Demand(c *gin.Context) {
	demand, err := h.Analytics.ServiceDemand(c.Request.Context(), c.Query("city"), c.Query("serviceType"))
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch demand")
		return
	}
	c.JSON(http.StatusOK, demand)
}

func (h *AnalyticsHandler) Provider(c *gin.Context) {
	out, err := h.Analytics.ProviderAnalytics(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) Location(c *gin.Context) {
	out, err := h.Analytics.LocationIntelligence(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch intelligence")
		return
	}
	c.JSON(http.StatusOK, out)
}
