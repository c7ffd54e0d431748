package handlers

import (
	"net/http"

	"safaipak-api-server/internal/models"
	"safaipak-api-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	Reviews *service.ReviewService
	Log     *zap.Logger
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req service.NewReview
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Could not submit review")
		return
	}

	review, err := h.Reviews.CreateReview(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err, "Could not submit review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListReviews handles GET /api/reviews?bookingId&providerId.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.Reviews.ListReviews(c.Request.Context(), models.ReviewFilter{
		BookingID:  c.Query("bookingId"),
		ProviderID: c.Query("providerId"),
	})
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}
