package handlers

import (
	"errors"
	"io"
	"net/http"

	"safaipak-api-server/internal/models"
	"safaipak-api-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Bookings *service.BookingService
	Log      *zap.Logger
}

type ConfirmBookingRequest struct {
	ProviderID string `json:"providerId"`
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.NewBooking
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Could not create booking")
		return
	}

	booking, err := h.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err, "Could not create booking")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings handles GET /api/bookings?status&city&providerId&phone.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		Status:     models.BookingStatus(c.Query("status")),
		City:       c.Query("city"),
		ProviderID: c.Query("providerId"),
		Phone:      c.Query("phone"),
	}

	bookings, err := h.Bookings.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking handles PUT /api/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var patch models.BookingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err, "Failed to update booking")
		return
	}

	booking, err := h.Bookings.UpdateBooking(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.Log, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ConfirmBooking handles PATCH /api/bookings/:id/confirm. The body is optional.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err, "Failed to confirm booking")
		return
	}

	booking, err := h.Bookings.ConfirmBooking(c.Request.Context(), c.Param("id"), req.ProviderID)
	if err != nil {
		respondError(c, h.Log, err, "Failed to confirm booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}
