package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/models"
	"safaipak-api-server/internal/socket"

	"go.uber.org/zap"
)

// BookingListLimit caps GET /api/bookings.
const BookingListLimit = 50

// NewBooking is the customer submission accepted by CreateBooking.
type NewBooking struct {
	Name         string               `json:"name" binding:"required,notblank"`
	Phone        string               `json:"phone" binding:"required,notblank"`
	Email        string               `json:"email"`
	City         string               `json:"city" binding:"required,notblank"`
	ServiceType  string               `json:"serviceType" binding:"required,notblank"`
	Urgency      models.Urgency       `json:"urgency"`
	ScheduledFor *time.Time           `json:"scheduledFor"`
	Details      string               `json:"details"`
	Status       models.BookingStatus `json:"status"`
	ProviderID   string               `json:"providerId"`
	Amount       float64              `json:"amount"`
	Rating       *int                 `json:"rating"`
	Review       string               `json:"review"`
}

// Notifier delivers booking events to the provider a booking belongs to.
type Notifier interface {
	NotifyBooking(event string, b *models.Booking)
}

type BookingService struct {
	bookings  database.BookingStore
	providers database.ProviderStore
	notifier  Notifier
	log       *zap.Logger
}

func NewBookingService(bookings database.BookingStore, providers database.ProviderStore, log *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, providers: providers, log: log}
}

// WithNotifier enables realtime booking events.
func (s *BookingService) WithNotifier(n Notifier) *BookingService {
	s.notifier = n
	return s
}

func invalidStatusError() *Error {
	return validationError("Invalid status. Must be one of: %s", models.BookingStatusList())
}

func validRating(r *int) bool {
	return r == nil || (*r >= 1 && *r <= 5)
}

// CreateBooking stores a new booking. Status defaults to pending and amount to 0.
func (s *BookingService) CreateBooking(ctx context.Context, in NewBooking) (*models.Booking, error) {
	b := &models.Booking{
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		City:         strings.TrimSpace(in.City),
		ServiceType:  strings.TrimSpace(in.ServiceType),
		Urgency:      in.Urgency,
		ScheduledFor: in.ScheduledFor,
		Details:      in.Details,
		Status:       in.Status,
		ProviderID:   strings.TrimSpace(in.ProviderID),
		Amount:       in.Amount,
		Rating:       in.Rating,
		Review:       in.Review,
	}

	switch {
	case b.Name == "", b.Phone == "", b.City == "", b.ServiceType == "":
		return nil, validationError("name, phone, city and serviceType are required")
	case b.Urgency != "" && !b.Urgency.Valid():
		return nil, validationError("Invalid urgency. Must be one of: normal, emergency")
	case b.Status != "" && !b.Status.Valid():
		return nil, invalidStatusError()
	case !validRating(b.Rating):
		return nil, validationError("rating must be an integer between 1 and 5")
	}
	if err := s.checkProvider(ctx, b.ProviderID); err != nil {
		return nil, err
	}

	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("Booking created",
		zap.String("bookingID", b.ID),
		zap.String("city", b.City),
		zap.String("serviceType", b.ServiceType),
		zap.String("urgency", string(b.Urgency)),
	)
	if b.ProviderID != "" && s.notifier != nil {
		s.notifier.NotifyBooking(socket.EventBookingAssigned, b)
	}
	return b, nil
}

// ListBookings returns the most recent bookings matching f, at most BookingListLimit.
func (s *BookingService) ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalidStatusError()
	}
	f.Limit = BookingListLimit
	return s.bookings.ListBookings(ctx, f)
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFoundError("Booking not found")
	}
	return b, err
}

func validateBookingPatch(p models.BookingPatch) error {
	if p.Status != nil && !p.Status.Valid() {
		return invalidStatusError()
	}
	if p.Urgency != nil && !p.Urgency.Valid() {
		return validationError("Invalid urgency. Must be one of: normal, emergency")
	}
	if !validRating(p.Rating) {
		return validationError("rating must be an integer between 1 and 5")
	}
	for field, value := range map[string]*string{
		"name":        p.Name,
		"phone":       p.Phone,
		"city":        p.City,
		"serviceType": p.ServiceType,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return validationError("%s cannot be blank", field)
		}
	}
	return nil
}

// UpdateBooking merges the patch into the booking. Completed and cancelled
// bookings keep their status.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, p models.BookingPatch) (*models.Booking, error) {
	if err := validateBookingPatch(p); err != nil {
		return nil, err
	}
	if p.ProviderID != nil {
		trimmed := strings.TrimSpace(*p.ProviderID)
		p.ProviderID = &trimmed
		if err := s.checkProvider(ctx, trimmed); err != nil {
			return nil, err
		}
	}

	previous, updated, err := s.bookings.UpdateBooking(ctx, id, p)
	if err != nil {
		return nil, bookingWriteError(err)
	}
	if updated.Status != previous.Status {
		s.log.Info("Booking status changed",
			zap.String("bookingID", id),
			zap.String("from", string(previous.Status)),
			zap.String("to", string(updated.Status)),
		)
	}
	s.notifyChange(previous, updated)
	return updated, nil
}

// ConfirmBooking moves the booking to confirmed and, when providerID is not
// blank, assigns that provider.
func (s *BookingService) ConfirmBooking(ctx context.Context, id, providerID string) (*models.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationError("Booking ID is required")
	}

	status := models.StatusConfirmed
	patch := models.BookingPatch{Status: &status}
	if trimmed := strings.TrimSpace(providerID); trimmed != "" {
		if err := s.checkProvider(ctx, trimmed); err != nil {
			return nil, err
		}
		patch.ProviderID = &trimmed
	}

	previous, confirmed, err := s.bookings.UpdateBooking(ctx, id, patch)
	if err != nil {
		return nil, bookingWriteError(err)
	}
	s.log.Info("Booking confirmed",
		zap.String("bookingID", id),
		zap.String("providerID", confirmed.ProviderID),
	)
	s.notifyChange(previous, confirmed)
	return confirmed, nil
}

// bookingWriteError maps store failures from UpdateBooking to service errors.
func bookingWriteError(err error) error {
	var locked *database.StatusLockedError
	switch {
	case errors.Is(err, database.ErrNotFound):
		return notFoundError("Booking not found")
	case errors.As(err, &locked):
		return validationError("Booking is already %s; its status can no longer change", locked.Status)
	}
	return err
}

// notifyChange tells the booking's provider about a new assignment or, failing
// that, a status change.
func (s *BookingService) notifyChange(previous, updated *models.Booking) {
	if s.notifier == nil || updated.ProviderID == "" {
		return
	}
	switch {
	case updated.ProviderID != previous.ProviderID:
		s.notifier.NotifyBooking(socket.EventBookingAssigned, updated)
	case updated.Status != previous.Status:
		s.notifier.NotifyBooking(socket.EventBookingStatusChanged, updated)
	}
}

// checkProvider verifies a non-empty provider reference names a real provider.
func (s *BookingService) checkProvider(ctx context.Context, providerID string) error {
	if providerID == "" {
		return nil
	}
	_, err := s.providers.GetProvider(ctx, providerID)
	if errors.Is(err, database.ErrNotFound) {
		return validationError("Provider %s does not exist", providerID)
	}
	return err
}
