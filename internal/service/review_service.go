package service

import (
	"context"
	"errors"
	"strings"

	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/models"

	"go.uber.org/zap"
)

// ReviewListLimit caps GET /api/reviews.
const ReviewListLimit = 100

type NewReview struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	BookingID     string `json:"bookingId"`
	ProviderID    string `json:"providerId"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment"`
	ServiceType   string `json:"serviceType"`
}

type ReviewService struct {
	reviews   database.ReviewStore
	bookings  database.BookingStore
	providers database.ProviderStore
	log       *zap.Logger
}

func NewReviewService(store database.Store, log *zap.Logger) *ReviewService {
	return &ReviewService{reviews: store, bookings: store, providers: store, log: log}
}

// CreateReview records feedback. A review tied to a booking inherits the
// booking's provider, customer and service when those are omitted, and each
// booking accepts a single review.
func (s *ReviewService) CreateReview(ctx context.Context, in NewReview) (*models.Review, error) {
	r := &models.Review{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		BookingID:     strings.TrimSpace(in.BookingID),
		ProviderID:    strings.TrimSpace(in.ProviderID),
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
		ServiceType:   strings.TrimSpace(in.ServiceType),
	}

	if r.Rating < 1 || r.Rating > 5 {
		return nil, validationError("rating must be an integer between 1 and 5")
	}
	if r.CustomerName == "" && r.BookingID == "" {
		return nil, validationError("customerName or bookingId is required")
	}

	if r.BookingID != "" {
		booking, err := s.bookings.GetBooking(ctx, r.BookingID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, notFoundError("Booking not found")
		}
		if err != nil {
			return nil, err
		}
		if r.ProviderID == "" {
			r.ProviderID = booking.ProviderID
		}
		if r.CustomerName == "" {
			r.CustomerName = booking.Name
		}
		if r.ServiceType == "" {
			r.ServiceType = booking.ServiceType
		}
	}

	if r.ProviderID != "" {
		if _, err := s.providers.GetProvider(ctx, r.ProviderID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, validationError("Provider %s does not exist", r.ProviderID)
			}
			return nil, err
		}
	}

	if err := s.reviews.CreateReview(ctx, r); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflictError("This booking has already been reviewed", err)
		}
		return nil, err
	}
	s.log.Info("Review submitted",
		zap.String("reviewID", r.ID),
		zap.String("bookingID", r.BookingID),
		zap.Int("rating", r.Rating),
	)
	return r, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, f models.ReviewFilter) ([]models.Review, error) {
	f.Limit = ReviewListLimit
	return s.reviews.ListReviews(ctx, f)
}
