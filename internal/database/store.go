// server/internal/database/store.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"safaipak-api-server/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// StatusLockedError is returned when a patch would move a booking out of a
// terminal status.
type StatusLockedError struct {
	Status models.BookingStatus
}

func (e *StatusLockedError) Error() string {
	return fmt.Sprintf("booking is already %s", e.Status)
}

// statusLocked reports whether p would change a terminal status.
func statusLocked(current models.BookingStatus, p models.BookingPatch) bool {
	return p.Status != nil && current.Terminal() && *p.Status != current
}

type BookingStore interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	// ListBookings returns matches newest first.
	ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	// UpdateBooking applies p in one atomic step and returns the booking as it
	// was before and after. Leaving a terminal status fails with *StatusLockedError.
	UpdateBooking(ctx context.Context, id string, p models.BookingPatch) (previous, updated *models.Booking, err error)
}

type ProviderStore interface {
	CreateProvider(ctx context.Context, p *models.Provider) error
	// ListProviders returns matches by rating, then totalJobs, descending.
	ListProviders(ctx context.Context, f models.ProviderFilter) ([]models.Provider, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	UpdateProvider(ctx context.Context, id string, p models.ProviderPatch) (*models.Provider, error)
	AppendProviderDocument(ctx context.Context, id string, doc models.MediaPointer) (*models.Provider, error)
}

type ReviewStore interface {
	// CreateReview fails with ErrDuplicate when the booking already has a review.
	CreateReview(ctx context.Context, r *models.Review) error
	ListReviews(ctx context.Context, f models.ReviewFilter) ([]models.Review, error)
}

// Store is the data store contract shared by the in-memory and MongoDB backends.
type Store interface {
	BookingStore
	ProviderStore
	ReviewStore
	// Name identifies the backend ("memory" or "mongo").
	Name() string
	Close(ctx context.Context) error
}

func newID() string {
	return uuid.New().String()
}

// prepareBooking assigns identity, timestamps and defaults before insert.
func prepareBooking(b *models.Booking, now time.Time) {
	b.ID = newID()
	if b.Status == "" {
		b.Status = models.StatusPending
	}
	if b.Urgency == "" {
		b.Urgency = models.UrgencyNormal
	}
	b.CreatedAt = now
	b.UpdatedAt = now
}

func prepareProvider(p *models.Provider, now time.Time) {
	p.ID = newID()
	if p.Specialization == nil {
		p.Specialization = []string{}
	}
	if p.CertificationLevel == "" {
		p.CertificationLevel = models.CertBasic
	}
	if p.Status == "" {
		p.Status = models.ProviderPending
	}
	p.CreatedAt = now
	p.UpdatedAt = now
}

func prepareReview(r *models.Review, now time.Time) {
	r.ID = newID()
	r.CreatedAt = now
}
