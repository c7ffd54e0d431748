// server/internal/database/memory_store.go
package database

import (
	"context"
	"slices"
	"sync"
	"time"

	"safaipak-api-server/internal/models"
)

// MemoryStore keeps every collection in process memory. Records are kept in
// insertion order; each call works on copies so callers never share state.
type MemoryStore struct {
	mu        sync.RWMutex
	bookings  []models.Booking
	providers []models.Provider
	reviews   []models.Review
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// WithClock replaces the time source, mainly for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Close(context.Context) error { return nil }

// --- Bookings ---

func (s *MemoryStore) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepareBooking(b, s.now())
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *MemoryStore) ListBookings(_ context.Context, f models.BookingFilter) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Booking{}
	for i := len(s.bookings) - 1; i >= 0; i-- {
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		if f.Matches(&s.bookings[i]) {
			out = append(out, s.bookings[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.bookingIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	b := s.bookings[i]
	return &b, nil
}

func (s *MemoryStore) UpdateBooking(_ context.Context, id string, p models.BookingPatch) (*models.Booking, *models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookingIndex(id)
	if i < 0 {
		return nil, nil, ErrNotFound
	}
	previous := s.bookings[i]
	if statusLocked(previous.Status, p) {
		return nil, nil, &StatusLockedError{Status: previous.Status}
	}
	b := previous
	p.Apply(&b)
	b.UpdatedAt = s.now()
	s.bookings[i] = b
	return &previous, &b, nil
}

func (s *MemoryStore) bookingIndex(id string) int {
	return slices.IndexFunc(s.bookings, func(b models.Booking) bool { return b.ID == id })
}

// --- Providers ---

func (s *MemoryStore) CreateProvider(_ context.Context, p *models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepareProvider(p, s.now())
	s.providers = append(s.providers, *p)
	return nil
}

func (s *MemoryStore) ListProviders(_ context.Context, f models.ProviderFilter) ([]models.Provider, error) {
	s.mu.RLock()
	out := []models.Provider{}
	for i := range s.providers {
		if f.Matches(&s.providers[i]) {
			out = append(out, s.providers[i])
		}
	}
	s.mu.RUnlock()

	models.RankProviders(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemoryStore) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.providerIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	p := s.providers[i]
	return &p, nil
}

func (s *MemoryStore) UpdateProvider(_ context.Context, id string, pp models.ProviderPatch) (*models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.providerIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	p := s.providers[i]
	pp.Apply(&p)
	p.UpdatedAt = s.now()
	s.providers[i] = p
	return &p, nil
}

func (s *MemoryStore) AppendProviderDocument(_ context.Context, id string, doc models.MediaPointer) (*models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.providerIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	p := s.providers[i]
	p.Documents = append(slices.Clone(p.Documents), doc)
	p.UpdatedAt = s.now()
	s.providers[i] = p
	return &p, nil
}

func (s *MemoryStore) providerIndex(id string) int {
	return slices.IndexFunc(s.providers, func(p models.Provider) bool { return p.ID == id })
}

// --- Reviews ---

func (s *MemoryStore) CreateReview(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.BookingID != "" {
		for _, existing := range s.reviews {
			if existing.BookingID == r.BookingID {
				return ErrDuplicate
			}
		}
	}
	prepareReview(r, s.now())
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s *MemoryStore) ListReviews(_ context.Context, f models.ReviewFilter) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Review{}
	for i := len(s.reviews) - 1; i >= 0; i-- {
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		if f.Matches(&s.reviews[i]) {
			out = append(out, s.reviews[i])
		}
	}
	return out, nil
}
