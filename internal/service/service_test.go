package service

import (
	"context"
	"testing"

	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store     *database.MemoryStore
	bookings  *BookingService
	providers *ProviderService
	analytics *AnalyticsService
	reviews   *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := database.NewMemoryStore()
	log := zap.NewNop()
	return &fixture{
		store:     store,
		bookings:  NewBookingService(store, store, log),
		providers: NewProviderService(store, log),
		analytics: NewAnalyticsService(store, store),
		reviews:   NewReviewService(store, log),
	}
}

func (f *fixture) booking(t *testing.T, city, serviceType string) *models.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(context.Background(), NewBooking{
		Name: "Customer", Phone: "0300-0000000", City: city, ServiceType: serviceType,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) provider(t *testing.T, name, city string, rating float64) *models.Provider {
	t.Helper()
	p, err := f.providers.RegisterProvider(context.Background(), ProviderRegistration{
		Name: name, Email: name + "@safaipak.pk", Phone: "0321", City: city, Rating: rating,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) setStatus(t *testing.T, id string, status models.BookingStatus) *models.Booking {
	t.Helper()
	b, err := f.bookings.UpdateBooking(context.Background(), id, models.BookingPatch{Status: &status})
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }
