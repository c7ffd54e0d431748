package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"safaipak-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a time source that advances one second per call, so
// creation order is always visible in createdAt.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// testStoreContract exercises behaviour both backends must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("booking defaults and get", func(t *testing.T) {
		s := newStore(t)
		b := &models.Booking{Name: "Ali", Phone: "0300-1111111", City: "Lahore", ServiceType: "Pest Control"}
		require.NoError(t, s.CreateBooking(ctx, b))

		assert.NotEmpty(t, b.ID)
		assert.Equal(t, models.StatusPending, b.Status)
		assert.Equal(t, models.UrgencyNormal, b.Urgency)
		assert.Zero(t, b.Amount)
		assert.False(t, b.CreatedAt.IsZero())

		got, err := s.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
		assert.Equal(t, "Ali", got.Name)

		_, err = s.GetBooking(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("bookings newest first with filter and limit", func(t *testing.T) {
		s := newStore(t)
		for _, city := range []string{"Lahore", "Karachi", "lahore cantt", "Multan"} {
			require.NoError(t, s.CreateBooking(ctx, &models.Booking{Name: city, Phone: "1", City: city, ServiceType: "Disinfection"}))
		}

		all, err := s.ListBookings(ctx, models.BookingFilter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "Multan", all[0].City)
		assert.Equal(t, "Lahore", all[3].City)

		lahore, err := s.ListBookings(ctx, models.BookingFilter{City: "LAHORE"})
		require.NoError(t, err)
		require.Len(t, lahore, 2)
		assert.Equal(t, "lahore cantt", lahore[0].City)

		limited, err := s.ListBookings(ctx, models.BookingFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("booking update merges", func(t *testing.T) {
		s := newStore(t)
		b := &models.Booking{Name: "Sara", Phone: "0333", City: "Karachi", ServiceType: "Termite Control"}
		require.NoError(t, s.CreateBooking(ctx, b))

		status := models.StatusCompleted
		amount := 4500.0
		previous, updated, err := s.UpdateBooking(ctx, b.ID, models.BookingPatch{Status: &status, Amount: &amount})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, previous.Status)
		assert.Equal(t, models.StatusCompleted, updated.Status)
		assert.Equal(t, 4500.0, updated.Amount)
		assert.Equal(t, "Sara", updated.Name)
		assert.True(t, updated.UpdatedAt.After(b.UpdatedAt))

		_, _, err = s.UpdateBooking(ctx, "missing", models.BookingPatch{Status: &status})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("terminal status is kept", func(t *testing.T) {
		s := newStore(t)
		b := &models.Booking{Name: "Omar", Phone: "0300", City: "Quetta", ServiceType: "Disinfection"}
		require.NoError(t, s.CreateBooking(ctx, b))

		cancelled := models.StatusCancelled
		_, _, err := s.UpdateBooking(ctx, b.ID, models.BookingPatch{Status: &cancelled})
		require.NoError(t, err)

		confirmed := models.StatusConfirmed
		_, _, err = s.UpdateBooking(ctx, b.ID, models.BookingPatch{Status: &confirmed})
		var locked *StatusLockedError
		require.ErrorAs(t, err, &locked)
		assert.Equal(t, models.StatusCancelled, locked.Status)

		got, err := s.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)

		// Repeating the status and touching other fields still works.
		review := "no show"
		_, updated, err := s.UpdateBooking(ctx, b.ID, models.BookingPatch{Status: &cancelled, Review: &review})
		require.NoError(t, err)
		assert.Equal(t, "no show", updated.Review)
	})

	t.Run("providers ranked and filtered", func(t *testing.T) {
		s := newStore(t)
		seed := []models.Provider{
			{Name: "low", Email: "low@x.pk", City: "Karachi", Rating: 3, TotalJobs: 100, Available: true, Specialization: []string{"Pest Control"}},
			{Name: "top", Email: "top@x.pk", City: "Karachi", Rating: 5, TotalJobs: 2, Available: true, Verified: true},
			{Name: "mid-busy", Email: "mb@x.pk", City: "Lahore", Rating: 4, TotalJobs: 40, Available: false, Specialization: []string{"Pest Control"}},
			{Name: "mid", Email: "m@x.pk", City: "Karachi", Rating: 4, TotalJobs: 10, Available: true},
		}
		for i := range seed {
			require.NoError(t, s.CreateProvider(ctx, &seed[i]))
		}
		assert.Equal(t, models.CertBasic, seed[0].CertificationLevel)
		assert.Equal(t, models.ProviderPending, seed[0].Status)

		all, err := s.ListProviders(ctx, models.ProviderFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"top", "mid-busy", "mid", "low"}, providerNames(all))

		yes := true
		karachi, err := s.ListProviders(ctx, models.ProviderFilter{City: "kar", Available: &yes})
		require.NoError(t, err)
		assert.Equal(t, []string{"top", "mid", "low"}, providerNames(karachi))

		pest, err := s.ListProviders(ctx, models.ProviderFilter{Specialization: "Pest Control"})
		require.NoError(t, err)
		assert.Equal(t, []string{"mid-busy", "low"}, providerNames(pest))

		verified, err := s.ListProviders(ctx, models.ProviderFilter{Verified: &yes})
		require.NoError(t, err)
		assert.Equal(t, []string{"top"}, providerNames(verified))

		capped, err := s.ListProviders(ctx, models.ProviderFilter{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"top"}, providerNames(capped))
	})

	t.Run("provider update", func(t *testing.T) {
		s := newStore(t)
		p := &models.Provider{Name: "Tank Pros", Email: "tank@x.pk", City: "Islamabad"}
		require.NoError(t, s.CreateProvider(ctx, p))

		verified := true
		docs := []models.MediaPointer{{ID: "d1", URL: "https://cdn/d1.pdf", FileName: "d1.pdf"}}
		updated, err := s.UpdateProvider(ctx, p.ID, models.ProviderPatch{Verified: &verified, Documents: &docs})
		require.NoError(t, err)
		assert.True(t, updated.Verified)
		assert.Equal(t, "Tank Pros", updated.Name)
		require.Len(t, updated.Documents, 1)

		got, err := s.GetProvider(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, got.Verified)
		assert.Equal(t, "https://cdn/d1.pdf", got.Documents[0].URL)

		_, err = s.UpdateProvider(ctx, "missing", models.ProviderPatch{Verified: &verified})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetProvider(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("provider documents append", func(t *testing.T) {
		s := newStore(t)
		p := &models.Provider{Name: "Clean Co", Email: "clean@x.pk", City: "Lahore"}
		require.NoError(t, s.CreateProvider(ctx, p))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				doc := models.MediaPointer{ID: fmt.Sprintf("d%d", i), URL: fmt.Sprintf("https://cdn/d%d.pdf", i)}
				_, err := s.AppendProviderDocument(ctx, p.ID, doc)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := s.GetProvider(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, got.Documents, 8)

		_, err = s.AppendProviderDocument(ctx, "missing", models.MediaPointer{ID: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reviews", func(t *testing.T) {
		s := newStore(t)
		first := &models.Review{BookingID: "b1", ProviderID: "p1", Rating: 5}
		require.NoError(t, s.CreateReview(ctx, first))
		assert.NotEmpty(t, first.ID)

		err := s.CreateReview(ctx, &models.Review{BookingID: "b1", Rating: 2})
		assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)

		// Reviews without a booking are unconstrained.
		require.NoError(t, s.CreateReview(ctx, &models.Review{CustomerName: "Walk-in", Rating: 4}))
		require.NoError(t, s.CreateReview(ctx, &models.Review{CustomerName: "Walk-in", Rating: 3}))
		require.NoError(t, s.CreateReview(ctx, &models.Review{BookingID: "b2", ProviderID: "p1", Rating: 4}))

		all, err := s.ListReviews(ctx, models.ReviewFilter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "b2", all[0].BookingID)

		byProvider, err := s.ListReviews(ctx, models.ReviewFilter{ProviderID: "p1"})
		require.NoError(t, err)
		assert.Len(t, byProvider, 2)

		byBooking, err := s.ListReviews(ctx, models.ReviewFilter{BookingID: "b1"})
		require.NoError(t, err)
		require.Len(t, byBooking, 1)
		assert.Equal(t, 5, byBooking[0].Rating)
	})
}

func providerNames(ps []models.Provider) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
