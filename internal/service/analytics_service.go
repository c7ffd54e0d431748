package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/models"
)

type DashboardStats struct {
	TotalBookings     int     `json:"totalBookings"`
	TotalProviders    int     `json:"totalProviders"`
	PendingBookings   int     `json:"pendingBookings"`
	CompletedBookings int     `json:"completedBookings"`
	CompletionRate    float64 `json:"completionRate"`
}

type DemandEntry struct {
	City        string `json:"city"`
	ServiceType string `json:"serviceType"`
	Count       int    `json:"count"`
}

type ProviderSummary struct {
	Name      string  `json:"name"`
	Rating    float64 `json:"rating"`
	TotalJobs int     `json:"totalJobs"`
}

type BookingCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type Earnings struct {
	Total float64 `json:"total"`
}

type ProviderAnalytics struct {
	Provider ProviderSummary `json:"provider"`
	Bookings BookingCounts   `json:"bookings"`
	Earnings Earnings        `json:"earnings"`
}

type Hotspot struct {
	City   string `json:"city"`
	Demand int    `json:"demand"`
}

type Coverage struct {
	TotalAreas       int     `json:"totalAreas"`
	ProvidersPerArea float64 `json:"providersPerArea"`
}

type LocationIntelligence struct {
	ProviderDensity int       `json:"providerDensity"`
	ServiceGaps     []string  `json:"serviceGaps"`
	DemandHotspots  []Hotspot `json:"demandHotspots"`
	Coverage        Coverage  `json:"coverage"`
}

// AnalyticsService derives every figure by scanning the collections on each
// call; nothing is cached or persisted.
type AnalyticsService struct {
	bookings  database.BookingStore
	providers database.ProviderStore
}

func NewAnalyticsService(bookings database.BookingStore, providers database.ProviderStore) *AnalyticsService {
	return &AnalyticsService{bookings: bookings, providers: providers}
}

// CompletionRate is completed/total as a percentage with one decimal, 0 for no bookings.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

func (s *AnalyticsService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	bookings, err := s.bookings.ListBookings(ctx, models.BookingFilter{})
	if err != nil {
		return nil, err
	}
	verified := true
	providers, err := s.providers.ListProviders(ctx, models.ProviderFilter{Verified: &verified})
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalBookings:  len(bookings),
		TotalProviders: len(providers),
	}
	for _, b := range bookings {
		switch b.Status {
		case models.StatusPending:
			stats.PendingBookings++
		case models.StatusCompleted:
			stats.CompletedBookings++
		}
	}
	stats.CompletionRate = CompletionRate(stats.CompletedBookings, stats.TotalBookings)
	return stats, nil
}

// ServiceDemand counts bookings per (city, serviceType), busiest first.
func (s *AnalyticsService) ServiceDemand(ctx context.Context, city, serviceType string) ([]DemandEntry, error) {
	bookings, err := s.bookings.ListBookings(ctx, models.BookingFilter{City: city, ServiceType: serviceType})
	if err != nil {
		return nil, err
	}

	type key struct{ city, serviceType string }
	index := map[key]int{}
	demand := []DemandEntry{}
	for _, b := range bookings {
		k := key{b.City, b.ServiceType}
		i, ok := index[k]
		if !ok {
			i = len(demand)
			index[k] = i
			demand = append(demand, DemandEntry{City: b.City, ServiceType: b.ServiceType})
		}
		demand[i].Count++
	}

	sort.SliceStable(demand, func(i, j int) bool {
		if demand[i].Count != demand[j].Count {
			return demand[i].Count > demand[j].Count
		}
		if demand[i].City != demand[j].City {
			return demand[i].City < demand[j].City
		}
		return demand[i].ServiceType < demand[j].ServiceType
	})
	return demand, nil
}

func (s *AnalyticsService) ProviderAnalytics(ctx context.Context, providerID string) (*ProviderAnalytics, error) {
	provider, err := s.providers.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, notFoundError("Provider not found")
		}
		return nil, err
	}

	bookings, err := s.bookings.ListBookings(ctx, models.BookingFilter{ProviderID: providerID})
	if err != nil {
		return nil, err
	}

	out := &ProviderAnalytics{
		Provider: ProviderSummary{
			Name:      provider.Name,
			Rating:    provider.Rating,
			TotalJobs: provider.TotalJobs,
		},
		Bookings: BookingCounts{Total: len(bookings)},
	}
	for _, b := range bookings {
		switch b.Status {
		case models.StatusCompleted:
			out.Bookings.Completed++
			out.Earnings.Total += b.Amount
		case models.StatusPending:
			out.Bookings.Pending++
		}
	}
	return out, nil
}

// LocationIntelligence summarises provider coverage against booking demand,
// optionally restricted to cities matching city.
func (s *AnalyticsService) LocationIntelligence(ctx context.Context, city string) (*LocationIntelligence, error) {
	providers, err := s.providers.ListProviders(ctx, models.ProviderFilter{City: city})
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListBookings(ctx, models.BookingFilter{City: city})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, b := range bookings {
		counts[b.City]++
	}
	hotspots := make([]Hotspot, 0, len(counts))
	for c, n := range counts {
		hotspots = append(hotspots, Hotspot{City: c, Demand: n})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Demand != hotspots[j].Demand {
			return hotspots[i].Demand > hotspots[j].Demand
		}
		return hotspots[i].City < hotspots[j].City
	})

	coverage := Coverage{TotalAreas: len(counts)}
	if len(counts) > 0 {
		coverage.ProvidersPerArea = float64(len(providers)) / float64(len(counts))
	}

	return &LocationIntelligence{
		ProviderDensity: len(providers),
		// Gap detection is not implemented; clients expect an empty list.
		ServiceGaps:    []string{},
		DemandHotspots: hotspots,
		Coverage:       coverage,
	}, nil
}
