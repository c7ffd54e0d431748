// server/internal/database/seeder.go
package database

import (
	"context"

	"safaipak-api-server/internal/models"

	"go.uber.org/zap"
)

func demoProviders() []models.Provider {
	return []models.Provider{
		{
			Name:               "Lahore Pest Solutions",
			Email:              "contact@lahorepest.pk",
			Phone:              "0300-4001122",
			City:               "Lahore",
			Address:            "Gulberg III, Lahore",
			Specialization:     []string{"Pest Control", "Termite Control", "Mosquito & Dengue Control"},
			CertificationLevel: models.CertAdvanced,
			YearsOfExperience:  8,
			Rating:             4.7,
			TotalJobs:          312,
			Verified:           true,
			Available:          true,
			EmergencyService:   true,
			Location:           &models.Location{Latitude: 31.5204, Longitude: 74.3587},
			Status:             models.ProviderActive,
		},
		{
			Name:               "Karachi Clean Tanks",
			Email:              "info@karachicleantanks.pk",
			Phone:              "0321-2223344",
			City:               "Karachi",
			Specialization:     []string{"Sanitation & Cleaning", "Water Tank Cleaning", "Disinfection"},
			CertificationLevel: models.CertIntermediate,
			YearsOfExperience:  5,
			Rating:             4.4,
			TotalJobs:          198,
			Verified:           true,
			Available:          true,
			Location:           &models.Location{Latitude: 24.8607, Longitude: 67.0011},
			Status:             models.ProviderActive,
		},
		{
			Name:               "Punjab Agri Protect",
			Email:              "support@agriprotect.pk",
			Phone:              "0333-7654321",
			City:               "Faisalabad",
			Specialization:     []string{"Agriculture", "Crop-Specific Pest Control"},
			CertificationLevel: models.CertExpert,
			YearsOfExperience:  12,
			Rating:             4.9,
			TotalJobs:          145,
			Verified:           true,
			Available:          true,
			AgriculturalSpecialization: &models.AgriculturalProfile{
				Crops:     []string{"Wheat", "Cotton", "Sugarcane"},
				FarmSizes: []string{"Small (< 12.5 acres)", "Medium (12.5-50 acres)"},
				Equipment: []string{"Tractor-mounted sprayer", "Drone sprayer"},
			},
			Status: models.ProviderActive,
		},
		{
			Name:               "Capital Rodent Control",
			Email:              "hello@capitalrodent.pk",
			Phone:              "0345-5556677",
			City:               "Islamabad",
			Specialization:     []string{"Rodent Control", "Pest Control"},
			CertificationLevel: models.CertBasic,
			YearsOfExperience:  3,
			Rating:             4.1,
			TotalJobs:          57,
			Verified:           true,
			Available:          false,
			Status:             models.ProviderActive,
		},
	}
}

// SeedDemoProviders fills an empty provider directory with sample entries.
func SeedDemoProviders(ctx context.Context, store ProviderStore, log *zap.Logger) error {
	existing, err := store.ListProviders(ctx, models.ProviderFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Provider directory not empty. Seeding skipped.")
		return nil
	}

	log.Info("Provider directory empty. Seeding demo providers...")
	for _, p := range demoProviders() {
		if err := store.CreateProvider(ctx, &p); err != nil {
			return err
		}
	}
	log.Info("Demo providers seeded successfully.")
	return nil
}
