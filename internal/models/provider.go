// server/internal/models/provider.go
package models

import (
	"slices"
	"time"
)

// Specializations is the fixed tag vocabulary for provider skills.
var Specializations = []string{
	"Pest Control",
	"Sanitation & Cleaning",
	"Specialized Health",
	"Agriculture",
	"Mosquito & Dengue Control",
	"Termite Control",
	"Rodent Control",
	"Water Tank Cleaning",
	"Disinfection",
	"Crop-Specific Pest Control",
}

func ValidSpecialization(tag string) bool {
	return slices.Contains(Specializations, tag)
}

type CertificationLevel string

const (
	CertBasic        CertificationLevel = "basic"
	CertIntermediate CertificationLevel = "intermediate"
	CertAdvanced     CertificationLevel = "advanced"
	CertExpert       CertificationLevel = "expert"
)

func (l CertificationLevel) Valid() bool {
	switch l {
	case CertBasic, CertIntermediate, CertAdvanced, CertExpert:
		return true
	}
	return false
}

type ProviderStatus string

const (
	ProviderPending   ProviderStatus = "pending"
	ProviderActive    ProviderStatus = "active"
	ProviderSuspended ProviderStatus = "suspended"
)

func (s ProviderStatus) Valid() bool {
	switch s {
	case ProviderPending, ProviderActive, ProviderSuspended:
		return true
	}
	return false
}

// AgriculturalProfile describes farm-side capabilities of a provider.
type AgriculturalProfile struct {
	Crops     []string `bson:"crops,omitempty" json:"crops,omitempty"`
	FarmSizes []string `bson:"farmSizes,omitempty" json:"farmSizes,omitempty"`
	Equipment []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
}

// Provider is a registered technician or company in the directory.
type Provider struct {
	ID                         string               `bson:"_id" json:"_id"`
	Name                       string               `bson:"name" json:"name"`
	Email                      string               `bson:"email" json:"email"`
	Phone                      string               `bson:"phone" json:"phone"`
	City                       string               `bson:"city" json:"city"`
	Address                    string               `bson:"address,omitempty" json:"address,omitempty"`
	Specialization             []string             `bson:"specialization" json:"specialization"`
	CertificationLevel         CertificationLevel   `bson:"certificationLevel" json:"certificationLevel"`
	YearsOfExperience          int                  `bson:"yearsOfExperience" json:"yearsOfExperience"`
	Rating                     float64              `bson:"rating" json:"rating"`
	TotalJobs                  int                  `bson:"totalJobs" json:"totalJobs"`
	Verified                   bool                 `bson:"verified" json:"verified"`
	Available                  bool                 `bson:"available" json:"available"`
	EmergencyService           bool                 `bson:"emergencyService" json:"emergencyService"`
	AgriculturalSpecialization *AgriculturalProfile `bson:"agriculturalSpecialization,omitempty" json:"agriculturalSpecialization,omitempty"`
	Location                   *Location            `bson:"location,omitempty" json:"location,omitempty"`
	Status                     ProviderStatus       `bson:"status" json:"status"`
	Documents                  []MediaPointer       `bson:"documents,omitempty" json:"documents,omitempty"`
	CreatedAt                  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt                  time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ProviderPatch is a partial update. Nil fields are left untouched.
type ProviderPatch struct {
	Name                       *string              `json:"name"`
	Email                      *string              `json:"email"`
	Phone                      *string              `json:"phone"`
	City                       *string              `json:"city"`
	Address                    *string              `json:"address"`
	Specialization             *[]string            `json:"specialization"`
	CertificationLevel         *CertificationLevel  `json:"certificationLevel"`
	YearsOfExperience          *int                 `json:"yearsOfExperience"`
	Rating                     *float64             `json:"rating"`
	TotalJobs                  *int                 `json:"totalJobs"`
	Verified                   *bool                `json:"verified"`
	Available                  *bool                `json:"available"`
	EmergencyService           *bool                `json:"emergencyService"`
	AgriculturalSpecialization *AgriculturalProfile `json:"agriculturalSpecialization"`
	Location                   *Location            `json:"location"`
	Status                     *ProviderStatus      `json:"status"`
	Documents                  *[]MediaPointer      `json:"-"`
}

// Apply merges the patch into p. Timestamps are the caller's concern.
func (pp ProviderPatch) Apply(p *Provider) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Email != nil {
		p.Email = *pp.Email
	}
	if pp.Phone != nil {
		p.Phone = *pp.Phone
	}
	if pp.City != nil {
		p.City = *pp.City
	}
	if pp.Address != nil {
		p.Address = *pp.Address
	}
	if pp.Specialization != nil {
		p.Specialization = slices.Clone(*pp.Specialization)
	}
	if pp.CertificationLevel != nil {
		p.CertificationLevel = *pp.CertificationLevel
	}
	if pp.YearsOfExperience != nil {
		p.YearsOfExperience = *pp.YearsOfExperience
	}
	if pp.Rating != nil {
		p.Rating = *pp.Rating
	}
	if pp.TotalJobs != nil {
		p.TotalJobs = *pp.TotalJobs
	}
	if pp.Verified != nil {
		p.Verified = *pp.Verified
	}
	if pp.Available != nil {
		p.Available = *pp.Available
	}
	if pp.EmergencyService != nil {
		p.EmergencyService = *pp.EmergencyService
	}
	if pp.AgriculturalSpecialization != nil {
		agri := *pp.AgriculturalSpecialization
		p.AgriculturalSpecialization = &agri
	}
	if pp.Location != nil {
		loc := *pp.Location
		p.Location = &loc
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.Documents != nil {
		p.Documents = slices.Clone(*pp.Documents)
	}
}

// ProviderFilter narrows a provider listing. Nil booleans match both values;
// Limit <= 0 means no cap.
type ProviderFilter struct {
	City           string // case-insensitive substring
	Specialization string
	Available      *bool
	Verified       *bool
	Limit          int
}

func (f ProviderFilter) Matches(p *Provider) bool {
	if f.City != "" && !ContainsFold(p.City, f.City) {
		return false
	}
	if f.Specialization != "" && !slices.Contains(p.Specialization, f.Specialization) {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	if f.Verified != nil && p.Verified != *f.Verified {
		return false
	}
	return true
}

// RankProviders orders by rating, then completed jobs, both descending.
func RankProviders(providers []Provider) {
	slices.SortStableFunc(providers, func(a, b Provider) int {
		switch {
		case a.Rating != b.Rating:
			if a.Rating > b.Rating {
				return -1
			}
			return 1
		case a.TotalJobs != b.TotalJobs:
			return b.TotalJobs - a.TotalJobs
		}
		return 0
	})
}
