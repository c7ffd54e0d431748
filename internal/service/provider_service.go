package service

import (
	"context"
	"errors"
	"strings"

	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/models"

	"go.uber.org/zap"
)

// ProviderListLimit caps GET /api/providers.
const ProviderListLimit = 100

// ProviderRegistration is the sign-up payload. A nil Available means true.
type ProviderRegistration struct {
	Name                       string                      `json:"name" binding:"required,notblank"`
	Email                      string                      `json:"email" binding:"required,notblank"`
	Phone                      string                      `json:"phone" binding:"required,notblank"`
	City                       string                      `json:"city" binding:"required,notblank"`
	Address                    string                      `json:"address"`
	Specialization             []string                    `json:"specialization"`
	CertificationLevel         models.CertificationLevel   `json:"certificationLevel"`
	YearsOfExperience          int                         `json:"yearsOfExperience"`
	Rating                     float64                     `json:"rating"`
	TotalJobs                  int                         `json:"totalJobs"`
	Verified                   bool                        `json:"verified"`
	Available                  *bool                       `json:"available"`
	EmergencyService           bool                        `json:"emergencyService"`
	AgriculturalSpecialization *models.AgriculturalProfile `json:"agriculturalSpecialization"`
	Location                   *models.Location            `json:"location"`
	Status                     models.ProviderStatus       `json:"status"`
}

type ProviderService struct {
	providers database.ProviderStore
	log       *zap.Logger
}

func NewProviderService(providers database.ProviderStore, log *zap.Logger) *ProviderService {
	return &ProviderService{providers: providers, log: log}
}

func validateSpecializations(tags []string) error {
	for _, tag := range tags {
		if !models.ValidSpecialization(tag) {
			return validationError("Invalid specialization %q. Must be one of: %s",
				tag, strings.Join(models.Specializations, ", "))
		}
	}
	return nil
}

func validateRatingRange(rating float64) error {
	if rating < 0 || rating > 5 {
		return validationError("rating must be between 0 and 5")
	}
	return nil
}

func validateCounts(years, jobs int) error {
	if years < 0 {
		return validationError("yearsOfExperience cannot be negative")
	}
	if jobs < 0 {
		return validationError("totalJobs cannot be negative")
	}
	return nil
}

// RegisterProvider adds an unverified, pending provider to the directory.
func (s *ProviderService) RegisterProvider(ctx context.Context, in ProviderRegistration) (*models.Provider, error) {
	p := &models.Provider{
		Name:                       strings.TrimSpace(in.Name),
		Email:                      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:                      strings.TrimSpace(in.Phone),
		City:                       strings.TrimSpace(in.City),
		Address:                    strings.TrimSpace(in.Address),
		Specialization:             in.Specialization,
		CertificationLevel:         in.CertificationLevel,
		YearsOfExperience:          in.YearsOfExperience,
		Rating:                     in.Rating,
		TotalJobs:                  in.TotalJobs,
		Verified:                   in.Verified,
		Available:                  in.Available == nil || *in.Available,
		EmergencyService:           in.EmergencyService,
		AgriculturalSpecialization: in.AgriculturalSpecialization,
		Location:                   in.Location,
		Status:                     in.Status,
	}

	if p.Name == "" || p.Email == "" || p.Phone == "" || p.City == "" {
		return nil, validationError("name, email, phone and city are required")
	}
	if err := validateSpecializations(p.Specialization); err != nil {
		return nil, err
	}
	if p.CertificationLevel != "" && !p.CertificationLevel.Valid() {
		return nil, validationError("Invalid certificationLevel. Must be one of: basic, intermediate, advanced, expert")
	}
	if p.Status != "" && !p.Status.Valid() {
		return nil, validationError("Invalid provider status. Must be one of: pending, active, suspended")
	}
	if err := validateRatingRange(p.Rating); err != nil {
		return nil, err
	}
	if err := validateCounts(p.YearsOfExperience, p.TotalJobs); err != nil {
		return nil, err
	}

	if err := s.providers.CreateProvider(ctx, p); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, &Error{Kind: ErrValidation, Message: "A provider with this email already exists", Err: err}
		}
		return nil, err
	}
	s.log.Info("Provider registered",
		zap.String("providerID", p.ID),
		zap.String("city", p.City),
		zap.Strings("specialization", p.Specialization),
	)
	return p, nil
}

// ListProviders applies the optional filters conjunctively and returns the
// best rated providers first.
func (s *ProviderService) ListProviders(ctx context.Context, f models.ProviderFilter) ([]models.Provider, error) {
	f.Limit = ProviderListLimit
	return s.providers.ListProviders(ctx, f)
}

func (s *ProviderService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.providers.GetProvider(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFoundError("Provider not found")
	}
	return p, err
}

func validateProviderPatch(p *models.ProviderPatch) error {
	for field, value := range map[string]*string{
		"name":  p.Name,
		"email": p.Email,
		"phone": p.Phone,
		"city":  p.City,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return validationError("%s cannot be blank", field)
		}
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &email
	}
	if p.Specialization != nil {
		if err := validateSpecializations(*p.Specialization); err != nil {
			return err
		}
	}
	if p.CertificationLevel != nil && !p.CertificationLevel.Valid() {
		return validationError("Invalid certificationLevel. Must be one of: basic, intermediate, advanced, expert")
	}
	if p.Status != nil && !p.Status.Valid() {
		return validationError("Invalid provider status. Must be one of: pending, active, suspended")
	}
	if p.Rating != nil {
		if err := validateRatingRange(*p.Rating); err != nil {
			return err
		}
	}
	years, jobs := 0, 0
	if p.YearsOfExperience != nil {
		years = *p.YearsOfExperience
	}
	if p.TotalJobs != nil {
		jobs = *p.TotalJobs
	}
	return validateCounts(years, jobs)
}

// UpdateProvider merges the patch into the provider. Verification,
// availability and rating/job counts all flow through here.
func (s *ProviderService) UpdateProvider(ctx context.Context, id string, p models.ProviderPatch) (*models.Provider, error) {
	if err := validateProviderPatch(&p); err != nil {
		return nil, err
	}

	updated, err := s.providers.UpdateProvider(ctx, id, p)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, notFoundError("Provider not found")
	case errors.Is(err, database.ErrDuplicate):
		return nil, &Error{Kind: ErrValidation, Message: "A provider with this email already exists", Err: err}
	case err != nil:
		return nil, err
	}
	return updated, nil
}

// AttachDocument appends an uploaded document to the provider's record.
func (s *ProviderService) AttachDocument(ctx context.Context, id string, doc models.MediaPointer) (*models.Provider, error) {
	provider, err := s.providers.AppendProviderDocument(ctx, id, doc)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFoundError("Provider not found")
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("Provider document attached",
		zap.String("providerID", id),
		zap.String("documentID", doc.ID),
	)
	return provider, nil
}
