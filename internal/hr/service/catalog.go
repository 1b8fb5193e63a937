package service

import (
	"context"
	"time"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
)

// CatalogService manages the reference entities certificates hang off:
// departments, training types and training providers.
type CatalogService struct {
	departments *repository.DepartmentRepository
	types       *repository.TrainingTypeRepository
	providers   *repository.ProviderRepository
	logger      *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	departments *repository.DepartmentRepository,
	types *repository.TrainingTypeRepository,
	providers *repository.ProviderRepository,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		departments: departments,
		types:       types,
		providers:   providers,
		logger:      log.WithComponent("catalog-service"),
	}
}

// DepartmentRequest is the payload for creating or updating a department
type DepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Code        string  `json:"code" validate:"required,uppercase"`
	Description *string `json:"description"`
}

// CreateDepartment creates a department
func (s *CatalogService) CreateDepartment(ctx context.Context, req DepartmentRequest) (*domain.Department, error) {
	dept := &domain.Department{Name: req.Name, Code: req.Code, Description: req.Description}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	s.logger.Info().Str("department_id", dept.ID).Str("code", dept.Code).Msg("department created")
	return dept, nil
}

// GetDepartment gets a department
func (s *CatalogService) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	return s.departments.GetByID(ctx, id)
}

// ListDepartments lists all departments
func (s *CatalogService) ListDepartments(ctx context.Context) ([]*domain.Department, error) {
	return s.departments.List(ctx)
}

// UpdateDepartment updates a department
func (s *CatalogService) UpdateDepartment(ctx context.Context, id string, req DepartmentRequest) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.Name = req.Name
	dept.Code = req.Code
	dept.Description = req.Description
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// DeleteDepartment deletes a department
func (s *CatalogService) DeleteDepartment(ctx context.Context, id string) error {
	return s.departments.Delete(ctx, id)
}

// TrainingTypeRequest is the payload for creating or updating a training type
type TrainingTypeRequest struct {
	Name           string  `json:"name" validate:"required"`
	Code           string  `json:"code" validate:"required,uppercase"`
	Category       *string `json:"category"`
	ValidityMonths int     `json:"validity_months" validate:"gte=0"`
	WarningDays    int     `json:"warning_days" validate:"gte=0"`
	IsMandatory    bool    `json:"is_mandatory"`
	IsRecurrent    bool    `json:"is_recurrent"`
	Description    *string `json:"description"`
}

// CreateTrainingType creates a training type
func (s *CatalogService) CreateTrainingType(ctx context.Context, req TrainingTypeRequest) (*domain.TrainingType, error) {
	t := &domain.TrainingType{
		Name:           req.Name,
		Code:           req.Code,
		Category:       req.Category,
		ValidityMonths: req.ValidityMonths,
		WarningDays:    req.WarningDays,
		IsMandatory:    req.IsMandatory,
		IsRecurrent:    req.IsRecurrent,
		Description:    req.Description,
	}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info().Str("training_type_id", t.ID).Str("code", t.Code).Msg("training type created")
	return t, nil
}

// GetTrainingType gets a training type
func (s *CatalogService) GetTrainingType(ctx context.Context, id string) (*domain.TrainingType, error) {
	return s.types.GetByID(ctx, id)
}

// ListTrainingTypes lists all training types
func (s *CatalogService) ListTrainingTypes(ctx context.Context) ([]*domain.TrainingType, error) {
	return s.types.List(ctx)
}

// UpdateTrainingType updates a training type. Validity changes only affect
// certificates issued afterwards; existing expiry dates stay as issued.
func (s *CatalogService) UpdateTrainingType(ctx context.Context, id string, req TrainingTypeRequest) (*domain.TrainingType, error) {
	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = req.Name
	t.Code = req.Code
	t.Category = req.Category
	t.ValidityMonths = req.ValidityMonths
	t.WarningDays = req.WarningDays
	t.IsMandatory = req.IsMandatory
	t.IsRecurrent = req.IsRecurrent
	t.Description = req.Description
	if err := s.types.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTrainingType deletes a training type
func (s *CatalogService) DeleteTrainingType(ctx context.Context, id string) error {
	return s.types.Delete(ctx, id)
}

// ProviderRequest is the payload for creating or updating a provider
type ProviderRequest struct {
	Name                string     `json:"name" validate:"required"`
	AccreditationNumber *string    `json:"accreditation_number"`
	AccreditationExpiry *time.Time `json:"accreditation_expiry"`
	ContactPerson       *string    `json:"contact_person"`
	ContactEmail        *string    `json:"contact_email" validate:"omitempty,email"`
	ContractStart       *time.Time `json:"contract_start"`
	ContractEnd         *time.Time `json:"contract_end"`
	Rating              *float64   `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// CreateProvider creates a training provider
func (s *CatalogService) CreateProvider(ctx context.Context, req ProviderRequest) (*domain.TrainingProvider, error) {
	if err := validateContractWindow(req.ContractStart, req.ContractEnd); err != nil {
		return nil, err
	}
	p := &domain.TrainingProvider{
		Name:                req.Name,
		AccreditationNumber: req.AccreditationNumber,
		AccreditationExpiry: req.AccreditationExpiry,
		ContactPerson:       req.ContactPerson,
		ContactEmail:        req.ContactEmail,
		ContractStart:       req.ContractStart,
		ContractEnd:         req.ContractEnd,
		Rating:              req.Rating,
	}
	if err := s.providers.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("provider_id", p.ID).Str("name", p.Name).Msg("training provider created")
	return p, nil
}

// GetProvider gets a provider
func (s *CatalogService) GetProvider(ctx context.Context, id string) (*domain.TrainingProvider, error) {
	return s.providers.GetByID(ctx, id)
}

// ListProviders lists all providers
func (s *CatalogService) ListProviders(ctx context.Context) ([]*domain.TrainingProvider, error) {
	return s.providers.List(ctx)
}

// UpdateProvider updates a provider
func (s *CatalogService) UpdateProvider(ctx context.Context, id string, req ProviderRequest) (*domain.TrainingProvider, error) {
	if err := validateContractWindow(req.ContractStart, req.ContractEnd); err != nil {
		return nil, err
	}
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.AccreditationNumber = req.AccreditationNumber
	p.AccreditationExpiry = req.AccreditationExpiry
	p.ContactPerson = req.ContactPerson
	p.ContactEmail = req.ContactEmail
	p.ContractStart = req.ContractStart
	p.ContractEnd = req.ContractEnd
	p.Rating = req.Rating
	if err := s.providers.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProvider deletes a provider
func (s *CatalogService) DeleteProvider(ctx context.Context, id string) error {
	return s.providers.Delete(ctx, id)
}

func validateContractWindow(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return errors.Validation(map[string]string{"contract_end": "must be after contract_start"})
	}
	return nil
}
