package service

import (
	"context"
	"time"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/compliance"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/events"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/clock"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/messaging"
)

// EmployeeService manages employees and their compliance view
type EmployeeService struct {
	employees *repository.EmployeeRepository
	certs     *repository.CertificateRepository
	types     *repository.TrainingTypeRepository
	emitter   *events.Emitter
	clock     clock.Clock
	logger    *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employees *repository.EmployeeRepository,
	certs *repository.CertificateRepository,
	types *repository.TrainingTypeRepository,
	emitter *events.Emitter,
	clk clock.Clock,
	log *logger.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		certs:     certs,
		types:     types,
		emitter:   emitter,
		clock:     clk,
		logger:    log.WithComponent("employee-service"),
	}
}

// EmployeeRequest is the payload for creating or updating an employee
type EmployeeRequest struct {
	EmployeeNumber        *string    `json:"employee_number"`
	FirstName             string     `json:"first_name" validate:"required"`
	LastName              string     `json:"last_name" validate:"required"`
	Email                 *string    `json:"email" validate:"omitempty,email"`
	Phone                 *string    `json:"phone"`
	DepartmentID          *string    `json:"department_id" validate:"omitempty,uuid"`
	Position              *string    `json:"position"`
	HireDate              time.Time  `json:"hire_date" validate:"required"`
	EmploymentStatus      string     `json:"employment_status" validate:"omitempty,oneof=active inactive terminated"`
	TerminationDate       *time.Time `json:"termination_date"`
	BackgroundCheckDate   *time.Time `json:"background_check_date"`
	BackgroundCheckStatus *string    `json:"background_check_status" validate:"omitempty,oneof=pending in_progress cleared flagged"`
	BackgroundCheckNotes  *string    `json:"background_check_notes"`
}

// Create creates a new employee
func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*domain.Employee, error) {
	actorID := httputil.GetActorID(ctx)
	var createdBy *string
	if actorID != "" {
		createdBy = &actorID
	}

	employee := &domain.Employee{
		EmployeeNumber:        req.EmployeeNumber,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		DepartmentID:          req.DepartmentID,
		Position:              req.Position,
		HireDate:              req.HireDate,
		EmploymentStatus:      req.EmploymentStatus,
		TerminationDate:       req.TerminationDate,
		BackgroundCheckDate:   req.BackgroundCheckDate,
		BackgroundCheckStatus: req.BackgroundCheckStatus,
		BackgroundCheckNotes:  req.BackgroundCheckNotes,
		CreatedBy:             createdBy,
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.Info().Str("employee_id", employee.ID).Msg("employee created")
	s.emitter.Emit(ctx, messaging.EventEmployeeCreated, employeePayload(employee, actorID))

	return employee, nil
}

// GetByID gets an employee
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// List lists employees matching the filter
func (s *EmployeeService) List(ctx context.Context, filter repository.EmployeeFilter) ([]*domain.Employee, error) {
	return s.employees.List(ctx, filter)
}

// Update updates an employee. Terminating an employee leaves their
// certificates untouched; compliance reporting excludes terminated staff.
func (s *EmployeeService) Update(ctx context.Context, id string, req EmployeeRequest) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.EmploymentStatus == domain.EmploymentTerminated && req.TerminationDate == nil {
		return nil, errors.Validation(map[string]string{"termination_date": "required when terminating an employee"})
	}

	actorID := httputil.GetActorID(ctx)
	var updatedBy *string
	if actorID != "" {
		updatedBy = &actorID
	}

	employee.EmployeeNumber = req.EmployeeNumber
	employee.FirstName = req.FirstName
	employee.LastName = req.LastName
	employee.Email = req.Email
	employee.Phone = req.Phone
	employee.DepartmentID = req.DepartmentID
	employee.Position = req.Position
	employee.HireDate = req.HireDate
	if req.EmploymentStatus != "" {
		employee.EmploymentStatus = req.EmploymentStatus
	}
	employee.TerminationDate = req.TerminationDate
	employee.BackgroundCheckDate = req.BackgroundCheckDate
	employee.BackgroundCheckStatus = req.BackgroundCheckStatus
	employee.BackgroundCheckNotes = req.BackgroundCheckNotes
	employee.UpdatedBy = updatedBy

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, messaging.EventEmployeeUpdated, employeePayload(employee, actorID))
	return employee, nil
}

// Delete soft-deletes an employee. Blocked while the employee still holds
// certificates; those must be revoked or deleted first.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.employees.CountCertificates(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.Conflict("employee still holds certificates")
	}

	if err := s.employees.SoftDelete(ctx, id); err != nil {
		return err
	}

	actorID := httputil.GetActorID(ctx)
	s.logger.Info().Str("employee_id", id).Msg("employee deleted")
	s.emitter.Emit(ctx, messaging.EventEmployeeDeleted, employeePayload(employee, actorID))
	return nil
}

// ComplianceView is the per-employee compliance answer with certificate detail
type ComplianceView struct {
	Employee     *domain.Employee          `json:"employee"`
	Rollup       compliance.EmployeeRollup `json:"rollup"`
	Certificates []CertificateStatusView   `json:"certificates"`
}

// CertificateStatusView pairs a certificate with its derived status
type CertificateStatusView struct {
	Certificate      *domain.Certificate     `json:"certificate"`
	ComplianceStatus domain.ComplianceStatus `json:"compliance_status"`
}

// Compliance answers "is this employee compliant right now": every mandatory
// training type must be covered by at least one compliant certificate.
func (s *EmployeeService) Compliance(ctx context.Context, id string) (*ComplianceView, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	certs, err := s.certs.List(ctx, repository.CertificateFilter{EmployeeID: &id})
	if err != nil {
		return nil, err
	}

	mandatoryIDs, err := s.types.ListMandatoryIDs(ctx)
	if err != nil {
		return nil, err
	}

	warningDays, err := s.types.WarningDaysByType(ctx)
	if err != nil {
		return nil, err
	}
	warnFor := func(typeID string) int {
		if days, ok := warningDays[typeID]; ok && days > 0 {
			return days
		}
		return domain.DefaultWarningDays
	}

	now := s.clock.Now()
	view := &ComplianceView{
		Employee: employee,
		Rollup:   compliance.RollupEmployee(id, certs, mandatoryIDs, warnFor, now),
	}
	for _, c := range certs {
		view.Certificates = append(view.Certificates, CertificateStatusView{
			Certificate:      c,
			ComplianceStatus: compliance.EvaluateCertificate(c, warnFor(c.TrainingTypeID), now),
		})
	}

	return view, nil
}

func employeePayload(e *domain.Employee, actorID string) messaging.EmployeeEvent {
	payload := messaging.EmployeeEvent{
		EmployeeID: e.ID,
		FullName:   e.FullName(),
		ActorID:    actorID,
	}
	if e.EmployeeNumber != nil {
		payload.EmployeeNumber = *e.EmployeeNumber
	}
	if e.DepartmentID != nil {
		payload.DepartmentID = *e.DepartmentID
	}
	return payload
}
