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

// maxChainLength bounds renewal chain walks
const maxChainLength = 1000

// maxNumberAttempts bounds retries when a generated certificate number
// collides with a concurrent issuance.
const maxNumberAttempts = 3

// CertificateService orchestrates the certificate lifecycle
type CertificateService struct {
	certs     *repository.CertificateRepository
	employees *repository.EmployeeRepository
	types     *repository.TrainingTypeRepository
	emitter   *events.Emitter
	clock     clock.Clock
	logger    *logger.Logger
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certs *repository.CertificateRepository,
	employees *repository.EmployeeRepository,
	types *repository.TrainingTypeRepository,
	emitter *events.Emitter,
	clk clock.Clock,
	log *logger.Logger,
) *CertificateService {
	return &CertificateService{
		certs:     certs,
		employees: employees,
		types:     types,
		emitter:   emitter,
		clock:     clk,
		logger:    log.WithComponent("certificate-service"),
	}
}

// IssueRequest is the payload for issuing a certificate
type IssueRequest struct {
	EmployeeID        string     `json:"employee_id" validate:"required,uuid"`
	TrainingTypeID    string     `json:"training_type_id" validate:"required,uuid"`
	ProviderID        *string    `json:"provider_id" validate:"omitempty,uuid"`
	CertificateNumber string     `json:"certificate_number"`
	Issuer            *string    `json:"issuer"`
	IssueDate         time.Time  `json:"issue_date" validate:"required"`
	ValidFrom         *time.Time `json:"valid_from"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	CompletionDate    *time.Time `json:"completion_date"`
	Score             *float64   `json:"score" validate:"omitempty,gte=0,lte=100"`
	PassingScore      *float64   `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TrainingHours     *float64   `json:"training_hours" validate:"omitempty,gte=0"`
	CostCents         *int64     `json:"cost_cents" validate:"omitempty,gte=0"`
	Notes             *string    `json:"notes"`
	IsRenewable       *bool      `json:"is_renewable"`
}

// Issue creates a new certificate for an employee. The certificate number is
// generated as {TYPE_CODE}-{YYYYMM}-{SEQ} when the caller leaves it empty.
func (s *CertificateService) Issue(ctx context.Context, req IssueRequest) (*domain.Certificate, error) {
	employee, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee.EmploymentStatus == domain.EmploymentTerminated {
		return nil, errors.InvalidState("cannot issue a certificate to a terminated employee")
	}

	trainingType, err := s.types.GetByID(ctx, req.TrainingTypeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	generated := req.CertificateNumber == ""

	isRenewable := trainingType.IsRecurrent
	if req.IsRenewable != nil {
		isRenewable = *req.IsRenewable
	}

	actorID := httputil.GetActorID(ctx)
	var createdBy *string
	if actorID != "" {
		createdBy = &actorID
	}

	// Generated numbers can race under concurrent issuance of the same type
	// and month; the unique index rejects the loser, who picks the next
	// sequence and retries.
	var cert *domain.Certificate
	for attempt := 1; ; attempt++ {
		number := req.CertificateNumber
		if generated {
			number, err = s.generateNumber(ctx, trainingType.Code, req.IssueDate)
			if err != nil {
				return nil, err
			}
		}

		cert, err = domain.Issue(domain.IssueInput{
			EmployeeID:        req.EmployeeID,
			TrainingTypeID:    req.TrainingTypeID,
			ProviderID:        req.ProviderID,
			CertificateNumber: number,
			Issuer:            req.Issuer,
			IssueDate:         req.IssueDate,
			ValidFrom:         req.ValidFrom,
			ExpiryOverride:    req.ExpiryDate,
			Score:             req.Score,
			PassingScore:      req.PassingScore,
			TrainingHours:     req.TrainingHours,
			CostCents:         req.CostCents,
			Notes:             req.Notes,
			IsRenewable:       isRenewable,
			CreatedBy:         createdBy,
		}, trainingType, now)
		if err != nil {
			return nil, err
		}
		cert.CompletionDate = req.CompletionDate

		err = s.certs.Create(ctx, cert)
		if err == nil {
			break
		}
		if generated && errors.Is(err, errors.ErrConflict) && attempt < maxNumberAttempts {
			s.logger.Warn().Str("certificate_number", number).Msg("generated certificate number collided, retrying")
			continue
		}
		return nil, err
	}

	s.logger.Info().
		Str("certificate_id", cert.ID).
		Str("certificate_number", cert.CertificateNumber).
		Str("employee_id", cert.EmployeeID).
		Msg("certificate issued")

	s.emitter.Emit(ctx, messaging.EventCertificateIssued, certificatePayload(cert, actorID, ""))

	return cert, nil
}

// GetByID returns a certificate together with its derived compliance status
func (s *CertificateService) GetByID(ctx context.Context, id string) (*domain.Certificate, domain.ComplianceStatus, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	status, err := s.evaluate(ctx, cert)
	if err != nil {
		return nil, "", err
	}
	return cert, status, nil
}

// List lists certificates matching the filter
func (s *CertificateService) List(ctx context.Context, filter repository.CertificateFilter) ([]*domain.Certificate, error) {
	return s.certs.List(ctx, filter)
}

// UpdateRequest is the payload for updating certificate metadata. Lifecycle
// state and the date fields driving compliance can only move through the
// dedicated actions.
type UpdateRequest struct {
	Issuer         *string    `json:"issuer"`
	ProviderID     *string    `json:"provider_id" validate:"omitempty,uuid"`
	CompletionDate *time.Time `json:"completion_date"`
	Score          *float64   `json:"score" validate:"omitempty,gte=0,lte=100"`
	PassingScore   *float64   `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	TrainingHours  *float64   `json:"training_hours" validate:"omitempty,gte=0"`
	CostCents      *int64     `json:"cost_cents" validate:"omitempty,gte=0"`
	Notes          *string    `json:"notes"`
}

// Update replaces a certificate's metadata fields
func (s *CertificateService) Update(ctx context.Context, id string, req UpdateRequest) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actorID := httputil.GetActorID(ctx)
	var updatedBy *string
	if actorID != "" {
		updatedBy = &actorID
	}

	cert.Issuer = req.Issuer
	cert.ProviderID = req.ProviderID
	cert.CompletionDate = req.CompletionDate
	cert.Score = req.Score
	cert.PassingScore = req.PassingScore
	cert.TrainingHours = req.TrainingHours
	cert.CostCents = req.CostCents
	cert.Notes = req.Notes
	cert.UpdatedBy = updatedBy

	if err := s.certs.Update(ctx, cert, cert.Version); err != nil {
		return nil, err
	}
	return cert, nil
}

// Verify records a successful manual verification by the acting user
func (s *CertificateService) Verify(ctx context.Context, id string) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actorID := httputil.GetActorID(ctx)
	if err := cert.Verify(actorID, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.certs.Update(ctx, cert, cert.Version); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, messaging.EventCertificateVerified, certificatePayload(cert, actorID, ""))
	return cert, nil
}

// VerificationResult is what a verification-code lookup returns. It exposes
// enough to confirm authenticity without leaking the full record.
type VerificationResult struct {
	CertificateNumber string                  `json:"certificate_number"`
	EmployeeName      string                  `json:"employee_name"`
	TrainingTypeName  string                  `json:"training_type_name"`
	Status            domain.LifecycleStatus  `json:"status"`
	ComplianceStatus  domain.ComplianceStatus `json:"compliance_status"`
	IssueDate         time.Time               `json:"issue_date"`
	ExpiryDate        *time.Time              `json:"expiry_date,omitempty"`
	IsVerified        bool                    `json:"is_verified"`
}

// VerifyByCode resolves a verification code to a certificate summary. Every
// lookup is counted on the certificate, found or not found is reported to
// the caller either way.
func (s *CertificateService) VerifyByCode(ctx context.Context, code string) (*VerificationResult, error) {
	cert, err := s.certs.GetByVerificationCode(ctx, code)
	if err != nil {
		// Misses have no row to count against, so they are recorded as an
		// audit event instead.
		if errors.Is(err, errors.ErrNotFound) {
			s.logger.Info().Str("code", code).Msg("verification code lookup missed")
			s.emitter.Emit(ctx, messaging.EventVerificationFailed, messaging.VerificationFailedEvent{
				Code:    code,
				ActorID: httputil.GetActorID(ctx),
			})
		}
		return nil, err
	}

	cert.RecordVerificationAttempt(s.clock.Now())
	if err := s.certs.Update(ctx, cert, cert.Version); err != nil {
		// Attempt counting must not break the lookup
		s.logger.Warn().Err(err).Str("certificate_id", cert.ID).Msg("failed to record verification attempt")
	}

	employee, err := s.employees.GetByID(ctx, cert.EmployeeID)
	if err != nil {
		return nil, err
	}
	trainingType, err := s.types.GetByID(ctx, cert.TrainingTypeID)
	if err != nil {
		return nil, err
	}

	return &VerificationResult{
		CertificateNumber: cert.CertificateNumber,
		EmployeeName:      employee.FullName(),
		TrainingTypeName:  trainingType.Name,
		Status:            cert.Status,
		ComplianceStatus:  compliance.EvaluateCertificate(cert, trainingType.EffectiveWarningDays(), s.clock.Now()),
		IssueDate:         cert.IssueDate,
		ExpiryDate:        cert.ExpiryDate,
		IsVerified:        cert.IsVerified,
	}, nil
}

// RevokeRequest is the payload for revoking a certificate
type RevokeRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Revoke moves a certificate to the terminal revoked state
func (s *CertificateService) Revoke(ctx context.Context, id string, req RevokeRequest) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actorID := httputil.GetActorID(ctx)
	if err := cert.Revoke(req.Reason, actorID, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.certs.Update(ctx, cert, cert.Version); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("certificate_id", cert.ID).
		Str("reason", req.Reason).
		Msg("certificate revoked")

	s.emitter.Emit(ctx, messaging.EventCertificateRevoked, certificatePayload(cert, actorID, req.Reason))
	return cert, nil
}

// SuspendRequest is the payload for suspending a certificate
type SuspendRequest struct {
	SuspensionStart time.Time `json:"suspension_start" validate:"required"`
	SuspensionEnd   time.Time `json:"suspension_end" validate:"required,gtfield=SuspensionStart"`
	Reason          string    `json:"reason" validate:"required"`
}

// Suspend places an active certificate into a suspension window
func (s *CertificateService) Suspend(ctx context.Context, id string, req SuspendRequest) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cert.Suspend(req.SuspensionStart, req.SuspensionEnd, req.Reason, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.certs.Update(ctx, cert, cert.Version); err != nil {
		return nil, err
	}

	actorID := httputil.GetActorID(ctx)
	s.emitter.Emit(ctx, messaging.EventCertificateSuspended, certificatePayload(cert, actorID, req.Reason))
	return cert, nil
}

// Reactivate lifts a suspension
func (s *CertificateService) Reactivate(ctx context.Context, id string) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cert.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.certs.Update(ctx, cert, cert.Version); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, messaging.EventCertificateReactivated, certificatePayload(cert, httputil.GetActorID(ctx), ""))
	return cert, nil
}

// RenewRequest is the payload for renewing a certificate
type RenewRequest struct {
	CertificateNumber string     `json:"certificate_number"`
	Issuer            *string    `json:"issuer"`
	ProviderID        *string    `json:"provider_id" validate:"omitempty,uuid"`
	IssueDate         time.Time  `json:"issue_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	Score             *float64   `json:"score" validate:"omitempty,gte=0,lte=100"`
	TrainingHours     *float64   `json:"training_hours" validate:"omitempty,gte=0"`
	CostCents         *int64     `json:"cost_cents" validate:"omitempty,gte=0"`
	Notes             *string    `json:"notes"`
}

// Renew issues a replacement certificate and links it to the old one. The
// old record is superseded, not deleted; history stays walkable through the
// chain pointers.
func (s *CertificateService) Renew(ctx context.Context, id string, req RenewRequest) (*domain.Certificate, error) {
	old, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	trainingType, err := s.types.GetByID(ctx, old.TrainingTypeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	generated := req.CertificateNumber == ""

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}

	actorID := httputil.GetActorID(ctx)
	var createdBy *string
	if actorID != "" {
		createdBy = &actorID
	}

	// The insert of the successor and the version-guarded supersede of the
	// old row commit together, so a concurrent renewal has exactly one winner
	// and the loser leaves no orphan successor behind.
	var next *domain.Certificate
	for attempt := 1; ; attempt++ {
		number := req.CertificateNumber
		if generated {
			number, err = s.generateNumber(ctx, trainingType.Code, issueDate)
			if err != nil {
				return nil, err
			}
		}

		oldVersion := old.Version
		next, err = domain.NewRenewal(old, domain.RenewalInput{
			CertificateNumber: number,
			Issuer:            req.Issuer,
			ProviderID:        req.ProviderID,
			IssueDate:         req.IssueDate,
			ExpiryOverride:    req.ExpiryDate,
			Score:             req.Score,
			TrainingHours:     req.TrainingHours,
			CostCents:         req.CostCents,
			Notes:             req.Notes,
			CreatedBy:         createdBy,
		}, trainingType, now)
		if err != nil {
			return nil, err
		}

		err = s.certs.CreateRenewal(ctx, next, old, oldVersion)
		if err == nil {
			break
		}
		if generated && errors.Is(err, errors.ErrConflict) && attempt < maxNumberAttempts {
			s.logger.Warn().Str("certificate_number", number).Msg("generated certificate number collided, retrying")
			// NewRenewal mutated the in-memory old record; reload it before
			// the next attempt.
			old, err = s.certs.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			continue
		}
		return nil, err
	}

	s.logger.Info().
		Str("certificate_id", next.ID).
		Str("renewed_from_id", old.ID).
		Int("generation", next.RenewalGeneration).
		Msg("certificate renewed")

	s.emitter.Emit(ctx, messaging.EventCertificateRenewed, certificatePayload(next, actorID, ""))
	return next, nil
}

// Chain returns the full renewal chain containing the given certificate,
// newest first.
func (s *CertificateService) Chain(ctx context.Context, id string) ([]*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Walk forward to the newest member first. The walk is bounded so a
	// corrupted link can never loop.
	head := cert
	for steps := 0; head.RenewedToID != nil; steps++ {
		if steps > maxChainLength {
			return nil, errors.Internal("renewal chain walk exceeded bound, possible cycle")
		}
		next, err := s.certs.GetByID(ctx, *head.RenewedToID)
		if err != nil {
			return nil, err
		}
		head = next
	}

	return s.certs.ChainFrom(ctx, head.ID)
}

// Delete soft-deletes a certificate
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	if err := s.certs.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("certificate_id", id).Msg("certificate deleted")
	return nil
}

func (s *CertificateService) generateNumber(ctx context.Context, typeCode string, issueDate time.Time) (string, error) {
	prefix := typeCode + "-" + issueDate.Format("200601") + "-"
	seq, err := s.certs.NextSequence(ctx, prefix)
	if err != nil {
		return "", err
	}
	return domain.FormatCertificateNumber(typeCode, issueDate, seq), nil
}

func (s *CertificateService) evaluate(ctx context.Context, cert *domain.Certificate) (domain.ComplianceStatus, error) {
	trainingType, err := s.types.GetByID(ctx, cert.TrainingTypeID)
	if err != nil {
		return "", err
	}
	return compliance.EvaluateCertificate(cert, trainingType.EffectiveWarningDays(), s.clock.Now()), nil
}

func certificatePayload(c *domain.Certificate, actorID, reason string) messaging.CertificateEvent {
	return messaging.CertificateEvent{
		CertificateID:     c.ID,
		CertificateNumber: c.CertificateNumber,
		EmployeeID:        c.EmployeeID,
		TrainingTypeID:    c.TrainingTypeID,
		Status:            string(c.Status),
		ActorID:           actorID,
		Reason:            reason,
		ExpiryDate:        c.ExpiryDate,
	}
}
