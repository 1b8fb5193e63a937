package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// Certificate is the central training record. One entity covers what the
// legacy system stored as Certificate, TrainingRecord and EmployeeCertificate.
type Certificate struct {
	ID             string  `db:"id" json:"id"`
	EmployeeID     string  `db:"employee_id" json:"employee_id"`
	TrainingTypeID string  `db:"training_type_id" json:"training_type_id"`
	ProviderID     *string `db:"provider_id" json:"provider_id,omitempty"`

	CertificateNumber string  `db:"certificate_number" json:"certificate_number"`
	Issuer            *string `db:"issuer" json:"issuer,omitempty"`

	// Dates. ExpiryDate is issue_date + validity_months unless overridden;
	// nil means the certificate never expires.
	IssueDate      time.Time  `db:"issue_date" json:"issue_date"`
	ValidFrom      *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ExpiryDate     *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	CompletionDate *time.Time `db:"completion_date" json:"completion_date,omitempty"`

	Score         *float64 `db:"score" json:"score,omitempty"`
	PassingScore  *float64 `db:"passing_score" json:"passing_score,omitempty"`
	TrainingHours *float64 `db:"training_hours" json:"training_hours,omitempty"`
	CostCents     *int64   `db:"cost_cents" json:"cost_cents,omitempty"`

	Status LifecycleStatus `db:"status" json:"status"`

	// Verification fields
	IsVerified           bool       `db:"is_verified" json:"is_verified"`
	VerifiedBy           *string    `db:"verified_by" json:"verified_by,omitempty"`
	VerificationDate     *time.Time `db:"verification_date" json:"verification_date,omitempty"`
	VerificationCode     *string    `db:"verification_code" json:"verification_code,omitempty"`
	VerificationAttempts int        `db:"verification_attempts" json:"verification_attempts"`
	LastVerificationAt   *time.Time `db:"last_verification_at" json:"last_verification_at,omitempty"`

	// Revocation fields
	RevokedBy        *string    `db:"revoked_by" json:"revoked_by,omitempty"`
	RevocationReason *string    `db:"revocation_reason" json:"revocation_reason,omitempty"`
	RevocationDate   *time.Time `db:"revocation_date" json:"revocation_date,omitempty"`

	// Suspension window
	SuspensionStart  *time.Time `db:"suspension_start" json:"suspension_start,omitempty"`
	SuspensionEnd    *time.Time `db:"suspension_end" json:"suspension_end,omitempty"`
	SuspensionReason *string    `db:"suspension_reason" json:"suspension_reason,omitempty"`

	// Renewal linkage
	IsRenewable       bool    `db:"is_renewable" json:"is_renewable"`
	RenewedFromID     *string `db:"renewed_from_id" json:"renewed_from_id,omitempty"`
	RenewedToID       *string `db:"renewed_to_id" json:"renewed_to_id,omitempty"`
	RenewalGeneration int     `db:"renewal_generation" json:"renewal_generation"`

	Notes *string `db:"notes" json:"notes,omitempty"`

	// Version is the optimistic-concurrency counter; every mutating update
	// must match the stored value.
	Version int `db:"version" json:"version"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
	CreatedBy *string    `db:"created_by" json:"created_by,omitempty"`
	UpdatedBy *string    `db:"updated_by" json:"updated_by,omitempty"`

	// Joined fields
	EmployeeName     *string `db:"employee_name" json:"employee_name,omitempty"`
	TrainingTypeName *string `db:"training_type_name" json:"training_type_name,omitempty"`
	TrainingTypeCode *string `db:"training_type_code" json:"training_type_code,omitempty"`
	DepartmentID     *string `db:"department_id" json:"department_id,omitempty"`
}

// IssueInput holds caller-supplied fields for issuing a certificate
type IssueInput struct {
	EmployeeID        string
	TrainingTypeID    string
	ProviderID        *string
	CertificateNumber string
	Issuer            *string
	IssueDate         time.Time
	ValidFrom         *time.Time
	ExpiryOverride    *time.Time
	Score             *float64
	PassingScore      *float64
	TrainingHours     *float64
	CostCents         *int64
	Notes             *string
	IsRenewable       bool
	CreatedBy         *string
}

// Issue creates a new active certificate. Expiry derives from the training
// type's validity_months unless an explicit override is given; a validity of
// zero months produces a non-expiring certificate.
func Issue(in IssueInput, trainingType *TrainingType, now time.Time) (*Certificate, error) {
	if in.EmployeeID == "" {
		return nil, errors.Validation(map[string]string{"employee_id": "this field is required"})
	}
	if in.TrainingTypeID == "" {
		return nil, errors.Validation(map[string]string{"training_type_id": "this field is required"})
	}
	if in.IssueDate.IsZero() {
		return nil, errors.Validation(map[string]string{"issue_date": "this field is required"})
	}

	expiry := in.ExpiryOverride
	if expiry == nil && trainingType != nil && trainingType.ValidityMonths > 0 {
		e := in.IssueDate.AddDate(0, trainingType.ValidityMonths, 0)
		expiry = &e
	}
	if expiry != nil && !expiry.After(in.IssueDate) {
		return nil, errors.Validation(map[string]string{"expiry_date": "must be after issue date"})
	}

	cert := &Certificate{
		ID:                uuid.New().String(),
		EmployeeID:        in.EmployeeID,
		TrainingTypeID:    in.TrainingTypeID,
		ProviderID:        in.ProviderID,
		CertificateNumber: in.CertificateNumber,
		Issuer:            in.Issuer,
		IssueDate:         in.IssueDate,
		ValidFrom:         in.ValidFrom,
		ExpiryDate:        expiry,
		Score:             in.Score,
		PassingScore:      in.PassingScore,
		TrainingHours:     in.TrainingHours,
		CostCents:         in.CostCents,
		Status:            StatusActive,
		IsRenewable:       in.IsRenewable,
		Notes:             in.Notes,
		CreatedBy:         in.CreatedBy,
	}

	code := uuid.New().String()
	cert.VerificationCode = &code

	return cert, nil
}

// Verify records a successful verification by an actor. Lifecycle status is
// unchanged.
func (c *Certificate) Verify(actorID string, now time.Time) error {
	if actorID == "" {
		return errors.Validation(map[string]string{"actor_id": "this field is required"})
	}
	c.IsVerified = true
	c.VerifiedBy = &actorID
	t := now
	c.VerificationDate = &t
	return nil
}

// RecordVerificationAttempt counts a verification-code lookup, successful or
// not. Tracked for abuse visibility; no limiting is enforced.
func (c *Certificate) RecordVerificationAttempt(now time.Time) {
	c.VerificationAttempts++
	t := now
	c.LastVerificationAt = &t
}

// Revoke moves the certificate into the terminal revoked state
func (c *Certificate) Revoke(reason, actorID string, now time.Time) error {
	if reason == "" {
		return errors.Validation(map[string]string{"reason": "this field is required"})
	}
	if c.Status.IsTerminal() {
		return errors.InvalidState(fmt.Sprintf("cannot revoke a %s certificate", c.Status))
	}
	c.Status = StatusRevoked
	c.RevokedBy = &actorID
	c.RevocationReason = &reason
	t := now
	c.RevocationDate = &t
	return nil
}

// Suspend moves an active certificate into the suspended state for the given
// window
func (c *Certificate) Suspend(start, end time.Time, reason string, now time.Time) error {
	if c.Status != StatusActive {
		return errors.InvalidState(fmt.Sprintf("only active certificates can be suspended, current status is %s", c.Status))
	}
	if !end.After(start) {
		return errors.Validation(map[string]string{"suspension_end": "must be after suspension_start"})
	}
	c.Status = StatusSuspended
	c.SuspensionStart = &start
	c.SuspensionEnd = &end
	c.SuspensionReason = &reason
	return nil
}

// Reactivate returns a suspended certificate to active
func (c *Certificate) Reactivate() error {
	if c.Status != StatusSuspended {
		return errors.InvalidState(fmt.Sprintf("only suspended certificates can be reactivated, current status is %s", c.Status))
	}
	c.Status = StatusActive
	c.SuspensionStart = nil
	c.SuspensionEnd = nil
	c.SuspensionReason = nil
	return nil
}

// RenewalInput holds caller-supplied fields for the replacement certificate
type RenewalInput struct {
	CertificateNumber string // optional; generated from the type code when empty
	Issuer            *string
	ProviderID        *string
	IssueDate         time.Time
	ExpiryOverride    *time.Time
	Score             *float64
	TrainingHours     *float64
	CostCents         *int64
	Notes             *string
	CreatedBy         *string
}

// NewRenewal creates the successor certificate and links the chain: the old
// record becomes renewed with a forward pointer, the new record carries the
// back pointer and the incremented generation.
func NewRenewal(old *Certificate, in RenewalInput, trainingType *TrainingType, now time.Time) (*Certificate, error) {
	if !old.IsRenewable {
		return nil, errors.InvalidState("certificate is not renewable")
	}
	if !old.Status.IsRenewableFrom() {
		return nil, errors.InvalidState(fmt.Sprintf("cannot renew a %s certificate", old.Status))
	}

	providerID := in.ProviderID
	if providerID == nil {
		providerID = old.ProviderID
	}

	issueDate := in.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}

	next, err := Issue(IssueInput{
		EmployeeID:        old.EmployeeID,
		TrainingTypeID:    old.TrainingTypeID,
		ProviderID:        providerID,
		CertificateNumber: in.CertificateNumber,
		Issuer:            in.Issuer,
		IssueDate:         issueDate,
		ExpiryOverride:    in.ExpiryOverride,
		Score:             in.Score,
		TrainingHours:     in.TrainingHours,
		CostCents:         in.CostCents,
		Notes:             in.Notes,
		IsRenewable:       true,
		CreatedBy:         in.CreatedBy,
	}, trainingType, now)
	if err != nil {
		return nil, err
	}

	next.RenewalGeneration = old.RenewalGeneration + 1
	next.RenewedFromID = &old.ID

	old.Status = StatusRenewed
	old.RenewedToID = &next.ID

	return next, nil
}

// CertificateNumber formats a generated number as {TYPE_CODE}-{YYYYMM}-{SEQ}
func FormatCertificateNumber(typeCode string, issued time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%04d", typeCode, issued.Format("200601"), sequence)
}
