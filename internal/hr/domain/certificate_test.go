package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validIssueInput() IssueInput {
	return IssueInput{
		EmployeeID:        "emp-1",
		TrainingTypeID:    "type-1",
		CertificateNumber: "FS-202401-0001",
		IssueDate:         date(2024, time.January, 1),
	}
}

func TestIssue_DerivesExpiryFromValidity(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1", ValidityMonths: 12}

	cert, err := Issue(validIssueInput(), trainingType, date(2024, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, StatusActive, cert.Status)
	require.NotNil(t, cert.ExpiryDate)
	assert.Equal(t, date(2025, time.January, 1), *cert.ExpiryDate)
	assert.NotNil(t, cert.VerificationCode)
	assert.NotEmpty(t, cert.ID)
}

func TestIssue_ZeroValidityNeverExpires(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1", ValidityMonths: 0}

	cert, err := Issue(validIssueInput(), trainingType, date(2024, time.January, 1))
	require.NoError(t, err)
	assert.Nil(t, cert.ExpiryDate)
}

func TestIssue_ExplicitOverrideWins(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1", ValidityMonths: 12}
	override := date(2024, time.July, 1)

	in := validIssueInput()
	in.ExpiryOverride = &override

	cert, err := Issue(in, trainingType, date(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, override, *cert.ExpiryDate)
}

func TestIssue_ExpiryMustFollowIssueDate(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1", ValidityMonths: 12}
	override := date(2023, time.December, 1)

	in := validIssueInput()
	in.ExpiryOverride = &override

	_, err := Issue(in, trainingType, date(2024, time.January, 1))
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestIssue_RequiredFields(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1"}
	now := date(2024, time.January, 1)

	in := validIssueInput()
	in.EmployeeID = ""
	_, err := Issue(in, trainingType, now)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	in = validIssueInput()
	in.IssueDate = time.Time{}
	_, err = Issue(in, trainingType, now)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestRevoke(t *testing.T) {
	cert := &Certificate{ID: "c-1", Status: StatusActive}

	err := cert.Revoke("falsified attendance", "admin-1", date(2024, time.June, 1))
	require.NoError(t, err)

	assert.Equal(t, StatusRevoked, cert.Status)
	assert.Equal(t, "falsified attendance", *cert.RevocationReason)
	assert.Equal(t, "admin-1", *cert.RevokedBy)
	assert.NotNil(t, cert.RevocationDate)
}

func TestRevoke_RequiresReason(t *testing.T) {
	cert := &Certificate{ID: "c-1", Status: StatusActive}
	err := cert.Revoke("", "admin-1", date(2024, time.June, 1))
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, StatusActive, cert.Status)
}

func TestRevoke_TerminalStatesRejected(t *testing.T) {
	for _, status := range []LifecycleStatus{StatusRevoked, StatusRenewed, StatusCancelled} {
		cert := &Certificate{ID: "c-1", Status: status}
		err := cert.Revoke("reason", "admin-1", date(2024, time.June, 1))
		assert.True(t, errors.Is(err, errors.ErrInvalidState), "status %s", status)
	}
}

func TestSuspendAndReactivate(t *testing.T) {
	cert := &Certificate{ID: "c-1", Status: StatusActive}

	err := cert.Suspend(date(2024, time.June, 1), date(2024, time.June, 30), "pending investigation", date(2024, time.May, 31))
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, cert.Status)
	assert.NotNil(t, cert.SuspensionStart)

	require.NoError(t, cert.Reactivate())
	assert.Equal(t, StatusActive, cert.Status)
	assert.Nil(t, cert.SuspensionStart)
	assert.Nil(t, cert.SuspensionEnd)
	assert.Nil(t, cert.SuspensionReason)
}

func TestSuspend_WindowMustBeOrdered(t *testing.T) {
	cert := &Certificate{ID: "c-1", Status: StatusActive}
	err := cert.Suspend(date(2024, time.June, 30), date(2024, time.June, 1), "reason", date(2024, time.May, 31))
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSuspend_OnlyActive(t *testing.T) {
	cert := &Certificate{ID: "c-1", Status: StatusExpired}
	err := cert.Suspend(date(2024, time.June, 1), date(2024, time.June, 30), "reason", date(2024, time.May, 31))
	assert.True(t, errors.Is(err, errors.ErrInvalidState))
}

func TestReactivate_OnlySuspended(t *testing.T) {
	cert := &Certificate{ID: "c-1", Status: StatusActive}
	err := cert.Reactivate()
	assert.True(t, errors.Is(err, errors.ErrInvalidState))
}

func TestNewRenewal_LinksChain(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1", ValidityMonths: 12}
	now := date(2025, time.January, 15)

	old := &Certificate{
		ID:                "c-old",
		EmployeeID:        "emp-1",
		TrainingTypeID:    "type-1",
		Status:            StatusExpired,
		IsRenewable:       true,
		RenewalGeneration: 0,
	}

	next, err := NewRenewal(old, RenewalInput{
		CertificateNumber: "FS-202501-0002",
		IssueDate:         now,
	}, trainingType, now)
	require.NoError(t, err)

	// Old record is superseded, both directions linked
	assert.Equal(t, StatusRenewed, old.Status)
	assert.Equal(t, next.ID, *old.RenewedToID)
	assert.Equal(t, old.ID, *next.RenewedFromID)
	assert.Equal(t, 1, next.RenewalGeneration)
	assert.Equal(t, StatusActive, next.Status)
	assert.Equal(t, "emp-1", next.EmployeeID)
	assert.Equal(t, "type-1", next.TrainingTypeID)
	assert.True(t, next.IsRenewable)
}

func TestNewRenewal_GenerationIncrements(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1", ValidityMonths: 12}
	now := date(2025, time.January, 15)

	old := &Certificate{
		ID: "c-old", EmployeeID: "emp-1", TrainingTypeID: "type-1",
		Status: StatusActive, IsRenewable: true, RenewalGeneration: 3,
	}

	next, err := NewRenewal(old, RenewalInput{CertificateNumber: "N", IssueDate: now}, trainingType, now)
	require.NoError(t, err)
	assert.Equal(t, 4, next.RenewalGeneration)
}

func TestNewRenewal_NotRenewable(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1"}
	now := date(2025, time.January, 15)

	old := &Certificate{ID: "c-old", Status: StatusActive, IsRenewable: false}
	_, err := NewRenewal(old, RenewalInput{CertificateNumber: "N"}, trainingType, now)
	assert.True(t, errors.Is(err, errors.ErrInvalidState))
}

func TestNewRenewal_RevokedCannotBeRenewed(t *testing.T) {
	trainingType := &TrainingType{ID: "type-1"}
	now := date(2025, time.January, 15)

	old := &Certificate{ID: "c-old", Status: StatusRevoked, IsRenewable: true}
	_, err := NewRenewal(old, RenewalInput{CertificateNumber: "N"}, trainingType, now)
	assert.True(t, errors.Is(err, errors.ErrInvalidState))

	// The old record is untouched on failure
	assert.Equal(t, StatusRevoked, old.Status)
	assert.Nil(t, old.RenewedToID)
}

func TestVerifyAndAttempts(t *testing.T) {
	cert := &Certificate{ID: "c-1", Status: StatusActive}
	now := date(2024, time.June, 1)

	require.NoError(t, cert.Verify("admin-1", now))
	assert.True(t, cert.IsVerified)
	assert.Equal(t, "admin-1", *cert.VerifiedBy)

	assert.Error(t, (&Certificate{}).Verify("", now))

	cert.RecordVerificationAttempt(now)
	cert.RecordVerificationAttempt(now)
	assert.Equal(t, 2, cert.VerificationAttempts)
	assert.NotNil(t, cert.LastVerificationAt)
}

func TestFormatCertificateNumber(t *testing.T) {
	got := FormatCertificateNumber("FS", date(2024, time.March, 10), 7)
	assert.Equal(t, "FS-202403-0007", got)
}
