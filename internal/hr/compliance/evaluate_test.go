package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/testutil"
)

func TestEvaluate_DateDriven(t *testing.T) {
	// Issued 2024-01-01 with 12 months validity
	expiry := testutil.Date(2025, 1, 1)

	tests := []struct {
		name string
		now  time.Time
		want domain.ComplianceStatus
	}{
		{"well before expiry", testutil.Date(2024, 6, 1), domain.ComplianceCompliant},
		{"inside warning window", testutil.Date(2024, 12, 15), domain.ComplianceExpiringSoon},
		{"on warning boundary", testutil.Date(2024, 12, 2), domain.ComplianceExpiringSoon},
		{"day before warning boundary", testutil.Date(2024, 12, 1), domain.ComplianceCompliant},
		{"on expiry day", testutil.Date(2025, 1, 1), domain.ComplianceExpiringSoon},
		{"day after expiry", testutil.Date(2025, 1, 2), domain.ComplianceExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(EvaluationInput{
				Status:      domain.StatusActive,
				ExpiryDate:  &expiry,
				WarningDays: 30,
			}, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_TimeOfDayIgnored(t *testing.T) {
	expiry := testutil.Date(2025, 1, 1)

	// 23:59 on expiry day is still not expired
	now := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
	got := Evaluate(EvaluationInput{Status: domain.StatusActive, ExpiryDate: &expiry, WarningDays: 30}, now)
	assert.NotEqual(t, domain.ComplianceExpired, got)

	// 00:01 the next day is
	now = time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC)
	got = Evaluate(EvaluationInput{Status: domain.StatusActive, ExpiryDate: &expiry, WarningDays: 30}, now)
	assert.Equal(t, domain.ComplianceExpired, got)
}

func TestEvaluate_LifecycleOverridesDates(t *testing.T) {
	// A healthy expiry date must not rescue revoked or cancelled certificates
	expiry := testutil.Date(2030, 1, 1)
	now := testutil.Date(2024, 6, 1)

	assert.Equal(t, domain.ComplianceNonCompliant,
		Evaluate(EvaluationInput{Status: domain.StatusRevoked, ExpiryDate: &expiry, WarningDays: 30}, now))
	assert.Equal(t, domain.ComplianceNonCompliant,
		Evaluate(EvaluationInput{Status: domain.StatusCancelled, ExpiryDate: &expiry, WarningDays: 30}, now))
	assert.Equal(t, domain.ComplianceExpired,
		Evaluate(EvaluationInput{Status: domain.StatusRenewed, ExpiryDate: &expiry, WarningDays: 30}, now))
	assert.Equal(t, domain.CompliancePending,
		Evaluate(EvaluationInput{Status: domain.StatusDraft, ExpiryDate: &expiry, WarningDays: 30}, now))
}

func TestEvaluate_SuspensionWindow(t *testing.T) {
	expiry := testutil.Date(2030, 1, 1)
	start := testutil.Date(2024, 6, 1)
	end := testutil.Date(2024, 6, 30)

	in := EvaluationInput{
		Status:          domain.StatusSuspended,
		ExpiryDate:      &expiry,
		WarningDays:     30,
		SuspensionStart: &start,
		SuspensionEnd:   &end,
	}

	assert.Equal(t, domain.ComplianceSuspended, Evaluate(in, testutil.Date(2024, 6, 15)))
	assert.Equal(t, domain.ComplianceSuspended, Evaluate(in, testutil.Date(2024, 6, 1)))
	assert.Equal(t, domain.ComplianceSuspended, Evaluate(in, testutil.Date(2024, 6, 30)))

	// Outside the window the date rules take over
	assert.Equal(t, domain.ComplianceCompliant, Evaluate(in, testutil.Date(2024, 7, 15)))
	assert.Equal(t, domain.ComplianceCompliant, Evaluate(in, testutil.Date(2024, 5, 15)))
}

func TestEvaluate_NoExpiryNeverExpires(t *testing.T) {
	got := Evaluate(EvaluationInput{Status: domain.StatusActive, WarningDays: 30}, testutil.Date(2099, 12, 31))
	assert.Equal(t, domain.ComplianceCompliant, got)
}

func TestEvaluate_DefaultWarningDays(t *testing.T) {
	expiry := testutil.Date(2025, 1, 1)

	// Zero warning days falls back to the 30-day default
	got := Evaluate(EvaluationInput{Status: domain.StatusActive, ExpiryDate: &expiry}, testutil.Date(2024, 12, 15))
	assert.Equal(t, domain.ComplianceExpiringSoon, got)
}

func TestEvaluate_PureAndIdempotent(t *testing.T) {
	expiry := testutil.Date(2025, 1, 1)
	in := EvaluationInput{Status: domain.StatusActive, ExpiryDate: &expiry, WarningDays: 30}
	now := testutil.Date(2024, 12, 15)

	first := Evaluate(in, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(in, now))
	}
	// Input is untouched
	assert.Equal(t, domain.StatusActive, in.Status)
	assert.Equal(t, testutil.Date(2025, 1, 1), *in.ExpiryDate)
}

func TestNextLifecycle(t *testing.T) {
	expiry := testutil.Date(2025, 1, 1)

	active := &domain.Certificate{Status: domain.StatusActive, ExpiryDate: &expiry}
	assert.Equal(t, domain.StatusExpiringSoon, NextLifecycle(active, 30, testutil.Date(2024, 12, 15)))
	assert.Equal(t, domain.StatusExpired, NextLifecycle(active, 30, testutil.Date(2025, 2, 1)))
	assert.Equal(t, domain.StatusActive, NextLifecycle(active, 30, testutil.Date(2024, 6, 1)))

	// Already expiring_soon moves on to expired
	expiring := &domain.Certificate{Status: domain.StatusExpiringSoon, ExpiryDate: &expiry}
	assert.Equal(t, domain.StatusExpired, NextLifecycle(expiring, 30, testutil.Date(2025, 2, 1)))

	// Suspended, revoked and renewed are never moved by the sweep
	for _, status := range []domain.LifecycleStatus{domain.StatusSuspended, domain.StatusRevoked, domain.StatusRenewed} {
		c := &domain.Certificate{Status: status, ExpiryDate: &expiry}
		assert.Equal(t, status, NextLifecycle(c, 30, testutil.Date(2025, 2, 1)))
	}
}
