package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/testutil"
)

func cert(typeID string, status domain.LifecycleStatus, expiry *int) *domain.Certificate {
	c := &domain.Certificate{TrainingTypeID: typeID, Status: status}
	if expiry != nil {
		e := testutil.Date(2025, 1, 1).AddDate(0, 0, *expiry)
		c.ExpiryDate = &e
	}
	return c
}

func TestRatePercent(t *testing.T) {
	assert.Equal(t, 0.0, RatePercent(0, 0))
	assert.Equal(t, 0.0, RatePercent(5, 0))
	assert.Equal(t, 100.0, RatePercent(7, 7))
	assert.Equal(t, 33.3, RatePercent(1, 3))
	assert.Equal(t, 66.7, RatePercent(2, 3))

	// Always within [0, 100]
	assert.GreaterOrEqual(t, RatePercent(1, 1000), 0.0)
	assert.LessOrEqual(t, RatePercent(1000, 1000), 100.0)
}

func TestStatusCountsRate(t *testing.T) {
	var counts StatusCounts
	counts.Add(domain.ComplianceCompliant)
	counts.Add(domain.ComplianceCompliant)
	counts.Add(domain.ComplianceExpiringSoon)
	counts.Add(domain.ComplianceExpired)
	// Suspended and pending stay out of the denominator
	counts.Add(domain.ComplianceSuspended)
	counts.Add(domain.CompliancePending)

	assert.Equal(t, 6, counts.Total)
	assert.Equal(t, 50.0, counts.Rate()) // 2 / (2+1+1)
}

func TestStatusCountsRate_Empty(t *testing.T) {
	var counts StatusCounts
	assert.Equal(t, 0.0, counts.Rate())
}

func TestRollupEmployee_MandatoryIsANDNotOR(t *testing.T) {
	now := testutil.Date(2025, 1, 1)
	warnFor := FixedWarningDays(30)

	future := 365
	past := -10

	// Compliant for fire-safety, expired for first-aid
	certs := []*domain.Certificate{
		cert("fire-safety", domain.StatusActive, &future),
		cert("first-aid", domain.StatusActive, &past),
	}

	rollup := RollupEmployee("emp-1", certs, []string{"fire-safety", "first-aid"}, warnFor, now)
	assert.False(t, rollup.Compliant)
	assert.Equal(t, []string{"first-aid"}, rollup.MissingMandatory)

	// Covering both mandatory types flips the verdict
	certs = append(certs, cert("first-aid", domain.StatusActive, &future))
	rollup = RollupEmployee("emp-1", certs, []string{"fire-safety", "first-aid"}, warnFor, now)
	assert.True(t, rollup.Compliant)
	assert.Empty(t, rollup.MissingMandatory)
}

func TestRollupEmployee_MissingMandatoryEntirely(t *testing.T) {
	now := testutil.Date(2025, 1, 1)

	rollup := RollupEmployee("emp-1", nil, []string{"fire-safety"}, FixedWarningDays(30), now)
	assert.False(t, rollup.Compliant)
	assert.Equal(t, []string{"fire-safety"}, rollup.MissingMandatory)
}

func TestRollupEmployee_NoMandatoryTypes(t *testing.T) {
	now := testutil.Date(2025, 1, 1)
	past := -10

	// With no mandatory types even an expired certificate leaves the
	// employee compliant.
	rollup := RollupEmployee("emp-1", []*domain.Certificate{
		cert("optional", domain.StatusActive, &past),
	}, nil, FixedWarningDays(30), now)
	assert.True(t, rollup.Compliant)
}

func TestRollupDepartment(t *testing.T) {
	now := testutil.Date(2025, 1, 1)
	future := 365
	soon := 10
	past := -10

	rollup := RollupDepartment("dept-1", []*domain.Certificate{
		cert("a", domain.StatusActive, &future), // compliant
		cert("a", domain.StatusActive, &soon),   // expiring soon, still in force
		cert("a", domain.StatusActive, &past),   // expired
		cert("a", domain.StatusRevoked, &future),
	}, FixedWarningDays(30), now)

	assert.Equal(t, 4, rollup.Counts.Total)
	assert.Equal(t, 50.0, rollup.Rate) // (1 compliant + 1 expiring) / 4
}

func TestRollupDepartment_Empty(t *testing.T) {
	rollup := RollupDepartment("dept-1", nil, FixedWarningDays(30), testutil.Date(2025, 1, 1))
	assert.Equal(t, 0.0, rollup.Rate)
	assert.Equal(t, 0, rollup.Counts.Total)
}

func TestCoveragePercent(t *testing.T) {
	assert.Equal(t, 0.0, CoveragePercent(0, 0))
	assert.Equal(t, 75.0, CoveragePercent(3, 4))
	assert.Equal(t, 100.0, CoveragePercent(4, 4))
}
