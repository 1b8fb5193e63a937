package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/testutil"
)

func TestMonthlyTrend_ZeroFillsEmptyMonths(t *testing.T) {
	now := testutil.Date(2025, 3, 15)

	completed := testutil.Date(2025, 1, 20)
	certs := []*domain.Certificate{
		{IssueDate: testutil.Date(2025, 1, 5), CompletionDate: &completed},
	}

	buckets := MonthlyTrend(certs, 3, now)
	assert.Len(t, buckets, 3)
	assert.Equal(t, "2025-01", buckets[0].Month)
	assert.Equal(t, "2025-02", buckets[1].Month)
	assert.Equal(t, "2025-03", buckets[2].Month)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 0, buckets[1].Count)
	assert.Equal(t, 0, buckets[2].Count)
}

func TestMonthlyTrend_FallsBackToIssueDate(t *testing.T) {
	now := testutil.Date(2025, 3, 15)

	certs := []*domain.Certificate{
		{IssueDate: testutil.Date(2025, 2, 10)}, // no completion date recorded
	}

	buckets := MonthlyTrend(certs, 3, now)
	assert.Equal(t, 1, buckets[1].Count)
}

func TestMonthlyTrend_AggregatesCostHoursAndScore(t *testing.T) {
	now := testutil.Date(2025, 1, 31)

	cost1, cost2 := int64(50000), int64(30000)
	hours1, hours2 := 8.0, 16.0
	score1, score2 := 80.0, 91.0

	certs := []*domain.Certificate{
		{IssueDate: testutil.Date(2025, 1, 5), CostCents: &cost1, TrainingHours: &hours1, Score: &score1},
		{IssueDate: testutil.Date(2025, 1, 20), CostCents: &cost2, TrainingHours: &hours2, Score: &score2},
	}

	buckets := MonthlyTrend(certs, 1, now)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, int64(80000), buckets[0].CostCents)
	assert.Equal(t, 24.0, buckets[0].Hours)
	assert.Equal(t, 85.5, buckets[0].AvgScore)
}

func TestMonthlyTrend_SkipsDraftAndInvalidatedRecords(t *testing.T) {
	now := testutil.Date(2025, 1, 31)

	certs := []*domain.Certificate{
		{IssueDate: testutil.Date(2025, 1, 5), Status: domain.StatusDraft},
		{IssueDate: testutil.Date(2025, 1, 10), Status: domain.StatusRevoked},
		{IssueDate: testutil.Date(2025, 1, 12), Status: domain.StatusCancelled},
		// These all represent trainings that actually happened
		{IssueDate: testutil.Date(2025, 1, 15), Status: domain.StatusExpired},
		{IssueDate: testutil.Date(2025, 1, 20), Status: domain.StatusRenewed},
		{IssueDate: testutil.Date(2025, 1, 25), Status: domain.StatusActive},
	}

	buckets := MonthlyTrend(certs, 1, now)
	assert.Equal(t, 3, buckets[0].Count)
}

func TestMonthlyTrend_OutsideWindowIgnored(t *testing.T) {
	now := testutil.Date(2025, 3, 15)

	certs := []*domain.Certificate{
		{IssueDate: testutil.Date(2024, 1, 5)},
		{IssueDate: testutil.Date(2026, 1, 5)},
	}

	for _, b := range MonthlyTrend(certs, 3, now) {
		assert.Equal(t, 0, b.Count)
	}
}

func TestExpiryForecast(t *testing.T) {
	now := testutil.Date(2025, 1, 15)

	expThisMonth := testutil.Date(2025, 1, 25)
	expNext := testutil.Date(2025, 2, 10)
	expFar := testutil.Date(2026, 1, 1)

	certs := []*domain.Certificate{
		{Status: domain.StatusActive, ExpiryDate: &expThisMonth},
		{Status: domain.StatusExpiringSoon, ExpiryDate: &expNext},
		{Status: domain.StatusActive, ExpiryDate: &expFar},
		{Status: domain.StatusRevoked, ExpiryDate: &expNext}, // terminal, excluded
		{Status: domain.StatusActive},                        // never expires, excluded
	}

	buckets := ExpiryForecast(certs, 3, now)
	assert.Len(t, buckets, 3)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, 0, buckets[2].Count)
}
