package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/testutil"
)

func TestPagination(t *testing.T) {
	limit, offset := pagination(httptest.NewRequest("GET", "/certificates", nil))
	assert.Equal(t, defaultPerPage, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pagination(httptest.NewRequest("GET", "/certificates?page=3&per_page=20", nil))
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	// Oversized per_page is clamped
	limit, _ = pagination(httptest.NewRequest("GET", "/certificates?per_page=99999", nil))
	assert.Equal(t, maxPerPage, limit)

	// Nonsense falls back to defaults
	limit, offset = pagination(httptest.NewRequest("GET", "/certificates?page=-1&per_page=abc", nil))
	assert.Equal(t, defaultPerPage, limit)
	assert.Equal(t, 0, offset)
}

func TestCertificateFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/certificates?employee_id=emp-1&status=active&expiring_within_days=30&issued_from=2024-01-01", nil)

	filter, err := certificateFilterFromQuery(r)
	require.NoError(t, err)

	require.NotNil(t, filter.EmployeeID)
	assert.Equal(t, "emp-1", *filter.EmployeeID)
	require.NotNil(t, filter.Status)
	assert.Equal(t, domain.StatusActive, *filter.Status)
	require.NotNil(t, filter.ExpiringWithinDays)
	assert.Equal(t, 30, *filter.ExpiringWithinDays)
	require.NotNil(t, filter.IssuedFrom)
	assert.Equal(t, testutil.Date(2024, 1, 1), *filter.IssuedFrom)
	assert.Nil(t, filter.TrainingTypeID)
}

func TestCertificateFilterFromQuery_BadValues(t *testing.T) {
	_, err := certificateFilterFromQuery(httptest.NewRequest("GET", "/certificates?expiring_within_days=soon", nil))
	assert.Error(t, err)

	_, err = certificateFilterFromQuery(httptest.NewRequest("GET", "/certificates?issued_from=January", nil))
	assert.Error(t, err)
}
