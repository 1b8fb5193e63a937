package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-03-05", "03/05/2024", "3/5/24", "05.03.2024"} {
		got, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := parseDate("")
	assert.Error(t, err)

	_, err = parseDate("March fifth")
	assert.Error(t, err)
}

func TestErrorMessage_FlattensValidationDetails(t *testing.T) {
	err := errors.Validation(map[string]string{"issue_date": "this field is required"})
	assert.Equal(t, "issue_date: this field is required", errorMessage(err))
}

func TestErrorMessage_PlainAppError(t *testing.T) {
	assert.Equal(t, "employee not found", errorMessage(errors.NotFound("employee")))
}
