package database

import (
	"strings"

	"github.com/lib/pq"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "expiry_after_issue"):
		return errors.Validation(map[string]string{
			"expiry_date": "must be after issue date",
		})

	case strings.Contains(constraint, "lifecycle_status_valid"):
		return errors.Validation(map[string]string{
			"status": "must be one of: draft, active, expiring_soon, expired, suspended, revoked, renewed, cancelled",
		})

	case strings.Contains(constraint, "employment_status_valid"):
		return errors.Validation(map[string]string{
			"employment_status": "must be one of: active, inactive, terminated",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "certificate_number"):
		return "a certificate with this certificate number already exists"
	case strings.Contains(constraint, "employee_number"):
		return "an employee with this employee number already exists"
	case strings.Contains(constraint, "code"):
		return "a record with this code already exists"
	default:
		return "a record with these values already exists"
	}
}
