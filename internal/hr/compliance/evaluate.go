// Package compliance computes derived certificate compliance state and the
// aggregate rollups used by reports. Everything here is a pure function of
// its inputs plus an explicit evaluation time; callers inject the clock.
package compliance

import (
	"time"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
)

// EvaluationInput carries the certificate fields the evaluator depends on
type EvaluationInput struct {
	Status          domain.LifecycleStatus
	ExpiryDate      *time.Time
	WarningDays     int
	SuspensionStart *time.Time
	SuspensionEnd   *time.Time
}

// Evaluate derives the compliance status for a certificate. Rules apply in
// order, first match wins. Date comparisons are day-granular.
func Evaluate(in EvaluationInput, now time.Time) domain.ComplianceStatus {
	today := dateOnly(now)

	switch in.Status {
	case domain.StatusRevoked, domain.StatusCancelled:
		return domain.ComplianceNonCompliant
	case domain.StatusRenewed:
		// Superseded records never count as current; the successor carries
		// the chain's compliance.
		return domain.ComplianceExpired
	case domain.StatusDraft:
		return domain.CompliancePending
	case domain.StatusSuspended:
		if withinWindow(today, in.SuspensionStart, in.SuspensionEnd) {
			return domain.ComplianceSuspended
		}
	}

	if in.ExpiryDate == nil {
		return domain.ComplianceCompliant
	}

	expiry := dateOnly(*in.ExpiryDate)
	if expiry.Before(today) {
		return domain.ComplianceExpired
	}

	warningDays := in.WarningDays
	if warningDays <= 0 {
		warningDays = domain.DefaultWarningDays
	}
	if !expiry.After(today.AddDate(0, 0, warningDays)) {
		return domain.ComplianceExpiringSoon
	}

	return domain.ComplianceCompliant
}

// EvaluateCertificate evaluates a certificate with the given warning window
func EvaluateCertificate(c *domain.Certificate, warningDays int, now time.Time) domain.ComplianceStatus {
	return Evaluate(EvaluationInput{
		Status:          c.Status,
		ExpiryDate:      c.ExpiryDate,
		WarningDays:     warningDays,
		SuspensionStart: c.SuspensionStart,
		SuspensionEnd:   c.SuspensionEnd,
	}, now)
}

// NextLifecycle derives the lifecycle status the expiry sweep should persist.
// Only the date-driven statuses move; everything else is left untouched.
func NextLifecycle(c *domain.Certificate, warningDays int, now time.Time) domain.LifecycleStatus {
	if c.Status != domain.StatusActive && c.Status != domain.StatusExpiringSoon {
		return c.Status
	}
	if c.ExpiryDate == nil {
		return domain.StatusActive
	}

	switch Evaluate(EvaluationInput{
		Status:      domain.StatusActive,
		ExpiryDate:  c.ExpiryDate,
		WarningDays: warningDays,
	}, now) {
	case domain.ComplianceExpired:
		return domain.StatusExpired
	case domain.ComplianceExpiringSoon:
		return domain.StatusExpiringSoon
	default:
		return domain.StatusActive
	}
}

// dateOnly truncates a timestamp to midnight UTC; all expiry comparisons
// ignore time of day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func withinWindow(day time.Time, start, end *time.Time) bool {
	if start == nil || end == nil {
		return false
	}
	return !day.Before(dateOnly(*start)) && !day.After(dateOnly(*end))
}
