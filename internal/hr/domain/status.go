package domain

// LifecycleStatus is the certificate's own stage, independent of date-driven
// compliance. Persisted on the certificate row.
type LifecycleStatus string

// Lifecycle statuses
const (
	StatusDraft        LifecycleStatus = "draft"
	StatusActive       LifecycleStatus = "active"
	StatusExpiringSoon LifecycleStatus = "expiring_soon"
	StatusExpired      LifecycleStatus = "expired"
	StatusSuspended    LifecycleStatus = "suspended"
	StatusRevoked      LifecycleStatus = "revoked"
	StatusRenewed      LifecycleStatus = "renewed"
	StatusCancelled    LifecycleStatus = "cancelled"
)

// IsTerminal reports whether the lifecycle status allows no further
// transitions. Renewed certificates live on as superseded chain members.
func (s LifecycleStatus) IsTerminal() bool {
	return s == StatusRevoked || s == StatusRenewed || s == StatusCancelled
}

// IsRenewableFrom reports whether a renewal may start from this status
func (s LifecycleStatus) IsRenewableFrom() bool {
	return s == StatusActive || s == StatusExpiringSoon || s == StatusExpired
}

// ComplianceStatus is the derived state of a certificate, always a pure
// function of lifecycle status, expiry date and the evaluation time.
type ComplianceStatus string

// Compliance statuses
const (
	CompliancePending      ComplianceStatus = "pending"
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceExpiringSoon ComplianceStatus = "expiring_soon"
	ComplianceExpired      ComplianceStatus = "expired"
	ComplianceSuspended    ComplianceStatus = "suspended"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
)

// IsCompliant reports whether the status counts as "current" for rollups
func (s ComplianceStatus) IsCompliant() bool {
	return s == ComplianceCompliant
}

// Employment statuses
const (
	EmploymentActive     = "active"
	EmploymentInactive   = "inactive"
	EmploymentTerminated = "terminated"
)

// Background check statuses
const (
	BackgroundCheckPending    = "pending"
	BackgroundCheckInProgress = "in_progress"
	BackgroundCheckCleared    = "cleared"
	BackgroundCheckFlagged    = "flagged"
)

// DefaultWarningDays is the warning window applied when a training type does
// not configure one.
const DefaultWarningDays = 30
