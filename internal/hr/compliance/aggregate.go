package compliance

import (
	"math"
	"time"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
)

// WarningDaysFunc resolves the warning window for a training type. Used so
// aggregation stays pure while warning windows vary per type.
type WarningDaysFunc func(trainingTypeID string) int

// FixedWarningDays returns a WarningDaysFunc that ignores the type
func FixedWarningDays(days int) WarningDaysFunc {
	return func(string) int { return days }
}

// StatusCounts holds per-bucket certificate counts
type StatusCounts struct {
	Compliant    int `json:"compliant"`
	ExpiringSoon int `json:"expiring_soon"`
	Expired      int `json:"expired"`
	Suspended    int `json:"suspended"`
	NonCompliant int `json:"non_compliant"`
	Pending      int `json:"pending"`
	Total        int `json:"total"`
}

// Add counts one status
func (s *StatusCounts) Add(status domain.ComplianceStatus) {
	s.Total++
	switch status {
	case domain.ComplianceCompliant:
		s.Compliant++
	case domain.ComplianceExpiringSoon:
		s.ExpiringSoon++
	case domain.ComplianceExpired:
		s.Expired++
	case domain.ComplianceSuspended:
		s.Suspended++
	case domain.ComplianceNonCompliant:
		s.NonCompliant++
	case domain.CompliancePending:
		s.Pending++
	}
}

// Rate returns compliant / (compliant + expiring + expired) as a percentage
// rounded to one decimal. Zero when the denominator is zero; suspended,
// revoked and draft certificates stay out of the denominator.
func (s StatusCounts) Rate() float64 {
	return RatePercent(s.Compliant, s.Compliant+s.ExpiringSoon+s.Expired)
}

// CountStatuses evaluates every certificate and tallies the buckets
func CountStatuses(certs []*domain.Certificate, warnFor WarningDaysFunc, now time.Time) StatusCounts {
	var counts StatusCounts
	for _, c := range certs {
		counts.Add(EvaluateCertificate(c, warnFor(c.TrainingTypeID), now))
	}
	return counts
}

// RatePercent returns numerator/denominator as a percentage rounded to one
// decimal, 0 when the denominator is zero. Never divides by zero.
func RatePercent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(float64(numerator)/float64(denominator)*1000) / 10
}

// EmployeeRollup is the per-employee compliance verdict
type EmployeeRollup struct {
	EmployeeID string       `json:"employee_id"`
	Compliant  bool         `json:"compliant"`
	Counts     StatusCounts `json:"counts"`
	// MissingMandatory lists mandatory training type IDs the employee holds
	// no compliant certificate for.
	MissingMandatory []string `json:"missing_mandatory,omitempty"`
}

// RollupEmployee decides employee-level compliance: the employee is
// compliant only if every mandatory training type has at least one
// individually compliant certificate (AND across types, not OR).
func RollupEmployee(employeeID string, certs []*domain.Certificate, mandatoryTypeIDs []string, warnFor WarningDaysFunc, now time.Time) EmployeeRollup {
	rollup := EmployeeRollup{EmployeeID: employeeID, Compliant: true}

	compliantByType := make(map[string]bool)
	for _, c := range certs {
		status := EvaluateCertificate(c, warnFor(c.TrainingTypeID), now)
		rollup.Counts.Add(status)
		if status.IsCompliant() {
			compliantByType[c.TrainingTypeID] = true
		}
	}

	for _, typeID := range mandatoryTypeIDs {
		if !compliantByType[typeID] {
			rollup.Compliant = false
			rollup.MissingMandatory = append(rollup.MissingMandatory, typeID)
		}
	}

	return rollup
}

// DepartmentRollup is the per-department certificate-ratio rollup.
// Department compliance rate = active certificates / total certificates for
// all certificates owned by employees in the department.
type DepartmentRollup struct {
	DepartmentID string       `json:"department_id"`
	Counts       StatusCounts `json:"counts"`
	Rate         float64      `json:"compliance_rate"`
}

// RollupDepartment tallies a department's certificates. A certificate counts
// as active when it is currently in force: compliant or inside the warning
// window.
func RollupDepartment(departmentID string, certs []*domain.Certificate, warnFor WarningDaysFunc, now time.Time) DepartmentRollup {
	counts := CountStatuses(certs, warnFor, now)
	return DepartmentRollup{
		DepartmentID: departmentID,
		Counts:       counts,
		Rate:         RatePercent(counts.Compliant+counts.ExpiringSoon, counts.Total),
	}
}

// CoveragePercent is the distinct coverage metric: employees holding at
// least one certificate over all employees. Not a compliance rate.
func CoveragePercent(employeesWithCertificates, totalEmployees int) float64 {
	return RatePercent(employeesWithCertificates, totalEmployees)
}
