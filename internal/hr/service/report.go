package service

import (
	"context"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/compliance"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/clock"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
)

// ReportService computes compliance summaries and trends. All derived
// numbers come out of the compliance package; this service only feeds it
// data and the injected clock.
type ReportService struct {
	certs       *repository.CertificateRepository
	employees   *repository.EmployeeRepository
	departments *repository.DepartmentRepository
	types       *repository.TrainingTypeRepository
	clock       clock.Clock
	logger      *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(
	certs *repository.CertificateRepository,
	employees *repository.EmployeeRepository,
	departments *repository.DepartmentRepository,
	types *repository.TrainingTypeRepository,
	clk clock.Clock,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		certs:       certs,
		employees:   employees,
		departments: departments,
		types:       types,
		clock:       clk,
		logger:      log.WithComponent("report-service"),
	}
}

// Summary is the organization-wide compliance snapshot
type Summary struct {
	Counts          compliance.StatusCounts `json:"counts"`
	ComplianceRate  float64                 `json:"compliance_rate"`
	CoveragePercent float64                 `json:"coverage_percent"`
	TotalEmployees  int                     `json:"total_employees"`
	WithCertificate int                     `json:"employees_with_certificate"`
}

// Summary computes the organization-wide snapshot. The compliance rate and
// the coverage percentage answer different questions and are reported side
// by side, never mixed.
func (s *ReportService) Summary(ctx context.Context) (*Summary, error) {
	certs, err := s.certs.List(ctx, repository.CertificateFilter{})
	if err != nil {
		return nil, err
	}

	warnFor, err := s.warningDaysFunc(ctx)
	if err != nil {
		return nil, err
	}

	counts := compliance.CountStatuses(certs, warnFor, s.clock.Now())

	withCerts, total, err := s.employees.CountWithCertificates(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Counts:          counts,
		ComplianceRate:  counts.Rate(),
		CoveragePercent: compliance.CoveragePercent(withCerts, total),
		TotalEmployees:  total,
		WithCertificate: withCerts,
	}, nil
}

// DepartmentReport rolls up every department's certificate counts and rate
func (s *ReportService) DepartmentReport(ctx context.Context) ([]compliance.DepartmentRollup, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	warnFor, err := s.warningDaysFunc(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	rollups := make([]compliance.DepartmentRollup, 0, len(departments))
	for _, dept := range departments {
		certs, err := s.certs.List(ctx, repository.CertificateFilter{DepartmentID: &dept.ID})
		if err != nil {
			return nil, err
		}
		rollups = append(rollups, compliance.RollupDepartment(dept.ID, certs, warnFor, now))
	}

	return rollups, nil
}

// ExpiringReport lists certificates expiring within the given number of days,
// soonest first.
func (s *ReportService) ExpiringReport(ctx context.Context, withinDays int) ([]*domain.Certificate, error) {
	if withinDays <= 0 {
		withinDays = domain.DefaultWarningDays
	}
	return s.certs.List(ctx, repository.CertificateFilter{ExpiringWithinDays: &withinDays})
}

// TrendReport buckets completed training activity over the trailing months
func (s *ReportService) TrendReport(ctx context.Context, months int) ([]compliance.MonthBucket, error) {
	if months <= 0 {
		months = 12
	}

	certs, err := s.certs.List(ctx, repository.CertificateFilter{})
	if err != nil {
		return nil, err
	}

	return compliance.MonthlyTrend(certs, months, s.clock.Now()), nil
}

// ForecastReport counts upcoming expirations per calendar month
func (s *ReportService) ForecastReport(ctx context.Context, months int) ([]compliance.MonthBucket, error) {
	if months <= 0 {
		months = 6
	}

	certs, err := s.certs.List(ctx, repository.CertificateFilter{})
	if err != nil {
		return nil, err
	}

	return compliance.ExpiryForecast(certs, months, s.clock.Now()), nil
}

func (s *ReportService) warningDaysFunc(ctx context.Context) (compliance.WarningDaysFunc, error) {
	warningDays, err := s.types.WarningDaysByType(ctx)
	if err != nil {
		return nil, err
	}
	return func(typeID string) int {
		if days, ok := warningDays[typeID]; ok && days > 0 {
			return days
		}
		return domain.DefaultWarningDays
	}, nil
}
