package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/compliance"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/events"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/clock"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/httputil"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/messaging"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/spreadsheet"
)

// dateLayouts are the accepted spreadsheet date formats, tried in order
var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/06", "02.01.2006"}

// ImportExportService moves certificates and employees in and out of xlsx.
// Imported rows pass through the same services as interactive creation, so
// every validation and side effect applies identically.
type ImportExportService struct {
	certs        *CertificateService
	employees    *EmployeeService
	employeeRepo *repository.EmployeeRepository
	typeRepo     *repository.TrainingTypeRepository
	deptRepo     *repository.DepartmentRepository
	certRepo     *repository.CertificateRepository
	emitter      *events.Emitter
	clock        clock.Clock
	logger       *logger.Logger
}

// NewImportExportService creates a new import/export service
func NewImportExportService(
	certs *CertificateService,
	employees *EmployeeService,
	employeeRepo *repository.EmployeeRepository,
	typeRepo *repository.TrainingTypeRepository,
	deptRepo *repository.DepartmentRepository,
	certRepo *repository.CertificateRepository,
	emitter *events.Emitter,
	clk clock.Clock,
	log *logger.Logger,
) *ImportExportService {
	return &ImportExportService{
		certs:        certs,
		employees:    employees,
		employeeRepo: employeeRepo,
		typeRepo:     typeRepo,
		deptRepo:     deptRepo,
		certRepo:     certRepo,
		emitter:      emitter,
		clock:        clk,
		logger:       log.WithComponent("import-export-service"),
	}
}

// RowError reports why one spreadsheet row was rejected. Row numbers count
// from 2, matching what the user sees under the header row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes an import run. Rejected rows never abort the run;
// the rest of the sheet still imports.
type ImportResult struct {
	Imported int        `json:"imported"`
	Rejected int        `json:"rejected"`
	Errors   []RowError `json:"errors,omitempty"`
}

// ImportCertificates imports certificates from an xlsx sheet. Expected
// columns: employee_number, training_type_code, certificate_number (optional,
// generated when blank), issuer, issue_date, expiry_date (optional),
// completion_date (optional), score (optional), status (optional).
func (s *ImportExportService) ImportCertificates(ctx context.Context, data []byte) (*ImportResult, error) {
	rows, err := spreadsheet.ReadRows(data)
	if err != nil {
		return nil, errors.BadRequest("could not read spreadsheet: " + err.Error())
	}
	if len(rows) == 0 {
		return nil, errors.BadRequest("spreadsheet contains no data rows")
	}

	result := &ImportResult{}
	for i, row := range rows {
		rowNum := i + 2
		if err := s.importCertificateRow(ctx, row); err != nil {
			result.Rejected++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: errorMessage(err)})
			continue
		}
		result.Imported++
	}

	s.logger.Info().
		Int("imported", result.Imported).
		Int("rejected", result.Rejected).
		Msg("certificate import completed")

	s.emitter.Emit(ctx, messaging.EventImportCompleted, messaging.ImportEvent{
		Entity:   "certificate",
		Imported: result.Imported,
		Rejected: result.Rejected,
		ActorID:  httputil.GetActorID(ctx),
	})

	return result, nil
}

func (s *ImportExportService) importCertificateRow(ctx context.Context, row map[string]string) error {
	employeeNumber := row["employee_number"]
	if employeeNumber == "" {
		return errors.Validation(map[string]string{"employee_number": "this field is required"})
	}
	employee, err := s.employeeRepo.GetByNumber(ctx, employeeNumber)
	if err != nil {
		return err
	}

	typeCode := row["training_type_code"]
	if typeCode == "" {
		return errors.Validation(map[string]string{"training_type_code": "this field is required"})
	}
	trainingType, err := s.typeRepo.GetByCode(ctx, typeCode)
	if err != nil {
		return err
	}

	issueDate, err := parseDate(row["issue_date"])
	if err != nil {
		return errors.Validation(map[string]string{"issue_date": err.Error()})
	}

	req := IssueRequest{
		EmployeeID:        employee.ID,
		TrainingTypeID:    trainingType.ID,
		CertificateNumber: row["certificate_number"],
		IssueDate:         issueDate,
	}

	if issuer := row["issuer"]; issuer != "" {
		req.Issuer = &issuer
	}
	if raw := row["expiry_date"]; raw != "" {
		expiry, err := parseDate(raw)
		if err != nil {
			return errors.Validation(map[string]string{"expiry_date": err.Error()})
		}
		req.ExpiryDate = &expiry
	}
	if raw := row["completion_date"]; raw != "" {
		completed, err := parseDate(raw)
		if err != nil {
			return errors.Validation(map[string]string{"completion_date": err.Error()})
		}
		req.CompletionDate = &completed
	}
	if raw := row["score"]; raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.Validation(map[string]string{"score": "must be a number"})
		}
		req.Score = &score
	}
	if notes := row["notes"]; notes != "" {
		req.Notes = &notes
	}

	// Legacy sheets mark finished trainings "completed"; the certificate
	// starts active either way and the sweep settles date-driven status.
	switch strings.ToLower(row["status"]) {
	case "", "completed", "complete", "active":
	default:
		return errors.Validation(map[string]string{"status": "only active or completed certificates can be imported"})
	}

	if err := httputil.Validate(req); err != nil {
		return err
	}

	_, err = s.certs.Issue(ctx, req)
	return err
}

// ImportEmployees imports employees from an xlsx sheet. Expected columns:
// employee_number, first_name, last_name, email (optional), department_code
// (optional), position (optional), hire_date.
func (s *ImportExportService) ImportEmployees(ctx context.Context, data []byte) (*ImportResult, error) {
	rows, err := spreadsheet.ReadRows(data)
	if err != nil {
		return nil, errors.BadRequest("could not read spreadsheet: " + err.Error())
	}
	if len(rows) == 0 {
		return nil, errors.BadRequest("spreadsheet contains no data rows")
	}

	departments, err := s.deptRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	deptByCode := make(map[string]string, len(departments))
	for _, d := range departments {
		deptByCode[strings.ToLower(d.Code)] = d.ID
	}

	result := &ImportResult{}
	for i, row := range rows {
		rowNum := i + 2
		if err := s.importEmployeeRow(ctx, row, deptByCode); err != nil {
			result.Rejected++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: errorMessage(err)})
			continue
		}
		result.Imported++
	}

	s.logger.Info().
		Int("imported", result.Imported).
		Int("rejected", result.Rejected).
		Msg("employee import completed")

	s.emitter.Emit(ctx, messaging.EventImportCompleted, messaging.ImportEvent{
		Entity:   "employee",
		Imported: result.Imported,
		Rejected: result.Rejected,
		ActorID:  httputil.GetActorID(ctx),
	})

	return result, nil
}

func (s *ImportExportService) importEmployeeRow(ctx context.Context, row map[string]string, deptByCode map[string]string) error {
	hireDate, err := parseDate(row["hire_date"])
	if err != nil {
		return errors.Validation(map[string]string{"hire_date": err.Error()})
	}

	req := EmployeeRequest{
		FirstName:        row["first_name"],
		LastName:         row["last_name"],
		HireDate:         hireDate,
		EmploymentStatus: domain.EmploymentActive,
	}

	if number := row["employee_number"]; number != "" {
		req.EmployeeNumber = &number
	}
	if email := row["email"]; email != "" {
		req.Email = &email
	}
	if position := row["position"]; position != "" {
		req.Position = &position
	}
	if code := row["department_code"]; code != "" {
		deptID, ok := deptByCode[strings.ToLower(code)]
		if !ok {
			return errors.Validation(map[string]string{"department_code": "unknown department code " + code})
		}
		req.DepartmentID = &deptID
	}

	if err := httputil.Validate(req); err != nil {
		return err
	}

	_, err = s.employees.Create(ctx, req)
	return err
}

// certificateExportColumns is the export column order
var certificateExportColumns = []string{
	"Certificate Number", "Employee Name", "Training Type Code", "Issuer",
	"Issue Date", "Expiry Date", "Status", "Compliance Status", "Score",
}

// ExportCertificates renders certificates matching the filter to xlsx
func (s *ImportExportService) ExportCertificates(ctx context.Context, filter repository.CertificateFilter) ([]byte, error) {
	certs, err := s.certRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	warningDays, err := s.typeRepo.WarningDaysByType(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	rows := make([]map[string]string, 0, len(certs))
	for _, c := range certs {
		warn := warningDays[c.TrainingTypeID]
		row := map[string]string{
			"certificate_number": c.CertificateNumber,
			"issue_date":         c.IssueDate.Format("2006-01-02"),
			"status":             string(c.Status),
			"compliance_status":  string(compliance.EvaluateCertificate(c, warn, now)),
		}
		if c.EmployeeName != nil {
			row["employee_name"] = *c.EmployeeName
		}
		if c.TrainingTypeCode != nil {
			row["training_type_code"] = *c.TrainingTypeCode
		}
		if c.Issuer != nil {
			row["issuer"] = *c.Issuer
		}
		if c.ExpiryDate != nil {
			row["expiry_date"] = c.ExpiryDate.Format("2006-01-02")
		}
		if c.Score != nil {
			row["score"] = strconv.FormatFloat(*c.Score, 'f', -1, 64)
		}
		rows = append(rows, row)
	}

	return spreadsheet.WriteRows("Certificates", certificateExportColumns, rows)
}

// employeeExportColumns is the export column order
var employeeExportColumns = []string{
	"Employee Number", "First Name", "Last Name", "Email", "Department",
	"Position", "Hire Date", "Employment Status",
}

// ExportEmployees renders all employees to xlsx
func (s *ImportExportService) ExportEmployees(ctx context.Context) ([]byte, error) {
	employees, err := s.employeeRepo.List(ctx, repository.EmployeeFilter{})
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(employees))
	for _, e := range employees {
		row := map[string]string{
			"first_name":        e.FirstName,
			"last_name":         e.LastName,
			"hire_date":         e.HireDate.Format("2006-01-02"),
			"employment_status": e.EmploymentStatus,
		}
		if e.EmployeeNumber != nil {
			row["employee_number"] = *e.EmployeeNumber
		}
		if e.Email != nil {
			row["email"] = *e.Email
		}
		if e.DepartmentName != nil {
			row["department"] = *e.DepartmentName
		}
		if e.Position != nil {
			row["position"] = *e.Position
		}
		rows = append(rows, row)
	}

	return spreadsheet.WriteRows("Employees", employeeExportColumns, rows)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("this field is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, expected YYYY-MM-DD", raw)
}

func errorMessage(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		if len(appErr.Details) > 0 {
			parts := make([]string, 0, len(appErr.Details))
			for field, msg := range appErr.Details {
				parts = append(parts, field+": "+msg)
			}
			return strings.Join(parts, "; ")
		}
		return appErr.Message
	}
	return err.Error()
}
