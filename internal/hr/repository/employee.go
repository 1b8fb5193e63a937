package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	DepartmentID     *string
	EmploymentStatus *string
	Search           *string
	Limit            int
	Offset           int
}

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.EmploymentStatus == "" {
		e.EmploymentStatus = domain.EmploymentActive
	}

	query := `
		INSERT INTO employees (
			id, employee_number, first_name, last_name, email, phone,
			department_id, position, hire_date, employment_status,
			background_check_date, background_check_status, background_check_notes,
			created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, e.Phone,
		e.DepartmentID, e.Position, e.HireDate, e.EmploymentStatus,
		e.BackgroundCheckDate, e.BackgroundCheckStatus, e.BackgroundCheckNotes,
		e.CreatedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee

	query := `
		SELECT e.*, d.name AS department_name
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`
	err := r.db.GetContext(ctx, &e, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// GetByNumber gets an employee by employee number
func (r *EmployeeRepository) GetByNumber(ctx context.Context, number string) (*domain.Employee, error) {
	var e domain.Employee

	query := `
		SELECT e.*, d.name AS department_name
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.employee_number = $1 AND e.deleted_at IS NULL
	`
	err := r.db.GetContext(ctx, &e, query, number)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// List lists employees matching the filter, ordered by name
func (r *EmployeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]*domain.Employee, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT e.*, d.name AS department_name
		FROM employees e
		LEFT JOIN departments d ON e.department_id = d.id
		WHERE e.deleted_at IS NULL
	`)

	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DepartmentID != nil {
		sb.WriteString(` AND e.department_id = ` + arg(*filter.DepartmentID))
	}
	if filter.EmploymentStatus != nil {
		sb.WriteString(` AND e.employment_status = ` + arg(*filter.EmploymentStatus))
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := arg("%" + strings.ToLower(*filter.Search) + "%")
		sb.WriteString(` AND (LOWER(e.first_name) LIKE ` + pattern)
		sb.WriteString(` OR LOWER(e.last_name) LIKE ` + pattern)
		sb.WriteString(` OR LOWER(COALESCE(e.employee_number, '')) LIKE ` + pattern + `)`)
	}

	sb.WriteString(` ORDER BY e.last_name, e.first_name`)

	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ` + arg(filter.Limit))
		sb.WriteString(` OFFSET ` + arg(filter.Offset))
	}

	var employees []*domain.Employee
	if err := r.db.SelectContext(ctx, &employees, sb.String(), args...); err != nil {
		return nil, err
	}

	return employees, nil
}

// Update updates an employee
func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	query := `
		UPDATE employees SET
			employee_number = $2, first_name = $3, last_name = $4,
			email = $5, phone = $6, department_id = $7, position = $8,
			hire_date = $9, employment_status = $10, termination_date = $11,
			background_check_date = $12, background_check_status = $13,
			background_check_notes = $14, updated_by = $15, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		e.ID, e.EmployeeNumber, e.FirstName, e.LastName,
		e.Email, e.Phone, e.DepartmentID, e.Position,
		e.HireDate, e.EmploymentStatus, e.TerminationDate,
		e.BackgroundCheckDate, e.BackgroundCheckStatus,
		e.BackgroundCheckNotes, e.UpdatedBy,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("employee")
	}
	return nil
}

// SoftDelete marks an employee deleted
func (r *EmployeeRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE employees SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("employee")
	}
	return nil
}

// CountCertificates counts non-deleted certificates an employee holds
func (r *EmployeeRepository) CountCertificates(ctx context.Context, employeeID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM certificates WHERE employee_id = $1 AND deleted_at IS NULL`, employeeID)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountWithCertificates counts distinct employees holding at least one
// certificate, and the total active headcount. Used for coverage reporting.
func (r *EmployeeRepository) CountWithCertificates(ctx context.Context) (withCerts int, total int, err error) {
	query := `
		SELECT
			COUNT(DISTINCT c.employee_id) FILTER (WHERE c.id IS NOT NULL),
			COUNT(DISTINCT e.id)
		FROM employees e
		LEFT JOIN certificates c ON c.employee_id = e.id AND c.deleted_at IS NULL
		WHERE e.deleted_at IS NULL AND e.employment_status = 'active'
	`
	row := r.db.QueryRowxContext(ctx, query)
	if err := row.Scan(&withCerts, &total); err != nil {
		return 0, 0, err
	}
	return withCerts, total, nil
}
