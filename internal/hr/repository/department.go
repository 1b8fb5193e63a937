package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// DepartmentRepository handles department persistence
type DepartmentRepository struct {
	db *database.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *database.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a new department
func (r *DepartmentRepository) Create(ctx context.Context, d *domain.Department) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	query := `
		INSERT INTO departments (id, name, code, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, d.ID, d.Name, d.Code, d.Description).
		Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// GetByID gets a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	var d domain.Department
	err := r.db.GetContext(ctx, &d, `SELECT * FROM departments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("department")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List lists all departments ordered by name
func (r *DepartmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	var departments []*domain.Department
	if err := r.db.SelectContext(ctx, &departments, `SELECT * FROM departments ORDER BY name`); err != nil {
		return nil, err
	}
	return departments, nil
}

// Update updates a department
func (r *DepartmentRepository) Update(ctx context.Context, d *domain.Department) error {
	query := `
		UPDATE departments SET name = $2, code = $3, description = $4, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.Code, d.Description)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("department")
	}
	return nil
}

// Delete removes a department. Fails with a conflict while employees are
// still assigned to it.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	var assigned int
	err := r.db.GetContext(ctx, &assigned,
		`SELECT COUNT(*) FROM employees WHERE department_id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return errors.Conflict("department still has employees assigned")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("department")
	}
	return nil
}

// EmployeeIDs returns the IDs of non-deleted employees in the department
func (r *DepartmentRepository) EmployeeIDs(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM employees WHERE department_id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
