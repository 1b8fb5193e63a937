package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// TrainingTypeRepository handles training type persistence
type TrainingTypeRepository struct {
	db *database.DB
}

// NewTrainingTypeRepository creates a new training type repository
func NewTrainingTypeRepository(db *database.DB) *TrainingTypeRepository {
	return &TrainingTypeRepository{db: db}
}

// Create inserts a new training type
func (r *TrainingTypeRepository) Create(ctx context.Context, t *domain.TrainingType) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.WarningDays <= 0 {
		t.WarningDays = domain.DefaultWarningDays
	}

	query := `
		INSERT INTO training_types (
			id, name, code, category, validity_months, warning_days,
			is_mandatory, is_recurrent, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		t.ID, t.Name, t.Code, t.Category, t.ValidityMonths, t.WarningDays,
		t.IsMandatory, t.IsRecurrent, t.Description,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// GetByID gets a training type by ID
func (r *TrainingTypeRepository) GetByID(ctx context.Context, id string) (*domain.TrainingType, error) {
	var t domain.TrainingType
	err := r.db.GetContext(ctx, &t, `SELECT * FROM training_types WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("training type")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByCode gets a training type by its unique code
func (r *TrainingTypeRepository) GetByCode(ctx context.Context, code string) (*domain.TrainingType, error) {
	var t domain.TrainingType
	err := r.db.GetContext(ctx, &t, `SELECT * FROM training_types WHERE code = $1`, code)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("training type")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List lists all training types ordered by name
func (r *TrainingTypeRepository) List(ctx context.Context) ([]*domain.TrainingType, error) {
	var types []*domain.TrainingType
	if err := r.db.SelectContext(ctx, &types, `SELECT * FROM training_types ORDER BY name`); err != nil {
		return nil, err
	}
	return types, nil
}

// ListMandatoryIDs returns the IDs of mandatory training types
func (r *TrainingTypeRepository) ListMandatoryIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM training_types WHERE is_mandatory = TRUE`)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update updates a training type. Changing validity_months never touches
// already-issued certificates; only new issues pick the new template up.
func (r *TrainingTypeRepository) Update(ctx context.Context, t *domain.TrainingType) error {
	query := `
		UPDATE training_types SET
			name = $2, code = $3, category = $4, validity_months = $5,
			warning_days = $6, is_mandatory = $7, is_recurrent = $8,
			description = $9, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Code, t.Category, t.ValidityMonths,
		t.WarningDays, t.IsMandatory, t.IsRecurrent, t.Description,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("training type")
	}
	return nil
}

// Delete removes a training type. Fails with a conflict while certificates
// of this type exist.
func (r *TrainingTypeRepository) Delete(ctx context.Context, id string) error {
	var inUse int
	err := r.db.GetContext(ctx, &inUse,
		`SELECT COUNT(*) FROM certificates WHERE training_type_id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return errors.Conflict("training type is referenced by existing certificates")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM training_types WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("training type")
	}
	return nil
}

// WarningDaysByType loads the warning window for every training type keyed
// by ID. Reports use this to evaluate certificates in bulk.
func (r *TrainingTypeRepository) WarningDaysByType(ctx context.Context) (map[string]int, error) {
	type row struct {
		ID          string `db:"id"`
		WarningDays int    `db:"warning_days"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, warning_days FROM training_types`); err != nil {
		return nil, err
	}

	result := make(map[string]int, len(rows))
	for _, r := range rows {
		result[r.ID] = r.WarningDays
	}
	return result, nil
}
