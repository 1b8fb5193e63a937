package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// ProviderRepository handles training provider persistence
type ProviderRepository struct {
	db *database.DB
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *database.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// Create inserts a new provider
func (r *ProviderRepository) Create(ctx context.Context, p *domain.TrainingProvider) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO training_providers (
			id, name, accreditation_number, accreditation_expiry,
			contact_person, contact_email, contract_start, contract_end, rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.AccreditationNumber, p.AccreditationExpiry,
		p.ContactPerson, p.ContactEmail, p.ContractStart, p.ContractEnd, p.Rating,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// GetByID gets a provider by ID
func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*domain.TrainingProvider, error) {
	var p domain.TrainingProvider
	err := r.db.GetContext(ctx, &p, `SELECT * FROM training_providers WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("training provider")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List lists all providers ordered by name
func (r *ProviderRepository) List(ctx context.Context) ([]*domain.TrainingProvider, error) {
	var providers []*domain.TrainingProvider
	if err := r.db.SelectContext(ctx, &providers, `SELECT * FROM training_providers ORDER BY name`); err != nil {
		return nil, err
	}
	return providers, nil
}

// Update updates a provider
func (r *ProviderRepository) Update(ctx context.Context, p *domain.TrainingProvider) error {
	query := `
		UPDATE training_providers SET
			name = $2, accreditation_number = $3, accreditation_expiry = $4,
			contact_person = $5, contact_email = $6, contract_start = $7,
			contract_end = $8, rating = $9, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.AccreditationNumber, p.AccreditationExpiry,
		p.ContactPerson, p.ContactEmail, p.ContractStart, p.ContractEnd, p.Rating,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("training provider")
	}
	return nil
}

// Delete removes a provider. Certificates keep their provider_id reference,
// so deletion is blocked while certificates point at it.
func (r *ProviderRepository) Delete(ctx context.Context, id string) error {
	var inUse int
	err := r.db.GetContext(ctx, &inUse,
		`SELECT COUNT(*) FROM certificates WHERE provider_id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return errors.Conflict("training provider is referenced by existing certificates")
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM training_providers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("training provider")
	}
	return nil
}
