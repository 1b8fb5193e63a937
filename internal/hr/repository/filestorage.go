package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// FileVersionRepository handles file version metadata. Blob content lives in
// the storage backend; rows here only describe the versions.
type FileVersionRepository struct {
	db *database.DB
}

// NewFileVersionRepository creates a new file version repository
func NewFileVersionRepository(db *database.DB) *FileVersionRepository {
	return &FileVersionRepository{db: db}
}

// CreateVersion inserts a new version for the (employee, certificate type)
// pair and flips is_latest off the previous one, all in one transaction.
// The new version number is max(existing)+1.
func (r *FileVersionRepository) CreateVersion(ctx context.Context, fv *domain.FileVersion) error {
	if fv.ID == "" {
		fv.ID = uuid.New().String()
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var maxVersion int
		err := tx.GetContext(ctx, &maxVersion, `
			SELECT COALESCE(MAX(version), 0) FROM file_versions
			WHERE employee_id = $1 AND certificate_type_id = $2
		`, fv.EmployeeID, fv.CertificateTypeID)
		if err != nil {
			return err
		}
		fv.Version = maxVersion + 1

		_, err = tx.ExecContext(ctx, `
			UPDATE file_versions SET is_latest = FALSE
			WHERE employee_id = $1 AND certificate_type_id = $2 AND is_latest = TRUE
		`, fv.EmployeeID, fv.CertificateTypeID)
		if err != nil {
			return err
		}

		fv.IsLatest = true
		return tx.QueryRowxContext(ctx, `
			INSERT INTO file_versions (
				id, employee_id, certificate_type_id, version, path, hash,
				mime_type, size_bytes, original_name, is_latest, uploaded_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
			RETURNING created_at
		`,
			fv.ID, fv.EmployeeID, fv.CertificateTypeID, fv.Version, fv.Path,
			fv.Hash, fv.MimeType, fv.SizeBytes, fv.OriginalName, fv.UploadedBy,
		).Scan(&fv.CreatedAt)
	})
}

// GetLatest returns the latest version for the pair
func (r *FileVersionRepository) GetLatest(ctx context.Context, employeeID, certificateTypeID string) (*domain.FileVersion, error) {
	var fv domain.FileVersion
	err := r.db.GetContext(ctx, &fv, `
		SELECT * FROM file_versions
		WHERE employee_id = $1 AND certificate_type_id = $2 AND is_latest = TRUE
	`, employeeID, certificateTypeID)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("file")
	}
	if err != nil {
		return nil, err
	}
	return &fv, nil
}

// GetVersion returns one specific version for the pair
func (r *FileVersionRepository) GetVersion(ctx context.Context, employeeID, certificateTypeID string, version int) (*domain.FileVersion, error) {
	var fv domain.FileVersion
	err := r.db.GetContext(ctx, &fv, `
		SELECT * FROM file_versions
		WHERE employee_id = $1 AND certificate_type_id = $2 AND version = $3
	`, employeeID, certificateTypeID, version)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("file")
	}
	if err != nil {
		return nil, err
	}
	return &fv, nil
}

// ListVersions returns all versions for the pair, newest first
func (r *FileVersionRepository) ListVersions(ctx context.Context, employeeID, certificateTypeID string) ([]*domain.FileVersion, error) {
	var versions []*domain.FileVersion
	err := r.db.SelectContext(ctx, &versions, `
		SELECT * FROM file_versions
		WHERE employee_id = $1 AND certificate_type_id = $2
		ORDER BY version DESC
	`, employeeID, certificateTypeID)
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// DeleteAll removes every version row for the pair and returns the blob
// paths so the caller can purge the storage backend.
func (r *FileVersionRepository) DeleteAll(ctx context.Context, employeeID, certificateTypeID string) ([]string, error) {
	var paths []string
	err := r.db.SelectContext(ctx, &paths, `
		SELECT path FROM file_versions
		WHERE employee_id = $1 AND certificate_type_id = $2
	`, employeeID, certificateTypeID)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.NotFound("file")
	}

	_, err = r.db.ExecContext(ctx, `
		DELETE FROM file_versions
		WHERE employee_id = $1 AND certificate_type_id = $2
	`, employeeID, certificateTypeID)
	if err != nil {
		return nil, err
	}
	return paths, nil
}
