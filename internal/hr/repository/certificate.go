package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

// certificateColumns is the column list shared by certificate SELECTs
const certificateColumns = `
	c.id, c.employee_id, c.training_type_id, c.provider_id,
	c.certificate_number, c.issuer, c.issue_date, c.valid_from, c.expiry_date,
	c.completion_date, c.score, c.passing_score, c.training_hours, c.cost_cents,
	c.status, c.is_verified, c.verified_by, c.verification_date,
	c.verification_code, c.verification_attempts, c.last_verification_at,
	c.revoked_by, c.revocation_reason, c.revocation_date,
	c.suspension_start, c.suspension_end, c.suspension_reason,
	c.is_renewable, c.renewed_from_id, c.renewed_to_id, c.renewal_generation,
	c.notes, c.version, c.created_at, c.updated_at, c.created_by, c.updated_by`

// CertificateFilter narrows certificate listings. All fields are optional.
type CertificateFilter struct {
	EmployeeID         *string
	TrainingTypeID     *string
	DepartmentID       *string
	ProviderID         *string
	Status             *domain.LifecycleStatus
	Category           *string
	IssuedFrom         *time.Time
	IssuedTo           *time.Time
	ExpiringWithinDays *int
	Limit              int
	Offset             int
}

// CertificateRepository handles certificate persistence
type CertificateRepository struct {
	db *database.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *database.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create inserts a new certificate
func (r *CertificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	return insertCertificate(ctx, r.db, c)
}

// insertCertificate runs the certificate INSERT against either the pool or a
// transaction.
func insertCertificate(ctx context.Context, q sqlx.ExtContext, c *domain.Certificate) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = domain.StatusActive
	}

	query := `
		INSERT INTO certificates (
			id, employee_id, training_type_id, provider_id,
			certificate_number, issuer, issue_date, valid_from, expiry_date,
			completion_date, score, passing_score, training_hours, cost_cents,
			status, is_renewable, verification_code, notes,
			renewed_from_id, renewal_generation, version, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING created_at, updated_at
	`

	err := q.QueryRowxContext(ctx, query,
		c.ID, c.EmployeeID, c.TrainingTypeID, c.ProviderID,
		c.CertificateNumber, c.Issuer, c.IssueDate, c.ValidFrom, c.ExpiryDate,
		c.CompletionDate, c.Score, c.PassingScore, c.TrainingHours, c.CostCents,
		c.Status, c.IsRenewable, c.VerificationCode, c.Notes,
		c.RenewedFromID, c.RenewalGeneration, 1, c.CreatedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	c.Version = 1
	return nil
}

// GetByID gets a certificate by ID
func (r *CertificateRepository) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	var c domain.Certificate

	query := `
		SELECT` + certificateColumns + `
		FROM certificates c
		WHERE c.id = $1 AND c.deleted_at IS NULL
	`
	err := r.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("certificate")
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetByNumber gets a certificate by its unique certificate number
func (r *CertificateRepository) GetByNumber(ctx context.Context, number string) (*domain.Certificate, error) {
	var c domain.Certificate

	query := `
		SELECT` + certificateColumns + `
		FROM certificates c
		WHERE c.certificate_number = $1 AND c.deleted_at IS NULL
	`
	err := r.db.GetContext(ctx, &c, query, number)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("certificate")
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetByVerificationCode looks a certificate up by its verification code
func (r *CertificateRepository) GetByVerificationCode(ctx context.Context, code string) (*domain.Certificate, error) {
	var c domain.Certificate

	query := `
		SELECT` + certificateColumns + `
		FROM certificates c
		WHERE c.verification_code = $1 AND c.deleted_at IS NULL
	`
	err := r.db.GetContext(ctx, &c, query, code)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("certificate")
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// List lists certificates matching the filter, newest issue first
func (r *CertificateRepository) List(ctx context.Context, filter CertificateFilter) ([]*domain.Certificate, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT` + certificateColumns + `,
		       CONCAT(e.first_name, ' ', e.last_name) AS employee_name,
		       e.department_id AS department_id,
		       t.name AS training_type_name,
		       t.code AS training_type_code
		FROM certificates c
		JOIN employees e ON c.employee_id = e.id
		JOIN training_types t ON c.training_type_id = t.id
		WHERE c.deleted_at IS NULL
	`)

	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EmployeeID != nil {
		sb.WriteString(` AND c.employee_id = ` + arg(*filter.EmployeeID))
	}
	if filter.TrainingTypeID != nil {
		sb.WriteString(` AND c.training_type_id = ` + arg(*filter.TrainingTypeID))
	}
	if filter.DepartmentID != nil {
		sb.WriteString(` AND e.department_id = ` + arg(*filter.DepartmentID))
	}
	if filter.ProviderID != nil {
		sb.WriteString(` AND c.provider_id = ` + arg(*filter.ProviderID))
	}
	if filter.Status != nil {
		sb.WriteString(` AND c.status = ` + arg(string(*filter.Status)))
	}
	if filter.Category != nil {
		sb.WriteString(` AND t.category = ` + arg(*filter.Category))
	}
	if filter.IssuedFrom != nil {
		sb.WriteString(` AND c.issue_date >= ` + arg(*filter.IssuedFrom))
	}
	if filter.IssuedTo != nil {
		sb.WriteString(` AND c.issue_date <= ` + arg(*filter.IssuedTo))
	}
	if filter.ExpiringWithinDays != nil {
		sb.WriteString(` AND c.expiry_date IS NOT NULL`)
		sb.WriteString(` AND c.expiry_date <= NOW() + (` + arg(*filter.ExpiringWithinDays) + ` * INTERVAL '1 day')`)
		sb.WriteString(` AND c.status NOT IN ('revoked', 'renewed', 'cancelled')`)
	}

	sb.WriteString(` ORDER BY c.issue_date DESC, c.created_at DESC`)

	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ` + arg(filter.Limit))
		sb.WriteString(` OFFSET ` + arg(filter.Offset))
	}

	var certs []*domain.Certificate
	if err := r.db.SelectContext(ctx, &certs, sb.String(), args...); err != nil {
		return nil, err
	}

	return certs, nil
}

// Update persists a mutated certificate using optimistic locking. The row is
// only written when the stored version matches expectedVersion; on a
// mismatch the caller gets a concurrency conflict to retry.
func (r *CertificateRepository) Update(ctx context.Context, c *domain.Certificate, expectedVersion int) error {
	return updateCertificate(ctx, r.db, c, expectedVersion)
}

// updateCertificate runs the version-guarded UPDATE against either the pool
// or a transaction.
func updateCertificate(ctx context.Context, q sqlx.ExtContext, c *domain.Certificate, expectedVersion int) error {
	query := `
		UPDATE certificates SET
			provider_id = $3, certificate_number = $4, issuer = $5,
			issue_date = $6, valid_from = $7, expiry_date = $8, completion_date = $9,
			score = $10, passing_score = $11, training_hours = $12, cost_cents = $13,
			status = $14, is_verified = $15, verified_by = $16, verification_date = $17,
			verification_attempts = $18, last_verification_at = $19,
			revoked_by = $20, revocation_reason = $21, revocation_date = $22,
			suspension_start = $23, suspension_end = $24, suspension_reason = $25,
			is_renewable = $26, renewed_from_id = $27, renewed_to_id = $28,
			renewal_generation = $29, notes = $30, updated_by = $31,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2 AND deleted_at IS NULL
	`
	result, err := q.ExecContext(ctx, query,
		c.ID, expectedVersion,
		c.ProviderID, c.CertificateNumber, c.Issuer,
		c.IssueDate, c.ValidFrom, c.ExpiryDate, c.CompletionDate,
		c.Score, c.PassingScore, c.TrainingHours, c.CostCents,
		c.Status, c.IsVerified, c.VerifiedBy, c.VerificationDate,
		c.VerificationAttempts, c.LastVerificationAt,
		c.RevokedBy, c.RevocationReason, c.RevocationDate,
		c.SuspensionStart, c.SuspensionEnd, c.SuspensionReason,
		c.IsRenewable, c.RenewedFromID, c.RenewedToID,
		c.RenewalGeneration, c.Notes, c.UpdatedBy,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		var exists bool
		if err := sqlx.GetContext(ctx, q, &exists,
			`SELECT EXISTS(SELECT 1 FROM certificates WHERE id = $1 AND deleted_at IS NULL)`, c.ID); err != nil {
			return err
		}
		if !exists {
			return errors.NotFound("certificate")
		}
		return errors.ConcurrencyConflict("certificate")
	}

	c.Version = expectedVersion + 1
	return nil
}

// CreateRenewal inserts the successor certificate and supersedes the old row
// in a single transaction. The version guard on the old row means concurrent
// renewals of the same certificate produce at most one successor; a loser's
// insert rolls back with the failed update.
func (r *CertificateRepository) CreateRenewal(ctx context.Context, next, old *domain.Certificate, expectedVersion int) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := insertCertificate(ctx, tx, next); err != nil {
			return err
		}
		return updateCertificate(ctx, tx, old, expectedVersion)
	})
}

// SoftDelete marks a certificate deleted
func (r *CertificateRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE certificates SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("certificate")
	}
	return nil
}

// NextSequence returns the next sequence number for generated certificate
// numbers with the given "{TYPE_CODE}-{YYYYMM}-" prefix.
func (r *CertificateRepository) NextSequence(ctx context.Context, prefix string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM certificates WHERE certificate_number LIKE $1`, prefix+"%")
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

// SweepCandidate is the slim row the expiry sweep works on
type SweepCandidate struct {
	ID             string                 `db:"id"`
	TrainingTypeID string                 `db:"training_type_id"`
	Status         domain.LifecycleStatus `db:"status"`
	ExpiryDate     *time.Time             `db:"expiry_date"`
	WarningDays    int                    `db:"warning_days"`
}

// ListSweepChunk returns the next chunk of certificates eligible for the
// expiry sweep, keyed by id cursor so chunks can be retried safely.
func (r *CertificateRepository) ListSweepChunk(ctx context.Context, afterID string, limit int) ([]*SweepCandidate, error) {
	query := `
		SELECT c.id, c.training_type_id, c.status, c.expiry_date, t.warning_days
		FROM certificates c
		JOIN training_types t ON c.training_type_id = t.id
		WHERE c.deleted_at IS NULL
		  AND c.expiry_date IS NOT NULL
		  AND c.status IN ('active', 'expiring_soon')
		  AND c.id > $1
		ORDER BY c.id
		LIMIT $2
	`
	var rows []*SweepCandidate
	if err := r.db.SelectContext(ctx, &rows, query, afterID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateLifecycle persists a sweep-derived lifecycle change. The status
// comparison happens against stored state so repeating the sweep is
// idempotent.
func (r *CertificateRepository) UpdateLifecycle(ctx context.Context, id string, status domain.LifecycleStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE certificates SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, string(status))
	return err
}

// ChainFrom walks the renewal chain backwards from the given certificate.
// The walk is bounded by the total certificate count so a corrupted loop can
// never hang; hitting the bound reports an internal error.
func (r *CertificateRepository) ChainFrom(ctx context.Context, id string) ([]*domain.Certificate, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM certificates WHERE deleted_at IS NULL`); err != nil {
		return nil, err
	}

	var chain []*domain.Certificate
	current := id
	for steps := 0; current != ""; steps++ {
		if steps > total {
			return nil, errors.Internal("renewal chain exceeds certificate count, possible cycle")
		}

		cert, err := r.GetByID(ctx, current)
		if err != nil {
			return nil, err
		}
		chain = append(chain, cert)

		if cert.RenewedFromID == nil {
			break
		}
		current = *cert.RenewedFromID
	}

	return chain, nil
}
