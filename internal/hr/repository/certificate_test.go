package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/testutil"
)

func newCertificateRepo(t *testing.T) (*CertificateRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	repo := NewCertificateRepository(database.NewFromSqlx(mockDB.DB, log))
	return repo, mockDB
}

func TestCertificateRepository_Create(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	now := time.Now()
	mockDB.ExpectQuery("INSERT INTO certificates").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	cert := &domain.Certificate{
		EmployeeID:        "emp-1",
		TrainingTypeID:    "type-1",
		CertificateNumber: "FS-202401-0001",
		IssueDate:         testutil.Date(2024, time.January, 1),
		Status:            domain.StatusActive,
	}

	err := repo.Create(context.Background(), cert)
	require.NoError(t, err)

	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, 1, cert.Version)
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_GetByID_NotFound(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM certificates c").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_Update_VersionMismatch(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE certificates SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WillReturnRows(testutil.MockRows("exists").AddRow(true))

	cert := &domain.Certificate{ID: "c-1", Status: domain.StatusActive}
	err := repo.Update(context.Background(), cert, 3)

	assert.True(t, errors.Is(err, errors.ErrConcurrency))
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_Update_RowGone(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE certificates SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WillReturnRows(testutil.MockRows("exists").AddRow(false))

	cert := &domain.Certificate{ID: "c-1"}
	err := repo.Update(context.Background(), cert, 1)

	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_Update_BumpsVersion(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE certificates SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cert := &domain.Certificate{ID: "c-1", Status: domain.StatusActive}
	err := repo.Update(context.Background(), cert, 2)

	require.NoError(t, err)
	assert.Equal(t, 3, cert.Version)
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_CreateRenewal_CommitsBoth(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	now := time.Now()
	mockDB.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO certificates").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))
	mockDB.ExpectExec("UPDATE certificates SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	next := &domain.Certificate{
		EmployeeID:        "emp-1",
		TrainingTypeID:    "type-1",
		CertificateNumber: "FS-202401-0002",
		IssueDate:         testutil.Date(2024, time.January, 1),
		Status:            domain.StatusActive,
	}
	old := &domain.Certificate{ID: "c-old", Status: domain.StatusRenewed}

	err := repo.CreateRenewal(context.Background(), next, old, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, next.Version)
	assert.Equal(t, 4, old.Version)
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_CreateRenewal_RollsBackLoser(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	// The version guard misses because another renewal already moved the old
	// row; the successor insert must not survive the rollback.
	now := time.Now()
	mockDB.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO certificates").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))
	mockDB.ExpectExec("UPDATE certificates SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WillReturnRows(testutil.MockRows("exists").AddRow(true))
	mockDB.ExpectRollback()

	next := &domain.Certificate{
		EmployeeID:        "emp-1",
		TrainingTypeID:    "type-1",
		CertificateNumber: "FS-202401-0003",
		IssueDate:         testutil.Date(2024, time.January, 1),
		Status:            domain.StatusActive,
	}
	old := &domain.Certificate{ID: "c-old", Status: domain.StatusRenewed}

	err := repo.CreateRenewal(context.Background(), next, old, 3)
	assert.True(t, errors.Is(err, errors.ErrConcurrency))
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_NextSequence(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT COUNT(*) FROM certificates WHERE certificate_number LIKE $1").
		WithArgs("FS-202401-%").
		WillReturnRows(testutil.MockRows("count").AddRow(4))

	seq, err := repo.NextSequence(context.Background(), "FS-202401-")
	require.NoError(t, err)
	assert.Equal(t, 5, seq)
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_ListSweepChunk(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	expiry := testutil.Date(2025, time.January, 1)
	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("", 2).
		WillReturnRows(testutil.MockRows("id", "training_type_id", "status", "expiry_date", "warning_days").
			AddRow("c-1", "type-1", "active", expiry, 30).
			AddRow("c-2", "type-1", "expiring_soon", expiry, 30))

	chunk, err := repo.ListSweepChunk(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, chunk, 2)
	assert.Equal(t, "c-1", chunk[0].ID)
	assert.Equal(t, domain.StatusExpiringSoon, chunk[1].Status)
	assert.Equal(t, 30, chunk[0].WarningDays)
	mockDB.ExpectationsWereMet(t)
}

func TestCertificateRepository_SoftDelete_NotFound(t *testing.T) {
	repo, mockDB := newCertificateRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE certificates SET deleted_at = NOW()").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}
