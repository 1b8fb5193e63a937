package repository

import (
	"context"
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

func newFileRepo(t *testing.T) (*FileVersionRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	repo := NewFileVersionRepository(database.NewFromSqlx(mockDB.DB, log))
	return repo, mockDB
}

func TestFileVersionRepository_CreateVersion_FirstUpload(t *testing.T) {
	repo, mockDB := newFileRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT COALESCE(MAX(version), 0)").
		WithArgs("emp-1", "type-1").
		WillReturnRows(testutil.MockRows("coalesce").AddRow(0))
	mockDB.ExpectExec("UPDATE file_versions SET is_latest = FALSE").
		WithArgs("emp-1", "type-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectQuery("INSERT INTO file_versions").
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))
	mockDB.ExpectCommit()

	fv := &domain.FileVersion{
		EmployeeID:        "emp-1",
		CertificateTypeID: "type-1",
		Path:              "certificates/emp-1/type-1/abc",
		Hash:              "abc",
		MimeType:          "application/pdf",
		SizeBytes:         1024,
		OriginalName:      "cert.pdf",
	}

	err := repo.CreateVersion(context.Background(), fv)
	require.NoError(t, err)

	assert.Equal(t, 1, fv.Version)
	assert.True(t, fv.IsLatest)
	assert.NotEmpty(t, fv.ID)
	mockDB.ExpectationsWereMet(t)
}

func TestFileVersionRepository_CreateVersion_IncrementsAndFlipsLatest(t *testing.T) {
	repo, mockDB := newFileRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT COALESCE(MAX(version), 0)").
		WillReturnRows(testutil.MockRows("coalesce").AddRow(3))
	mockDB.ExpectExec("UPDATE file_versions SET is_latest = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO file_versions").
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))
	mockDB.ExpectCommit()

	fv := &domain.FileVersion{EmployeeID: "emp-1", CertificateTypeID: "type-1"}
	err := repo.CreateVersion(context.Background(), fv)
	require.NoError(t, err)
	assert.Equal(t, 4, fv.Version)
	mockDB.ExpectationsWereMet(t)
}

func TestFileVersionRepository_DeleteAll_NotFound(t *testing.T) {
	repo, mockDB := newFileRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT path FROM file_versions").
		WillReturnRows(testutil.MockRows("path"))

	_, err := repo.DeleteAll(context.Background(), "emp-1", "type-1")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestFileVersionRepository_DeleteAll_ReturnsPaths(t *testing.T) {
	repo, mockDB := newFileRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT path FROM file_versions").
		WillReturnRows(testutil.MockRows("path").AddRow("p1").AddRow("p2"))
	mockDB.ExpectExec("DELETE FROM file_versions").
		WillReturnResult(sqlmock.NewResult(0, 2))

	paths, err := repo.DeleteAll(context.Background(), "emp-1", "type-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, paths)
	mockDB.ExpectationsWereMet(t)
}
