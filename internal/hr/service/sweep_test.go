package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/events"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/clock"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/config"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/testutil"
)

func newSweepService(t *testing.T, now time.Time) (*SweepService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	certRepo := repository.NewCertificateRepository(database.NewFromSqlx(mockDB.DB, log))
	emitter := events.NewEmitter(nil, log)

	svc := NewSweepService(certRepo, emitter, clock.At(now), config.SweepConfig{ChunkSize: 10}, log)
	return svc, mockDB
}

func sweepColumns() []string {
	return []string{"id", "training_type_id", "status", "expiry_date", "warning_days"}
}

func TestSweep_MovesCertificatesAcrossBoundaries(t *testing.T) {
	now := testutil.Date(2025, time.January, 15)
	svc, mockDB := newSweepService(t, now)
	defer mockDB.Close()

	farExpiry := testutil.Date(2026, time.January, 1)   // stays active
	soonExpiry := testutil.Date(2025, time.February, 1) // within 30 days
	pastExpiry := testutil.Date(2025, time.January, 1)  // already past

	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("", 10).
		WillReturnRows(testutil.MockRows(sweepColumns()...).
			AddRow("c-1", "type-1", "active", farExpiry, 30).
			AddRow("c-2", "type-1", "active", soonExpiry, 30).
			AddRow("c-3", "type-1", "active", pastExpiry, 30))

	mockDB.ExpectExec("UPDATE certificates SET status").
		WithArgs("c-2", "expiring_soon").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("UPDATE certificates SET status").
		WithArgs("c-3", "expired").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("c-3", 10).
		WillReturnRows(testutil.MockRows(sweepColumns()...))

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 2, result.Changed)
	mockDB.ExpectationsWereMet(t)
}

func TestSweep_SecondRunIsNoOp(t *testing.T) {
	now := testutil.Date(2025, time.January, 15)
	svc, mockDB := newSweepService(t, now)
	defer mockDB.Close()

	soonExpiry := testutil.Date(2025, time.February, 1)
	pastExpiry := testutil.Date(2025, time.January, 1)

	// Statuses already settled by a previous run; expired rows have left the
	// candidate set entirely.
	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("", 10).
		WillReturnRows(testutil.MockRows(sweepColumns()...).
			AddRow("c-2", "type-1", "expiring_soon", soonExpiry, 30).
			AddRow("c-4", "type-1", "expiring_soon", pastExpiry, 30))

	// c-4 crossed into expired since the last run, c-2 stays put
	mockDB.ExpectExec("UPDATE certificates SET status").
		WithArgs("c-4", "expired").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("c-4", 10).
		WillReturnRows(testutil.MockRows(sweepColumns()...))

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Changed)

	// Running again immediately changes nothing
	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("", 10).
		WillReturnRows(testutil.MockRows(sweepColumns()...).
			AddRow("c-2", "type-1", "expiring_soon", soonExpiry, 30))
	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("c-2", 10).
		WillReturnRows(testutil.MockRows(sweepColumns()...))

	result, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Changed)
	assert.Equal(t, 1, result.Scanned)
	mockDB.ExpectationsWereMet(t)
}

func TestSweep_EmptyDatabase(t *testing.T) {
	now := testutil.Date(2025, time.January, 15)
	svc, mockDB := newSweepService(t, now)
	defer mockDB.Close()

	mockDB.ExpectQuery("JOIN training_types t").
		WithArgs("", 10).
		WillReturnRows(testutil.MockRows(sweepColumns()...))

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
	assert.Equal(t, 0, result.Changed)
	mockDB.ExpectationsWereMet(t)
}
