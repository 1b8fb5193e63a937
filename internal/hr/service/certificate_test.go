package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/events"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/repository"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/clock"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/database"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/messaging"
	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/testutil"
)

// recordingPublisher captures emitted event types for assertions
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ interface{}) error {
	p.events = append(p.events, eventType)
	return nil
}

func newCertificateService(t *testing.T, now time.Time, pub events.EventPublisher) (*CertificateService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	db := database.NewFromSqlx(mockDB.DB, log)

	svc := NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewTrainingTypeRepository(db),
		events.NewEmitter(pub, log),
		clock.At(now),
		log,
	)
	return svc, mockDB
}

func employeeRow(id string) *sqlmock.Rows {
	return testutil.MockRows("id", "first_name", "last_name", "hire_date", "employment_status").
		AddRow(id, "Ayu", "Lestari", testutil.Date(2020, time.January, 1), "active")
}

func trainingTypeRow(id, code string) *sqlmock.Rows {
	return testutil.MockRows("id", "name", "code", "validity_months", "warning_days", "is_mandatory", "is_recurrent").
		AddRow(id, "Fire Safety", code, 12, 30, true, true)
}

func certificateRow(id string, version int) *sqlmock.Rows {
	return testutil.MockRows("id", "employee_id", "training_type_id", "certificate_number",
		"issue_date", "expiry_date", "status", "is_renewable", "renewal_generation", "version").
		AddRow(id, "emp-1", "type-1", "FS-202401-0001",
			testutil.Date(2024, time.January, 1), testutil.Date(2025, time.January, 1), "active", true, 0, version)
}

func TestRenew_ConcurrentRenewalLeavesNoSuccessor(t *testing.T) {
	now := testutil.Date(2025, time.January, 2)
	svc, mockDB := newCertificateService(t, now, nil)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM certificates c").WillReturnRows(certificateRow("c-old", 3))
	mockDB.ExpectQuery("SELECT * FROM training_types WHERE id = $1").
		WithArgs("type-1").WillReturnRows(trainingTypeRow("type-1", "FS"))

	// Another renewal won between the read and the write; the successor
	// insert must roll back together with the failed version-guarded update.
	mockDB.ExpectBegin()
	mockDB.ExpectQuery("INSERT INTO certificates").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(time.Now(), time.Now()))
	mockDB.ExpectExec("UPDATE certificates SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WillReturnRows(testutil.MockRows("exists").AddRow(true))
	mockDB.ExpectRollback()

	_, err := svc.Renew(context.Background(), "c-old", RenewRequest{CertificateNumber: "FS-202502-0009"})
	assert.True(t, errors.Is(err, errors.ErrConcurrency))
	mockDB.ExpectationsWereMet(t)
}

func TestIssue_RetriesGeneratedNumberOnCollision(t *testing.T) {
	now := testutil.Date(2025, time.January, 2)
	svc, mockDB := newCertificateService(t, now, nil)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM employees e").WillReturnRows(employeeRow("emp-1"))
	mockDB.ExpectQuery("SELECT * FROM training_types WHERE id = $1").
		WithArgs("type-1").WillReturnRows(trainingTypeRow("type-1", "FS"))

	// A concurrent issuance takes FS-202501-0001 first; the unique index
	// rejects the insert and the next sequence is tried.
	mockDB.ExpectQuery("SELECT COUNT(*) FROM certificates WHERE certificate_number LIKE $1").
		WithArgs("FS-202501-%").
		WillReturnRows(testutil.MockRows("count").AddRow(0))
	mockDB.ExpectQuery("INSERT INTO certificates").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "certificates_certificate_number_key"})
	mockDB.ExpectQuery("SELECT COUNT(*) FROM certificates WHERE certificate_number LIKE $1").
		WithArgs("FS-202501-%").
		WillReturnRows(testutil.MockRows("count").AddRow(1))
	mockDB.ExpectQuery("INSERT INTO certificates").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(time.Now(), time.Now()))

	cert, err := svc.Issue(context.Background(), IssueRequest{
		EmployeeID:     "emp-1",
		TrainingTypeID: "type-1",
		IssueDate:      testutil.Date(2025, time.January, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "FS-202501-0002", cert.CertificateNumber)
	mockDB.ExpectationsWereMet(t)
}

func TestIssue_SuppliedNumberConflictIsNotRetried(t *testing.T) {
	now := testutil.Date(2025, time.January, 2)
	svc, mockDB := newCertificateService(t, now, nil)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM employees e").WillReturnRows(employeeRow("emp-1"))
	mockDB.ExpectQuery("SELECT * FROM training_types WHERE id = $1").
		WithArgs("type-1").WillReturnRows(trainingTypeRow("type-1", "FS"))
	mockDB.ExpectQuery("INSERT INTO certificates").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "certificates_certificate_number_key"})

	_, err := svc.Issue(context.Background(), IssueRequest{
		EmployeeID:        "emp-1",
		TrainingTypeID:    "type-1",
		CertificateNumber: "FS-202501-0001",
		IssueDate:         testutil.Date(2025, time.January, 2),
	})
	assert.True(t, errors.Is(err, errors.ErrConflict))
	mockDB.ExpectationsWereMet(t)
}

func TestVerifyByCode_MissEmitsAuditEvent(t *testing.T) {
	now := testutil.Date(2025, time.January, 2)
	pub := &recordingPublisher{}
	svc, mockDB := newCertificateService(t, now, pub)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM certificates c").WillReturnError(sql.ErrNoRows)

	_, err := svc.VerifyByCode(context.Background(), "no-such-code")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, []string{messaging.EventVerificationFailed}, pub.events)
	mockDB.ExpectationsWereMet(t)
}
