package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRegistrationInsertOrGetInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRegistrationRepository(db)
	enrolledAt := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "stage_id", "student_id", "subject_commission_id", "enrolled_at"}).
		AddRow(1, 7, "student-1", 10, enrolledAt)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO registration_enrollments")).
		WithArgs(int64(7), "student-1", int64(10), enrolledAt).
		WillReturnRows(rows)

	enrollment, err := repo.InsertOrGet(context.Background(), 7, "student-1", 10, enrolledAt)
	require.NoError(t, err)
	require.Equal(t, int64(1), enrollment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationInsertOrGetReadsBackOnConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRegistrationRepository(db)
	enrolledAt := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	earlier := enrolledAt.Add(-time.Minute)

	// DO NOTHING on conflict returns no rows; the repository re-reads the
	// existing enrollment instead of surfacing an error.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO registration_enrollments")).
		WithArgs(int64(7), "student-1", int64(10), enrolledAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stage_id", "student_id", "subject_commission_id", "enrolled_at"}))

	existing := sqlmock.NewRows([]string{"id", "stage_id", "student_id", "subject_commission_id", "enrolled_at"}).
		AddRow(42, 7, "student-1", 10, earlier)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, stage_id, student_id, subject_commission_id, enrolled_at")).
		WithArgs(int64(7), "student-1", int64(10)).
		WillReturnRows(existing)

	enrollment, err := repo.InsertOrGet(context.Background(), 7, "student-1", 10, enrolledAt)
	require.NoError(t, err)
	require.Equal(t, int64(42), enrollment.ID)
	require.Equal(t, earlier, enrollment.EnrolledAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewRegistrationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM registration_enrollments")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 42))
	require.NoError(t, mock.ExpectationsWereMet())
}
