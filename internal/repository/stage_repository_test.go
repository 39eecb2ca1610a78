package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/federicowoodward/siaade-api/internal/models"
)

func TestStageListActiveFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStageRepository(db)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "career_id", "type_id", "period_label", "start_at", "end_at", "created_by", "min_order_no", "max_order_no", "created_at"}).
		AddRow(3, 1, 1, "1C 2026", now.Add(-time.Hour), now.Add(time.Hour), "admin-1", nil, nil, now.Add(-48*time.Hour)).
		AddRow(2, 1, 1, "2C 2025", now.Add(-2*time.Hour), now.Add(time.Hour), "admin-1", nil, nil, now.Add(-72*time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY start_at DESC, id DESC")).
		WithArgs(int64(1), now).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(int64(1), now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	stages, total, err := repo.List(context.Background(), models.StageFilter{CareerID: 1, ActiveOnly: true}, now)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, stages, 2)
	require.Equal(t, int64(3), stages[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStageClose(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStageRepository(db)
	endAt := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE registration_stages SET end_at")).
		WithArgs(int64(7), endAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Close(context.Background(), 7, endAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStageCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewStageRepository(db)
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	stage := &models.RegistrationStage{
		CareerID: 1, TypeID: 1, PeriodLabel: "1C 2026",
		StartAt: now, EndAt: now.Add(30 * 24 * time.Hour), CreatedBy: "admin-1",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO registration_stages")).
		WithArgs(stage.CareerID, stage.TypeID, stage.PeriodLabel, stage.StartAt, stage.EndAt, stage.CreatedBy, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

	require.NoError(t, repo.Create(context.Background(), stage))
	require.Equal(t, int64(11), stage.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
