package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/federicowoodward/siaade-api/internal/models"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
)

type mockStageRepo struct {
	stages  map[int64]models.RegistrationStage
	types   map[int64]bool
	created *models.RegistrationStage
	closed  map[int64]time.Time
	nextID  int64
}

func (m *mockStageRepo) FindByID(ctx context.Context, id int64) (*models.RegistrationStage, error) {
	if s, ok := m.stages[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStageRepo) TypeExists(ctx context.Context, typeID int64) (bool, error) {
	return m.types[typeID], nil
}

func (m *mockStageRepo) Create(ctx context.Context, stage *models.RegistrationStage) error {
	if m.stages == nil {
		m.stages = make(map[int64]models.RegistrationStage)
	}
	m.nextID++
	stage.ID = m.nextID
	stage.CreatedAt = time.Now().UTC()
	m.stages[stage.ID] = *stage
	m.created = stage
	return nil
}

func (m *mockStageRepo) Update(ctx context.Context, stage *models.RegistrationStage) error {
	m.stages[stage.ID] = *stage
	return nil
}

func (m *mockStageRepo) Close(ctx context.Context, id int64, endAt time.Time) error {
	if m.closed == nil {
		m.closed = make(map[int64]time.Time)
	}
	m.closed[id] = endAt
	s := m.stages[id]
	s.EndAt = endAt
	m.stages[id] = s
	return nil
}

func (m *mockStageRepo) List(ctx context.Context, filter models.StageFilter, now time.Time) ([]models.RegistrationStage, int, error) {
	var out []models.RegistrationStage
	for _, s := range m.stages {
		out = append(out, s)
	}
	return out, len(out), nil
}

type mockCareerChecker struct {
	careers map[int64]bool
}

func (m *mockCareerChecker) CareerExists(ctx context.Context, careerID int64) (bool, error) {
	return m.careers[careerID], nil
}

var stageNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newStageService(repo *mockStageRepo) *StageService {
	if repo.types == nil {
		repo.types = map[int64]bool{1: true}
	}
	svc := NewStageService(repo, &mockCareerChecker{careers: map[int64]bool{1: true}}, nil, nil)
	svc.now = func() time.Time { return stageNow }
	return svc
}

func validCreateRequest() CreateStageRequest {
	return CreateStageRequest{
		CareerID:    1,
		TypeID:      1,
		PeriodLabel: "1C 2026",
		StartAt:     stageNow.Add(-time.Hour),
		EndAt:       stageNow.Add(72 * time.Hour),
		CreatedBy:   "a2f1c7de-90b4-4f39-9c1e-0a8f1f2d3c4b",
	}
}

func TestStageCreateDerivesActiveState(t *testing.T) {
	repo := &mockStageRepo{}
	svc := newStageService(repo)

	detail, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StageStateActive, detail.State)
	require.NotNil(t, repo.created)
	assert.Equal(t, "1C 2026", repo.created.PeriodLabel)
}

func TestStageCreateRejectsInvertedWindow(t *testing.T) {
	repo := &mockStageRepo{}
	svc := newStageService(repo)

	req := validCreateRequest()
	req.StartAt = stageNow.Add(time.Hour)
	req.EndAt = stageNow

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestStageCreateUnknownCareerAndType(t *testing.T) {
	repo := &mockStageRepo{}
	svc := newStageService(repo)

	req := validCreateRequest()
	req.CareerID = 9
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	req = validCreateRequest()
	req.TypeID = 9
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStageEditRevalidatesMergedWindow(t *testing.T) {
	repo := &mockStageRepo{stages: map[int64]models.RegistrationStage{
		7: {ID: 7, CareerID: 1, TypeID: 1, StartAt: stageNow.Add(-time.Hour), EndAt: stageNow.Add(time.Hour)},
	}}
	svc := newStageService(repo)

	badEnd := stageNow.Add(-2 * time.Hour)
	_, err := svc.Edit(context.Background(), 7, EditStageRequest{EndAt: &badEnd})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)

	label := "summer call"
	detail, err := svc.Edit(context.Background(), 7, EditStageRequest{PeriodLabel: &label})
	require.NoError(t, err)
	assert.Equal(t, "summer call", detail.PeriodLabel)
	assert.Equal(t, models.StageStateActive, detail.State)
}

func TestStageCloseEndsWindowNow(t *testing.T) {
	repo := &mockStageRepo{stages: map[int64]models.RegistrationStage{
		7: {ID: 7, CareerID: 1, TypeID: 1, StartAt: stageNow.Add(-time.Hour), EndAt: stageNow.Add(48 * time.Hour)},
	}}
	svc := newStageService(repo)

	detail, err := svc.Close(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, stageNow, detail.EndAt)
	assert.Equal(t, models.StageStateClosed, detail.RegistrationStage.State(stageNow.Add(time.Second)))

	// Closing again keeps the stage closed without error.
	again, err := svc.Close(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, stageNow, again.EndAt)
}

func TestStageCloseUnknown(t *testing.T) {
	svc := newStageService(&mockStageRepo{})

	_, err := svc.Close(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStageStateIsPureFunctionOfWindow(t *testing.T) {
	stage := models.RegistrationStage{
		StartAt: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC),
	}

	assert.Equal(t, models.StageStateScheduled, stage.State(stage.StartAt.Add(-time.Minute)))
	assert.Equal(t, models.StageStateActive, stage.State(stage.StartAt))
	assert.Equal(t, models.StageStateActive, stage.State(stage.EndAt))
	assert.Equal(t, models.StageStateClosed, stage.State(stage.EndAt.Add(time.Minute)))
	assert.True(t, stage.IsActive(stage.StartAt.Add(time.Hour)))
	assert.False(t, stage.IsActive(stage.EndAt.Add(time.Hour)))
}
