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

type mockRecordReader struct {
	records map[string][]models.AcademicRecord
}

func (m *mockRecordReader) ListAcademicRecords(ctx context.Context, studentID string) ([]models.AcademicRecord, error) {
	return m.records[studentID], nil
}

type mockStudentStore struct {
	students map[string]*models.Student
}

func (m *mockStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockCacheRepo struct {
	values  map[string][]byte
	deleted []string
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = []byte("set")
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	return nil
}

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func strPtr(v string) *string       { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func condPtr(c models.SubjectCondition) *models.SubjectCondition { return &c }

func newStatusService(records map[string][]models.AcademicRecord, cache *CacheService) *AcademicStatusService {
	students := &mockStudentStore{students: map[string]*models.Student{
		"student-1": {ID: "student-1"},
	}}
	if cache == nil {
		cache = NewCacheService(nil, nil, 0, nil, false)
	}
	return NewAcademicStatusService(&mockRecordReader{records: records}, students, cache, 6, nil)
}

func TestAcademicStatusConditionPrecedence(t *testing.T) {
	records := map[string][]models.AcademicRecord{
		"student-1": {
			// Passing final exam wins over the explicit status.
			{SubjectID: 1, SubjectName: "Algebra", YearNo: intPtr(1),
				StatusType: condPtr(models.ConditionRegular),
				FinalScore: floatPtr(8), FinalCondition: condPtr(models.ConditionAprobado)},
			// Failing final exam falls back to the explicit status.
			{SubjectID: 2, SubjectName: "Analysis", YearNo: intPtr(1),
				StatusType: condPtr(models.ConditionRegular),
				FinalScore: floatPtr(3), FinalCondition: condPtr(models.ConditionLibre)},
			// No status at all defaults to Inscripto.
			{SubjectID: 3, SubjectName: "Physics", YearNo: intPtr(1)},
		},
	}
	svc := newStatusService(records, nil)

	report, err := svc.GetStudentAcademicStatus(context.Background(), "student-1")
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, report.Years)

	rows := report.ByYear["1"]
	require.Len(t, rows, 3)
	assert.Equal(t, models.ConditionAprobado, rows[0].Condition)
	assert.Equal(t, models.ConditionRegular, rows[1].Condition)
	assert.Equal(t, models.ConditionInscripto, rows[2].Condition)
}

func TestAcademicStatusYearBuckets(t *testing.T) {
	taken := time.Date(2023, time.December, 12, 0, 0, 0, 0, time.UTC)
	records := map[string][]models.AcademicRecord{
		"student-1": {
			{SubjectID: 1, SubjectName: "Algebra", YearNo: intPtr(2)},
			{SubjectID: 2, SubjectName: "Latin", FinalTakenAt: timePtr(taken),
				FinalScore: floatPtr(9), FinalCondition: condPtr(models.ConditionAprobado)},
			{SubjectID: 3, SubjectName: "Drawing"},
			{SubjectID: 4, SubjectName: "Logic", YearNo: intPtr(1)},
		},
	}
	svc := newStatusService(records, nil)

	report, err := svc.GetStudentAcademicStatus(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "2023", YearUnknown}, report.Years)
	assert.Len(t, report.ByYear[YearUnknown], 1)
	assert.Equal(t, "Drawing", report.ByYear[YearUnknown][0].SubjectName)
}

func TestAcademicStatusUnknownStudent(t *testing.T) {
	svc := newStatusService(nil, nil)

	_, err := svc.GetStudentAcademicStatus(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAcademicStatusCachesAndInvalidates(t *testing.T) {
	repo := &mockCacheRepo{}
	cacheSvc := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	svc := newStatusService(map[string][]models.AcademicRecord{
		"student-1": {{SubjectID: 1, SubjectName: "Algebra", YearNo: intPtr(1)}},
	}, cacheSvc)

	_, err := svc.GetStudentAcademicStatus(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Contains(t, repo.values, "academic_status:student-1")

	svc.InvalidateStudent(context.Background(), "student-1")
	assert.Equal(t, []string{"academic_status:student-1"}, repo.deleted)
}

func TestAcademicStatusEmptyRecords(t *testing.T) {
	svc := newStatusService(map[string][]models.AcademicRecord{"student-1": {}}, nil)

	report, err := svc.GetStudentAcademicStatus(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Empty(t, report.Years)
	assert.Empty(t, report.ByYear)
}
