package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/federicowoodward/siaade-api/internal/models"
	"github.com/federicowoodward/siaade-api/pkg/config"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
)

type mockInscriptionRepo struct {
	inscriptions map[string]models.StudentInscription
	deleted      []int64
	nextID       int64
}

func inscriptionKey(studentID string, entityType models.InscriptionEntityType, entityID int64) string {
	return fmt.Sprintf("%s/%s/%d", entityType, studentID, entityID)
}

func (m *mockInscriptionRepo) FindByKey(ctx context.Context, studentID string, entityType models.InscriptionEntityType, entityID int64) (*models.StudentInscription, error) {
	if i, ok := m.inscriptions[inscriptionKey(studentID, entityType, entityID)]; ok {
		return &i, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInscriptionRepo) InsertOrGet(ctx context.Context, studentID string, entityType models.InscriptionEntityType, entityID int64, createdAt time.Time) (*models.StudentInscription, error) {
	if m.inscriptions == nil {
		m.inscriptions = make(map[string]models.StudentInscription)
	}
	key := inscriptionKey(studentID, entityType, entityID)
	if existing, ok := m.inscriptions[key]; ok {
		return &existing, nil
	}
	m.nextID++
	inscription := models.StudentInscription{
		ID: m.nextID, StudentID: studentID, EntityType: entityType,
		EntityID: entityID, CreatedAt: createdAt,
	}
	m.inscriptions[key] = inscription
	return &inscription, nil
}

func (m *mockInscriptionRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	for key, i := range m.inscriptions {
		if i.ID == id {
			delete(m.inscriptions, key)
		}
	}
	return nil
}

type mockExamReader struct {
	calls map[int64]models.FinalExamCall
}

func (m *mockExamReader) FindCallByID(ctx context.Context, id int64) (*models.FinalExamCall, error) {
	if c, ok := m.calls[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type inscriptionFixture struct {
	svc         *InscriptionService
	repo        *mockInscriptionRepo
	audits      *mockAuditWriter
	eligibility *mockEligibility
	invalidator *mockInvalidator
}

func newInscriptionFixture(cfg config.RegistrationConfig) *inscriptionFixture {
	repo := &mockInscriptionRepo{}
	students := &mockStudentStore{students: map[string]*models.Student{
		testStudentID: {ID: testStudentID},
	}}
	commissions := &mockCommissionReader{commissions: map[int64]models.SubjectCommission{
		10: {ID: 10, SubjectID: 105, SubjectName: "Databases II", Letter: "A"},
	}}
	exams := &mockExamReader{calls: map[int64]models.FinalExamCall{
		20: {ID: 20, SubjectID: 105, SubjectName: "Databases II"},
	}}
	orders := &mockOrderResolver{orders: map[int64]int{105: 5}}
	eligibility := &mockEligibility{results: map[int]*models.EligibilityResult{}}
	audits := &mockAuditWriter{}
	invalidator := &mockInvalidator{}

	svc := NewInscriptionService(repo, students, commissions, exams, orders, eligibility,
		audits, invalidator, NewMetricsService(), cfg, nil, nil)
	return &inscriptionFixture{svc: svc, repo: repo, audits: audits, eligibility: eligibility, invalidator: invalidator}
}

func subjectToggle() ToggleRequest {
	return ToggleRequest{EntityType: models.EntitySubject, CareerID: 1, StudentID: testStudentID, EntityID: 10}
}

func studentActor() models.Actor {
	return models.Actor{ID: testStudentID, Role: models.RoleStudent}
}

func TestToggleEnrollsThenUnenrolls(t *testing.T) {
	f := newInscriptionFixture(config.RegistrationConfig{GateSubjects: true})

	first, err := f.svc.Toggle(context.Background(), subjectToggle(), studentActor(), models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.ToggleActionEnrolled, first.Action)
	require.NotNil(t, first.Inscription)
	assert.Len(t, f.repo.inscriptions, 1)

	second, err := f.svc.Toggle(context.Background(), subjectToggle(), studentActor(), models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.ToggleActionUnenrolled, second.Action)
	assert.Nil(t, second.Inscription)
	assert.Empty(t, f.repo.inscriptions)

	assert.Equal(t, []string{testStudentID, testStudentID}, f.invalidator.students)
	require.Len(t, f.audits.rows, 2)
	assert.Equal(t, "toggle_subject", f.audits.rows[0].Context)
	assert.Equal(t, models.AuditOutcomeSuccess, f.audits.rows[0].Outcome)
	assert.Equal(t, models.AuditOutcomeSuccess, f.audits.rows[1].Outcome)
}

func TestToggleBlockedByPrerequisites(t *testing.T) {
	f := newInscriptionFixture(config.RegistrationConfig{GateSubjects: true})
	f.eligibility.results[5] = &models.EligibilityResult{
		CareerID: 1, StudentID: testStudentID, TargetOrderNo: 5,
		CanEnroll: false, Met: []int{2}, Unmet: []int{3},
	}

	_, err := f.svc.Toggle(context.Background(), subjectToggle(), studentActor(), models.RequestMeta{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPrerequisitesUnmet.Code, appErr.Code)
	assert.Equal(t, []int{3}, appErr.Details)
	assert.Empty(t, f.repo.inscriptions)
	assert.Empty(t, f.invalidator.students)

	require.Len(t, f.audits.rows, 1)
	row := f.audits.rows[0]
	assert.Equal(t, models.AuditOutcomeBlocked, row.Outcome)
	require.NotNil(t, row.ReasonCode)
	assert.Equal(t, models.AuditReasonMissingCorrelatives, *row.ReasonCode)
	assert.Equal(t, pq.Int64Array{3}, row.MissingCorrelatives)
	assert.Equal(t, testStudentID, row.ActorID)
	assert.Equal(t, models.RoleStudent, row.ActorRole)
}

func TestToggleUnenrollSkipsGating(t *testing.T) {
	f := newInscriptionFixture(config.RegistrationConfig{GateSubjects: true})

	_, err := f.svc.Toggle(context.Background(), subjectToggle(), studentActor(), models.RequestMeta{})
	require.NoError(t, err)

	// Correlatives now fail, but leaving the subject must still work.
	f.eligibility.results[5] = &models.EligibilityResult{CanEnroll: false, Unmet: []int{3}}
	f.eligibility.calls = 0

	result, err := f.svc.Toggle(context.Background(), subjectToggle(), studentActor(), models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.ToggleActionUnenrolled, result.Action)
	assert.Zero(t, f.eligibility.calls)
}

func TestToggleFinalExamGatedSeparately(t *testing.T) {
	f := newInscriptionFixture(config.RegistrationConfig{GateSubjects: true, GateFinalExams: false})
	f.eligibility.results[5] = &models.EligibilityResult{CanEnroll: false, Unmet: []int{3}}

	req := ToggleRequest{EntityType: models.EntityFinalExam, CareerID: 1, StudentID: testStudentID, EntityID: 20}
	result, err := f.svc.Toggle(context.Background(), req, studentActor(), models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.ToggleActionEnrolled, result.Action)
	assert.Zero(t, f.eligibility.calls)
	assert.Equal(t, "toggle_final_exam", f.audits.rows[0].Context)
}

func TestToggleSubjectOutsideCareerSkipsGating(t *testing.T) {
	f := newInscriptionFixture(config.RegistrationConfig{GateSubjects: true})
	f.svc.orders = &mockOrderResolver{orders: map[int64]int{}}

	result, err := f.svc.Toggle(context.Background(), subjectToggle(), studentActor(), models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.ToggleActionEnrolled, result.Action)
	assert.Zero(t, f.eligibility.calls)
}

func TestToggleUnknownTargets(t *testing.T) {
	f := newInscriptionFixture(config.RegistrationConfig{})

	req := subjectToggle()
	req.StudentID = "b3dc1f5a-7c2e-4b8f-9d6a-1e2f3a4b5c6d"
	_, err := f.svc.Toggle(context.Background(), req, studentActor(), models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	req = subjectToggle()
	req.EntityID = 99
	_, err = f.svc.Toggle(context.Background(), req, studentActor(), models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
