package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/federicowoodward/siaade-api/internal/models"
	"github.com/federicowoodward/siaade-api/pkg/config"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
)

type registrationRepository interface {
	InsertOrGet(ctx context.Context, stageID int64, studentID string, commissionID int64, enrolledAt time.Time) (*models.RegistrationEnrollment, error)
	FindByID(ctx context.Context, id int64) (*models.RegistrationEnrollment, error)
	Delete(ctx context.Context, id int64) error
}

type stageReader interface {
	FindByID(ctx context.Context, id int64) (*models.RegistrationStage, error)
}

type commissionReader interface {
	FindByID(ctx context.Context, id int64) (*models.SubjectCommission, error)
}

type orderResolver interface {
	OrderNoFor(ctx context.Context, careerID, subjectID int64) (int, bool, error)
}

type eligibilityChecker interface {
	ValidateEnrollment(ctx context.Context, careerID int64, studentID string, targetOrderNo int) (*models.EligibilityResult, error)
}

type auditWriter interface {
	Insert(ctx context.Context, audit *models.InscriptionAudit) error
}

type statusInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID string)
}

// EnrollRequest describes a stage enrollment.
type EnrollRequest struct {
	StageID             int64  `json:"stage_id" validate:"required"`
	StudentID           string `json:"student_id" validate:"required,uuid"`
	SubjectCommissionID int64  `json:"subject_commission_id" validate:"required"`
}

// DeletionResult confirms an unenrollment.
type DeletionResult struct {
	Deleted bool `json:"deleted"`
}

// RegistrationService handles stage-window enrollment. Enroll is idempotent:
// retries and concurrent duplicates resolve to the single persisted row.
type RegistrationService struct {
	repo        registrationRepository
	stages      stageReader
	students    studentReader
	commissions commissionReader
	orders      orderResolver
	eligibility eligibilityChecker
	audits      auditWriter
	status      statusInvalidator
	metrics     *MetricsService
	cfg         config.RegistrationConfig
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewRegistrationService constructs RegistrationService.
func NewRegistrationService(repo registrationRepository, stages stageReader, students studentReader, commissions commissionReader, orders orderResolver, eligibility eligibilityChecker, audits auditWriter, status statusInvalidator, metrics *MetricsService, cfg config.RegistrationConfig, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		repo: repo, stages: stages, students: students, commissions: commissions,
		orders: orders, eligibility: eligibility, audits: audits, status: status,
		metrics: metrics, cfg: cfg, validator: validate, logger: logger,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Enroll registers a student into a subject commission within an active
// stage. Preconditions fail fast in order: stage exists, stage active,
// student exists, commission exists.
func (s *RegistrationService) Enroll(ctx context.Context, req EnrollRequest, actor models.Actor, meta models.RequestMeta) (*models.RegistrationEnrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	stage, err := s.stages.FindByID(ctx, req.StageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stage not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stage")
	}
	if !stage.IsActive(s.now()) {
		s.writeAudit(ctx, req.StudentID, actor, meta, "stage_enroll", models.AuditOutcomeBlocked, models.AuditReasonStageInactive, nil, nil)
		s.metrics.RecordDecision("stage_enroll", models.AuditOutcomeBlocked)
		return nil, appErrors.Clone(appErrors.ErrStageInactive, "")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	commission, err := s.commissions.FindByID(ctx, req.SubjectCommissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject commission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load commission")
	}

	// Stage enrollment gates on correlatives only when configured; the
	// institutional default leaves stage campaigns ungated.
	if s.cfg.GateStageEnrollment {
		if blockedErr := s.checkPrerequisites(ctx, stage.CareerID, req.StudentID, commission, actor, meta, "stage_enroll"); blockedErr != nil {
			return nil, blockedErr
		}
	}

	enrollment, err := s.repo.InsertOrGet(ctx, req.StageID, req.StudentID, req.SubjectCommissionID, s.now())
	if err != nil {
		s.writeAudit(ctx, req.StudentID, actor, meta, "stage_enroll", models.AuditOutcomeError, models.AuditReasonStoreError, commission, nil)
		s.metrics.RecordDecision("stage_enroll", models.AuditOutcomeError)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
	}

	s.writeAudit(ctx, req.StudentID, actor, meta, "stage_enroll", models.AuditOutcomeSuccess, "", commission, nil)
	s.metrics.RecordDecision("stage_enroll", models.AuditOutcomeSuccess)
	s.status.InvalidateStudent(ctx, req.StudentID)
	return enrollment, nil
}

// Unenroll removes an enrollment by id. The audit trail is append-only and
// is not retracted: a new row records the removal.
func (s *RegistrationService) Unenroll(ctx context.Context, id int64, actor models.Actor, meta models.RequestMeta) (*DeletionResult, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.writeAudit(ctx, enrollment.StudentID, actor, meta, "stage_unenroll", models.AuditOutcomeError, models.AuditReasonStoreError, nil, nil)
		s.metrics.RecordDecision("stage_unenroll", models.AuditOutcomeError)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	s.writeAudit(ctx, enrollment.StudentID, actor, meta, "stage_unenroll", models.AuditOutcomeSuccess, "", nil, nil)
	s.metrics.RecordDecision("stage_unenroll", models.AuditOutcomeSuccess)
	s.status.InvalidateStudent(ctx, enrollment.StudentID)
	return &DeletionResult{Deleted: true}, nil
}

// checkPrerequisites runs the eligibility check for the commission's subject
// and records a blocked audit row when correlatives are missing.
func (s *RegistrationService) checkPrerequisites(ctx context.Context, careerID int64, studentID string, commission *models.SubjectCommission, actor models.Actor, meta models.RequestMeta, auditContext string) error {
	orderNo, inCareer, err := s.orders.OrderNoFor(ctx, careerID, commission.SubjectID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject order")
	}
	if !inCareer {
		// Subject outside the curriculum has no edges to check.
		return nil
	}
	result, err := s.eligibility.ValidateEnrollment(ctx, careerID, studentID, orderNo)
	if err != nil {
		return err
	}
	if result.CanEnroll {
		return nil
	}
	s.writeAuditWithOrder(ctx, studentID, actor, meta, auditContext, models.AuditOutcomeBlocked, models.AuditReasonMissingCorrelatives, commission, &orderNo, result.Unmet)
	s.metrics.RecordDecision(auditContext, models.AuditOutcomeBlocked)
	return appErrors.WithDetails(appErrors.ErrPrerequisitesUnmet,
		fmt.Sprintf("missing correlatives: %v", result.Unmet), result.Unmet)
}

func (s *RegistrationService) writeAudit(ctx context.Context, studentID string, actor models.Actor, meta models.RequestMeta, auditContext, outcome, reason string, commission *models.SubjectCommission, unmet []int) {
	s.writeAuditWithOrder(ctx, studentID, actor, meta, auditContext, outcome, reason, commission, nil, unmet)
}

func (s *RegistrationService) writeAuditWithOrder(ctx context.Context, studentID string, actor models.Actor, meta models.RequestMeta, auditContext, outcome, reason string, commission *models.SubjectCommission, orderNo *int, unmet []int) {
	audit := &models.InscriptionAudit{
		StudentID: studentID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Context:   auditContext,
		Outcome:   outcome,
	}
	if reason != "" {
		audit.ReasonCode = &reason
	}
	if commission != nil {
		audit.SubjectID = &commission.SubjectID
		audit.SubjectName = &commission.SubjectName
	}
	if orderNo != nil {
		audit.SubjectOrderNo = orderNo
	}
	if len(unmet) > 0 {
		missing := make(pq.Int64Array, len(unmet))
		for i, orderNo := range unmet {
			missing[i] = int64(orderNo)
		}
		audit.MissingCorrelatives = missing
	}
	if meta.IP != "" {
		audit.IP = &meta.IP
	}
	if meta.UserAgent != "" {
		audit.UserAgent = &meta.UserAgent
	}
	// Audit writes are best-effort logging; a failed write never rolls back
	// the enrollment decision.
	if err := s.audits.Insert(ctx, audit); err != nil {
		s.logger.Warn("failed to write enrollment audit", zap.String("student_id", studentID), zap.Error(err))
	}
}
