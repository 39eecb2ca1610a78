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

type inscriptionRepository interface {
	FindByKey(ctx context.Context, studentID string, entityType models.InscriptionEntityType, entityID int64) (*models.StudentInscription, error)
	InsertOrGet(ctx context.Context, studentID string, entityType models.InscriptionEntityType, entityID int64, createdAt time.Time) (*models.StudentInscription, error)
	Delete(ctx context.Context, id int64) error
}

type examCallReader interface {
	FindCallByID(ctx context.Context, id int64) (*models.FinalExamCall, error)
}

// ToggleRequest describes a toggle against a subject commission or a final
// exam call.
type ToggleRequest struct {
	EntityType models.InscriptionEntityType `json:"entity_type" validate:"required,oneof=subject final_exam"`
	CareerID   int64                        `json:"career_id" validate:"required"`
	StudentID  string                       `json:"student_id" validate:"required,uuid"`
	EntityID   int64                        `json:"entity_id" validate:"required"`
}

// InscriptionService is the stage-independent enrollment toggler. Enrolling
// gates on direct correlatives per entity type; unenrolling never does. Every
// decision, including blocked ones, appends an audit row.
type InscriptionService struct {
	repo        inscriptionRepository
	students    studentReader
	commissions commissionReader
	exams       examCallReader
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

// NewInscriptionService constructs InscriptionService.
func NewInscriptionService(repo inscriptionRepository, students studentReader, commissions commissionReader, exams examCallReader, orders orderResolver, eligibility eligibilityChecker, audits auditWriter, status statusInvalidator, metrics *MetricsService, cfg config.RegistrationConfig, validate *validator.Validate, logger *zap.Logger) *InscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InscriptionService{
		repo: repo, students: students, commissions: commissions, exams: exams,
		orders: orders, eligibility: eligibility, audits: audits, status: status,
		metrics: metrics, cfg: cfg, validator: validate, logger: logger,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Toggle enrolls the student when no inscription exists for the key and
// unenrolls otherwise. Both directions are idempotent against retries.
func (s *InscriptionService) Toggle(ctx context.Context, req ToggleRequest, actor models.Actor, meta models.RequestMeta) (*models.ToggleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid toggle payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	subjectID, subjectName, err := s.resolveSubject(ctx, req)
	if err != nil {
		return nil, err
	}
	auditContext := "toggle_" + string(req.EntityType)

	existing, err := s.repo.FindByKey(ctx, req.StudentID, req.EntityType, req.EntityID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inscription")
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			s.audit(ctx, req, actor, meta, auditContext, models.AuditOutcomeError, models.AuditReasonStoreError, subjectID, subjectName, nil, nil)
			s.metrics.RecordDecision(auditContext, models.AuditOutcomeError)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete inscription")
		}
		s.audit(ctx, req, actor, meta, auditContext, models.AuditOutcomeSuccess, "", subjectID, subjectName, nil, nil)
		s.metrics.RecordDecision(auditContext, models.AuditOutcomeSuccess)
		s.status.InvalidateStudent(ctx, req.StudentID)
		return &models.ToggleResult{Action: models.ToggleActionUnenrolled}, nil
	}

	if s.gated(req.EntityType) {
		orderNo, inCareer, err := s.orders.OrderNoFor(ctx, req.CareerID, subjectID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject order")
		}
		if inCareer {
			result, err := s.eligibility.ValidateEnrollment(ctx, req.CareerID, req.StudentID, orderNo)
			if err != nil {
				return nil, err
			}
			if !result.CanEnroll {
				s.audit(ctx, req, actor, meta, auditContext, models.AuditOutcomeBlocked, models.AuditReasonMissingCorrelatives, subjectID, subjectName, &orderNo, result.Unmet)
				s.metrics.RecordDecision(auditContext, models.AuditOutcomeBlocked)
				return nil, appErrors.WithDetails(appErrors.ErrPrerequisitesUnmet,
					fmt.Sprintf("missing correlatives: %v", result.Unmet), result.Unmet)
			}
		}
	}

	inscription, err := s.repo.InsertOrGet(ctx, req.StudentID, req.EntityType, req.EntityID, s.now())
	if err != nil {
		s.audit(ctx, req, actor, meta, auditContext, models.AuditOutcomeError, models.AuditReasonStoreError, subjectID, subjectName, nil, nil)
		s.metrics.RecordDecision(auditContext, models.AuditOutcomeError)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist inscription")
	}

	s.audit(ctx, req, actor, meta, auditContext, models.AuditOutcomeSuccess, "", subjectID, subjectName, nil, nil)
	s.metrics.RecordDecision(auditContext, models.AuditOutcomeSuccess)
	s.status.InvalidateStudent(ctx, req.StudentID)
	return &models.ToggleResult{Action: models.ToggleActionEnrolled, Inscription: inscription}, nil
}

func (s *InscriptionService) gated(entityType models.InscriptionEntityType) bool {
	switch entityType {
	case models.EntityFinalExam:
		return s.cfg.GateFinalExams
	default:
		return s.cfg.GateSubjects
	}
}

func (s *InscriptionService) resolveSubject(ctx context.Context, req ToggleRequest) (int64, string, error) {
	switch req.EntityType {
	case models.EntityFinalExam:
		call, err := s.exams.FindCallByID(ctx, req.EntityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, "", appErrors.Clone(appErrors.ErrNotFound, "final exam call not found")
			}
			return 0, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final exam call")
		}
		return call.SubjectID, call.SubjectName, nil
	default:
		commission, err := s.commissions.FindByID(ctx, req.EntityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, "", appErrors.Clone(appErrors.ErrNotFound, "subject commission not found")
			}
			return 0, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load commission")
		}
		return commission.SubjectID, commission.SubjectName, nil
	}
}

func (s *InscriptionService) audit(ctx context.Context, req ToggleRequest, actor models.Actor, meta models.RequestMeta, auditContext, outcome, reason string, subjectID int64, subjectName string, orderNo *int, unmet []int) {
	audit := &models.InscriptionAudit{
		StudentID:   req.StudentID,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Context:     auditContext,
		Outcome:     outcome,
		SubjectID:   &subjectID,
		SubjectName: &subjectName,
	}
	if reason != "" {
		audit.ReasonCode = &reason
	}
	if orderNo != nil {
		audit.SubjectOrderNo = orderNo
	}
	if len(unmet) > 0 {
		missing := make(pq.Int64Array, len(unmet))
		for i, no := range unmet {
			missing[i] = int64(no)
		}
		audit.MissingCorrelatives = missing
	}
	if meta.IP != "" {
		audit.IP = &meta.IP
	}
	if meta.UserAgent != "" {
		audit.UserAgent = &meta.UserAgent
	}
	if err := s.audits.Insert(ctx, audit); err != nil {
		s.logger.Warn("failed to write inscription audit", zap.String("student_id", req.StudentID), zap.Error(err))
	}
}
