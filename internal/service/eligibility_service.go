package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/federicowoodward/siaade-api/internal/models"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
)

type curriculumReader interface {
	CareerExists(ctx context.Context, careerID int64) (bool, error)
	ListSubjects(ctx context.Context, careerID int64) ([]models.CareerSubject, error)
	PrerequisitesFor(ctx context.Context, careerID int64, orderNo int) ([]models.PrerequisiteEdge, error)
}

type progressReader interface {
	ListStatusesByStudent(ctx context.Context, studentID string) ([]models.SubjectStatus, error)
	ListFinalExamsByStudent(ctx context.Context, studentID string) ([]models.FinalExamResult, error)
}

// EligibilityService decides whether a student may enroll in a target subject
// based on direct prerequisite edges. Reads are pure: no caching, no writes.
type EligibilityService struct {
	curriculum   curriculumReader
	progress     progressReader
	passingScore float64
	logger       *zap.Logger
}

// NewEligibilityService constructs EligibilityService.
func NewEligibilityService(curriculum curriculumReader, progress progressReader, passingScore float64, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if passingScore <= 0 {
		passingScore = 6
	}
	return &EligibilityService{curriculum: curriculum, progress: progress, passingScore: passingScore, logger: logger}
}

// ValidateEnrollment checks the student's approved orders against the target
// subject's prerequisite edges. Subjects without edges are always eligible
// and short-circuit before any student data is read.
func (s *EligibilityService) ValidateEnrollment(ctx context.Context, careerID int64, studentID string, targetOrderNo int) (*models.EligibilityResult, error) {
	if targetOrderNo < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target order number must be positive")
	}

	exists, err := s.curriculum.CareerExists(ctx, careerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check career")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
	}

	edges, err := s.curriculum.PrerequisitesFor(ctx, careerID, targetOrderNo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisites")
	}

	result := &models.EligibilityResult{
		CareerID:      careerID,
		StudentID:     studentID,
		TargetOrderNo: targetOrderNo,
		CanEnroll:     true,
		Met:           []int{},
		Unmet:         []int{},
	}
	if len(edges) == 0 {
		return result, nil
	}

	approved, err := s.ApprovedOrders(ctx, careerID, studentID)
	if err != nil {
		return nil, err
	}

	// Duplicate edge rows collapse onto the first occurrence.
	seen := make(map[int]struct{}, len(edges))
	for _, edge := range edges {
		if _, dup := seen[edge.PrereqOrderNo]; dup {
			continue
		}
		seen[edge.PrereqOrderNo] = struct{}{}
		if _, ok := approved[edge.PrereqOrderNo]; ok {
			result.Met = append(result.Met, edge.PrereqOrderNo)
		} else {
			result.Unmet = append(result.Unmet, edge.PrereqOrderNo)
		}
	}
	result.CanEnroll = len(result.Unmet) == 0
	return result, nil
}

// ApprovedOrders computes the set of order numbers the student has satisfied
// within the career: subjects with an approved or promotional status, plus
// subjects with a passing final exam. Records for subjects outside the career
// curriculum are discarded.
func (s *EligibilityService) ApprovedOrders(ctx context.Context, careerID int64, studentID string) (map[int]struct{}, error) {
	subjects, err := s.curriculum.ListSubjects(ctx, careerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}
	orderBySubject := make(map[int64]int, len(subjects))
	for _, subject := range subjects {
		orderBySubject[subject.SubjectID] = subject.OrderNo
	}

	statuses, err := s.progress.ListStatusesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject statuses")
	}
	exams, err := s.progress.ListFinalExamsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load final exams")
	}

	approved := make(map[int]struct{})
	for _, status := range statuses {
		if !status.StatusType.Satisfied() {
			continue
		}
		if orderNo, ok := orderBySubject[status.SubjectID]; ok {
			approved[orderNo] = struct{}{}
		}
	}
	for _, exam := range exams {
		if exam.Score < s.passingScore || !exam.Condition.Satisfied() {
			continue
		}
		if orderNo, ok := orderBySubject[exam.SubjectID]; ok {
			approved[orderNo] = struct{}{}
		}
	}
	return approved, nil
}
