package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/federicowoodward/siaade-api/internal/models"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
)

// YearUnknown buckets records that carry neither a curriculum year nor a
// final exam date.
const YearUnknown = "-"

type academicRecordReader interface {
	ListAcademicRecords(ctx context.Context, studentID string) ([]models.AcademicRecord, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AcademicStatusService folds a student's subject, commission and final exam
// records into a per-year status view. The view is rebuilt from source rows
// on every read; only the assembled report is cached.
type AcademicStatusService struct {
	records      academicRecordReader
	students     studentReader
	cache        *CacheService
	passingScore float64
	logger       *zap.Logger
}

// NewAcademicStatusService constructs AcademicStatusService.
func NewAcademicStatusService(records academicRecordReader, students studentReader, cache *CacheService, passingScore float64, logger *zap.Logger) *AcademicStatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if passingScore <= 0 {
		passingScore = 6
	}
	return &AcademicStatusService{records: records, students: students, cache: cache, passingScore: passingScore, logger: logger}
}

func statusCacheKey(studentID string) string {
	return fmt.Sprintf("academic_status:%s", studentID)
}

// GetStudentAcademicStatus returns the student's academic status grouped by
// academic year.
func (s *AcademicStatusService) GetStudentAcademicStatus(ctx context.Context, studentID string) (*models.AcademicStatusReport, error) {
	var cached models.AcademicStatusReport
	if hit, err := s.cache.Get(ctx, statusCacheKey(studentID), &cached); err == nil && hit {
		return &cached, nil
	}

	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	records, err := s.records.ListAcademicRecords(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic records")
	}

	report := &models.AcademicStatusReport{
		StudentID: studentID,
		Years:     []string{},
		ByYear:    make(map[string][]models.SubjectStatusRow),
	}

	for _, record := range records {
		row := models.SubjectStatusRow{
			SubjectID:        record.SubjectID,
			SubjectName:      record.SubjectName,
			CommissionID:     record.CommissionID,
			CommissionLetter: record.CommissionLetter,
			Condition:        s.deriveCondition(record),
			FinalScore:       record.FinalScore,
		}
		year := yearLabel(record)
		report.ByYear[year] = append(report.ByYear[year], row)
	}

	for year := range report.ByYear {
		report.Years = append(report.Years, year)
	}
	sortYearLabels(report.Years)

	if err := s.cache.Set(ctx, statusCacheKey(studentID), report, 0); err != nil {
		s.logger.Warn("failed to cache academic status", zap.String("student_id", studentID), zap.Error(err))
	}

	return report, nil
}

// InvalidateStudent drops the cached status view after enrollment writes.
func (s *AcademicStatusService) InvalidateStudent(ctx context.Context, studentID string) {
	if err := s.cache.Invalidate(ctx, statusCacheKey(studentID)); err != nil {
		s.logger.Warn("failed to invalidate academic status cache", zap.String("student_id", studentID), zap.Error(err))
	}
}

// deriveCondition applies the condition precedence: a passing final exam
// wins, then an explicit status record, then the Inscripto default.
func (s *AcademicStatusService) deriveCondition(record models.AcademicRecord) models.SubjectCondition {
	if record.FinalCondition != nil && record.FinalScore != nil &&
		*record.FinalScore >= s.passingScore && record.FinalCondition.Satisfied() {
		return *record.FinalCondition
	}
	if record.StatusType != nil {
		return *record.StatusType
	}
	return models.ConditionInscripto
}

// yearLabel buckets a record by curriculum year when the curriculum supplies
// one, else by the final exam's calendar year, else the unknown bucket.
func yearLabel(record models.AcademicRecord) string {
	if record.YearNo != nil && *record.YearNo > 0 {
		return strconv.Itoa(*record.YearNo)
	}
	if record.FinalTakenAt != nil {
		return strconv.Itoa(record.FinalTakenAt.Year())
	}
	return YearUnknown
}

// sortYearLabels orders numeric labels ascending with the unknown bucket
// last, keeping report output deterministic.
func sortYearLabels(years []string) {
	sort.Slice(years, func(i, j int) bool {
		if years[i] == YearUnknown {
			return false
		}
		if years[j] == YearUnknown {
			return true
		}
		a, errA := strconv.Atoi(years[i])
		b, errB := strconv.Atoi(years[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return years[i] < years[j]
	})
}
