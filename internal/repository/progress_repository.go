package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// ProgressRepository reads a student's accumulated subject and final exam
// records. All reads are point-in-time snapshots; nothing here is cached.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs the repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ListStatusesByStudent returns explicit subject status records.
func (r *ProgressRepository) ListStatusesByStudent(ctx context.Context, studentID string) ([]models.SubjectStatus, error) {
	const query = `SELECT sss.student_id, sss.subject_id, sss.subject_commission_id, sss.status_type, sss.updated_at
        FROM student_subject_status sss
        WHERE sss.student_id = $1`
	var statuses []models.SubjectStatus
	if err := r.db.SelectContext(ctx, &statuses, query, studentID); err != nil {
		return nil, fmt.Errorf("list subject statuses: %w", err)
	}
	return statuses, nil
}

// ListFinalExamsByStudent returns the student's final exam outcomes.
func (r *ProgressRepository) ListFinalExamsByStudent(ctx context.Context, studentID string) ([]models.FinalExamResult, error) {
	const query = `SELECT id, student_id, subject_id, score, condition, taken_at
        FROM final_exam_results
        WHERE student_id = $1`
	var exams []models.FinalExamResult
	if err := r.db.SelectContext(ctx, &exams, query, studentID); err != nil {
		return nil, fmt.Errorf("list final exams: %w", err)
	}
	return exams, nil
}

// ListAcademicRecords returns one row per subject the student has ever been
// linked to, with whichever status and final exam data exist for it.
func (r *ProgressRepository) ListAcademicRecords(ctx context.Context, studentID string) ([]models.AcademicRecord, error) {
	const query = `SELECT s.id AS subject_id, s.name AS subject_name,
        sc.id AS commission_id, sc.letter AS commission_letter,
        cs.order_no AS order_no, cs.year_no AS year_no,
        sss.status_type AS status_type,
        fer.score AS final_score, fer.condition AS final_condition, fer.taken_at AS final_taken_at
        FROM subjects s
        LEFT JOIN student_subject_status sss ON sss.subject_id = s.id AND sss.student_id = $1
        LEFT JOIN subject_commissions sc ON sc.id = sss.subject_commission_id
        LEFT JOIN final_exam_results fer ON fer.subject_id = s.id AND fer.student_id = $1
        LEFT JOIN career_subjects cs ON cs.subject_id = s.id
        WHERE sss.student_id IS NOT NULL OR fer.student_id IS NOT NULL
        ORDER BY cs.order_no NULLS LAST, s.name`
	var records []models.AcademicRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list academic records: %w", err)
	}
	return records, nil
}
