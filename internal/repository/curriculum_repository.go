package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// CurriculumRepository reads career curricula and prerequisite edges.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs the repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// CareerExists reports whether the career is present.
func (r *CurriculumRepository) CareerExists(ctx context.Context, careerID int64) (bool, error) {
	const query = `SELECT 1 FROM careers WHERE id = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, careerID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check career: %w", err)
	}
	return true, nil
}

// ListSubjects returns the career's subjects in curriculum order.
func (r *CurriculumRepository) ListSubjects(ctx context.Context, careerID int64) ([]models.CareerSubject, error) {
	const query = `SELECT cs.career_id, cs.subject_id, s.name AS subject_name, cs.order_no, cs.year_no, cs.period_order
        FROM career_subjects cs
        JOIN subjects s ON s.id = cs.subject_id
        WHERE cs.career_id = $1
        ORDER BY cs.order_no`
	var subjects []models.CareerSubject
	if err := r.db.SelectContext(ctx, &subjects, query, careerID); err != nil {
		return nil, fmt.Errorf("list career subjects: %w", err)
	}
	return subjects, nil
}

// OrderNoFor returns the curriculum order number for a subject within a
// career. The second return is false when the subject is not part of the
// career curriculum.
func (r *CurriculumRepository) OrderNoFor(ctx context.Context, careerID, subjectID int64) (int, bool, error) {
	const query = `SELECT order_no FROM career_subjects WHERE career_id = $1 AND subject_id = $2`
	var orderNo int
	if err := r.db.GetContext(ctx, &orderNo, query, careerID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find subject order: %w", err)
	}
	return orderNo, true, nil
}

// PrerequisitesFor returns the direct prerequisite edges for a target order
// number. No transitive closure: the engine only checks one-hop edges.
func (r *CurriculumRepository) PrerequisitesFor(ctx context.Context, careerID int64, orderNo int) ([]models.PrerequisiteEdge, error) {
	const query = `SELECT career_id, subject_order_no, prereq_order_no
        FROM subject_prerequisites
        WHERE career_id = $1 AND subject_order_no = $2`
	var edges []models.PrerequisiteEdge
	if err := r.db.SelectContext(ctx, &edges, query, careerID, orderNo); err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	return edges, nil
}
