package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// ExamRepository handles persistence of final exam calls.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// FindCallByID returns a final exam call with its subject name.
func (r *ExamRepository) FindCallByID(ctx context.Context, id int64) (*models.FinalExamCall, error) {
	const query = `SELECT fc.id, fc.subject_id, s.name AS subject_name, fc.called_at
        FROM final_exam_calls fc
        JOIN subjects s ON s.id = fc.subject_id
        WHERE fc.id = $1`
	var call models.FinalExamCall
	if err := r.db.GetContext(ctx, &call, query, id); err != nil {
		return nil, err
	}
	return &call, nil
}
