package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// CommissionRepository handles persistence of subject commissions.
type CommissionRepository struct {
	db *sqlx.DB
}

// NewCommissionRepository constructs the repository.
func NewCommissionRepository(db *sqlx.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// FindByID returns a commission with its subject name.
func (r *CommissionRepository) FindByID(ctx context.Context, id int64) (*models.SubjectCommission, error) {
	const query = `SELECT sc.id, sc.subject_id, s.name AS subject_name, sc.letter, sc.year_label
        FROM subject_commissions sc
        JOIN subjects s ON s.id = sc.subject_id
        WHERE sc.id = $1`
	var commission models.SubjectCommission
	if err := r.db.GetContext(ctx, &commission, query, id); err != nil {
		return nil, err
	}
	return &commission, nil
}
