package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// InscriptionRepository handles the stage-independent enrollment entity that
// students toggle against commissions and final exam calls.
type InscriptionRepository struct {
	db *sqlx.DB
}

// NewInscriptionRepository constructs the repository.
func NewInscriptionRepository(db *sqlx.DB) *InscriptionRepository {
	return &InscriptionRepository{db: db}
}

// FindByKey returns the inscription matching the unique triple, or
// sql.ErrNoRows when the student is not enrolled.
func (r *InscriptionRepository) FindByKey(ctx context.Context, studentID string, entityType models.InscriptionEntityType, entityID int64) (*models.StudentInscription, error) {
	const query = `SELECT id, student_id, entity_type, entity_id, created_at
        FROM student_inscriptions
        WHERE student_id = $1 AND entity_type = $2 AND entity_id = $3`
	var inscription models.StudentInscription
	if err := r.db.GetContext(ctx, &inscription, query, studentID, entityType, entityID); err != nil {
		return nil, err
	}
	return &inscription, nil
}

// InsertOrGet inserts the inscription, collapsing concurrent duplicates onto
// the existing row via the unique index.
func (r *InscriptionRepository) InsertOrGet(ctx context.Context, studentID string, entityType models.InscriptionEntityType, entityID int64, createdAt time.Time) (*models.StudentInscription, error) {
	const insert = `INSERT INTO student_inscriptions (student_id, entity_type, entity_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (student_id, entity_type, entity_id) DO NOTHING
        RETURNING id, student_id, entity_type, entity_id, created_at`
	var inscription models.StudentInscription
	err := r.db.GetContext(ctx, &inscription, insert, studentID, entityType, entityID, createdAt)
	if err == nil {
		return &inscription, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("insert inscription: %w", err)
	}
	return r.FindByKey(ctx, studentID, entityType, entityID)
}

// Delete removes the inscription row.
func (r *InscriptionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM student_inscriptions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete inscription: %w", err)
	}
	return nil
}
