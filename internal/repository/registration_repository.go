package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// RegistrationRepository handles persistence of stage enrollments.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// InsertOrGet inserts the enrollment or, when the unique key already exists,
// returns the persisted row unchanged. The ON CONFLICT path makes the
// idempotency contract explicit: concurrent duplicates collapse onto one row
// and neither caller sees a constraint error.
func (r *RegistrationRepository) InsertOrGet(ctx context.Context, stageID int64, studentID string, commissionID int64, enrolledAt time.Time) (*models.RegistrationEnrollment, error) {
	const insert = `INSERT INTO registration_enrollments (stage_id, student_id, subject_commission_id, enrolled_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (stage_id, student_id, subject_commission_id) DO NOTHING
        RETURNING id, stage_id, student_id, subject_commission_id, enrolled_at`
	var enrollment models.RegistrationEnrollment
	err := r.db.GetContext(ctx, &enrollment, insert, stageID, studentID, commissionID, enrolledAt)
	if err == nil {
		return &enrollment, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}
	// Conflict: another request holds the row; read it back.
	existing, err := r.FindByKey(ctx, stageID, studentID, commissionID)
	if err != nil {
		return nil, fmt.Errorf("read existing enrollment: %w", err)
	}
	return existing, nil
}

// FindByID returns an enrollment by its ID.
func (r *RegistrationRepository) FindByID(ctx context.Context, id int64) (*models.RegistrationEnrollment, error) {
	const query = `SELECT id, stage_id, student_id, subject_commission_id, enrolled_at
        FROM registration_enrollments WHERE id = $1`
	var enrollment models.RegistrationEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByKey returns the enrollment matching the unique triple.
func (r *RegistrationRepository) FindByKey(ctx context.Context, stageID int64, studentID string, commissionID int64) (*models.RegistrationEnrollment, error) {
	const query = `SELECT id, stage_id, student_id, subject_commission_id, enrolled_at
        FROM registration_enrollments
        WHERE stage_id = $1 AND student_id = $2 AND subject_commission_id = $3`
	var enrollment models.RegistrationEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, stageID, studentID, commissionID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Delete removes the enrollment row.
func (r *RegistrationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM registration_enrollments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}
