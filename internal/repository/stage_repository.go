package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// StageRepository handles persistence of registration stages.
type StageRepository struct {
	db *sqlx.DB
}

// NewStageRepository constructs the repository.
func NewStageRepository(db *sqlx.DB) *StageRepository {
	return &StageRepository{db: db}
}

// FindByID returns a stage by its ID.
func (r *StageRepository) FindByID(ctx context.Context, id int64) (*models.RegistrationStage, error) {
	const query = `SELECT id, career_id, type_id, period_label, start_at, end_at, created_by, min_order_no, max_order_no, created_at
        FROM registration_stages WHERE id = $1`
	var stage models.RegistrationStage
	if err := r.db.GetContext(ctx, &stage, query, id); err != nil {
		return nil, err
	}
	return &stage, nil
}

// TypeExists reports whether the stage type is present.
func (r *StageRepository) TypeExists(ctx context.Context, typeID int64) (bool, error) {
	const query = `SELECT 1 FROM registration_stage_types WHERE id = $1 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, typeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check stage type: %w", err)
	}
	return true, nil
}

// Create persists a new stage and fills in its generated fields.
func (r *StageRepository) Create(ctx context.Context, stage *models.RegistrationStage) error {
	const query = `INSERT INTO registration_stages (career_id, type_id, period_label, start_at, end_at, created_by, min_order_no, max_order_no)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		stage.CareerID, stage.TypeID, stage.PeriodLabel, stage.StartAt, stage.EndAt,
		stage.CreatedBy, stage.MinOrderNo, stage.MaxOrderNo)
	if err := row.Scan(&stage.ID, &stage.CreatedAt); err != nil {
		return fmt.Errorf("create stage: %w", err)
	}
	return nil
}

// Update persists the merged stage fields.
func (r *StageRepository) Update(ctx context.Context, stage *models.RegistrationStage) error {
	const query = `UPDATE registration_stages
        SET period_label = $2, start_at = $3, end_at = $4, min_order_no = $5, max_order_no = $6
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, stage.ID, stage.PeriodLabel, stage.StartAt, stage.EndAt, stage.MinOrderNo, stage.MaxOrderNo); err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	return nil
}

// Close sets the stage end to the given instant.
func (r *StageRepository) Close(ctx context.Context, id int64, endAt time.Time) error {
	const query = `UPDATE registration_stages SET end_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, endAt); err != nil {
		return fmt.Errorf("close stage: %w", err)
	}
	return nil
}

// List returns stages most recent first with a stable id tie-break.
func (r *StageRepository) List(ctx context.Context, filter models.StageFilter, now time.Time) ([]models.RegistrationStage, int, error) {
	base := `FROM registration_stages`
	var conditions []string
	var args []interface{}

	if filter.CareerID != 0 {
		conditions = append(conditions, fmt.Sprintf("career_id = $%d", len(args)+1))
		args = append(args, filter.CareerID)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, fmt.Sprintf("start_at <= $%d AND end_at >= $%d", len(args)+1, len(args)+1))
		args = append(args, now)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, career_id, type_id, period_label, start_at, end_at, created_by, min_order_no, max_order_no, created_at
        %s ORDER BY start_at DESC, id DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var stages []models.RegistrationStage
	if err := r.db.SelectContext(ctx, &stages, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list stages: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count stages: %w", err)
	}
	return stages, total, nil
}
