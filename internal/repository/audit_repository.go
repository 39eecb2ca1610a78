package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// AuditRepository persists the append-only enrollment decision trail. Rows
// are only ever inserted; there is no update or delete path.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends an audit row.
func (r *AuditRepository) Insert(ctx context.Context, audit *models.InscriptionAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.NewString()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO inscription_audit
        (id, created_at, student_id, actor_id, actor_role, context, outcome, reason_code,
         subject_id, subject_order_no, subject_name, missing_correlatives, ip, user_agent)
        VALUES (:id, :created_at, :student_id, :actor_id, :actor_role, :context, :outcome, :reason_code,
         :subject_id, :subject_order_no, :subject_name, :missing_correlatives, :ip, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, audit); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// List returns audit rows newest first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.InscriptionAudit, int, error) {
	base := `FROM inscription_audit`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Outcome != "" {
		conditions = append(conditions, fmt.Sprintf("outcome = $%d", len(args)+1))
		args = append(args, filter.Outcome)
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

	query := fmt.Sprintf(`SELECT id, created_at, student_id, actor_id, actor_role, context, outcome, reason_code,
        subject_id, subject_order_no, subject_name, missing_correlatives, ip, user_agent
        %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var rows []models.InscriptionAudit
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit rows: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit rows: %w", err)
	}
	return rows, total, nil
}
