package models

import (
	"time"

	"github.com/lib/pq"
)

// Audit outcomes for enrollment decisions.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeBlocked = "blocked"
	AuditOutcomeError   = "error"
)

// Audit reason codes.
const (
	AuditReasonMissingCorrelatives = "MISSING_CORRELATIVES"
	AuditReasonStageInactive       = "STAGE_INACTIVE"
	AuditReasonNotFound            = "NOT_FOUND"
	AuditReasonStoreError          = "STORE_ERROR"
)

// Actor identifies who performed an enrollment decision. It is always passed
// explicitly; the engine never reads session state from ambient context.
type Actor struct {
	ID   string `json:"id"`
	Role UserRole `json:"role"`
}

// RequestMeta carries transport details captured at the HTTP boundary.
type RequestMeta struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// InscriptionAudit is the immutable record of an enrollment decision. Rows
// are append-only: never updated, never deleted, not retracted on unenroll.
type InscriptionAudit struct {
	ID                  string        `db:"id" json:"id"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	StudentID           string        `db:"student_id" json:"student_id"`
	ActorID             string        `db:"actor_id" json:"actor_id"`
	ActorRole           UserRole      `db:"actor_role" json:"actor_role"`
	Context             string        `db:"context" json:"context"`
	Outcome             string        `db:"outcome" json:"outcome"`
	ReasonCode          *string       `db:"reason_code" json:"reason_code,omitempty"`
	SubjectID           *int64        `db:"subject_id" json:"subject_id,omitempty"`
	SubjectOrderNo      *int          `db:"subject_order_no" json:"subject_order_no,omitempty"`
	SubjectName         *string       `db:"subject_name" json:"subject_name,omitempty"`
	MissingCorrelatives pq.Int64Array `db:"missing_correlatives" json:"missing_correlatives,omitempty"`
	IP                  *string       `db:"ip" json:"ip,omitempty"`
	UserAgent           *string       `db:"user_agent" json:"user_agent,omitempty"`
}

// AuditFilter provides filters for listing audit history.
type AuditFilter struct {
	StudentID string
	Outcome   string
	Page      int
	PageSize  int
}
