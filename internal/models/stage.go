package models

import "time"

// StageState is derived from comparing the stage window against the current
// time; it is never persisted.
type StageState string

const (
	StageStateScheduled StageState = "SCHEDULED"
	StageStateActive    StageState = "ACTIVE"
	StageStateClosed    StageState = "CLOSED"
)

// StageType categorises registration campaigns (cursado, final exams, ...).
type StageType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// RegistrationStage is a time-boxed enrollment campaign for a career,
// optionally restricted to a sub-range of curriculum order numbers.
type RegistrationStage struct {
	ID          int64     `db:"id" json:"id"`
	CareerID    int64     `db:"career_id" json:"career_id"`
	TypeID      int64     `db:"type_id" json:"type_id"`
	PeriodLabel string    `db:"period_label" json:"period_label"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	MinOrderNo  *int      `db:"min_order_no" json:"min_order_no,omitempty"`
	MaxOrderNo  *int      `db:"max_order_no" json:"max_order_no,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// State derives the stage lifecycle position at the given instant.
func (s RegistrationStage) State(now time.Time) StageState {
	if now.Before(s.StartAt) {
		return StageStateScheduled
	}
	if now.After(s.EndAt) {
		return StageStateClosed
	}
	return StageStateActive
}

// IsActive reports whether the stage window contains the given instant.
func (s RegistrationStage) IsActive(now time.Time) bool {
	return s.State(now) == StageStateActive
}

// StageDetail adds the derived state to a stage for list responses.
type StageDetail struct {
	RegistrationStage
	State StageState `json:"state"`
}

// StageFilter provides filters for listing stages.
type StageFilter struct {
	CareerID   int64
	ActiveOnly bool
	Page       int
	PageSize   int
}
