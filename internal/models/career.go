package models

import "time"

// Career represents a degree program composed of an ordered subject sequence.
type Career struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CareerSubject places a subject inside a career curriculum. OrderNo is the
// per-career stable identifier prerequisite edges point at, decoupled from the
// raw subject id so curricula can be re-sequenced.
type CareerSubject struct {
	CareerID    int64  `db:"career_id" json:"career_id"`
	SubjectID   int64  `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	OrderNo     int    `db:"order_no" json:"order_no"`
	YearNo      int    `db:"year_no" json:"year_no"`
	PeriodOrder int    `db:"period_order" json:"period_order"`
}

// PrerequisiteEdge is a directed requirement: the subject at OrderNo needs the
// subject at PrereqOrderNo approved first.
type PrerequisiteEdge struct {
	CareerID      int64 `db:"career_id" json:"career_id"`
	OrderNo       int   `db:"subject_order_no" json:"subject_order_no"`
	PrereqOrderNo int   `db:"prereq_order_no" json:"prereq_order_no"`
}
