package models

import "time"

// Student represents a learner registered in the institution.
type Student struct {
	ID        string    `db:"id" json:"id"`
	Legajo    string    `db:"legajo" json:"legajo"`
	FullName  string    `db:"full_name" json:"full_name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CareerEnrollment records a student's membership in a career and, when the
// administration assigned one, the academic year they are cursing.
type CareerEnrollment struct {
	StudentID string `db:"student_id" json:"student_id"`
	CareerID  int64  `db:"career_id" json:"career_id"`
	YearNo    *int   `db:"year_no" json:"year_no,omitempty"`
}
