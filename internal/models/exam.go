package models

import "time"

// FinalExamCall is a scheduled sitting of a subject's final exam that
// students register into.
type FinalExamCall struct {
	ID          int64     `db:"id" json:"id"`
	SubjectID   int64     `db:"subject_id" json:"subject_id"`
	SubjectName string    `db:"subject_name" json:"subject_name"`
	CalledAt    time.Time `db:"called_at" json:"called_at"`
}
