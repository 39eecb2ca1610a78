package models

// SubjectCommission is a specific class section through which a student takes
// a subject.
type SubjectCommission struct {
	ID          int64  `db:"id" json:"id"`
	SubjectID   int64  `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Letter      string `db:"letter" json:"letter"`
	YearLabel   string `db:"year_label" json:"year_label"`
}
