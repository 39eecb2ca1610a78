package models

import "time"

// SubjectCondition is the administrative condition a student holds for a
// subject. Values mirror the institutional vocabulary.
type SubjectCondition string

const (
	ConditionAprobado    SubjectCondition = "Aprobado"
	ConditionPromocional SubjectCondition = "Promocional"
	ConditionRegular     SubjectCondition = "Regular"
	ConditionLibre       SubjectCondition = "Libre"
	ConditionInscripto   SubjectCondition = "Inscripto"
	ConditionRecursante  SubjectCondition = "Recursante"
)

// Satisfied reports whether the condition counts as an approved subject for
// prerequisite purposes.
func (c SubjectCondition) Satisfied() bool {
	return c == ConditionAprobado || c == ConditionPromocional
}

// SubjectStatus is an explicit per-subject status record for a student.
type SubjectStatus struct {
	StudentID           string           `db:"student_id" json:"student_id"`
	SubjectID           int64            `db:"subject_id" json:"subject_id"`
	SubjectCommissionID int64            `db:"subject_commission_id" json:"subject_commission_id"`
	StatusType          SubjectCondition `db:"status_type" json:"status_type"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updated_at"`
}

// FinalExamResult captures a student's final exam outcome for a subject.
type FinalExamResult struct {
	ID        int64            `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	SubjectID int64            `db:"subject_id" json:"subject_id"`
	Score     float64          `db:"score" json:"score"`
	Condition SubjectCondition `db:"condition" json:"condition"`
	TakenAt   time.Time        `db:"taken_at" json:"taken_at"`
}

// AcademicRecord is the joined row the status aggregator folds: one row per
// subject-commission link a student has ever held, with whichever status and
// final exam data exist for it.
type AcademicRecord struct {
	SubjectID        int64             `db:"subject_id" json:"subject_id"`
	SubjectName      string            `db:"subject_name" json:"subject_name"`
	CommissionID     *int64            `db:"commission_id" json:"commission_id,omitempty"`
	CommissionLetter *string           `db:"commission_letter" json:"commission_letter,omitempty"`
	OrderNo          *int              `db:"order_no" json:"order_no,omitempty"`
	YearNo           *int              `db:"year_no" json:"year_no,omitempty"`
	StatusType       *SubjectCondition `db:"status_type" json:"status_type,omitempty"`
	FinalScore       *float64          `db:"final_score" json:"final_score,omitempty"`
	FinalCondition   *SubjectCondition `db:"final_condition" json:"final_condition,omitempty"`
	FinalTakenAt     *time.Time        `db:"final_taken_at" json:"final_taken_at,omitempty"`
}
