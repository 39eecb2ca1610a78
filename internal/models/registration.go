package models

import "time"

// RegistrationEnrollment links a student to a subject commission within a
// stage. The (stage_id, student_id, subject_commission_id) triple is unique
// and serves as the idempotency key for enroll.
type RegistrationEnrollment struct {
	ID                  int64     `db:"id" json:"id"`
	StageID             int64     `db:"stage_id" json:"stage_id"`
	StudentID           string    `db:"student_id" json:"student_id"`
	SubjectCommissionID int64     `db:"subject_commission_id" json:"subject_commission_id"`
	EnrolledAt          time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// InscriptionEntityType distinguishes the two toggle targets.
type InscriptionEntityType string

const (
	EntitySubject   InscriptionEntityType = "subject"
	EntityFinalExam InscriptionEntityType = "final_exam"
)

// StudentInscription is the stage-independent enrollment entity toggled by
// students against a subject commission or a final exam call.
type StudentInscription struct {
	ID         int64                 `db:"id" json:"id"`
	StudentID  string                `db:"student_id" json:"student_id"`
	EntityType InscriptionEntityType `db:"entity_type" json:"entity_type"`
	EntityID   int64                 `db:"entity_id" json:"entity_id"`
	CreatedAt  time.Time             `db:"created_at" json:"created_at"`
}

// ToggleAction reports which direction a toggle resolved to.
type ToggleAction string

const (
	ToggleActionEnrolled   ToggleAction = "ENROLLED"
	ToggleActionUnenrolled ToggleAction = "UNENROLLED"
	ToggleActionBlocked    ToggleAction = "BLOCKED"
)

// ToggleResult is the outcome of a toggle operation.
type ToggleResult struct {
	Action      ToggleAction        `json:"action"`
	Inscription *StudentInscription `json:"inscription,omitempty"`
	Unmet       []int               `json:"unmet,omitempty"`
}
