package models

// SubjectStatusRow is one line of a student's academic status view.
type SubjectStatusRow struct {
	SubjectID        int64            `json:"subject_id"`
	SubjectName      string           `json:"subject_name"`
	CommissionID     *int64           `json:"commission_id,omitempty"`
	CommissionLetter *string          `json:"commission_letter,omitempty"`
	Condition        SubjectCondition `json:"condition"`
	FinalScore       *float64         `json:"final_score,omitempty"`
}

// AcademicStatusReport groups a student's subject statuses by academic year.
// Years is sorted so consumers never depend on map iteration order.
type AcademicStatusReport struct {
	StudentID string                        `json:"student_id"`
	Years     []string                      `json:"years"`
	ByYear    map[string][]SubjectStatusRow `json:"by_year"`
}

// EligibilityResult is the outcome of a prerequisite check for a target
// subject order number.
type EligibilityResult struct {
	CareerID      int64  `json:"career_id"`
	StudentID     string `json:"student_id"`
	TargetOrderNo int    `json:"target_order_no"`
	CanEnroll     bool   `json:"can_enroll"`
	Met           []int  `json:"met"`
	Unmet         []int  `json:"unmet"`
}
