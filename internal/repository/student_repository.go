package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/federicowoodward/siaade-api/internal/models"
)

// StudentRepository handles persistence of students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by its ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, legajo, full_name, active, created_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindCareerEnrollment returns the student's membership in a career.
func (r *StudentRepository) FindCareerEnrollment(ctx context.Context, studentID string, careerID int64) (*models.CareerEnrollment, error) {
	const query = `SELECT student_id, career_id, year_no FROM student_career_enrollments
        WHERE student_id = $1 AND career_id = $2`
	var enrollment models.CareerEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, careerID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListCareerEnrollments returns every career the student belongs to.
func (r *StudentRepository) ListCareerEnrollments(ctx context.Context, studentID string) ([]models.CareerEnrollment, error) {
	const query = `SELECT student_id, career_id, year_no FROM student_career_enrollments WHERE student_id = $1`
	var enrollments []models.CareerEnrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list career enrollments: %w", err)
	}
	return enrollments, nil
}
