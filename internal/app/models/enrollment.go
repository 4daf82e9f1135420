package models

import "time"

// Enrollment is a student's registration against a course.
//
// A student holds at most one live enrollment with status PENDING or ACTIVE;
// the uq_enrollments_open partial index enforces this at the store layer.
type Enrollment struct {
	ID             int64            `json:"id" db:"id"`
	StudentID      int64            `json:"studentId" db:"student_id"`
	CourseID       int64            `json:"courseId" db:"course_id"`
	Status         EnrollmentStatus `json:"status" db:"status"`
	EnrollmentDate time.Time        `json:"enrollmentDate" db:"enrollment_date"`
	CancelReason   *string          `json:"cancelReason,omitempty" db:"cancel_reason"` // Set on cancellation
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" db:"updated_at"`
	DeletedAt      *time.Time       `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Student *User   `json:"student,omitempty"`
	Course  *Course `json:"course,omitempty"`
}
