package models

import "time"

// Course represents a catalog course.
type Course struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"` // Nullable
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Disciplines []*CourseDiscipline `json:"disciplines,omitempty"`
}

// Discipline represents a catalog discipline (subject).
type Discipline struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Workload  int        `json:"workload" db:"workload"` // Hours
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// CourseDiscipline links a discipline into a course's grid at a semester.
// Unique per (course, discipline, semester); hard-deleted join row.
type CourseDiscipline struct {
	CourseID     int64 `json:"courseId" db:"course_id"`
	DisciplineID int64 `json:"disciplineId" db:"discipline_id"`
	Semester     int   `json:"semester" db:"semester"`

	// Relations (populated when needed)
	Discipline *Discipline `json:"discipline,omitempty"`
}
