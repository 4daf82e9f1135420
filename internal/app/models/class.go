package models

import "time"

// Class is an offering of a course in a given (semester, year).
type Class struct {
	ID        int64      `json:"id" db:"id"`
	CourseID  int64      `json:"courseId" db:"course_id"`
	Name      string     `json:"name" db:"name"`
	Semester  int        `json:"semester" db:"semester"`
	Year      int        `json:"year" db:"year"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Course   *Course         `json:"course,omitempty"`
	Teachers []*ClassTeacher `json:"teachers,omitempty"`
	Students []*User         `json:"students,omitempty"`
}

// ClassTeacher assigns a teacher to a class for one discipline.
// Hard-deleted join row.
type ClassTeacher struct {
	ClassID      int64 `json:"classId" db:"class_id"`
	TeacherID    int64 `json:"teacherId" db:"teacher_id"`
	DisciplineID int64 `json:"disciplineId" db:"discipline_id"`

	// Relations (populated when needed)
	Teacher    *User       `json:"teacher,omitempty"`
	Discipline *Discipline `json:"discipline,omitempty"`
}
