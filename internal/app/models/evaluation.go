package models

import "time"

// Evaluation is a gradeable event (exam/assignment) within a class and
// discipline, created by the assigned teacher.
type Evaluation struct {
	ID           int64          `json:"id" db:"id"`
	ClassID      int64          `json:"classId" db:"class_id"`
	TeacherID    int64          `json:"teacherId" db:"teacher_id"`
	DisciplineID int64          `json:"disciplineId" db:"discipline_id"`
	Name         string         `json:"name" db:"name"`
	Date         time.Time      `json:"date" db:"date"`
	Kind         EvaluationKind `json:"kind" db:"kind"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time     `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Class      *Class      `json:"class,omitempty"`
	Teacher    *User       `json:"teacher,omitempty"`
	Discipline *Discipline `json:"discipline,omitempty"`
}

// Grade is a student's recorded outcome for one evaluation.
//
// Exactly one of NumericValue/Concept is set; NumericValue only when the
// parent evaluation kind is NUMERIC. One live grade per (evaluation,
// student). Grades are owned by the evaluation: deleting an evaluation
// soft-deletes its grades.
type Grade struct {
	ID           int64         `json:"id" db:"id"`
	EvaluationID int64         `json:"evaluationId" db:"evaluation_id"`
	StudentID    int64         `json:"studentId" db:"student_id"`
	NumericValue *float64      `json:"numericValue,omitempty" db:"numeric_value"` // 0.00-10.00
	Concept      *GradeConcept `json:"concept,omitempty" db:"concept"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time    `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Evaluation *Evaluation `json:"evaluation,omitempty"`
	Student    *User       `json:"student,omitempty"`
}
