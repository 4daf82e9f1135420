package models

import "time"

// RequestType is a catalog entry for student-initiated tickets.
type RequestType struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Request is a student-initiated ticket reviewed by an admin, following the
// same pending/approved/rejected pattern as Document.
type Request struct {
	ID            int64        `json:"id" db:"id"`
	StudentID     int64        `json:"studentId" db:"student_id"`
	RequestTypeID int64        `json:"requestTypeId" db:"request_type_id"`
	Description   string       `json:"description" db:"description"`
	Status        ReviewStatus `json:"status" db:"status"`
	ReviewerID    *int64       `json:"reviewerId,omitempty" db:"reviewer_id"`
	ReviewedAt    *time.Time   `json:"reviewedAt,omitempty" db:"reviewed_at"`
	Notes         *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
	DeletedAt     *time.Time   `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Student     *User        `json:"student,omitempty"`
	RequestType *RequestType `json:"requestType,omitempty"`
	Reviewer    *User        `json:"reviewer,omitempty"`
}
