package models

import "time"

// DocumentType is a catalog entry for documents users must provide.
type DocumentType struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	AppliesTo AppliesTo  `json:"appliesTo" db:"applies_to"`
	Required  bool       `json:"required" db:"required"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Document is an uploaded artifact under admin review.
//
// ReviewerID and ReviewedAt are set together, only on the transition into
// APPROVED or REJECTED. A reviewed document is immutable; a new submission
// becomes a fresh Document.
type Document struct {
	ID             int64        `json:"id" db:"id"`
	OwnerID        int64        `json:"ownerId" db:"owner_id"`
	DocumentTypeID int64        `json:"documentTypeId" db:"document_type_id"`
	ArtifactRef    string       `json:"artifactRef" db:"artifact_ref"`
	FileName       string       `json:"fileName" db:"file_name"`
	Size           int64        `json:"size" db:"size"`
	MimeType       string       `json:"mimeType" db:"mime_type"`
	Status         ReviewStatus `json:"status" db:"status"`
	ReviewerID     *int64       `json:"reviewerId,omitempty" db:"reviewer_id"`
	ReviewedAt     *time.Time   `json:"reviewedAt,omitempty" db:"reviewed_at"`
	Notes          *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time    `json:"updatedAt" db:"updated_at"`
	DeletedAt      *time.Time   `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Owner        *User         `json:"owner,omitempty"`
	DocumentType *DocumentType `json:"documentType,omitempty"`
	Reviewer     *User         `json:"reviewer,omitempty"`
}
