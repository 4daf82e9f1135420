package models

import "time"

// ContractTemplate holds a contract body with {{token}} placeholders.
type ContractTemplate struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Body      string     `json:"body" db:"body"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Contract is a rendered, acceptable legal artifact for one user and term.
//
// One live contract per (user, semester, year); AcceptedAt == nil means
// awaiting signature and acceptance is one-way. The rendered artifact is
// immutable except through administrative regeneration, which never touches
// AcceptedAt.
type Contract struct {
	ID          int64      `json:"id" db:"id"`
	OwnerID     int64      `json:"ownerId" db:"owner_id"`
	TemplateID  int64      `json:"templateId" db:"template_id"`
	ArtifactRef string     `json:"artifactRef" db:"artifact_ref"`
	Semester    int        `json:"semester" db:"semester"`
	Year        int        `json:"year" db:"year"`
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty" db:"accepted_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`

	// Relations (populated when needed)
	Owner    *User             `json:"owner,omitempty"`
	Template *ContractTemplate `json:"template,omitempty"`
}

// Accepted reports whether the contract has been signed.
func (c *Contract) Accepted() bool {
	return c.AcceptedAt != nil
}
