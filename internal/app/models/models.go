package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
	RoleStudent RoleType = "STUDENT"
)

// Valid reports whether the role is one of the three known roles.
func (r RoleType) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleStudent
}

// EnrollmentStatus defines the enrollment state machine states
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

// ReviewStatus defines the review states shared by documents and requests
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// EvaluationKind distinguishes numeric from conceptual evaluations
type EvaluationKind string

const (
	EvaluationNumeric    EvaluationKind = "NUMERIC"
	EvaluationConceptual EvaluationKind = "CONCEPTUAL"
)

// Valid reports whether the kind is one of the two known kinds.
func (k EvaluationKind) Valid() bool {
	return k == EvaluationNumeric || k == EvaluationConceptual
}

// GradeConcept is the conceptual grade scale
type GradeConcept string

const (
	ConceptSatisfactory   GradeConcept = "SATISFACTORY"
	ConceptUnsatisfactory GradeConcept = "UNSATISFACTORY"
)

// Valid reports whether the concept is one of the two known values.
func (c GradeConcept) Valid() bool {
	return c == ConceptSatisfactory || c == ConceptUnsatisfactory
}

// AppliesTo scopes a document type to a role
type AppliesTo string

const (
	AppliesToStudent AppliesTo = "STUDENT"
	AppliesToTeacher AppliesTo = "TEACHER"
	AppliesToBoth    AppliesTo = "BOTH"
)

// Matches reports whether a document type scoped by a applies to the role.
func (a AppliesTo) Matches(role RoleType) bool {
	switch a {
	case AppliesToBoth:
		return role == RoleStudent || role == RoleTeacher
	case AppliesToStudent:
		return role == RoleStudent
	case AppliesToTeacher:
		return role == RoleTeacher
	}
	return false
}
