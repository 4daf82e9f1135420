package apperrors

import "errors"

// Workflow error taxonomy. Lifecycle services return these sentinels (wrapped
// with context); the API layer maps them to HTTP status codes and the
// scheduler logs them per item without aborting a batch.
var (
	// ErrValidationFailed marks malformed input: missing fields, values out
	// of range, or a grade carrying both a numeric value and a concept.
	ErrValidationFailed = errors.New("validation failed")

	// ErrConflict marks an invariant violation from a duplicate or a race:
	// a second open enrollment, a second contract for the same term, a
	// second grade for the same (evaluation, student).
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition marks a state machine violation, e.g. reviewing
	// an already-reviewed document or accepting an accepted contract.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrPermissionDenied marks a role or ownership mismatch.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound marks a referenced entity that is absent or soft-deleted.
	ErrNotFound = errors.New("resource not found")

	// ErrRestrictedDelete marks a delete blocked by dependent rows.
	ErrRestrictedDelete = errors.New("delete restricted by dependent records")

	// ErrTemplateRender marks a contract template whose placeholders were
	// not fully supplied. Missing values are never substituted silently.
	ErrTemplateRender = errors.New("template rendering failed")

	// ErrIncompleteData marks contract regeneration that found a required
	// upstream field absent in the entity graph.
	ErrIncompleteData = errors.New("incomplete data for contract generation")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// CustomError carries a sentinel plus human-readable context.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes the sentinel for errors.Is checks.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails attaches context details to the error.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewValidationError creates a validation error with a message.
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewConflictError creates a conflict error with a message.
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewInvalidTransitionError creates a state machine violation error.
func NewInvalidTransitionError(message string) error {
	return &CustomError{Err: ErrInvalidTransition, Message: message}
}

// NewForbiddenError creates a permission denied error with a message.
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewNotFoundError creates a not-found error with a message.
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// NewRestrictedDeleteError creates a restricted-delete error with a message.
func NewRestrictedDeleteError(message string) error {
	return &CustomError{Err: ErrRestrictedDelete, Message: message}
}

// NewTemplateRenderError creates a template rendering error with a message.
func NewTemplateRenderError(message string) error {
	return &CustomError{Err: ErrTemplateRender, Message: message}
}

// NewIncompleteDataError creates an incomplete-data error with a message.
func NewIncompleteDataError(message string) error {
	return &CustomError{Err: ErrIncompleteData, Message: message}
}
