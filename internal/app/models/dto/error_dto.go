package dto

import "time"

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_002"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_003"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_004"
	ErrorCodeAccountDisabled    ErrorCode = "AUTH_005"

	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeRestrictedDelete      ErrorCode = "RES_003"

	// Validation and workflow errors
	ErrorCodeValidationFailed  ErrorCode = "VAL_001"
	ErrorCodeInvalidTransition ErrorCode = "WFL_001"
	ErrorCodeForbidden         ErrorCode = "WFL_002"
	ErrorCodeTemplateRender    ErrorCode = "WFL_003"
	ErrorCodeIncompleteData    ErrorCode = "WFL_004"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{Code: code, Message: message}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
