// Package errors provides custom error types for the Life Link API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Registry errors.
var (
	ErrDonorNotFound       = &AppError{Code: "DONOR_NOT_FOUND", Message: "Donor not found", StatusCode: http.StatusNotFound}
	ErrHospitalNotFound    = &AppError{Code: "HOSPITAL_NOT_FOUND", Message: "Hospital not found", StatusCode: http.StatusNotFound}
	ErrStaffNotFound       = &AppError{Code: "STAFF_NOT_FOUND", Message: "Staff member not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail      = &AppError{Code: "DUPLICATE_EMAIL", Message: "An account with this email already exists", StatusCode: http.StatusConflict}
	ErrDuplicateLicense    = &AppError{Code: "DUPLICATE_LICENSE", Message: "A hospital with this license number already exists", StatusCode: http.StatusConflict}
	ErrDuplicateEmployeeID = &AppError{Code: "DUPLICATE_EMPLOYEE_ID", Message: "A staff member with this employee ID already exists", StatusCode: http.StatusConflict}
)

// Inventory errors.
var (
	ErrUnitNotFound          = &AppError{Code: "UNIT_NOT_FOUND", Message: "Inventory unit not found", StatusCode: http.StatusNotFound}
	ErrUnitNotAvailable      = &AppError{Code: "UNIT_NOT_AVAILABLE", Message: "One or more selected units are not available", StatusCode: http.StatusBadRequest}
	ErrUnitTypeMismatch      = &AppError{Code: "UNIT_TYPE_MISMATCH", Message: "Selected units do not match the request blood type", StatusCode: http.StatusBadRequest}
	ErrUnitExpired           = &AppError{Code: "UNIT_EXPIRED", Message: "One or more selected units are expired", StatusCode: http.StatusBadRequest}
	ErrInvalidUnitTransition = &AppError{Code: "INVALID_UNIT_STATUS", Message: "Illegal inventory status transition", StatusCode: http.StatusConflict}
)

// Request errors.
var (
	ErrRequestNotFound    = &AppError{Code: "REQUEST_NOT_FOUND", Message: "Blood request not found", StatusCode: http.StatusNotFound}
	ErrRequestNotPending  = &AppError{Code: "INVALID_REQUEST_STATE", Message: "Request is already fulfilled or cancelled", StatusCode: http.StatusConflict}
	ErrEmptyRejectReason  = &AppError{Code: "REJECTION_REASON_REQUIRED", Message: "Rejection reason required", StatusCode: http.StatusBadRequest}
	ErrEmptyFulfillment   = &AppError{Code: "EMPTY_FULFILLMENT", Message: "Select blood units or provide a fulfilled quantity", StatusCode: http.StatusBadRequest}
)

// Donation errors.
var (
	ErrDonorNotEligible = &AppError{Code: "DONOR_NOT_ELIGIBLE", Message: "Donor is not eligible to donate yet", StatusCode: http.StatusBadRequest}
)

// Event errors.
var (
	ErrEventNotFound         = &AppError{Code: "EVENT_NOT_FOUND", Message: "Event not found", StatusCode: http.StatusNotFound}
	ErrEventCompleted        = &AppError{Code: "EVENT_ALREADY_COMPLETED", Message: "Event is already marked as completed", StatusCode: http.StatusConflict}
	ErrParticipationNotFound = &AppError{Code: "PARTICIPATION_NOT_FOUND", Message: "Appointment not found", StatusCode: http.StatusNotFound}
)
