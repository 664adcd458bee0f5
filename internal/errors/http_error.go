package errors

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for the error families the reservation and order flows produce.
var (
	Validation = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	NotFound   = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	Internal   = func(msg string) *HTTPError { return NewHTTPError(http.StatusInternalServerError, msg) }
)

// SlotUnavailable is returned when the requested time window cannot seat the party.
func SlotUnavailable() *HTTPError {
	return NewHTTPError(http.StatusBadRequest, "Time slot not available")
}

// TooLateToModify is returned when a reservation is touched inside the
// two-hour cutoff before its start time.
func TooLateToModify(action string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, "Cannot "+action+" reservation less than 2 hours before")
}

// AccessDenied is returned on an ownership or role mismatch.
func AccessDenied() *HTTPError {
	return NewHTTPError(http.StatusForbidden, "Access denied")
}
