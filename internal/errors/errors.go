package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user row does not exist.
	ErrUserNotFound = errors.New("account not found, please register first")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("the email or password you entered is incorrect")
	// ErrEmailInUse is returned when registering with a known email.
	ErrEmailInUse = errors.New("email is already in use")
	// ErrPhoneInUse is returned when a phone number belongs to another user.
	ErrPhoneInUse = errors.New("phone number is already in use")
	// ErrInvalidSortField is returned for a sortBy outside the allow-list.
	ErrInvalidSortField = errors.New("invalid sortBy field")
	// ErrInvalidOrder is returned for an order outside {asc, desc}.
	ErrInvalidOrder = errors.New("invalid order value")
	// ErrEventNotFound is returned when an event row does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrNoteNotFound is returned when a training note does not exist.
	ErrNoteNotFound = errors.New("note not found")
	// ErrInvalidNoteStatus is returned for a status outside the known set.
	ErrInvalidNoteStatus = errors.New("invalid note status")
	// ErrForbidden is returned when the caller's role lacks the capability.
	ErrForbidden = errors.New("forbidden: insufficient permissions")
	// ErrUploadFailed is returned when the image relay rejects an upload.
	ErrUploadFailed = errors.New("failed to upload image")
	// ErrPasswordMismatch is returned when the old password check fails.
	ErrPasswordMismatch = errors.New("old password does not match")
	// ErrInvalidGoogleToken is returned when Google token verification fails.
	ErrInvalidGoogleToken = errors.New("invalid Google token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unknown
// collapses to an opaque 500; internals never leak to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrEmailInUse):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_IN_USE")
	case errors.Is(err, ErrPhoneInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "PHONE_IN_USE")
	case errors.Is(err, ErrInvalidSortField):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SORT_FIELD")
	case errors.Is(err, ErrInvalidOrder):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ORDER")
	case errors.Is(err, ErrEventNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "EVENT_NOT_FOUND")
	case errors.Is(err, ErrNoteNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTE_NOT_FOUND")
	case errors.Is(err, ErrInvalidNoteStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_NOTE_STATUS")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUploadFailed):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UPLOAD_FAILED")
	case errors.Is(err, ErrPasswordMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_MISMATCH")
	case errors.Is(err, ErrInvalidGoogleToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_GOOGLE_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
