package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTokenMalformed is returned when a token cannot be parsed or its signature does not verify.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already taken")
	// ErrInvalidCredentials is returned on login failure without revealing which part was wrong.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrOwnerNotFound is returned when an event's owner does not exist.
	ErrOwnerNotFound = errors.New("event owner not found")
	// ErrInvalidEventType is returned when the event type is not one of the known values.
	ErrInvalidEventType = errors.New("event type must be either 'on-site' or 'virtual'")
	// ErrAlreadyRegistered is returned when a user is already registered for an event.
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	// ErrCapacityReached is returned when an event has no remaining capacity.
	ErrCapacityReached = errors.New("event capacity reached")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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

// MapErrorToHTTP maps domain errors to HTTP errors. The transport layer is the
// only place where domain error kinds become status codes.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrTokenMalformed):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_MALFORMED")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrDuplicateUser):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_USER")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEventNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "EVENT_NOT_FOUND")
	case errors.Is(err, ErrOwnerNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "OWNER_NOT_FOUND")
	case errors.Is(err, ErrInvalidEventType):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_EVENT_TYPE")
	case errors.Is(err, ErrAlreadyRegistered):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_REGISTERED")
	case errors.Is(err, ErrCapacityReached):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CAPACITY_REACHED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
