package echoo_errors

import (
	"errors"
	"net/http"
)

// Handshake errors
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrUnknownScheme     = errors.New("unknown credential scheme")
	ErrInvalidToken      = errors.New("invalid token")
)

// Dispatcher errors. Externally these all render as a generic not-found.
var (
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrInvalidParticipants = errors.New("invalid participants")
	ErrChatNotFound        = errors.New("chat not found")
)

// Collaborator errors
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrBlobUnavailable  = errors.New("blob storage unavailable")
)

// Common errors
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrTooLarge      = errors.New("file too large")
	ErrRateLimited   = errors.New("rate limited")
)

// External codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeRateLimited    = "RATE_LIMITED"
	CodeUnavailable    = "UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrRecipientNotFound) ||
		errors.Is(err, ErrInvalidParticipants) ||
		errors.Is(err, ErrChatNotFound) ||
		errors.Is(err, ErrNotFound)
}

func isUnauthorized(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrUnknownScheme) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnauthorized)
}

// HTTPStatus maps an error to the status code returned by REST handlers.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case isUnauthorized(err):
		return http.StatusUnauthorized
	case isNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrBlobUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicCode returns the code exposed to clients for err.
func PublicCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrTooLarge):
		return CodeInvalidRequest
	case isUnauthorized(err):
		return CodeUnauthorized
	case isNotFound(err):
		return CodeNotFound
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrBlobUnavailable):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

// PublicMessage returns a message safe to expose to clients. Not-found class
// errors collapse into one message so membership stays hidden.
func PublicMessage(err error) string {
	switch PublicCode(err) {
	case CodeInvalidRequest:
		if errors.Is(err, ErrTooLarge) {
			return ErrTooLarge.Error()
		}
		return ErrInvalidInput.Error()
	case CodeUnauthorized:
		return ErrUnauthorized.Error()
	case CodeNotFound:
		return ErrNotFound.Error()
	case CodeRateLimited:
		return ErrRateLimited.Error()
	case CodeUnavailable:
		return "service temporarily unavailable"
	default:
		return "internal error"
	}
}
