package httpdto

import (
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"
)

// Response is the JSON envelope of every REST reply. Code carries one of
// the public error codes (NOT_FOUND, UNAVAILABLE, ...) on failure.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{Success: true, Data: data}
}

func NewErrorResponse(message, code string) Response[any] {
	return Response[any]{Error: message, Code: code}
}

// ErrorResponseFor renders err with its public message and code only, so
// store details and user existence never leak into a reply.
func ErrorResponseFor(err error) Response[any] {
	return NewErrorResponse(echoo_errors.PublicMessage(err), echoo_errors.PublicCode(err))
}
