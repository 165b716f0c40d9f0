// Package errors holds the domain error type shared by services and handlers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// DomainError is a failure the API reports to callers as-is.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Status:  e.Status,
	}
}

// StatusError is implemented by errors from outside the domain, such as
// payment provider failures, that carry their own status and public message.
type StatusError interface {
	error
	HTTPStatus() int
	PublicMessage() string
}

// HTTPStatus returns the status to answer with for err.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	var de *DomainError
	if stderrors.As(err, &de) && de.Status != 0 {
		return de.Status
	}
	var se StatusError
	if stderrors.As(err, &se) {
		return se.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Message
	}
	var se StatusError
	if stderrors.As(err, &se) {
		return se.PublicMessage()
	}
	return "internal server error"
}

var (
	ErrInvalidInput = &DomainError{
		Code:    "INVALID_INPUT",
		Message: "invalid input",
		Status:  http.StatusBadRequest,
	}
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "unauthorized",
		Status:  http.StatusUnauthorized,
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "not found",
		Status:  http.StatusNotFound,
	}
	ErrConflict = &DomainError{
		Code:    "CONFLICT",
		Message: "conflict",
		Status:  http.StatusConflict,
	}
)
