// internal/apperr/apperr.go

// Package apperr defines the error taxonomy shared by services and
// handlers. Services return *Error values with a code; handlers map codes
// to HTTP statuses without inspecting message text. Underlying store
// errors stay wrapped for logging and never reach response bodies.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "AUTHENTICATION_REQUIRED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeIntegrity    Code = "INTEGRITY_VIOLATION"
	CodePersistence  Code = "PERSISTENCE_ERROR"
)

type Error struct {
	Code    Code
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

func Validation(message string, details interface{}) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "insufficient permissions"
	}
	return &Error{Code: CodeForbidden, Message: message}
}

func Integrity(message string) *Error {
	return &Error{Code: CodeIntegrity, Message: message}
}

// Persistence wraps a store failure behind a generic message. The wrapped
// error is for logs only.
func Persistence(err error) *Error {
	return &Error{Code: CodePersistence, Message: "a storage error occurred", Err: err}
}

// CodeOf extracts the taxonomy code from err, defaulting to persistence
// for anything unclassified.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodePersistence
}

// As returns the *Error inside err, or nil.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
