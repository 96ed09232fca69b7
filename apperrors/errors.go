package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error that carries the HTTP status it maps to.
// Services return these; handlers translate them into the response envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation reports malformed or missing input, e.g. an incomplete address.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound reports a missing franchise/manager/user/category/product.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// RoleMismatch reports that the target user lacks the required role.
func RoleMismatch(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// Forbidden reports that the requester may not access the franchise's data.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

// Conflict reports a delete blocked by existing dependents.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Internal wraps an unexpected persistence failure.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// From converts any error into an *Error, defaulting to Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Server error", err)
}
