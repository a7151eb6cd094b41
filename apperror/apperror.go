package apperror

import (
	"errors"
	"net/http"
)

// Error is the typed error every service returns to the HTTP layer.
// Status is the HTTP status code the error maps to.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Unprocessable marks a well-formed request whose generated content was unusable.
func Unprocessable(message string, err error) *Error {
	return New(http.StatusUnprocessableEntity, message, err)
}

// BadGateway marks a failure of an upstream collaborator.
func BadGateway(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// From converts any error into an *Error, defaulting to 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	return From(err).Status
}
