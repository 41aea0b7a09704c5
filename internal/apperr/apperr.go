// Package apperr carries an HTTP status alongside an error message so core
// packages can report failures without importing gin.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	if message == "" {
		message = "Internal Server Error"
	}
	return &Error{Status: status, Message: message}
}

func Unauthenticated(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func InvalidArgument(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// StatusOf returns the HTTP status carried by err, or 500 for plain errors.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
