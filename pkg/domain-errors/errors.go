// Package domainerrors defines coded errors shared by services and the HTTP
// layer. Services return these; transport maps the code to a status.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for translation at the edge.
type Code string

const (
	CodeBadRequest    Code = "bad_request"
	CodeValidation    Code = "invalid_request"
	CodeNotFound      Code = "not_found"
	CodeInternal      Code = "internal_error"
	CodeConfiguration Code = "configuration_error"
)

// Error carries a Code, a client-safe message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
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

// New creates a coded error without a cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}
