// Package apperr carries the error kinds services report to controllers.
package apperr

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	ErrValidation ErrCode = "VALIDATION"
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrConflict   ErrCode = "CONFLICT"
	ErrStore      ErrCode = "STORE"
)

type codedError struct {
	code ErrCode
	msg  string
	err  error
}

func (e *codedError) Error() string {
	switch {
	case e.err != nil && e.msg != "":
		return e.msg + ": " + e.err.Error()
	case e.err != nil:
		return string(e.code) + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	}
	return string(e.code)
}

func (e *codedError) Unwrap() error { return e.err }
func (e *codedError) Code() ErrCode { return e.code }

func Validation(format string, args ...any) error {
	return &codedError{code: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &codedError{code: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &codedError{code: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Store wraps a persistence failure. op names the step that failed.
func Store(op string, err error) error {
	return &codedError{code: ErrStore, msg: op, err: err}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Message is the text safe to return to a client. Store failures and
// uncoded errors are not described.
func Message(err error) string {
	var ce *codedError
	if !errors.As(err, &ce) || ce.code == ErrStore {
		return "internal error"
	}
	if ce.msg != "" {
		return ce.msg
	}
	return string(ce.code)
}
