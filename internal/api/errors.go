package api

import (
	"errors"
	"fmt"
)

// ErrEmailTaken signals the register conflict: the service answered 400
// because the email is already registered. The token must not change.
var ErrEmailTaken = errors.New("email already registered")

// StatusError is a completed request the service rejected with a non-2xx
// status. Detail carries the service's human-readable message when the
// body had one.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("service returned status %d", e.Code)
}

// NoMatchError is the new-investor domain error: the service completed
// successfully but found no funds and answered {"message": ...} instead
// of a fund list.
type NoMatchError struct {
	Message string
}

func (e *NoMatchError) Error() string { return e.Message }

// ComparisonError is the existing-investor domain error: a successful
// response whose body carries {"error": ...} instead of a comparison.
type ComparisonError struct {
	Message string
}

func (e *ComparisonError) Error() string { return e.Message }
