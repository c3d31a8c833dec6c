package model

import "fmt"

// ValidationError reports malformed request input. It carries the offending
// field/product id or constraint name and a message naming the violated
// range so callers can correct the input without consulting logs.
type ValidationError struct {
	Subject string // field/product id or constraint name
	Field   string // attribute that failed validation
	Message string
}

func (e *ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s %s", e.Subject, e.Field, e.Message)
}

// NewValidationError constructs a ValidationError.
func NewValidationError(subject, field, message string) *ValidationError {
	return &ValidationError{Subject: subject, Field: field, Message: message}
}

// NewRangeError constructs a ValidationError for a value outside an
// inclusive range.
func NewRangeError(subject, field string, value, min, max float64) *ValidationError {
	return &ValidationError{
		Subject: subject,
		Field:   field,
		Message: fmt.Sprintf("value %g outside allowed range [%g, %g]", value, min, max),
	}
}

// ComputationError reports a numerical failure that survived the solver
// fallback chain. Solver infeasibility alone is recovered internally and
// never surfaces as a ComputationError.
type ComputationError struct {
	Stage string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failed during %s: %v", e.Stage, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
