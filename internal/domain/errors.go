package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched by every ParameterError via errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError identifies the offending field of a CalculationParameters value
type ParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParameterError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %s)", e.Field, e.Reason, e.Value)
	}
	return e.Field + ": " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidParameter) true for parameter errors.
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// RateTableError reports a malformed rate table
type RateTableError struct {
	Table string
	Err   error
}

func (e *RateTableError) Error() string {
	return "rate table " + e.Table + ": " + e.Err.Error()
}

func (e *RateTableError) Unwrap() error { return e.Err }
