// Package simerr defines the two error classes a simulation run can fail with.
//
// A [ConfigError] is a user-input problem: an out-of-range or non-finite
// parameter. It is always detected before the first time step.
//
// An [InternalError] is a defect: the floater state machine reached a state
// it should never reach given a validated configuration. It aborts the run.
//
// Both match their sentinel through errors.Is:
//
//	if errors.Is(err, simerr.ErrConfig) {
//	    // show as a form-validation message
//	}
package simerr

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("simerr: invalid configuration")

	// ErrInternal is matched by every *InternalError.
	ErrInternal = errors.New("simerr: internal logic error")
)

// ConfigError reports one parameter that violates its documented range.
type ConfigError struct {
	Field      string
	Constraint string
	Value      float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s must be %s (got %g)", e.Field, e.Constraint, e.Value)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigError is a shorthand used by validators.
func NewConfigError(field, constraint string, value float64) *ConfigError {
	return &ConfigError{Field: field, Constraint: constraint, Value: value}
}

// InternalError carries the context needed to debug a broken transition:
// which floater, at which step and time, in which state.
type InternalError struct {
	Floater int
	Step    int
	Time    float64
	State   string
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal: floater %d step %d (t=%.4f) state %s: %s",
		e.Floater, e.Step, e.Time, e.State, e.Message)
}

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// Fields flattens err into every *ConfigError it wraps, including the
// members of an errors.Join tree.
func Fields(err error) []*ConfigError {
	if err == nil {
		return nil
	}
	var out []*ConfigError
	var walk func(error)
	walk = func(e error) {
		if ce, ok := e.(*ConfigError); ok {
			out = append(out, ce)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}

// Finite rejects NaN and ±Inf for field.
func Finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewConfigError(field, "finite", v)
	}
	return nil
}
