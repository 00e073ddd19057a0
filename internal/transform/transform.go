package transform

import (
	"fmt"

	"github.com/rgehrsitz/paycalc/internal/domain"
)

// ScenarioTransform defines the interface for all scenario transformations.
// Transforms are composable operations that derive a variant of a scenario,
// used by the comparison engine and the gross-up solver.
type ScenarioTransform interface {
	// Apply returns a modified copy of base. The base is never changed.
	Apply(base domain.Scenario) (domain.Scenario, error)

	// Name returns a short identifier for this transform (e.g., "set_pay_month").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters without applying it.
	Validate(base domain.Scenario) error
}

// ApplyTransforms applies a sequence of transforms to a base scenario. Each
// transform receives the output of the previous one, and the final
// parameters are validated before returning.
func ApplyTransforms(base domain.Scenario, transforms []ScenarioTransform) (domain.Scenario, error) {
	current := base

	for i, transform := range transforms {
		if transform == nil {
			return domain.Scenario{}, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return domain.Scenario{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return domain.Scenario{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	if err := current.Parameters.Validate(); err != nil {
		return domain.Scenario{}, fmt.Errorf("transformed scenario is invalid: %w", err)
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
