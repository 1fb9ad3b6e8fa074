package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrTableNotFound    = fmt.Errorf("%w: table", ErrNotFound)
	ErrResultNotFound   = fmt.Errorf("%w: result table", ErrNotFound)
	ErrFeatureNotFound  = fmt.Errorf("%w: feature", ErrNotFound)
	ErrAttributeMissing = fmt.Errorf("%w: attribute", ErrNotFound)

	// Run preconditions. Each aborts the whole run before any feature is tested.
	ErrInvalidGrouping       = errors.New("invalid grouping")
	ErrUnequalSampleSize     = errors.New("unequal sample sizes")
	ErrUnsupportedCorrection = errors.New("unsupported correction method")

	// Input errors
	ErrInvalidAlternative = errors.New("invalid alternative hypothesis")
	ErrInvalidTestFamily  = errors.New("invalid test family")
	ErrMisalignedTables   = errors.New("feature and metadata tables are not aligned")
	ErrEmptyTable         = errors.New("table has no rows")
	ErrValidation         = errors.New("validation failed")
)

// InvalidGroupingError reports why an (attribute, A, B) selection cannot be tested.
type InvalidGroupingError struct {
	Attribute string
	GroupA    string
	GroupB    string
	Reason    string
}

func (e *InvalidGroupingError) Error() string {
	return fmt.Sprintf("invalid grouping %s=[%q, %q]: %s", e.Attribute, e.GroupA, e.GroupB, e.Reason)
}

func (e *InvalidGroupingError) Is(target error) bool { return target == ErrInvalidGrouping }

// UnequalSampleSizeError is returned by paired tests when the groups differ in size.
type UnequalSampleSizeError struct {
	GroupA string
	GroupB string
	SizeA  int
	SizeB  int
}

func (e *UnequalSampleSizeError) Error() string {
	return fmt.Sprintf("unequal sample sizes for paired test: %q has %d samples, %q has %d",
		e.GroupA, e.SizeA, e.GroupB, e.SizeB)
}

func (e *UnequalSampleSizeError) Is(target error) bool { return target == ErrUnequalSampleSize }

// UnsupportedCorrectionError names a correction identifier outside the supported set.
type UnsupportedCorrectionError struct {
	Method string
}

func (e *UnsupportedCorrectionError) Error() string {
	return fmt.Sprintf("unsupported correction method %q", e.Method)
}

func (e *UnsupportedCorrectionError) Is(target error) bool { return target == ErrUnsupportedCorrection }

// Error constructors with context
func NewInvalidGroupingError(attribute, groupA, groupB, reason string) error {
	return &InvalidGroupingError{Attribute: attribute, GroupA: groupA, GroupB: groupB, Reason: reason}
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPreconditionError reports whether err is one of the fail-fast run errors.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrInvalidGrouping) ||
		errors.Is(err, ErrUnequalSampleSize) ||
		errors.Is(err, ErrUnsupportedCorrection)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidAlternative) ||
		errors.Is(err, ErrInvalidTestFamily) ||
		errors.Is(err, ErrMisalignedTables) ||
		errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrValidation)
}
