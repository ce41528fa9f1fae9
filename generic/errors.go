/*
errors.go - Centralized error types for the generic engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages should wrap these errors with additional context.

ERROR CATEGORIES:
  1. Configuration errors - Reported before any generation begins
  2. Assembly errors - Series that cannot be zipped into a table, or cells
     that are not finite
  3. Store errors - Run persistence failures

NON-ERRORS:
  Two conditions are deliberately NOT errors:
  - a year outside every band of a table (resolved by the default,
    reported as a Warning)
  - an overlay rule for a year outside the table (skipped, reported in
    OverlayReport.Skipped)

USAGE:
  if errors.Is(err, generic.ErrInvalidRange) {
      return http.StatusBadRequest
  }

SEE ALSO:
  - engine.go: Config validation
  - table.go: Assembly errors
  - store.go: Store errors
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when the end year precedes the start year.
	ErrInvalidRange = errors.New("invalid year range: end before start")

	// ErrNegativeBase is returned when a base scalar is zero or negative.
	ErrNegativeBase = errors.New("base constant must be positive")

	// ErrSeriesLength is returned when a series does not match the year count.
	ErrSeriesLength = errors.New("series length does not match years")

	// ErrUnknownAttribute is returned when a rule or lookup names a column
	// the model does not define.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrDuplicateAttribute is returned when a model defines a column twice.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrInvalidRule is returned when a rule has an unknown operation or a
	// non-finite value.
	ErrInvalidRule = errors.New("invalid overlay rule")

	// ErrNonFiniteValue is returned when a cell is NaN or infinite, whether
	// generated from extreme bases, produced by a rule or read from a file.
	ErrNonFiniteValue = errors.New("non-finite value")

	// ErrEmptyModel is returned when a model has no columns.
	ErrEmptyModel = errors.New("model has no columns")

	// ErrRunNotFound is returned when a referenced run doesn't exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrDuplicateRun is returned when saving a run whose ID already exists.
	ErrDuplicateRun = errors.New("run already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// LengthMismatchError provides details about a series that cannot be assembled.
type LengthMismatchError struct {
	Attribute Attribute
	Want      int
	Got       int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("series %s has %d values, want %d", e.Attribute, e.Got, e.Want)
}

func (e *LengthMismatchError) Unwrap() error {
	return ErrSeriesLength
}

// UnknownAttributeError names the missing column and where it was referenced.
type UnknownAttributeError struct {
	Attribute Attribute
	Context   string // e.g. "rule 1984/public_funding"
}

func (e *UnknownAttributeError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("unknown attribute %q", e.Attribute)
	}
	return fmt.Sprintf("%s: unknown attribute %q", e.Context, e.Attribute)
}

func (e *UnknownAttributeError) Unwrap() error {
	return ErrUnknownAttribute
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigError returns true if the error is due to invalid configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrNegativeBase) ||
		errors.Is(err, ErrUnknownAttribute) ||
		errors.Is(err, ErrDuplicateAttribute) ||
		errors.Is(err, ErrInvalidRule) ||
		errors.Is(err, ErrNonFiniteValue) ||
		errors.Is(err, ErrEmptyModel)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
