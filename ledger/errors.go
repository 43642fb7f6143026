/*
errors.go - Centralized error types for the ledger engine

ERROR CATEGORIES:
  1. Validation errors - referential integrity or bad field values; the
     command is rejected and nothing changes
  2. Parse errors - a state document (import or stored blob) that cannot be
     read; existing state is kept
  3. Store errors - persistence failures, returned wrapped

Number-to-words formatting has no error channel: bad input yields the
"Invalid Number" sentinel string (see package words).

USAGE:
  if errors.Is(err, ledger.ErrStaffNotFound) { ... }

  var verr *ledger.ValidationError
  if errors.As(err, &verr) {
      fmt.Println(verr.Field, verr.Reason)
  }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrStaffNotFound is returned when a transaction or query names a staff
	// member that is not on the roster.
	ErrStaffNotFound = errors.New("staff not found")

	// ErrLoanNotFound is returned when a settlement links to a loan id that no
	// Give Loan transaction carries.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrTransactionNotFound is returned when a receipt id is unknown.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMalformedState is the root of every ParseError.
	ErrMalformedState = errors.New("malformed state document")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError rejects a command because of its input.
type ValidationError struct {
	Field  string
	Reason string
	// Cause is an optional sentinel (ErrStaffNotFound, ErrLoanNotFound, ...).
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValidation, e.Cause}
	}
	return []error{ErrValidation}
}

// ParseError reports an unreadable state document.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed state document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed state document: %s", e.Reason)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedState, e.Err}
	}
	return []error{ErrMalformedState}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrMalformedState) ||
		errors.Is(err, ErrInvalidAmount)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStaffNotFound) ||
		errors.Is(err, ErrLoanNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
