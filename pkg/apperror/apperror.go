// Package apperror defines the error kinds the inventory core reports.
// Services wrap these sentinels with fmt.Errorf("...: %w", kind) so the
// HTTP layer can map them to status codes with errors.Is without parsing
// messages or leaking internal details.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input; no mutation was attempted.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden marks a capability or ownership check failure.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a missing referenced entity.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks a dispatch or approval attempted against an
	// item whose stock is below the requested quantity. State is unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrAlreadyProcessed marks a decision attempted on a non-pending request.
	ErrAlreadyProcessed = errors.New("request already processed")

	// ErrConflict marks a concurrent mutation that invalidated an optimistic
	// check; callers retry a bounded number of times before surfacing it.
	ErrConflict = errors.New("conflict")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Forbiddenf wraps ErrForbidden with a formatted detail message.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
