/*
errors.go - Centralized error types for the planner engine

PURPOSE:
  All error types in one place. The projection engine itself never fails:
  shortfalls are returned as data. Errors only come from parsing input
  (dates, pay periods, settings documents) and from stores.

ERROR CATEGORIES:
  1. Input errors - malformed dates, inverted ranges, unknown schedules
  2. Lookup errors - vacation or settings record missing
  3. Store errors - wrapped database failures (not defined here)

USAGE:
  if errors.Is(err, generic.ErrInvalidDate) {
      // 400 Bad Request
  }

SEE ALSO:
  - time.go: returns DateError
  - api/handlers.go: maps errors to HTTP status codes
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
	// ErrInvalidDate is returned when a date string is not a real YYYY-MM-DD day.
	ErrInvalidDate = errors.New("invalid date")

	// ErrEndBeforeStart is returned when a range ends before it starts.
	ErrEndBeforeStart = errors.New("end date before start date")

	// ErrUnknownPayPeriod is returned by ParsePayPeriod for names outside the enum.
	ErrUnknownPayPeriod = errors.New("unknown pay period")

	// ErrInvalidSettings is returned when a settings document violates an invariant.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrVacationNotFound is returned when no vacation has the given id.
	ErrVacationNotFound = errors.New("vacation not found")

	// ErrScenarioNotFound is returned when a named demo scenario does not exist.
	ErrScenarioNotFound = errors.New("scenario not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DateError describes why a date string was rejected.
type DateError struct {
	Input  string
	Reason string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

// SettingsError names the settings field that failed validation.
type SettingsError struct {
	Field   string
	Message string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("invalid settings: %s %s", e.Field, e.Message)
}

func (e *SettingsError) Unwrap() error { return ErrInvalidSettings }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrEndBeforeStart) ||
		errors.Is(err, ErrUnknownPayPeriod) ||
		errors.Is(err, ErrInvalidSettings)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVacationNotFound) ||
		errors.Is(err, ErrScenarioNotFound)
}
