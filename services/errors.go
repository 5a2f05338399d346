package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-pool/brackets"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidYear      = errors.New("tournament year must be positive")

	ErrSeedingNotFound         = errors.New("no seeding published for this year")
	ErrSeedingAlreadyPublished = errors.New("seeding for this year is already published")

	ErrEntryNotFound     = errors.New("entry not found")
	ErrEntryNameRequired = errors.New("entry name is required")
	ErrEntryNameConflict = errors.New("entry name is already in use for this year")
	ErrEntryFrozen       = errors.New("entry has been submitted and can no longer change")

	ErrUnknownGame         = errors.New("game not found in this year's bracket")
	ErrResultNotFound      = errors.New("no result recorded for this game")
	ErrResultHasDependents = errors.New("a later game's result depends on this result")

	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrExportUnavailable  = errors.New("standings export storage is not configured")
)

// PickValidationError rejects a pick set and carries every violation found.
type PickValidationError struct {
	Result brackets.ValidationResult
}

func (e *PickValidationError) Error() string {
	return fmt.Sprintf("%v: %d pick violation(s)", ErrValidationFailed, len(e.Result.Violations))
}

func (e *PickValidationError) Unwrap() error {
	return ErrValidationFailed
}
