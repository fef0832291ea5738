package domain

import (
	"errors"
	"fmt"
)

// Base sentinels. Callers should match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
	ErrForbidden    = errors.New("forbidden")
	// ErrTimeout is returned when a store call exceeds its deadline.
	ErrTimeout = errors.New("operation timed out")
)

// Entity-specific variants; each wraps one of the base sentinels.
var (
	ErrEventNotFound    = fmt.Errorf("event %w", ErrNotFound)
	ErrTaskNotFound     = fmt.Errorf("task %w", ErrNotFound)
	ErrDonorNotFound    = fmt.Errorf("donor %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrLinkNotFound     = fmt.Errorf("event fundraiser %w", ErrNotFound)
	ErrAttendeeNotFound = fmt.Errorf("event attendee %w", ErrNotFound)

	ErrDuplicateDonor = fmt.Errorf("donor %w", ErrConflict)
	ErrDuplicateUser  = fmt.Errorf("user %w", ErrConflict)
	ErrDuplicateLink  = fmt.Errorf("event fundraiser %w", ErrConflict)

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Event creation saga outcomes.
var (
	// ErrEventCreationFailed means nothing was written: validation or the event insert failed.
	ErrEventCreationFailed = errors.New("event creation failed")
	// ErrEventCreationRolledBack means the event was written, a fundraiser link failed,
	// and every write made by the saga has been undone.
	ErrEventCreationRolledBack = errors.New("event creation rolled back")
	// ErrRollbackFailed means a compensating delete failed; manual cleanup may be required.
	ErrRollbackFailed = errors.New("event creation rollback failed")
)
