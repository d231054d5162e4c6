package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed operator input. Nothing is mutated when it is returned.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is a sentinel error for "not found" cases
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable marks failures talking to the datastore
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrPlatformAction marks a Discord API call that was rejected or failed
	ErrPlatformAction = errors.New("platform action failed")
	// ErrActorAbsent marks a role mutation for a user who is no longer a member of the scope
	ErrActorAbsent = errors.New("actor not in scope")
	// ErrAuditDelivery marks a failed audit log forward. It is always swallowed by callers.
	ErrAuditDelivery = errors.New("audit delivery failed")
)

// Validationf builds an error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StoreUnavailable wraps a datastore error so callers can match it with errors.Is.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// PlatformAction wraps a Discord API error so callers can match it with errors.Is.
func PlatformAction(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPlatformAction, err)
}

// NotFoundf builds an error wrapping ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ActorAbsent wraps a Discord API error for a member that left the scope.
func ActorAbsent(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrActorAbsent, err)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func IsPlatformActionError(err error) bool {
	return errors.Is(err, ErrPlatformAction)
}

func IsActorAbsentError(err error) bool {
	return errors.Is(err, ErrActorAbsent)
}
