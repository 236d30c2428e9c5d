package common

import (
	"errors"
	"fmt"
)

// Storage and business errors. Repositories translate driver errors into these so
// callers can tell a duplicate from a missing row from a broken database.
var (
	// General errors
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("resource already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Entity not-found errors (all match ErrNotFound)
	ErrUserNotFound          = fmt.Errorf("user: %w", ErrNotFound)
	ErrMessageNotFound       = fmt.Errorf("message: %w", ErrNotFound)
	ErrGroupNotFound         = fmt.Errorf("group: %w", ErrNotFound)
	ErrContactNotFound       = fmt.Errorf("contact: %w", ErrNotFound)
	ErrFriendRequestNotFound = fmt.Errorf("friend request: %w", ErrNotFound)
	ErrStoryNotFound         = fmt.Errorf("story: %w", ErrNotFound)
	ErrChannelNotFound       = fmt.Errorf("channel: %w", ErrNotFound)
)

// Invalid wraps ErrInvalidInput with a reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}
