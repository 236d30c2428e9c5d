// Package presence tracks who is connected and who is typing. Entries carry
// the last activity time; an external sweep evicts idle users.
package presence

import (
	"context"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/domain"
)

// Entry presence of one tracked user
type Entry struct {
	UserID     string              `json:"user_id"`
	Status     domain.OnlineStatus `json:"status"`
	LastActive time.Time           `json:"last_active"`
}

// Store holds presence entries. Implementations must be safe for concurrent use.
type Store interface {
	// Touch records activity for userID at at, creating the entry if needed
	Touch(ctx context.Context, userID string, status domain.OnlineStatus, at time.Time) error
	// Get returns the entry, or ok=false when the user is not tracked
	Get(ctx context.Context, userID string) (entry Entry, ok bool, err error)
	Online(ctx context.Context) ([]Entry, error)
	Remove(ctx context.Context, userID string) error
	// Sweep removes entries last active before cutoff and returns their user ids
	Sweep(ctx context.Context, cutoff time.Time) ([]string, error)
}

// TypingStore holds typing marks keyed by target (a user or group id)
type TypingStore interface {
	Mark(ctx context.Context, typerID, targetID string, at time.Time) error
	Clear(ctx context.Context, typerID, targetID string) error
	// Since lists typers of targetID whose mark is after since
	Since(ctx context.Context, targetID string, since time.Time) ([]string, error)
	// Prune drops every mark at or before cutoff
	Prune(ctx context.Context, cutoff time.Time) error
}
