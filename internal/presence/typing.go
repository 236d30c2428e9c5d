package presence

import (
	"context"
	"time"
)

// DefaultTypingTTL how long a typing mark stays visible
const DefaultTypingTTL = 3 * time.Second

// Typing tracks "is typing" marks. A mark is visible while it is younger than ttl.
type Typing struct {
	store TypingStore
	ttl   time.Duration
	now   func() time.Time
}

// NewTyping creates a tracker over store; ttl <= 0 uses DefaultTypingTTL
func NewTyping(store TypingStore, ttl time.Duration) *Typing {
	if ttl <= 0 {
		ttl = DefaultTypingTTL
	}
	return &Typing{
		store: store,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source
func (t *Typing) SetClock(now func() time.Time) {
	t.now = now
}

// TTL mark lifetime
func (t *Typing) TTL() time.Duration {
	return t.ttl
}

// Start marks typerID as typing to targetID, refreshing any older mark
func (t *Typing) Start(ctx context.Context, typerID, targetID string) error {
	return t.store.Mark(ctx, typerID, targetID, t.now())
}

// Stop clears the mark right away, e.g. once the message is sent
func (t *Typing) Stop(ctx context.Context, typerID, targetID string) error {
	return t.store.Clear(ctx, typerID, targetID)
}

// Typers lists who is currently typing to targetID
func (t *Typing) Typers(ctx context.Context, targetID string) ([]string, error) {
	return t.store.Since(ctx, targetID, t.now().Add(-t.ttl))
}

// Sweep drops expired marks
func (t *Typing) Sweep(ctx context.Context) error {
	return t.store.Prune(ctx, t.now().Add(-t.ttl))
}
