package presence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/domain"
)

// MemoryStore single-instance Store and TypingStore
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	typing  map[string]map[string]time.Time // target -> typer -> mark
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		typing:  make(map[string]map[string]time.Time),
	}
}

func (m *MemoryStore) Touch(_ context.Context, userID string, status domain.OnlineStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = Entry{UserID: userID, Status: status, LastActive: at}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, userID string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID]
	return e, ok, nil
}

func (m *MemoryStore) Online(context.Context) ([]Entry, error) {
	m.mu.Lock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *MemoryStore) Remove(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := make([]string, 0)
	for id, e := range m.entries {
		if e.LastActive.Before(cutoff) {
			delete(m.entries, id)
			evicted = append(evicted, id)
		}
	}
	sort.Strings(evicted)
	return evicted, nil
}

func (m *MemoryStore) Mark(_ context.Context, typerID, targetID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	marks, ok := m.typing[targetID]
	if !ok {
		marks = make(map[string]time.Time)
		m.typing[targetID] = marks
	}
	marks[typerID] = at
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, typerID, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if marks, ok := m.typing[targetID]; ok {
		delete(marks, typerID)
		if len(marks) == 0 {
			delete(m.typing, targetID)
		}
	}
	return nil
}

func (m *MemoryStore) Since(_ context.Context, targetID string, since time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0)
	for typer, at := range m.typing[targetID] {
		if at.After(since) {
			out = append(out, typer)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) Prune(_ context.Context, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for target, marks := range m.typing {
		for typer, at := range marks {
			if !at.After(cutoff) {
				delete(marks, typer)
			}
		}
		if len(marks) == 0 {
			delete(m.typing, target)
		}
	}
	return nil
}
