package repository

import (
	"testing"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryRepository_ActiveNewestFirst(t *testing.T) {
	repo := NewStoryRepository(setupTestDB(t))
	old := &domain.Story{UserID: "u1", Content: "old", CreatedAt: base.Add(-25 * time.Hour), ExpiresAt: base.Add(-time.Hour)}
	first := &domain.Story{UserID: "u1", Content: "first", CreatedAt: base, ExpiresAt: base.Add(domain.DefaultStoryTTL)}
	second := &domain.Story{UserID: "u2", Content: "second", CreatedAt: base.Add(time.Minute), ExpiresAt: base.Add(time.Hour)}
	for _, s := range []*domain.Story{old, first, second} {
		require.NoError(t, repo.Create(s))
	}

	active, err := repo.FindActive(base.Add(2 * time.Minute))
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "second", active[0].Content)
	assert.Equal(t, "first", active[1].Content)

	mine, err := repo.FindActiveByUser("u1", base.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "first", mine[0].Content)
}

func TestStoryRepository_AppendViewOnce(t *testing.T) {
	repo := NewStoryRepository(setupTestDB(t))
	s := &domain.Story{UserID: "u1", Content: "c", CreatedAt: base, ExpiresAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(s))

	for i := 0; i < 3; i++ {
		_, err := repo.AppendView(s.ID, "viewer", base)
		require.NoError(t, err)
	}
	got, err := repo.AppendView(s.ID, "other", base)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer", "other"}, []string(got.Views))

	_, err = repo.AppendView(s.ID, "late", base.Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrStoryNotFound)
}

func TestStoryRepository_ToggleReaction(t *testing.T) {
	repo := NewStoryRepository(setupTestDB(t))
	s := &domain.Story{UserID: "u1", Content: "c", CreatedAt: base, ExpiresAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(s))

	r, err := repo.ToggleReaction(s.ID, "🔥", "u2", base)
	require.NoError(t, err)
	assert.Equal(t, domain.Reactions{"🔥": {"u2"}}, r)

	r, err = repo.ToggleReaction(s.ID, "🔥", "u2", base)
	require.NoError(t, err)
	assert.Empty(t, r)
}
