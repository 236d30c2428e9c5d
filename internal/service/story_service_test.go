package service

import (
	"testing"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := env.storyService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	story, err := svc.CreateStory(alice.ID, "sunrise", nil, 0)
	require.NoError(t, err)
	assert.True(t, story.ExpiresAt.Equal(env.now.Add(24*time.Hour)))
	assert.Empty(t, story.Views)

	viewed, err := svc.RecordView(story.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, []string(viewed.Views))

	// repeat views and the author's own view are not recorded
	_, err = svc.RecordView(story.ID, bob.ID)
	require.NoError(t, err)
	viewed, err = svc.RecordView(story.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, []string(viewed.Views))

	reactions, err := svc.ToggleStoryReaction(story.ID, "🔥", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, reactions["🔥"])
	reactions, err = svc.ToggleStoryReaction(story.ID, "🔥", bob.ID)
	require.NoError(t, err)
	assert.NotContains(t, reactions, "🔥")

	active, err := svc.ListActiveStories()
	require.NoError(t, err)
	require.Len(t, active, 1)

	env.advance(24 * time.Hour)
	active, err = svc.ListActiveStories()
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.RecordView(story.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListUserStoriesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	svc := env.storyService()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	first, err := svc.CreateStory(alice.ID, "one", nil, time.Hour)
	require.NoError(t, err)
	env.advance(time.Minute)
	second, err := svc.CreateStory(alice.ID, "two", nil, 0)
	require.NoError(t, err)
	_, err = svc.CreateStory(bob.ID, "other", nil, 0)
	require.NoError(t, err)

	stories, err := svc.ListUserStories(alice.ID)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, second.ID, stories[0].ID)
	assert.Equal(t, first.ID, stories[1].ID)

	env.advance(time.Hour)
	stories, err = svc.ListUserStories(alice.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, second.ID, stories[0].ID)
}

func TestCreateStory_Rules(t *testing.T) {
	env := newTestEnv(t)
	svc := env.storyService()
	alice := env.user(t, "alice")

	_, err := svc.CreateStory(alice.ID, "  ", nil, 0)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = svc.CreateStory(alice.ID, "hi", nil, -time.Minute)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	media := "https://cdn.example.com/s.jpg"
	story, err := svc.CreateStory(alice.ID, "", &media, 0)
	require.NoError(t, err)
	require.NotNil(t, story.MediaURL)

	_, err = svc.ToggleStoryReaction(story.ID, "", alice.ID)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = svc.RecordView("missing", alice.ID)
	assert.ErrorIs(t, err, common.ErrStoryNotFound)
}
