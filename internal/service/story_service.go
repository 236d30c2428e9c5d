package service

import (
	"strings"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
)

// StoryService stories business logic
type StoryService interface {
	CreateStory(userID, content string, mediaURL *string, ttl time.Duration) (*domain.Story, error)
	ListActiveStories() ([]*domain.Story, error)
	ListUserStories(userID string) ([]*domain.Story, error)
	RecordView(storyID, viewerID string) (*domain.Story, error)
	ToggleStoryReaction(storyID, emoji, userID string) (domain.Reactions, error)
}

type storyService struct {
	stories repository.StoryRepository
	now     Clock
}

// NewStoryService creates a new StoryService
func NewStoryService(stories repository.StoryRepository) StoryService {
	return newStoryService(stories)
}

func newStoryService(stories repository.StoryRepository) *storyService {
	return &storyService{stories: stories, now: systemClock}
}

// CreateStory ttl 0 means domain.DefaultStoryTTL
func (s *storyService) CreateStory(userID, content string, mediaURL *string, ttl time.Duration) (*domain.Story, error) {
	if ttl == 0 {
		ttl = domain.DefaultStoryTTL
	}
	if ttl < 0 {
		return nil, common.Invalid("ttl must be positive")
	}
	if strings.TrimSpace(content) == "" && (mediaURL == nil || *mediaURL == "") {
		return nil, common.Invalid("content or media required")
	}

	now := s.now()
	story := &domain.Story{
		UserID:    userID,
		Content:   content,
		MediaURL:  mediaURL,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Views:     []string{},
	}
	if err := s.stories.Create(story); err != nil {
		return nil, err
	}
	return story, nil
}

// ListActiveStories newest first
func (s *storyService) ListActiveStories() ([]*domain.Story, error) {
	return s.stories.FindActive(s.now())
}

func (s *storyService) ListUserStories(userID string) ([]*domain.Story, error) {
	return s.stories.FindActiveByUser(userID, s.now())
}

// RecordView 조회자는 한 번만 기록. The author's own views are not counted.
func (s *storyService) RecordView(storyID, viewerID string) (*domain.Story, error) {
	story, err := s.stories.FindByID(storyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !story.ActiveAt(now) {
		return nil, common.ErrStoryNotFound
	}
	if story.UserID == viewerID {
		return story, nil
	}
	return s.stories.AppendView(storyID, viewerID, now)
}

func (s *storyService) ToggleStoryReaction(storyID, emoji, userID string) (domain.Reactions, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" || len(emoji) > 32 {
		return nil, common.Invalid("emoji required")
	}
	return s.stories.ToggleReaction(storyID, emoji, userID, s.now())
}
