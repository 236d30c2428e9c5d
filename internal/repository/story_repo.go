package repository

import (
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StoryRepository story storage
type StoryRepository interface {
	Create(story *domain.Story) error
	FindByID(id string) (*domain.Story, error)
	FindActive(now time.Time) ([]*domain.Story, error)
	FindActiveByUser(userID string, now time.Time) ([]*domain.Story, error)
	AppendView(id, viewerID string, now time.Time) (*domain.Story, error)
	ToggleReaction(id, emoji, userID string, now time.Time) (domain.Reactions, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new StoryRepository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(story *domain.Story) error {
	return translate(r.db.Create(story).Error, common.ErrStoryNotFound)
}

func (r *storyRepository) FindByID(id string) (*domain.Story, error) {
	var story domain.Story
	if err := r.db.Where("id = ?", id).First(&story).Error; err != nil {
		return nil, translate(err, common.ErrStoryNotFound)
	}
	return &story, nil
}

func (r *storyRepository) FindActive(now time.Time) ([]*domain.Story, error) {
	var stories []*domain.Story
	err := r.db.Where("expires_at > ?", now).
		Order("created_at DESC").Order("id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, translate(err, common.ErrStoryNotFound)
	}
	return stories, nil
}

func (r *storyRepository) FindActiveByUser(userID string, now time.Time) ([]*domain.Story, error) {
	var stories []*domain.Story
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").Order("id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, translate(err, common.ErrStoryNotFound)
	}
	return stories, nil
}

// AppendView records viewerID once. Expired stories are reported as missing.
func (r *storyRepository) AppendView(id, viewerID string, now time.Time) (*domain.Story, error) {
	var story domain.Story
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(lockForUpdate(tx)...).
			Where("id = ? AND expires_at > ?", id, now).
			First(&story).Error; err != nil {
			return err
		}
		if !story.AddView(viewerID) {
			return nil
		}
		return tx.Model(&domain.Story{}).Where("id = ?", id).
			Update("views", story.Views).Error
	})
	if err != nil {
		return nil, translate(err, common.ErrStoryNotFound)
	}
	return &story, nil
}

func (r *storyRepository) ToggleReaction(id, emoji, userID string, now time.Time) (domain.Reactions, error) {
	var out domain.Reactions
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var story domain.Story
		if err := tx.Clauses(lockForUpdate(tx)...).
			Where("id = ? AND expires_at > ?", id, now).
			First(&story).Error; err != nil {
			return err
		}
		reactions := story.ReactionMap()
		reactions.Toggle(emoji, userID)
		out = reactions
		return tx.Model(&domain.Story{}).Where("id = ?", id).
			Update("reactions", datatypes.NewJSONType(reactions)).Error
	})
	if err != nil {
		return nil, translate(err, common.ErrStoryNotFound)
	}
	return out, nil
}
