package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultStoryTTL story lifetime when none is given
const DefaultStoryTTL = 24 * time.Hour

// Story ephemeral post, visible while ExpiresAt is in the future
type Story struct {
	ID          string                        `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID      string                        `gorm:"column:user_id;type:varchar(36);not null;index" json:"user_id"`
	Content     string                        `gorm:"column:content;type:text" json:"content"`
	MediaURL    *string                       `gorm:"column:media_url;type:varchar(500)" json:"media_url,omitempty"`
	CreatedAt   time.Time                     `gorm:"column:created_at;index" json:"created_at"`
	ExpiresAt   time.Time                     `gorm:"column:expires_at;index" json:"expires_at"`
	Views       datatypes.JSONSlice[string]   `gorm:"column:views" json:"views"`
	Reactions   datatypes.JSONType[Reactions] `gorm:"column:reactions" json:"reactions"`
	IsHighlight bool                          `gorm:"column:is_highlight;default:false" json:"is_highlight"`
}

func (Story) TableName() string { return "stories" }

// BeforeCreate assigns a uuid primary key
func (s *Story) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ActiveAt reports whether the story is still visible
func (s *Story) ActiveAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// AddView appends viewerID once and reports whether it was new
func (s *Story) AddView(viewerID string) bool {
	if slices.Contains(s.Views, viewerID) {
		return false
	}
	s.Views = append(s.Views, viewerID)
	return true
}

// ReactionMap returns a mutable copy of the reactions
func (s *Story) ReactionMap() Reactions {
	return cloneReactions(s.Reactions.Data())
}
