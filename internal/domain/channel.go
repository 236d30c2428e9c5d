package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Channel broadcast channel owned by one user
type Channel struct {
	ID            string                      `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name          string                      `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description   string                      `gorm:"column:description;type:text" json:"description"`
	Avatar        *string                     `gorm:"column:avatar;type:varchar(500)" json:"avatar,omitempty"`
	OwnerID       string                      `gorm:"column:owner_id;type:varchar(36);not null;index" json:"owner_id"`
	ModeratorIDs  datatypes.JSONSlice[string] `gorm:"column:moderator_ids" json:"moderator_ids"`
	SubscriberIDs datatypes.JSONSlice[string] `gorm:"column:subscriber_ids" json:"subscriber_ids"`
	Category      string                      `gorm:"column:category;type:varchar(50)" json:"category"`
	IsPublic      bool                        `gorm:"column:is_public;not null;index" json:"is_public"`
	CreatedAt     time.Time                   `gorm:"column:created_at" json:"created_at"`
}

func (Channel) TableName() string { return "channels" }

// BeforeCreate assigns a uuid primary key
func (c *Channel) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// HasSubscriber exact id membership
func (c *Channel) HasSubscriber(userID string) bool {
	return slices.Contains(c.SubscriberIDs, userID)
}

// IsModerator exact id membership in moderator_ids
func (c *Channel) IsModerator(userID string) bool {
	return slices.Contains(c.ModeratorIDs, userID)
}
