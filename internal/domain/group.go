package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group chat with membership stored as JSON id lists
type Group struct {
	ID          string                      `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name        string                      `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description string                      `gorm:"column:description;type:text" json:"description"`
	Avatar      *string                     `gorm:"column:avatar;type:varchar(500)" json:"avatar,omitempty"`
	CreatorID   string                      `gorm:"column:creator_id;type:varchar(36);not null;index" json:"creator_id"`
	AdminIDs    datatypes.JSONSlice[string] `gorm:"column:admin_ids" json:"admin_ids"`
	MemberIDs   datatypes.JSONSlice[string] `gorm:"column:member_ids" json:"member_ids"`
	Settings    datatypes.JSONMap           `gorm:"column:settings" json:"settings,omitempty"`
	CreatedAt   time.Time                   `gorm:"column:created_at" json:"created_at"`
}

func (Group) TableName() string { return "groups" }

// BeforeCreate assigns a uuid primary key
func (g *Group) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// HasMember exact id membership
func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.MemberIDs, userID)
}

// IsAdmin exact id membership in admin_ids
func (g *Group) IsAdmin(userID string) bool {
	return slices.Contains(g.AdminIDs, userID)
}

// UniqueIDs drops empty and repeated ids, keeping first-seen order.
func UniqueIDs(ids ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range ids {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Without returns ids minus id, preserving order
func Without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
