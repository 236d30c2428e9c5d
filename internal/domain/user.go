package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OnlineStatus advisory presence state
type OnlineStatus string

const (
	StatusOnline  OnlineStatus = "online"
	StatusAway    OnlineStatus = "away"
	StatusBusy    OnlineStatus = "busy"
	StatusOffline OnlineStatus = "offline"
)

// Valid reports whether s is a known status
func (s OnlineStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusAway, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// DefaultStatusMessage is given to every new account
const DefaultStatusMessage = "Hey there! I'm using ChatFusion"

// User identity row
type User struct {
	ID            string            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Username      string            `gorm:"column:username;type:varchar(50);uniqueIndex;not null" json:"username"`
	Email         string            `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string            `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Phone         *string           `gorm:"column:phone;type:varchar(32)" json:"phone,omitempty"`
	Avatar        *string           `gorm:"column:avatar;type:varchar(500)" json:"avatar,omitempty"`
	StatusMessage string            `gorm:"column:status_message;type:varchar(255)" json:"status_message"`
	OnlineStatus  OnlineStatus      `gorm:"column:online_status;type:varchar(16);default:offline" json:"online_status"`
	LastSeen      time.Time         `gorm:"column:last_seen" json:"last_seen"`
	IsVerified    bool              `gorm:"column:is_verified;default:false" json:"is_verified"`
	Settings      datatypes.JSONMap `gorm:"column:settings" json:"settings,omitempty"`
	CreatedAt     time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns a uuid primary key
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicUser is the profile shape shown to other users
type PublicUser struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	Avatar        *string      `json:"avatar,omitempty"`
	StatusMessage string       `json:"status_message"`
	OnlineStatus  OnlineStatus `json:"online_status"`
	LastSeen      time.Time    `json:"last_seen"`
}

// Public strips private fields
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Avatar:        u.Avatar,
		StatusMessage: u.StatusMessage,
		OnlineStatus:  u.OnlineStatus,
		LastSeen:      u.LastSeen,
	}
}
