package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactStatus state of a directed contact edge
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactAccepted ContactStatus = "accepted"
)

// Contact directed edge user -> contact. A friendship is two rows.
type Contact struct {
	ID         uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string        `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:uidx_contact_pair,priority:1" json:"user_id"`
	ContactID  string        `gorm:"column:contact_id;type:varchar(36);not null;uniqueIndex:uidx_contact_pair,priority:2" json:"contact_id"`
	Nickname   *string       `gorm:"column:nickname;type:varchar(100)" json:"nickname,omitempty"`
	IsBlocked  bool          `gorm:"column:is_blocked;default:false" json:"is_blocked"`
	IsFavorite bool          `gorm:"column:is_favorite;default:false" json:"is_favorite"`
	Status     ContactStatus `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	AddedAt    time.Time     `gorm:"column:added_at" json:"added_at"`
}

func (Contact) TableName() string { return "contacts" }

// ContactView contact joined with the contact's profile
type ContactView struct {
	UserID        string       `gorm:"column:user_id" json:"user_id"`
	Username      string       `gorm:"column:username" json:"username"`
	Avatar        *string      `gorm:"column:avatar" json:"avatar,omitempty"`
	StatusMessage string       `gorm:"column:status_message" json:"status_message"`
	OnlineStatus  OnlineStatus `gorm:"column:online_status" json:"online_status"`
	Nickname      *string      `gorm:"column:nickname" json:"nickname,omitempty"`
	IsFavorite    bool         `gorm:"column:is_favorite" json:"is_favorite"`
	IsBlocked     bool         `gorm:"column:is_blocked" json:"is_blocked"`
}

// FriendRequestStatus pending -> accepted | rejected (terminal)
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest one request per ordered (sender, receiver) pair
type FriendRequest struct {
	ID          string              `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SenderID    string              `gorm:"column:sender_id;type:varchar(36);not null;uniqueIndex:uidx_friend_req_pair,priority:1" json:"sender_id"`
	ReceiverID  string              `gorm:"column:receiver_id;type:varchar(36);not null;uniqueIndex:uidx_friend_req_pair,priority:2;index" json:"receiver_id"`
	Message     *string             `gorm:"column:message;type:varchar(512)" json:"message,omitempty"`
	Status      FriendRequestStatus `gorm:"column:status;type:varchar(16);not null;default:pending" json:"status"`
	CreatedAt   time.Time           `gorm:"column:created_at" json:"created_at"`
	RespondedAt *time.Time          `gorm:"column:responded_at" json:"responded_at,omitempty"`
}

func (FriendRequest) TableName() string { return "friend_requests" }

// BeforeCreate assigns a uuid primary key
func (f *FriendRequest) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
