package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageType content kind
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageVideo    MessageType = "video"
	MessageAudio    MessageType = "audio"
	MessageFile     MessageType = "file"
	MessageVoice    MessageType = "voice"
	MessageLocation MessageType = "location"
	MessageContact  MessageType = "contact"
	MessagePoll     MessageType = "poll"
)

// Valid reports whether t is a known type
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageVideo, MessageAudio, MessageFile,
		MessageVoice, MessageLocation, MessageContact, MessagePoll:
		return true
	}
	return false
}

// MessageStatus delivery state; only moves forward
type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
)

func (s MessageStatus) rank() int {
	switch s {
	case MessageDelivered:
		return 1
	case MessageRead:
		return 2
	}
	return 0
}

// Before reports whether s precedes other in the sent -> delivered -> read order
func (s MessageStatus) Before(other MessageStatus) bool {
	return s.rank() < other.rank()
}

// Reactions maps an emoji to the ids of users who reacted with it.
// An emoji never maps to an empty list.
type Reactions map[string][]string

// Toggle adds userID under emoji, or removes it if present, and reports
// whether the user is reacting afterwards.
func (r Reactions) Toggle(emoji, userID string) bool {
	users := r[emoji]
	if i := slices.Index(users, userID); i >= 0 {
		users = slices.Delete(slices.Clone(users), i, i+1)
		if len(users) == 0 {
			delete(r, emoji)
		} else {
			r[emoji] = users
		}
		return false
	}
	r[emoji] = append(slices.Clone(users), userID)
	return true
}

// Destination is exactly one of a direct recipient or a group
type Destination struct {
	RecipientID string `json:"recipient_id,omitempty"`
	GroupID     string `json:"group_id,omitempty"`
}

// Valid reports whether exactly one side is set
func (d Destination) Valid() bool {
	return (d.RecipientID == "") != (d.GroupID == "")
}

// IsGroup reports whether the destination is a group
func (d Destination) IsGroup() bool {
	return d.GroupID != ""
}

// Message direct or group message. Rows are never removed; IsDeleted hides them.
type Message struct {
	ID          string                        `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SenderID    string                        `gorm:"column:sender_id;type:varchar(36);not null;index" json:"sender_id"`
	RecipientID *string                       `gorm:"column:recipient_id;type:varchar(36);index" json:"recipient_id,omitempty"`
	GroupID     *string                       `gorm:"column:group_id;type:varchar(36);index;check:chk_messages_destination,(recipient_id IS NULL) <> (group_id IS NULL)" json:"group_id,omitempty"`
	Content     string                        `gorm:"column:content;type:text" json:"content"`
	Type        MessageType                   `gorm:"column:message_type;type:varchar(16);not null;default:text" json:"type"`
	Status      MessageStatus                 `gorm:"column:status;type:varchar(16);not null;default:sent" json:"status"`
	Timestamp   time.Time                     `gorm:"column:timestamp;index" json:"timestamp"`
	EditedAt    *time.Time                    `gorm:"column:edited_at" json:"edited_at,omitempty"`
	ReplyTo     *string                       `gorm:"column:reply_to;type:varchar(36)" json:"reply_to,omitempty"`
	Reactions   datatypes.JSONType[Reactions] `gorm:"column:reactions" json:"reactions"`
	IsDeleted   bool                          `gorm:"column:is_deleted;default:false;index" json:"is_deleted"`
	ExpiresAt   *time.Time                    `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (Message) TableName() string { return "messages" }

// BeforeCreate assigns a uuid primary key
func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Destination returns where the message was sent
func (m *Message) Destination() Destination {
	var d Destination
	if m.RecipientID != nil {
		d.RecipientID = *m.RecipientID
	}
	if m.GroupID != nil {
		d.GroupID = *m.GroupID
	}
	return d
}

// VisibleAt reports whether readers may see the message at now
func (m *Message) VisibleAt(now time.Time) bool {
	if m.IsDeleted {
		return false
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}

// ReactionMap returns a mutable copy of the reactions
func (m *Message) ReactionMap() Reactions {
	return cloneReactions(m.Reactions.Data())
}

func cloneReactions(src Reactions) Reactions {
	out := make(Reactions, len(src))
	for emoji, users := range src {
		if len(users) > 0 {
			out[emoji] = slices.Clone(users)
		}
	}
	return out
}
