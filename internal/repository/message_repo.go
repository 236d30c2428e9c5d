package repository

import (
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository message data access. Read queries take now so that
// expiry is evaluated against the caller's clock.
type MessageRepository interface {
	Create(msg *domain.Message) error
	FindByID(id string) (*domain.Message, error)
	FindDirect(userA, userB string, limit int, now time.Time) ([]*domain.Message, error)
	FindGroup(groupID string, limit int, now time.Time) ([]*domain.Message, error)
	UpdateFields(id string, fields map[string]interface{}) error
	ToggleReaction(id, emoji, userID string) (domain.Reactions, error)
	AdvanceStatus(ids []string, status domain.MessageStatus) (int64, error)
	FindUnreadFrom(senderID, recipientID string, now time.Time) ([]string, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	return translate(r.db.Create(msg).Error, common.ErrMessageNotFound)
}

func (r *messageRepository) FindByID(id string) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, translate(err, common.ErrMessageNotFound)
	}
	return &msg, nil
}

// visible applies the soft-delete and expiry filters shared by all readers
func visible(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("is_deleted = ?", false).
		Where("(expires_at IS NULL OR expires_at > ?)", now)
}

// FindDirect returns the newest limit messages exchanged by the two users,
// in chronological order.
func (r *messageRepository) FindDirect(userA, userB string, limit int, now time.Time) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := visible(r.db.Model(&domain.Message{}), now).
		Where("((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
			userA, userB, userB, userA).
		Order("timestamp DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, translate(err, common.ErrMessageNotFound)
	}
	reverse(messages)
	return messages, nil
}

// FindGroup returns the newest limit messages of a group, in chronological order.
func (r *messageRepository) FindGroup(groupID string, limit int, now time.Time) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := visible(r.db.Model(&domain.Message{}), now).
		Where("group_id = ?", groupID).
		Order("timestamp DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, translate(err, common.ErrMessageNotFound)
	}
	reverse(messages)
	return messages, nil
}

func (r *messageRepository) UpdateFields(id string, fields map[string]interface{}) error {
	err := r.db.Model(&domain.Message{}).Where("id = ?", id).Updates(fields).Error
	return translate(err, common.ErrMessageNotFound)
}

// ToggleReaction flips the user's reaction inside one transaction and returns
// the stored map. Concurrent toggles are last-write-wins on engines without row locks.
func (r *messageRepository) ToggleReaction(id, emoji, userID string) (domain.Reactions, error) {
	var out domain.Reactions
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var msg domain.Message
		if err := tx.Clauses(lockForUpdate(tx)...).
			Where("id = ? AND is_deleted = ?", id, false).
			First(&msg).Error; err != nil {
			return err
		}
		reactions := msg.ReactionMap()
		reactions.Toggle(emoji, userID)
		out = reactions
		return tx.Model(&domain.Message{}).Where("id = ?", id).
			Update("reactions", datatypes.NewJSONType(reactions)).Error
	})
	if err != nil {
		return nil, translate(err, common.ErrMessageNotFound)
	}
	return out, nil
}

// AdvanceStatus moves messages forward to status; rows already at or past it are left alone.
func (r *messageRepository) AdvanceStatus(ids []string, status domain.MessageStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	earlier := []domain.MessageStatus{domain.MessageSent}
	if status == domain.MessageRead {
		earlier = append(earlier, domain.MessageDelivered)
	}
	result := r.db.Model(&domain.Message{}).
		Where("id IN ? AND status IN ?", ids, earlier).
		Update("status", status)
	if result.Error != nil {
		return 0, translate(result.Error, common.ErrMessageNotFound)
	}
	return result.RowsAffected, nil
}

// FindUnreadFrom lists visible direct messages from sender to recipient not yet read
func (r *messageRepository) FindUnreadFrom(senderID, recipientID string, now time.Time) ([]string, error) {
	var ids []string
	err := visible(r.db.Model(&domain.Message{}), now).
		Where("sender_id = ? AND recipient_id = ? AND status <> ?", senderID, recipientID, domain.MessageRead).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translate(err, common.ErrMessageNotFound)
	}
	return ids, nil
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect supports it
func lockForUpdate(tx *gorm.DB) []clause.Expression {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
