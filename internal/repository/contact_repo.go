package repository

import (
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContactRepository directed contact edges
type ContactRepository interface {
	Create(contact *domain.Contact) error
	FindByPair(userID, contactID string) (*domain.Contact, error)
	ListAccepted(userID string) ([]*domain.ContactView, error)
	UpdateFlags(userID, contactID string, fields map[string]interface{}) error
	SetBlocked(userID, contactID string, blocked bool, at time.Time) error
	IsBlocked(userID, contactID string) (bool, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(contact *domain.Contact) error {
	return translate(r.db.Create(contact).Error, common.ErrContactNotFound)
}

func (r *contactRepository) FindByPair(userID, contactID string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.Where("user_id = ? AND contact_id = ?", userID, contactID).First(&contact).Error
	if err != nil {
		return nil, translate(err, common.ErrContactNotFound)
	}
	return &contact, nil
}

// ListAccepted joins the contact's profile. Blocked rows are hidden;
// favorites come first, then username.
func (r *contactRepository) ListAccepted(userID string) ([]*domain.ContactView, error) {
	var views []*domain.ContactView
	err := r.db.Table("contacts AS c").
		Select("c.contact_id AS user_id, u.username, u.avatar, u.status_message, u.online_status, c.nickname, c.is_favorite, c.is_blocked").
		Joins("JOIN users u ON u.id = c.contact_id").
		Where("c.user_id = ? AND c.is_blocked = ? AND c.status = ?", userID, false, domain.ContactAccepted).
		Order("c.is_favorite DESC").Order("u.username ASC").
		Scan(&views).Error
	if err != nil {
		return nil, translate(err, common.ErrContactNotFound)
	}
	return views, nil
}

func (r *contactRepository) UpdateFlags(userID, contactID string, fields map[string]interface{}) error {
	err := r.db.Model(&domain.Contact{}).
		Where("user_id = ? AND contact_id = ?", userID, contactID).
		Updates(fields).Error
	return translate(err, common.ErrContactNotFound)
}

// SetBlocked flips is_blocked, creating a pending edge when none exists so
// strangers can be blocked too.
func (r *contactRepository) SetBlocked(userID, contactID string, blocked bool, at time.Time) error {
	row := domain.Contact{
		UserID:    userID,
		ContactID: contactID,
		IsBlocked: blocked,
		Status:    domain.ContactPending,
		AddedAt:   at,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "contact_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_blocked": blocked}),
	}).Create(&row).Error
	return translate(err, common.ErrContactNotFound)
}

func (r *contactRepository) IsBlocked(userID, contactID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Contact{}).
		Where("user_id = ? AND contact_id = ? AND is_blocked = ?", userID, contactID, true).
		Count(&count).Error
	if err != nil {
		return false, translate(err, common.ErrContactNotFound)
	}
	return count > 0, nil
}
