package repository

import (
	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/gorm"
)

// ChannelRepository broadcast channel storage
type ChannelRepository interface {
	Create(channel *domain.Channel) error
	FindByID(id string) (*domain.Channel, error)
	FindPublic() ([]*domain.Channel, error)
	FindBySubscriber(userID string) ([]*domain.Channel, error)
	UpdateSubscribers(channel *domain.Channel) error
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) Create(channel *domain.Channel) error {
	return translate(r.db.Create(channel).Error, common.ErrChannelNotFound)
}

func (r *channelRepository) FindByID(id string) (*domain.Channel, error) {
	var channel domain.Channel
	if err := r.db.Where("id = ?", id).First(&channel).Error; err != nil {
		return nil, translate(err, common.ErrChannelNotFound)
	}
	return &channel, nil
}

func (r *channelRepository) FindPublic() ([]*domain.Channel, error) {
	var channels []*domain.Channel
	err := r.db.Where("is_public = ?", true).Order("name ASC").Find(&channels).Error
	if err != nil {
		return nil, translate(err, common.ErrChannelNotFound)
	}
	return channels, nil
}

// FindBySubscriber uses the same prefilter-then-exact match as groups
func (r *channelRepository) FindBySubscriber(userID string) ([]*domain.Channel, error) {
	var candidates []*domain.Channel
	err := r.db.Where("subscriber_ids"+likeJSONElement, jsonContains(userID)).
		Order("name ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, translate(err, common.ErrChannelNotFound)
	}
	channels := make([]*domain.Channel, 0, len(candidates))
	for _, ch := range candidates {
		if ch.HasSubscriber(userID) {
			channels = append(channels, ch)
		}
	}
	return channels, nil
}

func (r *channelRepository) UpdateSubscribers(channel *domain.Channel) error {
	err := r.db.Model(&domain.Channel{}).Where("id = ?", channel.ID).
		Update("subscriber_ids", channel.SubscriberIDs).Error
	return translate(err, common.ErrChannelNotFound)
}
