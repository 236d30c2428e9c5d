package service

import (
	"strings"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
)

// CreateChannelRequest channel creation body; IsPublic defaults to true
type CreateChannelRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"max=50"`
	IsPublic    *bool  `json:"is_public"`
}

// ChannelService broadcast channel business logic
type ChannelService interface {
	CreateChannel(ownerID string, req *CreateChannelRequest) (*domain.Channel, error)
	Subscribe(channelID, userID string) (*domain.Channel, error)
	Unsubscribe(channelID, userID string) (*domain.Channel, error)
	ListPublicChannels() ([]*domain.Channel, error)
	GetUserChannels(userID string) ([]*domain.Channel, error)
}

type channelService struct {
	channels repository.ChannelRepository
	now      Clock
}

// NewChannelService creates a new ChannelService
func NewChannelService(channels repository.ChannelRepository) ChannelService {
	return newChannelService(channels)
}

func newChannelService(channels repository.ChannelRepository) *channelService {
	return &channelService{channels: channels, now: systemClock}
}

func (s *channelService) CreateChannel(ownerID string, req *CreateChannelRequest) (*domain.Channel, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}
	ch := &domain.Channel{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		OwnerID:       ownerID,
		ModeratorIDs:  []string{ownerID},
		SubscriberIDs: []string{ownerID},
		IsPublic:      public,
		CreatedAt:     s.now(),
	}
	if err := s.channels.Create(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// Subscribe private channels only admit their moderators
func (s *channelService) Subscribe(channelID, userID string) (*domain.Channel, error) {
	ch, err := s.channels.FindByID(channelID)
	if err != nil {
		return nil, err
	}
	if !ch.IsPublic && !ch.IsModerator(userID) {
		return nil, common.ErrForbidden
	}
	if ch.HasSubscriber(userID) {
		return ch, nil
	}
	ch.SubscriberIDs = append(ch.SubscriberIDs, userID)
	if err := s.channels.UpdateSubscribers(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *channelService) Unsubscribe(channelID, userID string) (*domain.Channel, error) {
	ch, err := s.channels.FindByID(channelID)
	if err != nil {
		return nil, err
	}
	if ch.OwnerID == userID {
		return nil, common.Invalid("the owner cannot unsubscribe")
	}
	if !ch.HasSubscriber(userID) {
		return ch, nil
	}
	ch.SubscriberIDs = domain.Without(ch.SubscriberIDs, userID)
	if err := s.channels.UpdateSubscribers(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *channelService) ListPublicChannels() ([]*domain.Channel, error) {
	return s.channels.FindPublic()
}

func (s *channelService) GetUserChannels(userID string) ([]*domain.Channel, error) {
	return s.channels.FindBySubscriber(userID)
}
