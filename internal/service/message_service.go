package service

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/metrics"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
)

// SendMessageRequest exactly one of RecipientID and GroupID must be set
type SendMessageRequest struct {
	Content     string             `json:"content" validate:"max=10000"`
	Type        domain.MessageType `json:"type"`
	RecipientID string             `json:"recipient_id"`
	GroupID     string             `json:"group_id"`
	ReplyTo     *string            `json:"reply_to"`
	TTLMinutes  int                `json:"ttl_minutes" validate:"gte=0"`
}

// ReactionEvent payload of domain.EventReaction
type ReactionEvent struct {
	MessageID string           `json:"message_id"`
	Reactions domain.Reactions `json:"reactions"`
}

// StatusEvent payload announcing a delivery state change
type StatusEvent struct {
	MessageIDs []string             `json:"message_ids"`
	Status     domain.MessageStatus `json:"status"`
	ReaderID   string               `json:"reader_id"`
}

// MessageService messaging business logic
type MessageService interface {
	SendMessage(senderID string, req *SendMessageRequest) (*domain.Message, error)
	GetDirectMessages(userA, userB string, limit int) ([]*domain.Message, error)
	GetGroupMessages(readerID, groupID string, limit int) ([]*domain.Message, error)
	ToggleReaction(messageID, emoji, userID string) (domain.Reactions, error)
	EditMessage(messageID, editorID, content string) (*domain.Message, error)
	SoftDeleteMessage(messageID, actorID string) error
	MarkDelivered(messageID, recipientID string) error
	MarkRead(messageID, readerID string) error
	MarkConversationRead(readerID, peerID string) (int64, error)
}

type messageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	groups   repository.GroupRepository
	contacts repository.ContactRepository
	notifier Notifier
	now      Clock
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	groups repository.GroupRepository,
	contacts repository.ContactRepository,
	notifier Notifier,
) MessageService {
	return newMessageService(messages, users, groups, contacts, notifier)
}

func newMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	groups repository.GroupRepository,
	contacts repository.ContactRepository,
	notifier Notifier,
) *messageService {
	return &messageService{
		messages: messages,
		users:    users,
		groups:   groups,
		contacts: contacts,
		notifier: orNop(notifier),
		now:      systemClock,
	}
}

// SendMessage stores a direct or group message. TTLMinutes > 0 makes it
// disappear from reads after that many minutes; 0 keeps it indefinitely.
func (s *messageService) SendMessage(senderID string, req *SendMessageRequest) (*domain.Message, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Type == "" {
		req.Type = domain.MessageText
	}
	if !req.Type.Valid() {
		return nil, common.Invalid("unknown message type")
	}
	if req.Type == domain.MessageText && strings.TrimSpace(req.Content) == "" {
		return nil, common.Invalid("content required")
	}
	dest := domain.Destination{RecipientID: req.RecipientID, GroupID: req.GroupID}
	if !dest.Valid() {
		return nil, common.Invalid("exactly one of recipient_id and group_id is required")
	}

	// 수신 대상 확인
	var recipients []string
	if dest.IsGroup() {
		group, err := s.groups.FindByID(dest.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(senderID) {
			return nil, common.ErrForbidden
		}
		recipients = domain.Without(group.MemberIDs, senderID)
	} else {
		if _, err := s.users.FindByID(dest.RecipientID); err != nil {
			return nil, err
		}
		blocked, err := s.contacts.IsBlocked(dest.RecipientID, senderID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, common.ErrForbidden
		}
		if dest.RecipientID != senderID {
			recipients = []string{dest.RecipientID}
		}
	}

	if req.ReplyTo != nil && *req.ReplyTo != "" {
		parent, err := s.messages.FindByID(*req.ReplyTo)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Invalid("reply_to refers to an unknown message")
			}
			return nil, err
		}
		if parent.Destination() != dest && !sameConversation(parent, senderID, dest.RecipientID) {
			return nil, common.Invalid("reply_to belongs to another conversation")
		}
	} else {
		req.ReplyTo = nil
	}

	now := s.now()
	msg := &domain.Message{
		SenderID:  senderID,
		Content:   req.Content,
		Type:      req.Type,
		Status:    domain.MessageSent,
		Timestamp: now,
		ReplyTo:   req.ReplyTo,
	}
	if dest.IsGroup() {
		msg.GroupID = &dest.GroupID
	} else {
		msg.RecipientID = &dest.RecipientID
	}
	if req.TTLMinutes > 0 {
		expires := now.Add(time.Duration(req.TTLMinutes) * time.Minute)
		msg.ExpiresAt = &expires
	}

	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}
	metrics.MessagesSent.WithLabelValues(string(msg.Type)).Inc()

	for _, id := range recipients {
		s.notifier.Notify(id, domain.EventMessage, msg)
	}
	return msg, nil
}

// sameConversation direct replies may point at either direction of the pair
func sameConversation(parent *domain.Message, senderID, recipientID string) bool {
	if parent.RecipientID == nil || recipientID == "" {
		return false
	}
	return parent.SenderID == recipientID && *parent.RecipientID == senderID
}

func (s *messageService) GetDirectMessages(userA, userB string, limit int) ([]*domain.Message, error) {
	return s.messages.FindDirect(userA, userB, clampLimit(limit), s.now())
}

// GetGroupMessages members only
func (s *messageService) GetGroupMessages(readerID, groupID string, limit int) ([]*domain.Message, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(readerID) {
		return nil, common.ErrForbidden
	}
	return s.messages.FindGroup(groupID, clampLimit(limit), s.now())
}

// loadVisible returns the message if it is neither deleted nor expired
func (s *messageService) loadVisible(messageID string) (*domain.Message, error) {
	msg, err := s.messages.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if !msg.VisibleAt(s.now()) {
		return nil, common.ErrMessageNotFound
	}
	return msg, nil
}

// participants 발신자를 포함한 대화 참여자
func (s *messageService) participants(msg *domain.Message) ([]string, error) {
	if msg.GroupID != nil {
		group, err := s.groups.FindByID(*msg.GroupID)
		if err != nil {
			return nil, err
		}
		return group.MemberIDs, nil
	}
	return domain.UniqueIDs([]string{msg.SenderID, *msg.RecipientID}), nil
}

func (s *messageService) ToggleReaction(messageID, emoji, userID string) (domain.Reactions, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" || len(emoji) > 32 {
		return nil, common.Invalid("emoji required")
	}
	msg, err := s.loadVisible(messageID)
	if err != nil {
		return nil, err
	}
	members, err := s.participants(msg)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(members, userID) {
		return nil, common.ErrForbidden
	}

	reactions, err := s.messages.ToggleReaction(messageID, emoji, userID)
	if err != nil {
		return nil, err
	}
	ev := ReactionEvent{MessageID: messageID, Reactions: reactions}
	for _, id := range members {
		if id != userID {
			s.notifier.Notify(id, domain.EventReaction, ev)
		}
	}
	return reactions, nil
}

// EditMessage only the sender may edit; no history is kept
func (s *messageService) EditMessage(messageID, editorID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.Invalid("content required")
	}
	msg, err := s.loadVisible(messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != editorID {
		return nil, common.ErrForbidden
	}

	now := s.now()
	if err := s.messages.UpdateFields(messageID, map[string]interface{}{
		"content":   content,
		"edited_at": now,
	}); err != nil {
		return nil, err
	}
	msg.Content = content
	msg.EditedAt = &now
	s.notifyOthers(msg, editorID, domain.EventMessageUpdated, msg)
	return msg, nil
}

// SoftDeleteMessage hides the message from every reader. Deleting twice is a no-op.
func (s *messageService) SoftDeleteMessage(messageID, actorID string) error {
	msg, err := s.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != actorID {
		return common.ErrForbidden
	}
	if msg.IsDeleted {
		return nil
	}
	if err := s.messages.UpdateFields(messageID, map[string]interface{}{"is_deleted": true}); err != nil {
		return err
	}
	msg.IsDeleted = true
	s.notifyOthers(msg, actorID, domain.EventMessageUpdated, msg)
	return nil
}

func (s *messageService) MarkDelivered(messageID, recipientID string) error {
	return s.advance(messageID, recipientID, domain.MessageDelivered)
}

func (s *messageService) MarkRead(messageID, readerID string) error {
	return s.advance(messageID, readerID, domain.MessageRead)
}

// advance moves a direct message forward; only its recipient may do so
func (s *messageService) advance(messageID, userID string, status domain.MessageStatus) error {
	msg, err := s.loadVisible(messageID)
	if err != nil {
		return err
	}
	if msg.RecipientID == nil || *msg.RecipientID != userID {
		return common.ErrForbidden
	}
	if !msg.Status.Before(status) {
		return nil
	}
	n, err := s.messages.AdvanceStatus([]string{messageID}, status)
	if err != nil {
		return err
	}
	if n > 0 {
		s.notifier.Notify(msg.SenderID, domain.EventMessageUpdated, StatusEvent{
			MessageIDs: []string{messageID}, Status: status, ReaderID: userID,
		})
	}
	return nil
}

// MarkConversationRead marks everything peer sent to reader as read
func (s *messageService) MarkConversationRead(readerID, peerID string) (int64, error) {
	ids, err := s.messages.FindUnreadFrom(peerID, readerID, s.now())
	if err != nil {
		return 0, err
	}
	n, err := s.messages.AdvanceStatus(ids, domain.MessageRead)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.notifier.Notify(peerID, domain.EventMessageUpdated, StatusEvent{
			MessageIDs: ids, Status: domain.MessageRead, ReaderID: readerID,
		})
	}
	return n, nil
}

func (s *messageService) notifyOthers(msg *domain.Message, actorID, eventType string, payload interface{}) {
	members, err := s.participants(msg)
	if err != nil {
		return
	}
	for _, id := range members {
		if id != actorID {
			s.notifier.Notify(id, eventType, payload)
		}
	}
}
