package service

import (
	"errors"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
)

// AddContactRequest address-book entry
type AddContactRequest struct {
	ContactID string  `json:"contact_id" validate:"required"`
	Nickname  *string `json:"nickname" validate:"omitempty,max=100"`
}

// FriendRequestInput friend request body
type FriendRequestInput struct {
	ReceiverID string  `json:"receiver_id" validate:"required"`
	Message    *string `json:"message" validate:"omitempty,max=512"`
}

// ContactService contact and friend graph business logic
type ContactService interface {
	SendFriendRequest(senderID string, req *FriendRequestInput) (*domain.FriendRequest, error)
	RespondToFriendRequest(requestID, responderID string, accept bool) (*domain.FriendRequest, error)
	ListPendingRequests(userID string) ([]*domain.FriendRequest, error)
	GetContacts(userID string) ([]*domain.ContactView, error)
	AddContact(userID string, req *AddContactRequest) (*domain.Contact, error)
	BlockContact(userID, contactID string) error
	UnblockContact(userID, contactID string) error
	SetFavorite(userID, contactID string, favorite bool) error
	SetNickname(userID, contactID string, nickname *string) error
}

type contactService struct {
	contacts repository.ContactRepository
	requests repository.FriendRequestRepository
	users    repository.UserRepository
	notifier Notifier
	now      Clock
}

// NewContactService creates a new ContactService
func NewContactService(
	contacts repository.ContactRepository,
	requests repository.FriendRequestRepository,
	users repository.UserRepository,
	notifier Notifier,
) ContactService {
	return newContactService(contacts, requests, users, notifier)
}

func newContactService(
	contacts repository.ContactRepository,
	requests repository.FriendRequestRepository,
	users repository.UserRepository,
	notifier Notifier,
) *contactService {
	return &contactService{
		contacts: contacts,
		requests: requests,
		users:    users,
		notifier: orNop(notifier),
		now:      systemClock,
	}
}

// SendFriendRequest one request per ordered pair; a second one is common.ErrDuplicate
func (s *contactService) SendFriendRequest(senderID string, req *FriendRequestInput) (*domain.FriendRequest, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.ReceiverID == senderID {
		return nil, common.Invalid("cannot befriend yourself")
	}
	if _, err := s.users.FindByID(req.ReceiverID); err != nil {
		return nil, err
	}

	blocked, err := s.contacts.IsBlocked(req.ReceiverID, senderID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, common.ErrForbidden
	}
	if friends, err := s.areFriends(senderID, req.ReceiverID); err != nil {
		return nil, err
	} else if friends {
		return nil, common.ErrDuplicate
	}

	fr := &domain.FriendRequest{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
		Status:     domain.FriendRequestPending,
		CreatedAt:  s.now(),
	}
	if err := s.requests.Create(fr); err != nil {
		return nil, err
	}
	s.notifier.Notify(fr.ReceiverID, domain.EventFriendRequest, fr)
	return fr, nil
}

// areFriends both directed edges must be accepted; a one-sided address-book
// entry does not count.
func (s *contactService) areFriends(a, b string) (bool, error) {
	for _, pair := range [2][2]string{{a, b}, {b, a}} {
		c, err := s.contacts.FindByPair(pair[0], pair[1])
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if c.Status != domain.ContactAccepted {
			return false, nil
		}
	}
	return true, nil
}

// RespondToFriendRequest only the receiver answers. Repeating the same answer
// returns the request unchanged; changing it is rejected.
func (s *contactService) RespondToFriendRequest(requestID, responderID string, accept bool) (*domain.FriendRequest, error) {
	fr, err := s.requests.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if fr.ReceiverID != responderID {
		return nil, common.ErrForbidden
	}

	want := domain.FriendRequestRejected
	if accept {
		want = domain.FriendRequestAccepted
	}
	if fr.Status != domain.FriendRequestPending {
		return answered(fr, want)
	}

	now := s.now()
	if accept {
		err = s.requests.Accept(fr, now)
	} else {
		err = s.requests.Reject(fr, now)
	}
	if errors.Is(err, common.ErrInvalidInput) {
		// answered concurrently
		latest, ferr := s.requests.FindByID(requestID)
		if ferr != nil {
			return nil, ferr
		}
		return answered(latest, want)
	}
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(fr.SenderID, domain.EventFriendRequest, fr)
	return fr, nil
}

func answered(fr *domain.FriendRequest, want domain.FriendRequestStatus) (*domain.FriendRequest, error) {
	if fr.Status == want {
		return fr, nil
	}
	return nil, common.Invalid("friend request already " + string(fr.Status))
}

func (s *contactService) ListPendingRequests(userID string) ([]*domain.FriendRequest, error) {
	return s.requests.ListPending(userID)
}

// GetContacts accepted and unblocked, favorites first then username
func (s *contactService) GetContacts(userID string) ([]*domain.ContactView, error) {
	return s.contacts.ListAccepted(userID)
}

// AddContact one-sided address-book entry, accepted immediately. The pending
// edge left by an outgoing friend request is upgraded in place.
func (s *contactService) AddContact(userID string, req *AddContactRequest) (*domain.Contact, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.ContactID == userID {
		return nil, common.Invalid("cannot add yourself")
	}
	if _, err := s.users.FindByID(req.ContactID); err != nil {
		return nil, err
	}

	existing, err := s.contacts.FindByPair(userID, req.ContactID)
	switch {
	case err == nil && existing.Status == domain.ContactPending && !existing.IsBlocked:
		fields := map[string]interface{}{"status": domain.ContactAccepted}
		if req.Nickname != nil {
			fields["nickname"] = req.Nickname
			existing.Nickname = req.Nickname
		}
		if err := s.contacts.UpdateFlags(userID, req.ContactID, fields); err != nil {
			return nil, err
		}
		existing.Status = domain.ContactAccepted
		return existing, nil
	case err == nil:
		return nil, common.ErrDuplicate
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	c := &domain.Contact{
		UserID:    userID,
		ContactID: req.ContactID,
		Nickname:  req.Nickname,
		Status:    domain.ContactAccepted,
		AddedAt:   s.now(),
	}
	if err := s.contacts.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contactService) BlockContact(userID, contactID string) error {
	if contactID == userID {
		return common.Invalid("cannot block yourself")
	}
	if _, err := s.users.FindByID(contactID); err != nil {
		return err
	}
	return s.contacts.SetBlocked(userID, contactID, true, s.now())
}

func (s *contactService) UnblockContact(userID, contactID string) error {
	if _, err := s.contacts.FindByPair(userID, contactID); err != nil {
		return err
	}
	return s.contacts.UpdateFlags(userID, contactID, map[string]interface{}{"is_blocked": false})
}

func (s *contactService) SetFavorite(userID, contactID string, favorite bool) error {
	if _, err := s.contacts.FindByPair(userID, contactID); err != nil {
		return err
	}
	return s.contacts.UpdateFlags(userID, contactID, map[string]interface{}{"is_favorite": favorite})
}

func (s *contactService) SetNickname(userID, contactID string, nickname *string) error {
	if nickname != nil && len(*nickname) > 100 {
		return common.Invalid("nickname too long")
	}
	if _, err := s.contacts.FindByPair(userID, contactID); err != nil {
		return err
	}
	return s.contacts.UpdateFlags(userID, contactID, map[string]interface{}{"nickname": nickname})
}
