package service

import (
	"context"
	"errors"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/metrics"
	"github.com/chatfusion/chatfusion-backend/internal/presence"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
	"github.com/rs/zerolog"
)

// PresenceView what other users see about someone's presence
type PresenceView struct {
	UserID     string              `json:"user_id"`
	Status     domain.OnlineStatus `json:"status"`
	Connected  bool                `json:"connected"`
	LastActive time.Time           `json:"last_active"`
}

// TypingEvent payload of domain.EventTyping
type TypingEvent struct {
	TyperID  string `json:"typer_id"`
	TargetID string `json:"target_id"`
	GroupID  string `json:"group_id,omitempty"`
}

// PresenceService presence and typing business logic
type PresenceService interface {
	Touch(ctx context.Context, userID string) error
	SetStatus(ctx context.Context, userID string, status domain.OnlineStatus) error
	Forget(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*PresenceView, error)
	Sweep(ctx context.Context) ([]string, error)
	StartTyping(ctx context.Context, typerID, targetID string) error
	Typers(ctx context.Context, viewerID, targetID string) ([]string, error)
}

type presenceService struct {
	store    presence.Store
	typing   *presence.Typing
	users    repository.UserRepository
	contacts repository.ContactRepository
	groups   repository.GroupRepository
	notifier Notifier
	ttl      time.Duration
	logger   zerolog.Logger
	now      Clock
}

// NewPresenceService ttl is how long a user stays online without activity
func NewPresenceService(
	store presence.Store,
	typing *presence.Typing,
	users repository.UserRepository,
	contacts repository.ContactRepository,
	groups repository.GroupRepository,
	notifier Notifier,
	ttl time.Duration,
	logger zerolog.Logger,
) PresenceService {
	return newPresenceService(store, typing, users, contacts, groups, notifier, ttl, logger)
}

func newPresenceService(
	store presence.Store,
	typing *presence.Typing,
	users repository.UserRepository,
	contacts repository.ContactRepository,
	groups repository.GroupRepository,
	notifier Notifier,
	ttl time.Duration,
	logger zerolog.Logger,
) *presenceService {
	return &presenceService{
		store:    store,
		typing:   typing,
		users:    users,
		contacts: contacts,
		groups:   groups,
		notifier: orNop(notifier),
		ttl:      ttl,
		logger:   logger,
		now:      systemClock,
	}
}

// Touch records activity, keeping a previously chosen away/busy status
func (s *presenceService) Touch(ctx context.Context, userID string) error {
	entry, ok, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	status := domain.StatusOnline
	if ok && entry.Status != domain.StatusOffline {
		status = entry.Status
	}
	if err := s.store.Touch(ctx, userID, status, s.now()); err != nil {
		return err
	}
	if !ok {
		s.broadcast(userID, status)
	}
	return nil
}

func (s *presenceService) SetStatus(ctx context.Context, userID string, status domain.OnlineStatus) error {
	if !status.Valid() {
		return common.Invalid("unknown online status")
	}
	if status == domain.StatusOffline {
		if err := s.store.Remove(ctx, userID); err != nil {
			return err
		}
	} else if err := s.store.Touch(ctx, userID, status, s.now()); err != nil {
		return err
	}
	s.broadcast(userID, status)
	return nil
}

// Forget drops userID from the store and persists them as offline, e.g. when
// their last socket closes.
func (s *presenceService) Forget(ctx context.Context, userID string) error {
	if err := s.store.Remove(ctx, userID); err != nil {
		return err
	}
	if err := s.persistOffline(userID, s.now()); err != nil {
		return err
	}
	s.broadcast(userID, domain.StatusOffline)
	return nil
}

func (s *presenceService) persistOffline(userID string, at time.Time) error {
	return s.users.UpdateFields(userID, map[string]interface{}{
		"online_status": domain.StatusOffline,
		"last_seen":     at,
	})
}

func (s *presenceService) Get(ctx context.Context, userID string) (*PresenceView, error) {
	entry, ok, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		return &PresenceView{UserID: userID, Status: entry.Status, Connected: true, LastActive: entry.LastActive}, nil
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	return &PresenceView{UserID: userID, Status: domain.StatusOffline, LastActive: user.LastSeen}, nil
}

// Sweep evicts users idle for longer than ttl, persists them as offline and
// tells their contacts. 스케줄러에서 주기적으로 호출.
func (s *presenceService) Sweep(ctx context.Context) ([]string, error) {
	now := s.now()
	evicted, err := s.store.Sweep(ctx, now.Add(-s.ttl))
	if err != nil {
		return nil, err
	}
	for _, id := range evicted {
		if err := s.persistOffline(id, now); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to persist offline status")
		}
		s.broadcast(id, domain.StatusOffline)
	}
	metrics.PresenceEvictions.Add(float64(len(evicted)))

	if err := s.typing.Sweep(ctx); err != nil {
		return evicted, err
	}
	return evicted, nil
}

// StartTyping targetID is either a user or a group the typer belongs to
func (s *presenceService) StartTyping(ctx context.Context, typerID, targetID string) error {
	if targetID == "" || targetID == typerID {
		return common.Invalid("typing target required")
	}

	group, err := s.groups.FindByID(targetID)
	switch {
	case err == nil:
		if !group.HasMember(typerID) {
			return common.ErrForbidden
		}
		if err := s.typing.Start(ctx, typerID, targetID); err != nil {
			return err
		}
		ev := TypingEvent{TyperID: typerID, TargetID: targetID, GroupID: targetID}
		for _, member := range group.MemberIDs {
			if member != typerID {
				s.notifier.Notify(member, domain.EventTyping, ev)
			}
		}
		return nil
	case !errors.Is(err, common.ErrNotFound):
		return err
	}

	if _, err := s.users.FindByID(targetID); err != nil {
		return err
	}
	blocked, err := s.contacts.IsBlocked(targetID, typerID)
	if err != nil {
		return err
	}
	if blocked {
		return common.ErrForbidden
	}
	if err := s.typing.Start(ctx, typerID, targetID); err != nil {
		return err
	}
	s.notifier.Notify(targetID, domain.EventTyping, TypingEvent{TyperID: typerID, TargetID: targetID})
	return nil
}

// Typers a user may ask who is typing to them, or inside a group they belong to
func (s *presenceService) Typers(ctx context.Context, viewerID, targetID string) ([]string, error) {
	if targetID != viewerID {
		group, err := s.groups.FindByID(targetID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrForbidden
			}
			return nil, err
		}
		if !group.HasMember(viewerID) {
			return nil, common.ErrForbidden
		}
	}
	return s.typing.Typers(ctx, targetID)
}

// broadcast tells the user's accepted contacts about a presence change
func (s *presenceService) broadcast(userID string, status domain.OnlineStatus) {
	views, err := s.contacts.ListAccepted(userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("presence broadcast skipped")
		return
	}
	payload := PresenceView{UserID: userID, Status: status, Connected: status != domain.StatusOffline, LastActive: s.now()}
	for _, v := range views {
		s.notifier.Notify(v.UserID, domain.EventPresence, payload)
	}
}
