package service

import (
	"strings"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/repository"
)

// CreateGroupRequest group creation body
type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Avatar      *string  `json:"avatar" validate:"omitempty,max=500"`
	MemberIDs   []string `json:"member_ids" validate:"max=500"`
}

// GroupService group membership business logic
type GroupService interface {
	CreateGroup(creatorID string, req *CreateGroupRequest) (*domain.Group, error)
	GetGroup(groupID, userID string) (*domain.Group, error)
	GetUserGroups(userID string) ([]*domain.Group, error)
	AddMember(groupID, actorID, userID string) (*domain.Group, error)
	RemoveMember(groupID, actorID, userID string) (*domain.Group, error)
	PromoteAdmin(groupID, actorID, userID string) (*domain.Group, error)
}

type groupService struct {
	groups repository.GroupRepository
	users  repository.UserRepository
	now    Clock
}

// NewGroupService creates a new GroupService
func NewGroupService(groups repository.GroupRepository, users repository.UserRepository) GroupService {
	return newGroupService(groups, users)
}

func newGroupService(groups repository.GroupRepository, users repository.UserRepository) *groupService {
	return &groupService{groups: groups, users: users, now: systemClock}
}

// CreateGroup the creator is always the first admin and member; member ids
// are deduplicated in first-seen order.
func (s *groupService) CreateGroup(creatorID string, req *CreateGroupRequest) (*domain.Group, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	members := domain.UniqueIDs([]string{creatorID}, req.MemberIDs)
	if err := s.ensureUsers(members); err != nil {
		return nil, err
	}

	group := &domain.Group{
		Name:        req.Name,
		Description: req.Description,
		Avatar:      req.Avatar,
		CreatorID:   creatorID,
		AdminIDs:    []string{creatorID},
		MemberIDs:   members,
		CreatedAt:   s.now(),
	}
	if err := s.groups.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

// ensureUsers every id must name an existing user
func (s *groupService) ensureUsers(ids []string) error {
	users, err := s.users.FindByIDs(ids)
	if err != nil {
		return err
	}
	if len(users) != len(ids) {
		return common.Invalid("unknown member id")
	}
	return nil
}

func (s *groupService) GetGroup(groupID, userID string) (*domain.Group, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, common.ErrForbidden
	}
	return group, nil
}

func (s *groupService) GetUserGroups(userID string) ([]*domain.Group, error) {
	return s.groups.FindByMember(userID)
}

func (s *groupService) loadAsAdmin(groupID, actorID string) (*domain.Group, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(actorID) {
		return nil, common.ErrForbidden
	}
	return group, nil
}

func (s *groupService) AddMember(groupID, actorID, userID string) (*domain.Group, error) {
	group, err := s.loadAsAdmin(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return group, nil
	}
	if _, err := s.users.FindByID(userID); err != nil {
		return nil, err
	}
	group.MemberIDs = append(group.MemberIDs, userID)
	if err := s.groups.UpdateRoster(group); err != nil {
		return nil, err
	}
	return group, nil
}

// RemoveMember admins remove others, anyone may leave. The creator stays.
func (s *groupService) RemoveMember(groupID, actorID, userID string) (*domain.Group, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if actorID != userID && !group.IsAdmin(actorID) {
		return nil, common.ErrForbidden
	}
	if userID == group.CreatorID {
		return nil, common.Invalid("the creator cannot be removed")
	}
	if !group.HasMember(userID) {
		return group, nil
	}
	group.MemberIDs = domain.Without(group.MemberIDs, userID)
	group.AdminIDs = domain.Without(group.AdminIDs, userID)
	if err := s.groups.UpdateRoster(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) PromoteAdmin(groupID, actorID, userID string) (*domain.Group, error) {
	group, err := s.loadAsAdmin(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, common.Invalid("only members can become admins")
	}
	if group.IsAdmin(userID) {
		return group, nil
	}
	group.AdminIDs = append(group.AdminIDs, userID)
	if err := s.groups.UpdateRoster(group); err != nil {
		return nil, err
	}
	return group, nil
}
