package repository

import (
	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/gorm"
)

// GroupRepository group storage
type GroupRepository interface {
	Create(group *domain.Group) error
	FindByID(id string) (*domain.Group, error)
	FindByMember(userID string) ([]*domain.Group, error)
	UpdateRoster(group *domain.Group) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(group *domain.Group) error {
	return translate(r.db.Create(group).Error, common.ErrGroupNotFound)
}

func (r *groupRepository) FindByID(id string) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.Where("id = ?", id).First(&group).Error; err != nil {
		return nil, translate(err, common.ErrGroupNotFound)
	}
	return &group, nil
}

// FindByMember narrows with LIKE on the JSON text, then keeps only groups
// whose decoded member list holds userID exactly.
func (r *groupRepository) FindByMember(userID string) ([]*domain.Group, error) {
	var candidates []*domain.Group
	err := r.db.Where("member_ids"+likeJSONElement, jsonContains(userID)).
		Order("created_at DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, translate(err, common.ErrGroupNotFound)
	}
	groups := make([]*domain.Group, 0, len(candidates))
	for _, g := range candidates {
		if g.HasMember(userID) {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// UpdateRoster writes admin_ids and member_ids back
func (r *groupRepository) UpdateRoster(group *domain.Group) error {
	err := r.db.Model(&domain.Group{}).Where("id = ?", group.ID).
		Updates(map[string]interface{}{
			"admin_ids":  group.AdminIDs,
			"member_ids": group.MemberIDs,
		}).Error
	return translate(err, common.ErrGroupNotFound)
}
