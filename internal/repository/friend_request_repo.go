package repository

import (
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRequestRepository friend request storage
type FriendRequestRepository interface {
	Create(req *domain.FriendRequest) error
	FindByID(id string) (*domain.FriendRequest, error)
	FindByPair(senderID, receiverID string) (*domain.FriendRequest, error)
	ListPending(receiverID string) ([]*domain.FriendRequest, error)
	Accept(req *domain.FriendRequest, at time.Time) error
	Reject(req *domain.FriendRequest, at time.Time) error
}

type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository creates a new FriendRequestRepository
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

// Create stores the request together with the sender's pending contact edge.
// A second request for the same ordered pair fails with common.ErrDuplicate.
func (r *friendRequestRepository) Create(req *domain.FriendRequest) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		pending := domain.Contact{
			UserID:    req.SenderID,
			ContactID: req.ReceiverID,
			Status:    domain.ContactPending,
			AddedAt:   req.CreatedAt,
		}
		// an existing edge (blocked, accepted) is left as is
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pending).Error
	})
	return translate(err, common.ErrFriendRequestNotFound)
}

func (r *friendRequestRepository) FindByID(id string) (*domain.FriendRequest, error) {
	var req domain.FriendRequest
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, translate(err, common.ErrFriendRequestNotFound)
	}
	return &req, nil
}

func (r *friendRequestRepository) FindByPair(senderID, receiverID string) (*domain.FriendRequest, error) {
	var req domain.FriendRequest
	err := r.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(&req).Error
	if err != nil {
		return nil, translate(err, common.ErrFriendRequestNotFound)
	}
	return &req, nil
}

func (r *friendRequestRepository) ListPending(receiverID string) ([]*domain.FriendRequest, error) {
	var reqs []*domain.FriendRequest
	err := r.db.Where("receiver_id = ? AND status = ?", receiverID, domain.FriendRequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, translate(err, common.ErrFriendRequestNotFound)
	}
	return reqs, nil
}

// Accept marks the request accepted and upserts both directed contact rows
// as accepted. All of it commits or none of it does.
func (r *friendRequestRepository) Accept(req *domain.FriendRequest, at time.Time) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.FriendRequest{}).
			Where("id = ? AND status = ?", req.ID, domain.FriendRequestPending).
			Updates(map[string]interface{}{"status": domain.FriendRequestAccepted, "responded_at": at})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.Invalid("friend request already answered")
		}

		edges := []domain.Contact{
			{UserID: req.SenderID, ContactID: req.ReceiverID, Status: domain.ContactAccepted, AddedAt: at},
			{UserID: req.ReceiverID, ContactID: req.SenderID, Status: domain.ContactAccepted, AddedAt: at},
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "contact_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": domain.ContactAccepted}),
		}).Create(&edges).Error
	})
	if err != nil {
		return translate(err, common.ErrFriendRequestNotFound)
	}
	req.Status = domain.FriendRequestAccepted
	req.RespondedAt = &at
	return nil
}

// Reject only touches the request row
func (r *friendRequestRepository) Reject(req *domain.FriendRequest, at time.Time) error {
	result := r.db.Model(&domain.FriendRequest{}).
		Where("id = ? AND status = ?", req.ID, domain.FriendRequestPending).
		Updates(map[string]interface{}{"status": domain.FriendRequestRejected, "responded_at": at})
	if result.Error != nil {
		return translate(result.Error, common.ErrFriendRequestNotFound)
	}
	if result.RowsAffected == 0 {
		return common.Invalid("friend request already answered")
	}
	req.Status = domain.FriendRequestRejected
	req.RespondedAt = &at
	return nil
}
