package repository

import (
	"github.com/chatfusion/chatfusion-backend/internal/common"
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	FindByIDs(ids []string) ([]*domain.User, error)
	UpdateFields(id string, fields map[string]interface{}) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user. Username or email collisions return common.ErrDuplicate
// and leave existing rows untouched.
func (r *userRepository) Create(user *domain.User) error {
	return translate(r.db.Create(user).Error, common.ErrUserNotFound)
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, common.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, common.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ids []string) ([]*domain.User, error) {
	var users []*domain.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("username ASC").Find(&users).Error; err != nil {
		return nil, translate(err, common.ErrUserNotFound)
	}
	return users, nil
}

func (r *userRepository) UpdateFields(id string, fields map[string]interface{}) error {
	err := r.db.Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error
	return translate(err, common.ErrUserNotFound)
}
