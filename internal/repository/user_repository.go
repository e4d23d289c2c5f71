package repository

import (
	"gorm.io/gorm"

	"spp-be-svc/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetAdminSubscribers() ([]*models.User, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// GetByID retrieves a user record by ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User

	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetAdminSubscribers retrieves all admin users subscribed to app
// notifications. Resolving subscribers here, separately from the workflow
// that publishes the event, keeps the recipient set out of the billing logic.
func (r *userRepository) GetAdminSubscribers() ([]*models.User, error) {
	var users []*models.User

	err := r.db.Where("role = ? AND app_notification = ?", models.RoleAdmin, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}
