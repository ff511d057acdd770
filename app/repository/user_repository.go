package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ManuelReschke/CineFox/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetLegacyPlanLabel reads only the plan label column of a user
func (r *userRepository) GetLegacyPlanLabel(ctx context.Context, id uint) (string, bool, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("id", "subscription_plan").Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return user.SubscriptionPlan, true, nil
}
