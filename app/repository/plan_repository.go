package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ManuelReschke/CineFox/app/models"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// GetActivePlanByName retrieves an active plan by its exact name
func (r *planRepository) GetActivePlanByName(ctx context.Context, name string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).Where("name = ? AND is_active = ?", name, true).Take(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// The column collation is case-insensitive.
	if plan.Name != name {
		return nil, nil
	}
	return &plan, nil
}

// GetPlanByID retrieves a plan by its ID, active or not
func (r *planRepository) GetPlanByID(ctx context.Context, id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).Take(&plan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActivePlans retrieves all active plans ordered by ID
func (r *planRepository) ListActivePlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&plans).Error
	return plans, err
}
