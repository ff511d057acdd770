package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ManuelReschke/CineFox/app/models"
)

// purchaseRepository implements the PurchaseRepository interface
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository instance
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// FindPurchase retrieves the purchase of a target that grants the most access
func (r *purchaseRepository) FindPurchase(ctx context.Context, userID uint, targetType string, targetID uint) (*models.PayPerViewPurchase, error) {
	var purchases []models.PayPerViewPurchase
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return bestPurchase(purchases), nil
}

// bestPurchase ranks buys first, then open-ended rentals, then the rental
// expiring last.
func bestPurchase(purchases []models.PayPerViewPurchase) *models.PayPerViewPurchase {
	var best *models.PayPerViewPurchase
	for i := range purchases {
		p := &purchases[i]
		if best == nil || purchaseRank(p, best) {
			best = p
		}
	}
	return best
}

// purchaseRank reports whether a outranks b.
func purchaseRank(a, b *models.PayPerViewPurchase) bool {
	if a.PurchaseType != b.PurchaseType {
		if a.PurchaseType == models.PurchaseTypeBuy {
			return true
		}
		if b.PurchaseType == models.PurchaseTypeBuy {
			return false
		}
		// Unknown types never outrank a rental.
		return a.PurchaseType == models.PurchaseTypeRent
	}
	switch {
	case b.ExpiresAt == nil:
		return false
	case a.ExpiresAt == nil:
		return true
	default:
		return a.ExpiresAt.After(*b.ExpiresAt)
	}
}
