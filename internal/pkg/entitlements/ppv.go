package entitlements

import (
	"context"
	"time"

	"github.com/ManuelReschke/CineFox/app/models"
)

// PPVEvaluator decides pay-per-view access from purchase records.
type PPVEvaluator struct {
	purchases PurchaseStore
	now       func() time.Time
}

// HasPPVAccess reports whether the viewer owns a valid purchase of the target.
func (e *PPVEvaluator) HasPPVAccess(ctx context.Context, viewerID uint, targetType string, targetID uint) (bool, error) {
	purchase, err := e.purchases.FindPurchase(ctx, viewerID, targetType, targetID)
	if err != nil {
		return false, storeError("purchase", err)
	}
	return PurchaseGrants(purchase, e.now()), nil
}

// PurchaseGrants reports whether a purchase grants access at now. A buy never
// expires. A rent without ExpiresAt is treated as valid.
func PurchaseGrants(p *models.PayPerViewPurchase, now time.Time) bool {
	if p == nil {
		return false
	}
	switch p.PurchaseType {
	case models.PurchaseTypeBuy:
		return true
	case models.PurchaseTypeRent:
		return p.ExpiresAt == nil || p.ExpiresAt.After(now)
	default:
		return false
	}
}
