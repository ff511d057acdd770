package entitlements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/CineFox/app/models"
)

// ErrStoreUnavailable marks a failed read against a backing store. Callers must
// treat it as distinct from a denial (503 rather than 403).
var ErrStoreUnavailable = errors.New("entitlements: store unavailable")

func storeError(store string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, store, err)
}

// Absence is reported as a nil result with a nil error by every store below.

// PlanStore reads the canonical plan catalog.
type PlanStore interface {
	GetActivePlanByName(ctx context.Context, name string) (*models.Plan, error)
	GetPlanByID(ctx context.Context, id uint) (*models.Plan, error)
	// ListActivePlans returns active plans ordered by id.
	ListActivePlans(ctx context.Context) ([]models.Plan, error)
}

// SubscriptionStore reads normalized subscription records.
type SubscriptionStore interface {
	// FindActiveSubscription returns the most recent subscription with status
	// active and ends_at after now.
	FindActiveSubscription(ctx context.Context, viewerID uint, now time.Time) (*models.Subscription, error)
}

// PurchaseStore reads pay-per-view purchases.
type PurchaseStore interface {
	FindPurchase(ctx context.Context, viewerID uint, targetType string, targetID uint) (*models.PayPerViewPurchase, error)
}

// ViewerStore reads the legacy plan label from the user record.
type ViewerStore interface {
	GetLegacyPlanLabel(ctx context.Context, viewerID uint) (label string, found bool, err error)
}

// KillSwitch disables all entitlement checks when it reports true.
type KillSwitch interface {
	AccessControlDisabled() bool
}

// KillSwitchFunc adapts a function to KillSwitch.
type KillSwitchFunc func() bool

func (f KillSwitchFunc) AccessControlDisabled() bool { return f() }
