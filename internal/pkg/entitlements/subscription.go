package entitlements

import (
	"context"

	"github.com/ManuelReschke/CineFox/app/models"
)

// SubscriptionRule returns the predicate over an item's allowed-plan set that
// grants subscription access to the viewer described by f.
//
// Precedence:
//  1. unknown viewer: never
//  2. active subscription: unrestricted items, items allowing its plan, or
//     everything for an Ultimate label. A mismatch does not fall through to 3.
//  3. no active subscription: Ultimate label grants everything; any other paid
//     label grants unrestricted items and items allowing the label's plan.
func SubscriptionRule(f ViewerFacts) Rule {
	if !f.Found {
		return Never{}
	}
	if f.HasActiveSubscription() {
		if f.IsUltimate() {
			return Always{}
		}
		return Any(PlansUnrestricted{}, PlanAllowed{PlanID: *f.ActivePlanID})
	}
	if f.IsUltimate() {
		return Always{}
	}
	if !f.HasPaidLabel() {
		return Never{}
	}
	if f.LegacyPlanID == nil {
		return PlansUnrestricted{}
	}
	return Any(PlansUnrestricted{}, PlanAllowed{PlanID: *f.LegacyPlanID})
}

// SubscriptionEvaluator decides subscription-based access for single items.
type SubscriptionEvaluator struct {
	facts *factsLoader
}

// HasSubscriptionAccess reports whether the viewer may access an item restricted
// to allowedPlanIDs (empty means any plan).
func (e *SubscriptionEvaluator) HasSubscriptionAccess(ctx context.Context, viewerID uint, allowedPlanIDs []uint) (bool, error) {
	// The legacy label only needs resolving when the item names specific plans.
	facts, err := e.facts.load(ctx, viewerID, len(allowedPlanIDs) > 0)
	if err != nil {
		return false, err
	}
	item := Item{AccessType: models.AccessTypeSubscription, AllowedPlanIDs: allowedPlanIDs}
	return SubscriptionRule(facts).Matches(item), nil
}
