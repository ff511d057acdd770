package entitlements

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ManuelReschke/CineFox/app/models"
)

// ViewerFacts is the read-only, query-time view of everything the subscription
// rules need to know about one viewer. Both the single-item check and the
// catalog filter derive their decision from it.
type ViewerFacts struct {
	ViewerID uint `json:"viewer_id"`
	// Found is false when the user record does not exist.
	Found bool `json:"found"`
	// ActivePlanID is the plan of an active, unexpired subscription.
	ActivePlanID *uint `json:"active_plan_id,omitempty"`
	// LegacyLabel is the flat plan label stored on the user record.
	LegacyLabel string `json:"legacy_label"`
	// LegacyPlanID is the catalog plan the legacy label resolves to. It is only
	// resolved when no active subscription exists and the label is a paid,
	// non-Ultimate one.
	LegacyPlanID *uint `json:"legacy_plan_id,omitempty"`
}

// HasActiveSubscription reports whether an active, unexpired subscription exists.
func (f ViewerFacts) HasActiveSubscription() bool { return f.ActivePlanID != nil }

// IsUltimate reports whether the legacy label is the universal Ultimate override.
func (f ViewerFacts) IsUltimate() bool { return f.LegacyLabel == models.LegacyPlanUltimate }

// HasPaidLabel reports whether the legacy label is non-empty and not Free.
func (f ViewerFacts) HasPaidLabel() bool {
	return f.LegacyLabel != "" && f.LegacyLabel != models.LegacyPlanFree
}

// factsLoader reads ViewerFacts from the stores.
type factsLoader struct {
	viewers       ViewerStore
	subscriptions SubscriptionStore
	plans         *PlanResolver
	now           func() time.Time
}

// load reads the label and the active subscription concurrently. resolveLegacy
// controls whether a paid legacy label is resolved against the plan catalog
// when no active subscription exists.
func (l *factsLoader) load(ctx context.Context, viewerID uint, resolveLegacy bool) (ViewerFacts, error) {
	facts := ViewerFacts{ViewerID: viewerID}
	if viewerID == 0 {
		return facts, nil
	}

	var (
		label string
		found bool
		sub   *models.Subscription
	)
	now := l.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		label, found, err = l.viewers.GetLegacyPlanLabel(gctx, viewerID)
		if err != nil {
			return storeError("viewer", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sub, err = l.subscriptions.FindActiveSubscription(gctx, viewerID, now)
		if err != nil {
			return storeError("subscription", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ViewerFacts{ViewerID: viewerID}, err
	}

	if !found {
		return facts, nil
	}
	facts.Found = true
	facts.LegacyLabel = label

	// Stores are expected to filter already; re-check so a lenient store cannot grant.
	if sub.IsEntitling(now) {
		planID := sub.PlanID
		facts.ActivePlanID = &planID
		return facts, nil
	}

	if resolveLegacy && facts.HasPaidLabel() && !facts.IsUltimate() {
		plan, err := l.plans.Resolve(ctx, label)
		if err != nil {
			return ViewerFacts{ViewerID: viewerID}, err
		}
		if plan != nil {
			planID := plan.ID
			facts.LegacyPlanID = &planID
		}
	}
	return facts, nil
}
