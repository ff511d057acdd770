package entitlements

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/CineFox/app/models"
)

func TestHasSubscriptionAccess(t *testing.T) {
	const viewer uint = 10

	tests := []struct {
		name    string
		setup   func(m *memoryStores)
		allowed []uint
		want    bool
	}{
		{
			name:    "unknown viewer",
			setup:   func(m *memoryStores) {},
			allowed: nil,
			want:    false,
		},
		{
			name: "active subscription, unrestricted item",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanFree)
				m.addSubscription(viewer, premiumID, models.SubscriptionStatusActive, 10*24*time.Hour)
			},
			want: true,
		},
		{
			name: "active subscription on allowed plan wins over Free label",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanFree)
				m.addSubscription(viewer, basicID, models.SubscriptionStatusActive, time.Hour)
			},
			allowed: []uint{basicID},
			want:    true,
		},
		{
			name: "active subscription on other plan with Premium label does not fall through",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanPremium)
				m.addSubscription(viewer, basicID, models.SubscriptionStatusActive, time.Hour)
			},
			allowed: []uint{premiumID},
			want:    false,
		},
		{
			name: "active subscription on other plan with Ultimate label",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanUltimate)
				m.addSubscription(viewer, basicID, models.SubscriptionStatusActive, time.Hour)
			},
			allowed: []uint{premiumID},
			want:    true,
		},
		{
			name: "expired active subscription is ignored",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanFree)
				m.addSubscription(viewer, basicID, models.SubscriptionStatusActive, -time.Minute)
			},
			allowed: []uint{basicID},
			want:    false,
		},
		{
			name: "cancelled subscription is ignored, label decides",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanBasic)
				m.addSubscription(viewer, premiumID, models.SubscriptionStatusCancelled, time.Hour)
			},
			allowed: []uint{basicID},
			want:    true,
		},
		{
			name: "no subscription, Ultimate label, restricted item",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanUltimate)
			},
			allowed: []uint{basicID},
			want:    true,
		},
		{
			name: "no subscription, paid label, unrestricted item",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, "Gold")
			},
			want: true,
		},
		{
			name: "no subscription, paid label resolves to allowed plan",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanPremium)
			},
			allowed: []uint{basicID, premiumID},
			want:    true,
		},
		{
			name: "no subscription, paid label resolves to other plan",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanBasic)
			},
			allowed: []uint{premiumID},
			want:    false,
		},
		{
			name: "no subscription, paid label without catalog counterpart",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, "Platinum")
			},
			allowed: []uint{premiumID},
			want:    false,
		},
		{
			name: "no subscription, Free label",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, models.LegacyPlanFree)
			},
			want: false,
		},
		{
			name: "no subscription, empty label",
			setup: func(m *memoryStores) {
				m.addViewer(viewer, "")
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemoryStores()
			m.plans = catalogPlans()
			tt.setup(m)
			r := newTestResolver(m, false)

			got, err := r.subs.HasSubscriptionAccess(context.Background(), viewer, tt.allowed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasSubscriptionAccessSkipsPlanLookupForUnrestrictedItems(t *testing.T) {
	m := newMemoryStores()
	m.plans = catalogPlans()
	m.addViewer(1, models.LegacyPlanBasic)
	r := newTestResolver(m, false)

	ok, err := r.subs.HasSubscriptionAccess(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, m.planNameLookups)
}

func TestSubscriptionRuleShape(t *testing.T) {
	planID := premiumID
	tests := []struct {
		name  string
		facts ViewerFacts
		want  string
	}{
		{name: "not found", facts: ViewerFacts{ViewerID: 1}, want: "never"},
		{name: "active", facts: ViewerFacts{ViewerID: 1, Found: true, ActivePlanID: &planID}, want: "any(plans=any, plan=2)"},
		{name: "active ultimate", facts: ViewerFacts{ViewerID: 1, Found: true, ActivePlanID: &planID, LegacyLabel: "Ultimate"}, want: "always"},
		{name: "ultimate label", facts: ViewerFacts{ViewerID: 1, Found: true, LegacyLabel: "Ultimate"}, want: "always"},
		{name: "paid label unresolved", facts: ViewerFacts{ViewerID: 1, Found: true, LegacyLabel: "Gold"}, want: "plans=any"},
		{name: "paid label resolved", facts: ViewerFacts{ViewerID: 1, Found: true, LegacyLabel: "Premium", LegacyPlanID: &planID}, want: "any(plans=any, plan=2)"},
		{name: "free label", facts: ViewerFacts{ViewerID: 1, Found: true, LegacyLabel: "Free"}, want: "never"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubscriptionRule(tt.facts).String())
		})
	}
}
