package entitlements

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/internal/pkg/logging"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type purchaseKey struct {
	viewerID   uint
	targetType string
	targetID   uint
}

// memoryStores implements every store over in-memory maps.
type memoryStores struct {
	mu            sync.Mutex
	plans         []models.Plan
	labels        map[uint]string
	subscriptions []models.Subscription
	purchases     map[purchaseKey]models.PayPerViewPurchase

	failPlans         error
	failViewers       error
	failSubscriptions error
	failPurchases     error
	// block makes every read wait for ctx cancellation.
	block bool

	planNameLookups int
	planListLookups int
}

func newMemoryStores() *memoryStores {
	return &memoryStores{
		labels:    map[uint]string{},
		purchases: map[purchaseKey]models.PayPerViewPurchase{},
	}
}

func (m *memoryStores) stores() Stores {
	return Stores{Plans: m, Subscriptions: m, Purchases: m, Viewers: m}
}

func (m *memoryStores) wait(ctx context.Context) error {
	if !m.block {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *memoryStores) GetActivePlanByName(ctx context.Context, name string) (*models.Plan, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planNameLookups++
	if m.failPlans != nil {
		return nil, m.failPlans
	}
	for i := range m.plans {
		if m.plans[i].IsActive && m.plans[i].Name == name {
			p := m.plans[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memoryStores) GetPlanByID(ctx context.Context, id uint) (*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPlans != nil {
		return nil, m.failPlans
	}
	for i := range m.plans {
		if m.plans[i].ID == id {
			p := m.plans[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memoryStores) ListActivePlans(ctx context.Context) ([]models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planListLookups++
	if m.failPlans != nil {
		return nil, m.failPlans
	}
	var out []models.Plan
	for _, p := range m.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStores) FindActiveSubscription(ctx context.Context, viewerID uint, now time.Time) (*models.Subscription, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSubscriptions != nil {
		return nil, m.failSubscriptions
	}
	var best *models.Subscription
	for i := range m.subscriptions {
		s := m.subscriptions[i]
		if s.UserID != viewerID || !s.IsEntitling(now) {
			continue
		}
		if best == nil || s.StartedAt.After(best.StartedAt) {
			best = &s
		}
	}
	return best, nil
}

func (m *memoryStores) FindPurchase(ctx context.Context, viewerID uint, targetType string, targetID uint) (*models.PayPerViewPurchase, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPurchases != nil {
		return nil, m.failPurchases
	}
	p, ok := m.purchases[purchaseKey{viewerID, targetType, targetID}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryStores) GetLegacyPlanLabel(ctx context.Context, viewerID uint) (string, bool, error) {
	if err := m.wait(ctx); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failViewers != nil {
		return "", false, m.failViewers
	}
	label, ok := m.labels[viewerID]
	return label, ok, nil
}

// Plan ids used across fixtures.
const (
	basicID    uint = 1
	premiumID  uint = 2
	ultimateID uint = 3
)

func catalogPlans() []models.Plan {
	return []models.Plan{
		{ID: basicID, Name: "Basic", IsActive: true},
		{ID: premiumID, Name: "Premium", IsActive: true},
		{ID: ultimateID, Name: "Ultimate Plan", IsActive: true},
	}
}

func (m *memoryStores) addViewer(id uint, label string) {
	m.labels[id] = label
}

func (m *memoryStores) addSubscription(viewerID, planID uint, status string, endsIn time.Duration) {
	m.subscriptions = append(m.subscriptions, models.Subscription{
		ID:        uint(len(m.subscriptions) + 1),
		UserID:    viewerID,
		PlanID:    planID,
		Status:    status,
		StartedAt: testNow.Add(-24 * time.Hour),
		EndsAt:    testNow.Add(endsIn),
	})
}

func (m *memoryStores) addPurchase(viewerID uint, targetType string, targetID uint, purchaseType string, expiresAt *time.Time) {
	m.purchases[purchaseKey{viewerID, targetType, targetID}] = models.PayPerViewPurchase{
		UserID:       viewerID,
		TargetType:   targetType,
		TargetID:     targetID,
		PurchaseType: purchaseType,
		ExpiresAt:    expiresAt,
	}
}

func newTestResolver(m *memoryStores, disabled bool) *Resolver {
	return NewResolver(m.stores(), Config{
		KillSwitch: KillSwitchFunc(func() bool { return disabled }),
		Timeout:    time.Second,
		Logger:     logging.Discard(),
		Now:        fixedNow,
	})
}

func timePtr(t time.Time) *time.Time { return &t }

func itemName(item Item) string {
	return fmt.Sprintf("%s#%d(%s,%v)", item.Type, item.ID, item.AccessType, item.AllowedPlanIDs)
}
