package entitlements

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/internal/pkg/metrics"
)

const DefaultTimeout = 2 * time.Second

// Stores bundles the read paths the resolver depends on.
type Stores struct {
	Plans         PlanStore
	Subscriptions SubscriptionStore
	Purchases     PurchaseStore
	Viewers       ViewerStore
}

// Config configures a Resolver. Zero values fall back to defaults: no kill-switch,
// DefaultTimeout, no plan cache, the standard logrus logger and time.Now.
type Config struct {
	KillSwitch   KillSwitch
	Timeout      time.Duration
	PlanCache    redis.Cmdable
	PlanCacheTTL time.Duration
	Logger       *logrus.Entry
	Now          func() time.Time
}

// Resolver is the single entry point for entitlement decisions. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	killSwitch KillSwitch
	timeout    time.Duration
	facts      *factsLoader
	plans      *PlanResolver
	subs       *SubscriptionEvaluator
	ppv        *PPVEvaluator
	log        *logrus.Entry
}

// NewResolver wires the evaluators on top of the given stores.
func NewResolver(stores Stores, cfg Config) *Resolver {
	if cfg.KillSwitch == nil {
		cfg.KillSwitch = KillSwitchFunc(func() bool { return false })
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	plans := NewPlanResolver(stores.Plans, cfg.PlanCache, cfg.PlanCacheTTL, cfg.Logger)
	facts := &factsLoader{
		viewers:       stores.Viewers,
		subscriptions: stores.Subscriptions,
		plans:         plans,
		now:           cfg.Now,
	}
	return &Resolver{
		killSwitch: cfg.KillSwitch,
		timeout:    cfg.Timeout,
		facts:      facts,
		plans:      plans,
		subs:       &SubscriptionEvaluator{facts: facts},
		ppv:        &PPVEvaluator{purchases: stores.Purchases, now: cfg.Now},
		log:        cfg.Logger,
	}
}

// Plans exposes the plan name resolver.
func (r *Resolver) Plans() *PlanResolver { return r.plans }

// CheckAccess decides whether viewerID (0 for anonymous) may access one item.
// A failed store read returns an error wrapping ErrStoreUnavailable and never
// a grant.
func (r *Resolver) CheckAccess(ctx context.Context, viewerID uint, accessType string, allowedPlanIDs []uint, targetType string, targetID uint) (allowed bool, err error) {
	// Kill-switch: access control disabled for the whole deployment.
	if r.killSwitch.AccessControlDisabled() {
		return true, nil
	}

	start := time.Now()
	defer func() {
		metrics.ObserveDecision(metricAccessType(accessType), allowed, err, time.Since(start))
	}()

	switch accessType {
	case models.AccessTypeFree:
		return true, nil
	case models.AccessTypeSubscription, models.AccessTypePayPerView:
	default:
		r.log.WithFields(logrus.Fields{
			"access_type": accessType,
			"target_type": targetType,
			"target_id":   targetID,
		}).Warn("unknown access type on content, denying access")
		return false, nil
	}

	if viewerID == 0 {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if accessType == models.AccessTypeSubscription {
		allowed, err = r.subs.HasSubscriptionAccess(ctx, viewerID, allowedPlanIDs)
	} else {
		allowed, err = r.ppv.HasPPVAccess(ctx, viewerID, targetType, targetID)
	}
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"viewer_id":   viewerID,
			"access_type": accessType,
			"target_type": targetType,
			"target_id":   targetID,
		}).Error("entitlement lookup failed")
		return false, err
	}
	return allowed, nil
}

// CheckContent is CheckAccess for a loaded catalog model.
func (r *Resolver) CheckContent(ctx context.Context, viewerID uint, c models.Content) (bool, error) {
	return r.CheckAccess(ctx, viewerID, c.ContentAccessType(), c.AllowedPlanIDs(), c.ContentType(), c.ContentID())
}

// BuildCatalogFilter returns the listing filter for viewerID (0 for anonymous).
// Viewer facts are read once here; the returned filter is applied by the
// persistence layer in the listing query itself.
func (r *Resolver) BuildCatalogFilter(ctx context.Context, viewerID uint) (filter *CatalogFilter, err error) {
	if r.killSwitch.AccessControlDisabled() {
		return unrestrictedFilter(), nil
	}
	defer func() { metrics.ObserveCatalogFilter(viewerID == 0, err) }()

	facts, err := r.LoadViewerFacts(ctx, viewerID)
	if err != nil {
		r.log.WithError(err).WithField("viewer_id", viewerID).Error("catalog filter lookup failed")
		return nil, err
	}
	return NewCatalogFilter(facts), nil
}

// LoadViewerFacts reads the viewer facts used by both decision paths, with the
// legacy label resolved.
func (r *Resolver) LoadViewerFacts(ctx context.Context, viewerID uint) (ViewerFacts, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.facts.load(ctx, viewerID, true)
}

func metricAccessType(accessType string) string {
	switch accessType {
	case models.AccessTypeFree, models.AccessTypeSubscription, models.AccessTypePayPerView:
		return accessType
	default:
		return "invalid"
	}
}
