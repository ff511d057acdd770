package entitlements

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/app/models"
)

// PlanLabelCachePrefix prefixes cached label resolutions in Redis.
const PlanLabelCachePrefix = "entitlements:plan-label:"

// DefaultPlanCacheTTL bounds how stale a cached label resolution may get.
const DefaultPlanCacheTTL = 5 * time.Minute

// planSynonyms maps legacy labels to literal plan names, tried in order.
var planSynonyms = map[string][]string{
	models.LegacyPlanUltimate: {"Ultimate Plan", "Ultimate"},
	models.LegacyPlanPremium:  {"Premium Plan", "Premium"},
	models.LegacyPlanBasic:    {"Basic Plan", "Basic"},
}

// PlanResolver maps legacy plan labels onto the canonical plan catalog.
type PlanResolver struct {
	plans PlanStore
	cache redis.Cmdable
	ttl   time.Duration
	log   *logrus.Entry
}

// NewPlanResolver creates a resolver. cache may be nil, in which case every
// lookup goes to the plan store.
func NewPlanResolver(plans PlanStore, cache redis.Cmdable, ttl time.Duration, log *logrus.Entry) *PlanResolver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PlanResolver{plans: plans, cache: cache, ttl: ttl, log: log}
}

// Resolve returns the plan a legacy label refers to, or nil when no active plan
// matches. The first matching step wins: exact name, synonym table,
// case-insensitive prefix, case-insensitive substring.
func (r *PlanResolver) Resolve(ctx context.Context, label string) (*models.Plan, error) {
	if strings.TrimSpace(label) == "" {
		return nil, nil
	}

	if plan, ok := r.cached(ctx, label); ok {
		return plan, nil
	}

	plan, err := r.resolve(ctx, label)
	if err != nil {
		return nil, storeError("plan", err)
	}
	r.store(ctx, label, plan)
	return plan, nil
}

func (r *PlanResolver) resolve(ctx context.Context, label string) (*models.Plan, error) {
	plan, err := r.plans.GetActivePlanByName(ctx, label)
	if err != nil || plan != nil {
		return plan, err
	}

	for _, name := range planSynonyms[label] {
		if name == label {
			continue
		}
		plan, err := r.plans.GetActivePlanByName(ctx, name)
		if err != nil || plan != nil {
			return plan, err
		}
	}

	active, err := r.plans.ListActivePlans(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(label)
	for i := range active {
		if strings.HasPrefix(strings.ToLower(active[i].Name), needle) {
			return &active[i], nil
		}
	}
	for i := range active {
		if strings.Contains(strings.ToLower(active[i].Name), needle) {
			return &active[i], nil
		}
	}
	return nil, nil
}

// cached returns a cached resolution. A cached "null" is a remembered miss.
// A non-positive ttl disables the cache for reads as well as writes.
func (r *PlanResolver) cached(ctx context.Context, label string) (*models.Plan, bool) {
	if r.cache == nil || r.ttl <= 0 {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, PlanLabelCachePrefix+label).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).WithField("label", label).Warn("plan label cache read failed")
		}
		return nil, false
	}
	var plan *models.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		r.log.WithError(err).WithField("label", label).Warn("discarding malformed plan label cache entry")
		return nil, false
	}
	return plan, true
}

func (r *PlanResolver) store(ctx context.Context, label string, plan *models.Plan) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, PlanLabelCachePrefix+label, string(raw), r.ttl).Err(); err != nil {
		r.log.WithError(err).WithField("label", label).Warn("plan label cache write failed")
	}
}
