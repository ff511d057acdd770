package entitlements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/internal/pkg/logging"
)

func TestPlanResolverSteps(t *testing.T) {
	m := newMemoryStores()
	m.plans = []models.Plan{
		{ID: 1, Name: "Basic", IsActive: true},
		{ID: 2, Name: "Premium Monthly", IsActive: true},
		{ID: 3, Name: "Ultimate Plan", IsActive: true},
		{ID: 4, Name: "Family Bundle", IsActive: true},
		{ID: 5, Name: "Legacy", IsActive: false},
	}
	r := NewPlanResolver(m, nil, 0, logging.Discard())

	tests := []struct {
		name   string
		label  string
		wantID uint
	}{
		{name: "exact", label: "Basic", wantID: 1},
		{name: "synonym", label: "Ultimate", wantID: 3},
		{name: "prefix case-insensitive", label: "premium", wantID: 2},
		{name: "substring", label: "bundle", wantID: 4},
		{name: "inactive plans are ignored", label: "Legacy"},
		{name: "no match", label: "Platinum"},
		{name: "empty label", label: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := r.Resolve(context.Background(), tt.label)
			require.NoError(t, err)
			if tt.wantID == 0 {
				assert.Nil(t, plan)
				return
			}
			require.NotNil(t, plan)
			assert.Equal(t, tt.wantID, plan.ID)
		})
	}
}

func TestPlanResolverExactMatchIsCaseSensitive(t *testing.T) {
	m := newMemoryStores()
	m.plans = []models.Plan{
		{ID: 1, Name: "basic", IsActive: true},
		{ID: 2, Name: "Basic", IsActive: true},
	}
	r := NewPlanResolver(m, nil, 0, logging.Discard())

	plan, err := r.Resolve(context.Background(), "Basic")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, uint(2), plan.ID)
}

func TestPlanResolverSynonymOrder(t *testing.T) {
	m := newMemoryStores()
	m.plans = []models.Plan{
		{ID: 7, Name: "Ultimate", IsActive: true},
		{ID: 8, Name: "Ultimate Plan", IsActive: true},
	}
	r := NewPlanResolver(m, nil, 0, logging.Discard())

	// Step 1 finds the literal name before the synonym table is consulted.
	plan, err := r.Resolve(context.Background(), "Ultimate")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, uint(7), plan.ID)
}

func TestPlanResolverStoreError(t *testing.T) {
	m := newMemoryStores()
	m.failPlans = errors.New("connection refused")
	r := NewPlanResolver(m, nil, 0, logging.Discard())

	plan, err := r.Resolve(context.Background(), "Basic")
	assert.Nil(t, plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestPlanResolverCachesHit(t *testing.T) {
	m := newMemoryStores()
	m.plans = catalogPlans()
	rdb, mock := redismock.NewClientMock()
	r := NewPlanResolver(m, rdb, time.Minute, logging.Discard())

	key := PlanLabelCachePrefix + "Basic"
	mock.ExpectGet(key).RedisNil()
	mock.Regexp().ExpectSet(key, `"id":1`, time.Minute).SetVal("OK")

	plan, err := r.Resolve(context.Background(), "Basic")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, basicID, plan.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanResolverServesFromCache(t *testing.T) {
	m := newMemoryStores()
	rdb, mock := redismock.NewClientMock()
	r := NewPlanResolver(m, rdb, time.Minute, logging.Discard())

	mock.ExpectGet(PlanLabelCachePrefix + "Gold").SetVal(`{"id":9,"name":"Gold Plan","is_active":true}`)

	plan, err := r.Resolve(context.Background(), "Gold")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, uint(9), plan.ID)
	assert.Equal(t, 0, m.planNameLookups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanResolverZeroTTLIgnoresCache(t *testing.T) {
	m := newMemoryStores()
	m.plans = catalogPlans()
	rdb, mock := redismock.NewClientMock()
	r := NewPlanResolver(m, rdb, 0, logging.Discard())

	// Left behind while the cache was still enabled.
	mock.ExpectGet(PlanLabelCachePrefix + "Premium").SetVal(`{"id":9,"name":"Gold Plan","is_active":true}`)

	plan, err := r.Resolve(context.Background(), "Premium")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, premiumID, plan.ID)
	assert.Positive(t, m.planNameLookups)
	assert.Error(t, mock.ExpectationsWereMet(), "cache must not be read")
}

func TestPlanResolverCachesMiss(t *testing.T) {
	m := newMemoryStores()
	rdb, mock := redismock.NewClientMock()
	r := NewPlanResolver(m, rdb, time.Minute, logging.Discard())

	key := PlanLabelCachePrefix + "Platinum"
	mock.ExpectGet(key).SetVal("null")

	plan, err := r.Resolve(context.Background(), "Platinum")
	require.NoError(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, 0, m.planListLookups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanResolverCacheFailureFallsBackToStore(t *testing.T) {
	m := newMemoryStores()
	m.plans = catalogPlans()
	rdb, mock := redismock.NewClientMock()
	r := NewPlanResolver(m, rdb, time.Minute, logging.Discard())

	key := PlanLabelCachePrefix + "Premium"
	mock.ExpectGet(key).SetErr(errors.New("cache down"))
	mock.Regexp().ExpectSet(key, `"id":2`, time.Minute).SetErr(errors.New("cache down"))

	plan, err := r.Resolve(context.Background(), "Premium")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, premiumID, plan.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
