package entitlements

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/CineFox/app/models"
)

// catalogDB seeds an in-memory SQLite database with fixtureItems() as movies
// and as episodes, allowed-plan join rows included.
func catalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection would open its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Plan{}, &models.Movie{}, &models.Episode{}))

	plans := catalogPlans()
	require.NoError(t, db.Create(&plans).Error)
	byID := make(map[uint]models.Plan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	allowed := func(ids []uint) []models.Plan {
		out := make([]models.Plan, 0, len(ids))
		for _, id := range ids {
			out = append(out, byID[id])
		}
		return out
	}

	for _, item := range fixtureItems() {
		movie := models.Movie{ID: item.ID, Title: itemName(item), AccessType: item.AccessType, AllowedPlans: allowed(item.AllowedPlanIDs)}
		require.NoError(t, db.Create(&movie).Error)
		episode := models.Episode{ID: item.ID, TvShowID: 1, SeasonNumber: 1, EpisodeNumber: int(item.ID), Title: itemName(item), AccessType: item.AccessType, AllowedPlans: allowed(item.AllowedPlanIDs)}
		require.NoError(t, db.Create(&episode).Error)
	}

	var joinRows int64
	require.NoError(t, db.Table(MovieTarget.JoinTable).Count(&joinRows).Error)
	require.Equal(t, int64(4*5), joinRows)
	return db
}

// The compiled filter must select exactly the rows the single-item check grants,
// plus pay-per-view rows for signed-in viewers.
func TestCompiledFilterMatchesCheckAccessInDatabase(t *testing.T) {
	db := catalogDB(t)

	targets := []struct {
		target Target
		model  interface{}
	}{
		{MovieTarget, &models.Movie{}},
		{EpisodeTarget, &models.Episode{}},
	}

	for _, v := range viewerFixtures() {
		t.Run(v.name, func(t *testing.T) {
			m := newMemoryStores()
			m.plans = catalogPlans()
			v.setup(m, v.id)
			r := newTestResolver(m, false)
			ctx := context.Background()

			filter, err := r.BuildCatalogFilter(ctx, v.id)
			require.NoError(t, err)

			want := []uint{}
			for _, item := range fixtureItems() {
				granted := v.id != 0
				if item.AccessType != models.AccessTypePayPerView {
					granted, err = r.CheckAccess(ctx, v.id, item.AccessType, item.AllowedPlanIDs, item.Type, item.ID)
					require.NoError(t, err)
				}
				if granted {
					want = append(want, item.ID)
				}
			}

			for _, tt := range targets {
				got := []uint{}
				err := db.Model(tt.model).Scopes(filter.Scope(tt.target)).Order("id").Pluck("id", &got).Error
				require.NoError(t, err)
				assert.Equal(t, want, got, "%s for %s", tt.target.Table, filter.Rule())
			}
		})
	}
}

func TestCompiledFilterKillSwitchListsEverything(t *testing.T) {
	db := catalogDB(t)
	r := newTestResolver(newMemoryStores(), true)

	filter, err := r.BuildCatalogFilter(context.Background(), 0)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Movie{}).Scopes(filter.Scope(MovieTarget)).Count(&count).Error)
	assert.Equal(t, int64(len(fixtureItems())), count)
}
