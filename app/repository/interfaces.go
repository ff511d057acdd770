package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/internal/pkg/entitlements"
)

// Read methods return (nil, nil) when the record does not exist.

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// GetLegacyPlanLabel returns the flat subscription_plan label of a user.
	GetLegacyPlanLabel(ctx context.Context, id uint) (label string, found bool, err error)
}

// PlanRepository defines the interface for the plan catalog
type PlanRepository interface {
	// GetActivePlanByName matches the name exactly, case included.
	GetActivePlanByName(ctx context.Context, name string) (*models.Plan, error)
	GetPlanByID(ctx context.Context, id uint) (*models.Plan, error)
	ListActivePlans(ctx context.Context) ([]models.Plan, error)
}

// SubscriptionRepository defines the interface for normalized subscriptions
type SubscriptionRepository interface {
	FindActiveSubscription(ctx context.Context, userID uint, now time.Time) (*models.Subscription, error)
}

// PurchaseRepository defines the interface for pay-per-view purchases
type PurchaseRepository interface {
	// FindPurchase returns the most entitling purchase of the target: a buy,
	// then a rental without expiry, then the rental expiring last.
	FindPurchase(ctx context.Context, userID uint, targetType string, targetID uint) (*models.PayPerViewPurchase, error)
}

// CatalogRepository defines the interface for movies, TV shows and episodes.
// A nil filter lists everything.
type CatalogRepository interface {
	ListMovies(ctx context.Context, filter *entitlements.CatalogFilter, q ListQuery) ([]models.Movie, int64, error)
	ListTvShows(ctx context.Context, filter *entitlements.CatalogFilter, q ListQuery) ([]models.TvShow, int64, error)
	ListEpisodes(ctx context.Context, filter *entitlements.CatalogFilter, tvShowID uint, q ListQuery) ([]models.Episode, int64, error)
	GetMovie(ctx context.Context, id uint) (*models.Movie, error)
	GetTvShow(ctx context.Context, id uint) (*models.TvShow, error)
	GetEpisode(ctx context.Context, id uint) (*models.Episode, error)
}

// SettingRepository defines the interface for application settings
type SettingRepository interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Purchase     PurchaseRepository
	Catalog      CatalogRepository
	Setting      SettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Purchase:     NewPurchaseRepository(db),
		Catalog:      NewCatalogRepository(db),
		Setting:      NewSettingRepository(db),
	}
}

// EntitlementStores exposes the repositories as the stores the entitlement
// resolver reads from.
func (r *Repositories) EntitlementStores() entitlements.Stores {
	return entitlements.Stores{
		Plans:         r.Plan,
		Subscriptions: r.Subscription,
		Purchases:     r.Purchase,
		Viewers:       r.User,
	}
}
