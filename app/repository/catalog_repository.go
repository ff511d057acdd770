package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/internal/pkg/entitlements"
)

// catalogRepository implements the CatalogRepository interface
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository instance
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// ListMovies retrieves one page of the movies the filter admits
func (r *catalogRepository) ListMovies(ctx context.Context, filter *entitlements.CatalogFilter, q ListQuery) ([]models.Movie, int64, error) {
	var movies []models.Movie
	order := q.orderBy(entitlements.MovieTarget.Table, newestFirst(entitlements.MovieTarget.Table)...)
	total, err := r.page(ctx, &models.Movie{}, &movies, q, order, filter.Scope(entitlements.MovieTarget))
	return movies, total, err
}

// ListTvShows retrieves one page of the TV shows the filter admits
func (r *catalogRepository) ListTvShows(ctx context.Context, filter *entitlements.CatalogFilter, q ListQuery) ([]models.TvShow, int64, error) {
	var shows []models.TvShow
	order := q.orderBy(entitlements.TvShowTarget.Table, newestFirst(entitlements.TvShowTarget.Table)...)
	total, err := r.page(ctx, &models.TvShow{}, &shows, q, order, filter.Scope(entitlements.TvShowTarget))
	return shows, total, err
}

// ListEpisodes retrieves one page of a show's episodes the filter admits, in
// season and episode order unless another sort is requested
func (r *catalogRepository) ListEpisodes(ctx context.Context, filter *entitlements.CatalogFilter, tvShowID uint, q ListQuery) ([]models.Episode, int64, error) {
	var episodes []models.Episode
	table := entitlements.EpisodeTarget.Table
	order := q.orderBy(table,
		clause.OrderByColumn{Column: clause.Column{Table: table, Name: "season_number"}},
		clause.OrderByColumn{Column: clause.Column{Table: table, Name: "episode_number"}},
		clause.OrderByColumn{Column: clause.Column{Table: table, Name: "id"}},
	)
	byShow := func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Table: table, Name: "tv_show_id"}, Value: tvShowID})
	}
	total, err := r.page(ctx, &models.Episode{}, &episodes, q, order, byShow, filter.Scope(entitlements.EpisodeTarget))
	return episodes, total, err
}

// GetMovie retrieves a movie with its allowed plans
func (r *catalogRepository) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.get(ctx, &movie, id); err != nil || movie.ID == 0 {
		return nil, err
	}
	return &movie, nil
}

// GetTvShow retrieves a TV show with its allowed plans
func (r *catalogRepository) GetTvShow(ctx context.Context, id uint) (*models.TvShow, error) {
	var show models.TvShow
	if err := r.get(ctx, &show, id); err != nil || show.ID == 0 {
		return nil, err
	}
	return &show, nil
}

// GetEpisode retrieves an episode with its allowed plans
func (r *catalogRepository) GetEpisode(ctx context.Context, id uint) (*models.Episode, error) {
	var episode models.Episode
	if err := r.get(ctx, &episode, id); err != nil || episode.ID == 0 {
		return nil, err
	}
	return &episode, nil
}

// get loads dest by primary key. A missing row leaves dest untouched.
func (r *catalogRepository) get(ctx context.Context, dest interface{}, id uint) error {
	err := r.db.WithContext(ctx).Preload("AllowedPlans").First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// page counts and fetches one page under the same scopes.
func (r *catalogRepository) page(ctx context.Context, model, dest interface{}, q ListQuery, order clause.OrderBy, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	base := r.db.WithContext(ctx).Model(model).Scopes(scopes...)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 || q.Offset() >= int(total) {
		return total, nil
	}

	err := base.Session(&gorm.Session{}).
		Preload("AllowedPlans").
		Clauses(order).
		Offset(q.Offset()).
		Limit(q.PerPage).
		Find(dest).Error
	return total, err
}

func newestFirst(table string) []clause.OrderByColumn {
	return []clause.OrderByColumn{
		{Column: clause.Column{Table: table, Name: "created_at"}, Desc: true},
		{Column: clause.Column{Table: table, Name: "id"}, Desc: true},
	}
}
