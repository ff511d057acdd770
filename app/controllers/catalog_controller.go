package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/app/repository"
	"github.com/ManuelReschke/CineFox/internal/pkg/entitlements"
	"github.com/ManuelReschke/CineFox/internal/pkg/usercontext"
)

// Entitlements is the part of the entitlement resolver the catalog API uses.
type Entitlements interface {
	CheckContent(ctx context.Context, viewerID uint, c models.Content) (bool, error)
	BuildCatalogFilter(ctx context.Context, viewerID uint) (*entitlements.CatalogFilter, error)
	LoadViewerFacts(ctx context.Context, viewerID uint) (entitlements.ViewerFacts, error)
}

// CatalogController serves movies, TV shows and episodes filtered by what the
// viewer is entitled to.
type CatalogController struct {
	catalog repository.CatalogRepository
	access  Entitlements
	log     *logrus.Entry
}

func NewCatalogController(catalog repository.CatalogRepository, access Entitlements, log *logrus.Entry) *CatalogController {
	return &CatalogController{catalog: catalog, access: access, log: log}
}

type contentLoader func(ctx context.Context, id uint) (models.Content, error)

// HandleListMovies returns one page of the movies the viewer may see
func (cc *CatalogController) HandleListMovies(c *fiber.Ctx) error {
	q, filter, err := cc.listParams(c)
	if err != nil {
		return writeError(c, err)
	}
	movies, total, err := cc.catalog.ListMovies(c.UserContext(), filter, q)
	if err != nil {
		return writeError(c, cc.fail(c, err, "Failed to load movies"))
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return c.JSON(listResponse(movies, total, q))
}

// HandleListTvShows returns one page of the TV shows the viewer may see
func (cc *CatalogController) HandleListTvShows(c *fiber.Ctx) error {
	q, filter, err := cc.listParams(c)
	if err != nil {
		return writeError(c, err)
	}
	shows, total, err := cc.catalog.ListTvShows(c.UserContext(), filter, q)
	if err != nil {
		return writeError(c, cc.fail(c, err, "Failed to load TV shows"))
	}
	if shows == nil {
		shows = []models.TvShow{}
	}
	return c.JSON(listResponse(shows, total, q))
}

// HandleListEpisodes returns one page of a TV show's episodes the viewer may see.
// The show's own rules gate the listing; each episode is then filtered by its own.
func (cc *CatalogController) HandleListEpisodes(c *fiber.Ctx) error {
	show, allowed, err := cc.decide(c, cc.loadTvShow)
	if err != nil {
		return writeError(c, err)
	}
	if !allowed {
		return forbidden(c, show)
	}
	showID := show.ContentID()

	q, filter, err := cc.listParams(c)
	if err != nil {
		return writeError(c, err)
	}
	episodes, total, err := cc.catalog.ListEpisodes(c.UserContext(), filter, showID, q)
	if err != nil {
		return writeError(c, cc.fail(c, err, "Failed to load episodes"))
	}
	if episodes == nil {
		episodes = []models.Episode{}
	}
	return c.JSON(listResponse(episodes, total, q))
}

func (cc *CatalogController) HandleGetMovie(c *fiber.Ctx) error {
	return cc.detail(c, cc.loadMovie)
}

func (cc *CatalogController) HandleGetTvShow(c *fiber.Ctx) error {
	return cc.detail(c, cc.loadTvShow)
}

func (cc *CatalogController) HandleGetEpisode(c *fiber.Ctx) error {
	return cc.detail(c, cc.loadEpisode)
}

func (cc *CatalogController) HandleMovieAccess(c *fiber.Ctx) error {
	return cc.accessDecision(c, cc.loadMovie)
}

func (cc *CatalogController) HandleTvShowAccess(c *fiber.Ctx) error {
	return cc.accessDecision(c, cc.loadTvShow)
}

func (cc *CatalogController) HandleEpisodeAccess(c *fiber.Ctx) error {
	return cc.accessDecision(c, cc.loadEpisode)
}

// HandleGetMyEntitlements returns the facts entitlement decisions are based on
// for the authenticated viewer.
func (cc *CatalogController) HandleGetMyEntitlements(c *fiber.Ctx) error {
	viewerID := usercontext.GetUserID(c)
	facts, err := cc.access.LoadViewerFacts(c.UserContext(), viewerID)
	if err != nil {
		return writeError(c, cc.fail(c, err, "Failed to load entitlements"))
	}
	if !facts.Found {
		return writeError(c, fiber.NewError(fiber.StatusNotFound, "User not found"))
	}
	return c.JSON(facts)
}

// detail returns the item when the viewer may access it: 404 when it does not
// exist, 403 when access is denied.
func (cc *CatalogController) detail(c *fiber.Ctx, load contentLoader) error {
	item, allowed, err := cc.decide(c, load)
	if err != nil {
		return writeError(c, err)
	}
	if !allowed {
		return forbidden(c, item)
	}
	return c.JSON(item)
}

func forbidden(c *fiber.Ctx, item models.Content) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":       "forbidden",
		"message":     "Access to this content requires an entitlement",
		"access_type": item.ContentAccessType(),
	})
}

// accessDecision reports the decision without returning the item.
func (cc *CatalogController) accessDecision(c *fiber.Ctx, load contentLoader) error {
	item, allowed, err := cc.decide(c, load)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"type":        item.ContentType(),
		"id":          item.ContentID(),
		"access_type": item.ContentAccessType(),
		"allowed":     allowed,
	})
}

// decide loads the item and checks access.
func (cc *CatalogController) decide(c *fiber.Ctx, load contentLoader) (models.Content, bool, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, false, err
	}
	item, err := load(c.UserContext(), id)
	if err != nil {
		return nil, false, cc.fail(c, err, "Failed to load content")
	}
	if item == nil {
		return nil, false, fiber.NewError(fiber.StatusNotFound, "Content not found")
	}
	allowed, err := cc.access.CheckContent(c.UserContext(), usercontext.GetUserID(c), item)
	if err != nil {
		return nil, false, cc.fail(c, err, "Failed to check access")
	}
	return item, allowed, nil
}

func (cc *CatalogController) listParams(c *fiber.Ctx) (repository.ListQuery, *entitlements.CatalogFilter, error) {
	var q repository.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return q, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return q, nil, fiber.NewError(fiber.StatusBadRequest, "page must be >= 1, per_page 1-100, sort one of newest, oldest, title, rating")
	}
	filter, err := cc.access.BuildCatalogFilter(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return q, nil, cc.fail(c, err, "Failed to build catalog filter")
	}
	return q, filter, nil
}

// fail logs err and maps it to 503 for store outages, 500 otherwise. A failed
// lookup is never reported as a denial.
func (cc *CatalogController) fail(c *fiber.Ctx, err error, message string) *fiber.Error {
	cc.log.WithError(err).WithFields(logrus.Fields{
		"path":       c.Path(),
		"viewer_id":  usercontext.GetUserID(c),
		"request_id": usercontext.GetRequestID(c),
	}).Error(message)
	if errors.Is(err, entitlements.ErrStoreUnavailable) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Entitlements are temporarily unavailable, please retry")
	}
	return fiber.NewError(fiber.StatusInternalServerError, message)
}

func (cc *CatalogController) loadMovie(ctx context.Context, id uint) (models.Content, error) {
	m, err := cc.catalog.GetMovie(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return m, nil
}

func (cc *CatalogController) loadTvShow(ctx context.Context, id uint) (models.Content, error) {
	s, err := cc.catalog.GetTvShow(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return s, nil
}

func (cc *CatalogController) loadEpisode(ctx context.Context, id uint) (models.Content, error) {
	e, err := cc.catalog.GetEpisode(ctx, id)
	if err != nil || e == nil {
		return nil, err
	}
	return e, nil
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}

func listResponse(data interface{}, total int64, q repository.ListQuery) fiber.Map {
	return fiber.Map{
		"data": data,
		"meta": fiber.Map{
			"page":     q.Page,
			"per_page": q.PerPage,
			"sort":     q.Sort,
			"total":    total,
		},
	}
}

// writeError renders a *fiber.Error as the JSON error body used across the API.
func writeError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		fe = fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return c.Status(fe.Code).JSON(fiber.Map{"error": errorCode(fe.Code), "message": fe.Message})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusTooManyRequests:
		return "too_many_requests"
	case fiber.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "internal_server_error"
	}
}
