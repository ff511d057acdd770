package apiv1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers of public/docs/v1/openapi.yml.
type ServerInterface interface {
	// List the movies the viewer may see
	// (GET /movies)
	ListMovies(c *fiber.Ctx) error
	// Get a movie the viewer may access
	// (GET /movies/{id})
	GetMovie(c *fiber.Ctx, id uint) error
	// Report whether the viewer may access a movie
	// (GET /movies/{id}/access)
	GetMovieAccess(c *fiber.Ctx, id uint) error
	// List the TV shows the viewer may see
	// (GET /tvshows)
	ListTvShows(c *fiber.Ctx) error
	// Get a TV show the viewer may access
	// (GET /tvshows/{id})
	GetTvShow(c *fiber.Ctx, id uint) error
	// Report whether the viewer may access a TV show
	// (GET /tvshows/{id}/access)
	GetTvShowAccess(c *fiber.Ctx, id uint) error
	// List the episodes of a TV show the viewer may see
	// (GET /tvshows/{id}/episodes)
	ListTvShowEpisodes(c *fiber.Ctx, id uint) error
	// Get an episode the viewer may access
	// (GET /episodes/{id})
	GetEpisode(c *fiber.Ctx, id uint) error
	// Report whether the viewer may access an episode
	// (GET /episodes/{id}/access)
	GetEpisodeAccess(c *fiber.Ctx, id uint) error
	// Facts the viewer's entitlement decisions are based on
	// (GET /me/entitlements)
	GetMyEntitlements(c *fiber.Ctx) error
}

// ServerInterfaceWrapper converts path parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

type idHandler func(c *fiber.Ctx, id uint) error

func (siw *ServerInterfaceWrapper) withID(h idHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "bad_request",
				"message": "Invalid id",
			})
		}
		return h(c, uint(id))
	}
}

// Route is one registered operation.
type Route struct {
	Method string
	Path   string
}

// Routes lists every operation RegisterHandlers installs, with fiber path syntax.
func Routes() []Route {
	return []Route{
		{fiber.MethodGet, "/movies"},
		{fiber.MethodGet, "/movies/:id"},
		{fiber.MethodGet, "/movies/:id/access"},
		{fiber.MethodGet, "/tvshows"},
		{fiber.MethodGet, "/tvshows/:id"},
		{fiber.MethodGet, "/tvshows/:id/access"},
		{fiber.MethodGet, "/tvshows/:id/episodes"},
		{fiber.MethodGet, "/episodes/:id"},
		{fiber.MethodGet, "/episodes/:id/access"},
		{fiber.MethodGet, "/me/entitlements"},
	}
}

// RegisterHandlers creates the routes for every operation on router.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.Get("/movies", si.ListMovies)
	router.Get("/movies/:id", wrapper.withID(si.GetMovie))
	router.Get("/movies/:id/access", wrapper.withID(si.GetMovieAccess))

	router.Get("/tvshows", si.ListTvShows)
	router.Get("/tvshows/:id", wrapper.withID(si.GetTvShow))
	router.Get("/tvshows/:id/access", wrapper.withID(si.GetTvShowAccess))
	router.Get("/tvshows/:id/episodes", wrapper.withID(si.ListTvShowEpisodes))

	router.Get("/episodes/:id", wrapper.withID(si.GetEpisode))
	router.Get("/episodes/:id/access", wrapper.withID(si.GetEpisodeAccess))

	router.Get("/me/entitlements", si.GetMyEntitlements)
}
