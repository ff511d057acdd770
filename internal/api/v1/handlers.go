package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/CineFox/app/controllers"
)

// APIServer implements the ServerInterface on top of the catalog controller.
type APIServer struct {
	catalog *controllers.CatalogController
}

// NewAPIServer creates a new API server instance
func NewAPIServer(catalog *controllers.CatalogController) *APIServer {
	return &APIServer{catalog: catalog}
}

var _ ServerInterface = (*APIServer)(nil)

func (s *APIServer) ListMovies(c *fiber.Ctx) error {
	return s.catalog.HandleListMovies(c)
}

// GetMovie delegates to the controller, which reads the id from the route params.
func (s *APIServer) GetMovie(c *fiber.Ctx, id uint) error {
	return s.catalog.HandleGetMovie(c)
}

func (s *APIServer) GetMovieAccess(c *fiber.Ctx, id uint) error {
	return s.catalog.HandleMovieAccess(c)
}

func (s *APIServer) ListTvShows(c *fiber.Ctx) error {
	return s.catalog.HandleListTvShows(c)
}

func (s *APIServer) GetTvShow(c *fiber.Ctx, id uint) error {
	return s.catalog.HandleGetTvShow(c)
}

func (s *APIServer) GetTvShowAccess(c *fiber.Ctx, id uint) error {
	return s.catalog.HandleTvShowAccess(c)
}

// ListTvShowEpisodes is gated by the show's own access rules.
func (s *APIServer) ListTvShowEpisodes(c *fiber.Ctx, id uint) error {
	return s.catalog.HandleListEpisodes(c)
}

func (s *APIServer) GetEpisode(c *fiber.Ctx, id uint) error {
	return s.catalog.HandleGetEpisode(c)
}

func (s *APIServer) GetEpisodeAccess(c *fiber.Ctx, id uint) error {
	return s.catalog.HandleEpisodeAccess(c)
}

// GetMyEntitlements expects the router to enforce a signed-in viewer.
func (s *APIServer) GetMyEntitlements(c *fiber.Ctx) error {
	return s.catalog.HandleGetMyEntitlements(c)
}
