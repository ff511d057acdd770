package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/CineFox/app/controllers"
	apiv1 "github.com/ManuelReschke/CineFox/internal/api/v1"
	"github.com/ManuelReschke/CineFox/internal/pkg/constants"
	"github.com/ManuelReschke/CineFox/internal/pkg/middleware"
)

type ApiRouter struct {
	catalog   *controllers.CatalogController
	jwtSecret []byte
	rateLimit int
	storage   fiber.Storage
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	handlers := []fiber.Handler{}
	if h.rateLimit > 0 {
		handlers = append(handlers, limiter.New(limiter.Config{
			Max:        h.rateLimit,
			Expiration: time.Minute,
			Storage:    h.storage,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_requests", "message": "Rate limit exceeded"})
			},
		}))
	}
	handlers = append(handlers, middleware.BearerAuthMiddleware(h.jwtSecret))

	api := app.Group(constants.APIRoute, handlers...)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	v1.Use("/me", middleware.RequireViewer)
	apiv1.RegisterHandlers(v1, apiv1.NewAPIServer(h.catalog))
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{
		catalog:   deps.Catalog,
		jwtSecret: deps.JWTSecret,
		rateLimit: deps.RateLimit,
		storage:   deps.RateLimitStorage,
	}
}
