package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/CineFox/app/controllers"
)

// Router registers a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the handlers and secrets the routers need.
type Dependencies struct {
	Catalog   *controllers.CatalogController
	JWTSecret []byte
	// MetricsUsers protects /metrics with basic auth when non-empty.
	MetricsUsers map[string]string
	// RateLimit is the number of API requests per client and minute; 0 disables the limiter.
	RateLimit int
	// RateLimitStorage shares limiter counters across instances; nil keeps them in memory.
	RateLimitStorage fiber.Storage
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// HttpRouter first: it installs the request id used by everything after it.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
