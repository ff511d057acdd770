package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/ManuelReschke/CineFox/internal/pkg/constants"
	"github.com/ManuelReschke/CineFox/internal/pkg/metrics"
	"github.com/ManuelReschke/CineFox/internal/pkg/usercontext"
)

type HttpRouter struct {
	metricsUsers map[string]string
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: usercontext.KeyRequestID,
	}))

	app.Get(constants.HealthRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if len(h.metricsUsers) > 0 {
		app.Get(constants.MetricsRoute, basicauth.New(basicauth.Config{Users: h.metricsUsers}), metrics.Handler())
	} else {
		app.Get(constants.MetricsRoute, metrics.Handler())
	}
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{metricsUsers: deps.MetricsUsers}
}
