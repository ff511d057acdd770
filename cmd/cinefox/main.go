package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/app/controllers"
	"github.com/ManuelReschke/CineFox/app/models"
	"github.com/ManuelReschke/CineFox/app/repository"
	apiv1 "github.com/ManuelReschke/CineFox/internal/api/v1"
	"github.com/ManuelReschke/CineFox/internal/pkg/cache"
	"github.com/ManuelReschke/CineFox/internal/pkg/database"
	"github.com/ManuelReschke/CineFox/internal/pkg/entitlements"
	"github.com/ManuelReschke/CineFox/internal/pkg/env"
	"github.com/ManuelReschke/CineFox/internal/pkg/logging"
	"github.com/ManuelReschke/CineFox/internal/pkg/router"
)

func main() {
	env.SetupEnvFile()
	log := logging.NewLogger("cinefox")

	app := NewApplication()
	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	log.WithField("addr", addr).Info("listening")
	log.Fatal(app.Listen(addr))
}

func NewApplication() *fiber.App {
	log := logging.NewLogger("cinefox")

	database.SetupDatabase(log)
	cache.SetupCache(log)

	db := database.GetDB()
	defaults := models.DefaultAppSettings(env.GetEnvBool("ACCESS_CONTROL_DISABLED", false))
	if err := models.LoadSettings(db, defaults); err != nil {
		log.WithError(err).Warn("failed to load settings, using defaults")
		models.SetAppSettings(defaults)
	}
	if models.GetAppSettings().AccessControlDisabled() {
		log.Warn("access control is disabled: every item is granted to every viewer")
	}

	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()
	go watchAccessControl(context.Background(), repos.Setting,
		env.GetEnvDuration("SETTINGS_REFRESH_INTERVAL", 30*time.Second), log)

	resolver := entitlements.NewResolver(repos.EntitlementStores(), entitlements.Config{
		KillSwitch: entitlements.KillSwitchFunc(func() bool {
			return models.GetAppSettings().AccessControlDisabled()
		}),
		Timeout:      env.GetEnvDuration("ENTITLEMENT_TIMEOUT", entitlements.DefaultTimeout),
		PlanCache:    cache.GetClient(),
		PlanCacheTTL: env.GetEnvDuration("PLAN_CACHE_TTL", entitlements.DefaultPlanCacheTTL),
		Logger:       logging.NewLogger("entitlements"),
	})

	app := fiber.New(fiber.Config{
		AppName: "CineFox",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	mountAPIDocs(app, env.GetEnv("OPENAPI_FILE", apiv1.DefaultSpecFile), log)

	router.InstallRouter(app, router.Dependencies{
		Catalog:          controllers.NewCatalogController(repos.Catalog, resolver, logging.NewLogger("catalog")),
		JWTSecret:        jwtSecret(log),
		MetricsUsers:     metricsUsers(),
		RateLimit:        rateLimit(log),
		RateLimitStorage: cache.NewLimiterStorage(log),
	})

	return app
}

// mountAPIDocs serves the Swagger UI under /docs/api/v1 when the document
// loads and validates. swagger.New panics on a missing file.
func mountAPIDocs(app *fiber.App, specFile string, log *logrus.Entry) {
	if _, err := apiv1.LoadSpec(specFile); err != nil {
		log.WithError(err).WithField("file", specFile).Warn("API docs disabled")
		return
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: specFile,
		Path:     "v1",
		Title:    "CineFox API",
	}))
}

// watchAccessControl polls the kill-switch row so toggling it takes effect
// without a restart.
func watchAccessControl(ctx context.Context, settings repository.SettingRepository, every time.Duration, log *logrus.Entry) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := repository.RefreshAccessControl(ctx, settings)
			if err != nil {
				log.WithError(err).Warn("failed to refresh access control setting")
				continue
			}
			if changed {
				log.WithField("disabled", models.GetAppSettings().AccessControlDisabled()).Warn("access control setting changed")
			}
		}
	}
}

// jwtSecret reads JWT_SECRET. Without it the API still serves anonymous
// viewers but rejects every bearer token.
func jwtSecret(log *logrus.Entry) []byte {
	secret := env.GetEnv("JWT_SECRET", "")
	if secret == "" {
		log.Warn("JWT_SECRET is empty: bearer tokens are rejected, only anonymous access works")
		return nil
	}
	return []byte(secret)
}

func metricsUsers() map[string]string {
	user := env.GetEnv("METRICS_USER", "")
	if user == "" {
		return nil
	}
	return map[string]string{user: env.GetEnv("METRICS_PASSWORD", "")}
}

func rateLimit(log *logrus.Entry) int {
	raw := env.GetEnv("API_RATE_LIMIT", "120")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Warnf("invalid API_RATE_LIMIT %q, limiter disabled", raw)
		return 0
	}
	return n
}
