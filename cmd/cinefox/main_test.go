package main

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/CineFox/internal/pkg/logging"
)

func TestMountAPIDocs(t *testing.T) {
	app := fiber.New()
	mountAPIDocs(app, "../../public/docs/v1/openapi.yml", logging.Discard())

	resp, err := app.Test(httptest.NewRequest("GET", "/docs/api/v1", nil))
	require.NoError(t, err)
	assert.NotEqual(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMountAPIDocsMissingFile(t *testing.T) {
	app := fiber.New()
	assert.NotPanics(t, func() {
		mountAPIDocs(app, "does-not-exist.yml", logging.Discard())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/docs/api/v1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRateLimitFromEnv(t *testing.T) {
	t.Setenv("API_RATE_LIMIT", "30")
	assert.Equal(t, 30, rateLimit(logging.Discard()))

	t.Setenv("API_RATE_LIMIT", "lots")
	assert.Equal(t, 0, rateLimit(logging.Discard()))
}

func TestJWTSecretEmpty(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Nil(t, jwtSecret(logging.Discard()))

	t.Setenv("JWT_SECRET", "s3cret")
	assert.Equal(t, []byte("s3cret"), jwtSecret(logging.Discard()))
}
