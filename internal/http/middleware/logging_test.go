package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"screener-api/internal/observability"
)

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := observability.NewMetrics("test")

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(RequestLog(zap.New(core), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "bad" {
			return fiber.NewError(fiber.StatusBadRequest, "bad id")
		}
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/items/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/items/:id", "400")))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "/items/bad", entries[1].ContextMap()["path"])
}

func TestRequestLog_NilDeps(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(RequestLog(nil, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
