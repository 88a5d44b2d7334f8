package http

import (
	"screener-api/internal/config"
	mid "screener-api/internal/http/middleware"
	"screener-api/internal/market"
	"screener-api/internal/observability"
	red "screener-api/internal/redis"
	"screener-api/internal/tokens"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the collaborators the server routes to. Redis is nil when the
// response cache is disabled.
type Deps struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Redis   *redis.Client
	Tokens  *tokens.Service
	Market  market.Provider
}

type Server struct{ *fiber.App }

func NewServer(cfg config.Config, d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "screener-api",
		ErrorHandler:          errorHandler(logger.Named("http")),
	})
	// request log wraps recover so panics are logged and counted as 500s
	app.Use(mid.RequestLog(logger.Named("http"), d.Metrics))
	app.Use(recover.New())

	// liveness & readiness
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/readyz", func(c *fiber.Ctx) error {
		if cfg.CacheEnabled && d.Redis != nil {
			if err := red.Ping(c.UserContext(), d.Redis); err != nil {
				return fiber.NewError(fiber.StatusServiceUnavailable, "redis not ready")
			}
		}
		return c.SendString("ready")
	})
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	api := app.Group("/api")

	tokensH := tokens.NewHandler(d.Tokens, logger)
	api.Get("/tokens", tokensH.List)
	api.Get("/tokens/:id", tokensH.GetOne)
	api.Get("/dex", tokensH.Dex)
	api.Get("/dex/pairs/:chain/:address", tokensH.DexPair)

	marketH := market.NewHandler(d.Market, logger)
	api.Get("/global", marketH.Global)
	api.Get("/exchanges", marketH.Exchanges)

	return &Server{app}
}
