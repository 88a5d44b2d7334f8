// Package market serves the market-wide overview: global totals and the
// exchange directory.
package market

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"screener-api/internal/coingecko"
	"screener-api/internal/upstream"
)

const (
	defaultPerPage = 100
	maxPerPage     = 250
)

type Provider interface {
	Global(ctx context.Context) (coingecko.GlobalData, error)
	Exchanges(ctx context.Context, page, perPage int) (coingecko.Exchanges, error)
}

// Overview is the /api/global payload.
type Overview struct {
	TotalMarketCap     float64 `json:"total_market_cap"`
	TotalVolume        float64 `json:"total_volume"`
	MarketCapChange24h float64 `json:"market_cap_change_24h"`
	BTCDominance       float64 `json:"btc_dominance"`
	ETHDominance       float64 `json:"eth_dominance"`
	ActiveCoins        int     `json:"active_coins"`
}

func NewOverview(g coingecko.GlobalData) Overview {
	return Overview{
		TotalMarketCap:     g.TotalMarketCap["usd"].Float(),
		TotalVolume:        g.TotalVolume["usd"].Float(),
		MarketCapChange24h: g.MarketCapChangePercentage24hUSD.Float(),
		BTCDominance:       g.MarketCapPercentage["btc"].Float(),
		ETHDominance:       g.MarketCapPercentage["eth"].Float(),
		ActiveCoins:        g.ActiveCryptocurrencies.Int(),
	}
}

type Handler struct {
	p      Provider
	logger *zap.Logger
}

func NewHandler(p Provider, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{p: p, logger: logger.With(zap.String("component", "market"))}
}

func (h *Handler) Global(c *fiber.Ctx) error {
	g, err := h.p.Global(c.UserContext())
	if err != nil {
		if _, ok := upstream.IsStatus(err); ok {
			h.logger.Warn("global rate limited", zap.Error(err))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Rate limited"})
		}
		h.logger.Error("global failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return c.JSON(NewOverview(g))
}

// Exchanges passes the provider's exchange page through and mirrors an
// upstream error status.
func (h *Handler) Exchanges(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	raw, err := h.p.Exchanges(c.UserContext(), page, perPage)
	if err != nil {
		if se, ok := upstream.IsStatus(err); ok {
			h.logger.Warn("exchanges upstream error", zap.Int("status", se.StatusCode))
			return c.Status(se.StatusCode).JSON(fiber.Map{"error": "CoinGecko API error"})
		}
		h.logger.Error("exchanges failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	if len(raw) == 0 {
		raw = coingecko.Exchanges("[]")
	}
	return c.JSON(fiber.Map{"exchanges": raw, "page": page, "per_page": perPage})
}
