package tokens

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgRateLimited    = "Rate limited, try again in 30s"
	msgDexRateLimited = "Rate limited"
	msgServerError    = "Server error"
)

// ListResponse is the /api/tokens payload.
type ListResponse struct {
	Tokens []Token `json:"tokens"`
	Source string  `json:"source"`
	View   string  `json:"view"`
	Page   int     `json:"page"`
	Chain  string  `json:"chain"`
	Error  string  `json:"error,omitempty"`
}

type DexResponse struct {
	Tokens []Token `json:"tokens"`
	Source string  `json:"source"`
	Chain  string  `json:"chain"`
	Error  string  `json:"error,omitempty"`
}

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// ParseRequest reads the listing query parameters.
func ParseRequest(c *fiber.Ctx) Request {
	return Request{
		View:    ParseView(c.Query("view")),
		Query:   c.Query("q"),
		Chain:   c.Query("chain", AllChains),
		Page:    c.QueryInt("page", DefaultPage),
		PerPage: c.QueryInt("per_page", DefaultPerPage),
		Sort:    c.Query("sort"),
	}.normalized()
}

func (h *Handler) List(c *fiber.Ctx) error {
	req := ParseRequest(c)
	out := ListResponse{
		View:  strings.ToLower(c.Query("view")),
		Page:  req.Page,
		Chain: req.Chain,
	}

	res, err := h.svc.Tokens(c.UserContext(), req)
	out.Tokens, out.Source = nonNil(res.Tokens), res.Source
	switch {
	case err == nil:
		return c.JSON(out)
	case errors.Is(err, ErrRateLimited):
		h.logger.Warn("ranked listing rate limited", zap.String("view", out.View), zap.Error(err))
		out.Error = msgRateLimited
		return c.Status(fiber.StatusTooManyRequests).JSON(out)
	default:
		h.logger.Error("listing failed", zap.String("view", out.View), zap.Error(err))
		out.Tokens = []Token{}
		out.Error = msgServerError
		return c.Status(fiber.StatusInternalServerError).JSON(out)
	}
}

func (h *Handler) GetOne(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "id required")
	}
	t, err := h.svc.Coin(c.UserContext(), id)
	return h.single(c, t, err)
}

func (h *Handler) Dex(c *fiber.Ctx) error {
	req := DexRequest{Chain: c.Query("chain", AllChains), Query: c.Query("q")}
	res, err := h.svc.Dex(c.UserContext(), req)
	out := DexResponse{Tokens: nonNil(res.Tokens), Source: SourceDexScreener, Chain: req.Chain}
	switch {
	case err == nil:
		return c.JSON(out)
	case errors.Is(err, ErrRateLimited):
		h.logger.Warn("boosted feed rate limited", zap.Error(err))
		out.Error = msgDexRateLimited
		return c.Status(fiber.StatusTooManyRequests).JSON(out)
	default:
		h.logger.Error("dex listing failed", zap.Error(err))
		out.Error = msgServerError
		return c.Status(fiber.StatusInternalServerError).JSON(out)
	}
}

func (h *Handler) DexPair(c *fiber.Ctx) error {
	chain, addr := c.Params("chain"), c.Params("address")
	if chain == "" || addr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "chain and address required")
	}
	t, err := h.svc.Pair(c.UserContext(), chain, addr)
	return h.single(c, t, err)
}

func (h *Handler) single(c *fiber.Ctx, t Token, err error) error {
	switch {
	case err == nil:
		return c.JSON(t)
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	default:
		h.logger.Error("lookup failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream unavailable"})
	}
}

func nonNil(list []Token) []Token {
	if list == nil {
		return []Token{}
	}
	return list
}
