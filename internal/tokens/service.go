package tokens

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"screener-api/internal/coingecko"
	"screener-api/internal/dexscreener"
	"screener-api/internal/upstream"
)

type View string

const (
	ViewTop      View = "top"
	ViewTrending View = "trending"
	ViewGainers  View = "gainers"
	ViewLosers   View = "losers"
	ViewNew      View = "new"
	ViewSearch   View = "search"
	ViewNone     View = ""
)

// ParseView maps a query value to a View. Unknown values are ViewNone.
func ParseView(s string) View {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewTop, ViewTrending, ViewGainers, ViewLosers, ViewNew, ViewSearch:
		return v
	}
	return ViewNone
}

const (
	SourceCoinGecko   = coingecko.Provider
	SourceDexScreener = dexscreener.Provider
	SourceMixed       = "mixed"
	SourceNone        = "none"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 100
	MaxPerPage     = coingecko.MaxPerPage

	TrendingLimit = 50
	NewLimit      = 50
	SearchLimit   = 50
	DexLimit      = 50

	searchLegLimit    = 20
	boostScanLimit    = 30
	boostAddressLimit = 10
)

var (
	// ErrRateLimited marks a failed call on a path with no fallback source.
	ErrRateLimited = errors.New("upstream rate limited")
	ErrUpstream    = errors.New("upstream unavailable")
	ErrNotFound    = errors.New("not found")
)

// RankedProvider is the ranked-markets side (CoinGecko).
type RankedProvider interface {
	Markets(ctx context.Context, p coingecko.MarketsParams) ([]coingecko.Market, error)
	Trending(ctx context.Context) (coingecko.TrendingResponse, error)
	Search(ctx context.Context, query string) (coingecko.SearchResponse, error)
	Coin(ctx context.Context, id string) (coingecko.Coin, error)
}

// DexProvider is the DEX pair side (DexScreener).
type DexProvider interface {
	Search(ctx context.Context, query string) ([]dexscreener.Pair, error)
	LatestBoosts(ctx context.Context) ([]dexscreener.Boost, error)
	TokenPairs(ctx context.Context, addresses []string) ([]dexscreener.Pair, error)
	Pair(ctx context.Context, chainID, pairAddress string) (*dexscreener.Pair, error)
}

type Request struct {
	View    View
	Query   string
	Chain   string
	Page    int
	PerPage int
	Sort    string
}

func (r Request) normalized() Request {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage > MaxPerPage {
		r.PerPage = MaxPerPage
	}
	if r.Chain == "" {
		r.Chain = AllChains
	}
	r.Query = strings.TrimSpace(r.Query)
	return r
}

type Result struct {
	Tokens []Token
	Source string
}

func empty(source string) Result { return Result{Tokens: []Token{}, Source: source} }

// Service routes a view to provider calls and merges the answers into one
// canonical list. Every call except the ranked listing degrades to an
// empty contribution on failure.
type Service struct {
	ranked RankedProvider
	dex    DexProvider
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used for pair age.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(ranked RankedProvider, dex DexProvider, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		ranked: ranked,
		dex:    dex,
		logger: logger.With(zap.String("component", "tokens")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Tokens(ctx context.Context, req Request) (Result, error) {
	req = req.normalized()
	switch req.View {
	case ViewTop, ViewGainers, ViewLosers:
		return s.markets(ctx, req)
	case ViewTrending:
		return s.trending(ctx, req), nil
	case ViewNew:
		return s.newPairs(ctx, req), nil
	case ViewSearch:
		if req.Query == "" {
			return empty(SourceNone), nil
		}
		return s.search(ctx, req), nil
	default:
		return empty(SourceNone), nil
	}
}

// markets serves top, gainers and losers from one market-cap ordered page.
// gainers/losers re-sort only that page.
func (s *Service) markets(ctx context.Context, req Request) (Result, error) {
	order := coingecko.DefaultOrder
	if req.View == ViewTop && coingecko.Orders[req.Sort] {
		order = req.Sort
	}
	markets, err := s.ranked.Markets(ctx, coingecko.MarketsParams{Page: req.Page, PerPage: req.PerPage, Order: order})
	if err != nil {
		if _, ok := upstream.IsStatus(err); ok {
			return empty(SourceCoinGecko), fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return empty(SourceCoinGecko), fmt.Errorf("markets: %w", err)
	}

	list := make([]Token, 0, len(markets))
	for _, m := range markets {
		list = append(list, FromMarket(m))
	}
	list = Finalize(list, req.Chain, req.PerPage)
	switch req.View {
	case ViewGainers:
		SortByChange24h(list, true)
	case ViewLosers:
		SortByChange24h(list, false)
	}
	return Result{Tokens: list, Source: SourceCoinGecko}, nil
}

func (s *Service) trending(ctx context.Context, req Request) Result {
	resp, err := s.ranked.Trending(ctx)
	if err != nil {
		s.degraded("trending", err)
		return empty(SourceCoinGecko)
	}
	list := make([]Token, 0, len(resp.Coins))
	for _, c := range resp.Coins {
		list = append(list, FromTrending(c.Item))
	}
	return Result{Tokens: Finalize(list, req.Chain, TrendingLimit), Source: SourceCoinGecko}
}

func (s *Service) newPairs(ctx context.Context, req Request) Result {
	list, err := s.boostedPairs(ctx)
	if err != nil {
		s.degraded("boosts", err)
		return empty(SourceDexScreener)
	}
	list = Finalize(list, req.Chain, NewLimit)
	Annotate(list, s.now())
	return Result{Tokens: list, Source: SourceDexScreener}
}

// boostedPairs resolves the boosted feed into pairs. Only a feed failure is
// returned; a failed pair lookup yields an empty list.
func (s *Service) boostedPairs(ctx context.Context) ([]Token, error) {
	boosts, err := s.dex.LatestBoosts(ctx)
	if err != nil {
		return nil, err
	}
	if len(boosts) > boostScanLimit {
		boosts = boosts[:boostScanLimit]
	}

	seen := make(map[string]struct{})
	addresses := make([]string, 0, boostAddressLimit)
	for _, b := range boosts {
		if b.TokenAddress == "" {
			continue
		}
		if _, ok := seen[b.TokenAddress]; ok {
			continue
		}
		seen[b.TokenAddress] = struct{}{}
		addresses = append(addresses, b.TokenAddress)
		if len(addresses) == boostAddressLimit {
			break
		}
	}
	if len(addresses) == 0 {
		return nil, nil
	}

	pairs, err := s.dex.TokenPairs(ctx, addresses)
	if err != nil {
		s.degraded("tokens", err)
		return nil, nil
	}
	return fromPairs(pairs, -1), nil
}

// search fans out to both providers and waits for both legs to settle.
func (s *Service) search(ctx context.Context, req Request) Result {
	var ranked, dex []Token
	var g errgroup.Group
	g.Go(func() error {
		ranked = s.searchRanked(ctx, req.Query)
		return nil
	})
	g.Go(func() error {
		dex = s.searchDex(ctx, req.Query, searchLegLimit)
		return nil
	})
	_ = g.Wait()

	list := make([]Token, 0, len(ranked)+len(dex))
	list = append(list, ranked...)
	list = append(list, dex...)
	list = Finalize(list, req.Chain, SearchLimit)
	Annotate(list, s.now())
	return Result{Tokens: list, Source: SourceMixed}
}

func (s *Service) searchRanked(ctx context.Context, query string) []Token {
	resp, err := s.ranked.Search(ctx, query)
	if err != nil {
		s.degraded("search", err)
		return nil
	}
	ids := make([]string, 0, searchLegLimit)
	for _, c := range resp.Coins {
		if c.ID == "" {
			continue
		}
		ids = append(ids, c.ID)
		if len(ids) == searchLegLimit {
			break
		}
	}
	if len(ids) == 0 {
		return nil
	}

	markets, err := s.ranked.Markets(ctx, coingecko.MarketsParams{IDs: ids})
	if err != nil {
		s.degraded("markets", err)
		return nil
	}
	list := make([]Token, 0, len(markets))
	for _, m := range markets {
		list = append(list, FromMarket(m))
	}
	return list
}

func (s *Service) searchDex(ctx context.Context, query string, limit int) []Token {
	pairs, err := s.dex.Search(ctx, query)
	if err != nil {
		s.degraded("dex search", err)
		return nil
	}
	return fromPairs(pairs, limit)
}

type DexRequest struct {
	Chain string
	Query string
}

// Dex serves the DEX screener: pair search when a query is set, the boosted
// feed otherwise. The boosted feed has no fallback, so its upstream status
// failure is reported as ErrRateLimited.
func (s *Service) Dex(ctx context.Context, req DexRequest) (Result, error) {
	chain := req.Chain
	if chain == "" {
		chain = AllChains
	}

	var list []Token
	if q := strings.TrimSpace(req.Query); q != "" {
		list = s.searchDex(ctx, q, -1)
	} else {
		var err error
		list, err = s.boostedPairs(ctx)
		if err != nil {
			if _, ok := upstream.IsStatus(err); ok {
				return empty(SourceDexScreener), fmt.Errorf("%w: %w", ErrRateLimited, err)
			}
			return empty(SourceDexScreener), fmt.Errorf("boosts: %w", err)
		}
	}

	list = Finalize(list, chain, DexLimit)
	Annotate(list, s.now())
	return Result{Tokens: list, Source: SourceDexScreener}, nil
}

// Pair looks up and scores a single DEX pair.
func (s *Service) Pair(ctx context.Context, chainID, pairAddress string) (Token, error) {
	p, err := s.dex.Pair(ctx, chainID, pairAddress)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if p == nil {
		return Token{}, ErrNotFound
	}
	list := []Token{FromPair(*p)}
	Annotate(list, s.now())
	return list[0], nil
}

// Coin returns the ranked-listing detail record for a provider coin id.
func (s *Service) Coin(ctx context.Context, id string) (Token, error) {
	c, err := s.ranked.Coin(ctx, id)
	if err != nil {
		if se, ok := upstream.IsStatus(err); ok && se.StatusCode == http.StatusNotFound {
			return Token{}, ErrNotFound
		}
		return Token{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if c.ID == "" {
		return Token{}, ErrNotFound
	}
	return FromCoin(c), nil
}

func (s *Service) degraded(call string, err error) {
	s.logger.Warn("upstream call failed, degrading to empty", zap.String("call", call), zap.Error(err))
}

func fromPairs(pairs []dexscreener.Pair, limit int) []Token {
	if limit >= 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	list := make([]Token, 0, len(pairs))
	for _, p := range pairs {
		list = append(list, FromPair(p))
	}
	return list
}
