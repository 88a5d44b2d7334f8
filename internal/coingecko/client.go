// Package coingecko is a client for the CoinGecko public REST API: ranked
// markets, trending, search, global statistics, exchanges and coin detail.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"screener-api/internal/upstream"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	Provider       = "coingecko"

	DefaultOrder = "market_cap_desc"
	MaxPerPage   = 250
)

// Cache lifetimes per endpoint.
const (
	marketsTTL   = 60 * time.Second
	trendingTTL  = 120 * time.Second
	searchTTL    = 30 * time.Second
	globalTTL    = 120 * time.Second
	exchangesTTL = 300 * time.Second
	coinTTL      = 60 * time.Second
)

// Orders accepted by /coins/markets.
var Orders = map[string]bool{
	"market_cap_desc": true,
	"market_cap_asc":  true,
	"volume_desc":     true,
	"volume_asc":      true,
	"id_asc":          true,
	"id_desc":         true,
}

type Client struct {
	baseURL string
	fetcher upstream.Fetcher
}

func NewClient(baseURL string, f upstream.Fetcher) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), fetcher: f}
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, ttl time.Duration, out interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	body, err := c.fetcher.Fetch(ctx, upstream.Request{Provider: Provider, Endpoint: endpoint, URL: u, TTL: ttl})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", Provider, endpoint, err)
	}
	return nil
}

// Markets lists /coins/markets in USD with 1h/24h/7d change and sparkline.
// When IDs is set the page parameters are ignored.
func (c *Client) Markets(ctx context.Context, p MarketsParams) ([]Market, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("sparkline", "true")
	q.Set("price_change_percentage", "1h,24h,7d")
	if len(p.IDs) > 0 {
		q.Set("ids", strings.Join(p.IDs, ","))
	} else {
		order := p.Order
		if !Orders[order] {
			order = DefaultOrder
		}
		page := p.Page
		if page < 1 {
			page = 1
		}
		perPage := p.PerPage
		if perPage < 1 || perPage > MaxPerPage {
			perPage = MaxPerPage
		}
		q.Set("order", order)
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		q.Set("locale", "en")
	}

	var raw json.RawMessage
	if err := c.get(ctx, "markets", "/coins/markets", q, marketsTTL, &raw); err != nil {
		return nil, err
	}
	out, err := upstream.List[Market](raw)
	if err != nil {
		return nil, fmt.Errorf("%s markets: decode: %w", Provider, err)
	}
	return out, nil
}

func (c *Client) Trending(ctx context.Context) (TrendingResponse, error) {
	var out TrendingResponse
	err := c.get(ctx, "trending", "/search/trending", nil, trendingTTL, &out)
	return out, err
}

func (c *Client) Search(ctx context.Context, query string) (SearchResponse, error) {
	var out SearchResponse
	err := c.get(ctx, "search", "/search", url.Values{"query": {query}}, searchTTL, &out)
	return out, err
}

func (c *Client) Global(ctx context.Context) (GlobalData, error) {
	var out GlobalResponse
	if err := c.get(ctx, "global", "/global", nil, globalTTL, &out); err != nil {
		return GlobalData{}, err
	}
	if out.Data == nil {
		return GlobalData{}, nil
	}
	return *out.Data, nil
}

func (c *Client) Exchanges(ctx context.Context, page, perPage int) (Exchanges, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	var out Exchanges
	if err := c.get(ctx, "exchanges", "/exchanges", q, exchangesTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Coin(ctx context.Context, id string) (Coin, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "true")
	var out Coin
	err := c.get(ctx, "coin", "/coins/"+url.PathEscape(id), q, coinTTL, &out)
	return out, err
}
