// Package dexscreener is a client for the DexScreener public API: pair
// search, token and pair lookup, and the boosted tokens feed.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"screener-api/internal/upstream"
)

const (
	DefaultBaseURL = "https://api.dexscreener.com"
	Provider       = "dexscreener"

	// MaxTokenAddresses is the batch limit of /latest/dex/tokens.
	MaxTokenAddresses = 30
)

const (
	searchTTL = 30 * time.Second
	boostsTTL = 60 * time.Second
	tokensTTL = 15 * time.Second
	pairTTL   = 15 * time.Second
)

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

func (c *Client) fetch(ctx context.Context, endpoint, u string, ttl time.Duration) ([]byte, error) {
	return c.fetcher.Fetch(ctx, upstream.Request{Provider: Provider, Endpoint: endpoint, URL: u, TTL: ttl})
}

func (c *Client) pairs(ctx context.Context, endpoint, u string, ttl time.Duration) ([]Pair, error) {
	body, err := c.fetch(ctx, endpoint, u, ttl)
	if err != nil {
		return nil, err
	}
	var out PairsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s %s: decode: %w", Provider, endpoint, err)
	}
	if len(out.Pairs) == 0 && out.Pair != nil {
		return []Pair{*out.Pair}, nil
	}
	return out.Pairs, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]Pair, error) {
	u := c.baseURL + "/latest/dex/search?" + url.Values{"q": {query}}.Encode()
	return c.pairs(ctx, "search", u, searchTTL)
}

// TokenPairs returns every pair whose base or quote is one of addresses.
func (c *Client) TokenPairs(ctx context.Context, addresses []string) ([]Pair, error) {
	if len(addresses) == 0 {
		return nil, nil
	}
	if len(addresses) > MaxTokenAddresses {
		addresses = addresses[:MaxTokenAddresses]
	}
	escaped := make([]string, len(addresses))
	for i, a := range addresses {
		escaped[i] = url.PathEscape(a)
	}
	u := c.baseURL + "/latest/dex/tokens/" + strings.Join(escaped, ",")
	return c.pairs(ctx, "tokens", u, tokensTTL)
}

// Pair looks up a single pair. A missing pair yields (nil, nil).
func (c *Client) Pair(ctx context.Context, chainID, pairAddress string) (*Pair, error) {
	u := c.baseURL + "/latest/dex/pairs/" + url.PathEscape(chainID) + "/" + url.PathEscape(pairAddress)
	pairs, err := c.pairs(ctx, "pair", u, pairTTL)
	if err != nil || len(pairs) == 0 {
		return nil, err
	}
	return &pairs[0], nil
}

// LatestBoosts reads the boosted tokens feed. The feed is a top-level array;
// an object with a "boosts" field is accepted too, anything else is empty.
func (c *Client) LatestBoosts(ctx context.Context) ([]Boost, error) {
	body, err := c.fetch(ctx, "boosts", c.baseURL+"/token-boosts/latest/v1", boostsTTL)
	if err != nil {
		return nil, err
	}
	if boosts, err := upstream.List[Boost](body); err == nil {
		return boosts, nil
	}
	var wrapped struct {
		Boosts json.RawMessage `json:"boosts"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("%s boosts: decode: %w", Provider, err)
	}
	boosts, _ := upstream.List[Boost](wrapped.Boosts)
	return boosts, nil
}
