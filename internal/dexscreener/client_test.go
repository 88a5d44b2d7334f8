package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-api/internal/upstream"
)

const pairJSON = `{"chainId":"solana","dexId":"raydium","url":"https://dexscreener.com/solana/pair1",
	"pairAddress":"pair1","baseToken":{"address":"mintA","name":"Alpha","symbol":"ALP"},
	"quoteToken":{"address":"So111","name":"Wrapped SOL","symbol":"SOL"},
	"priceNative":"0.0001","priceUsd":"0.0152","txns":{"h24":{"buys":40,"sells":300}},
	"volume":{"h24":80000,"h1":1200},"priceChange":{"h24":-60},"liquidity":{"usd":150000},
	"fdv":2500000,"marketCap":2000000,"pairCreatedAt":1700000000000}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient(server.URL, upstream.NewHTTPFetcher())
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/search", r.URL.Path)
		assert.Equal(t, "alpha", r.URL.Query().Get("q"))
		w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":[` + pairJSON + `]}`))
	})

	pairs, err := c.Search(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	p := pairs[0]
	assert.Equal(t, "solana", p.ChainID)
	assert.Equal(t, 0.0152, p.PriceUSD.Float())
	require.NotNil(t, p.BaseToken)
	assert.Equal(t, "mintA", p.BaseToken.Address)
	require.NotNil(t, p.Txns)
	require.NotNil(t, p.Txns.H24)
	assert.Equal(t, 300, p.Txns.H24.Sells.Int())
	assert.Nil(t, p.Txns.M5)
	assert.Equal(t, 150000.0, p.Liquidity.USD.Float())
	assert.Equal(t, int64(1700000000000), int64(p.PairCreatedAt))
}

func TestClient_SearchNullPairs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":null}`))
	})

	pairs, err := c.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestClient_TokenPairs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/tokens/mintA,mintB", r.URL.Path)
		w.Write([]byte(`{"pairs":[` + pairJSON + `]}`))
	})

	pairs, err := c.TokenPairs(context.Background(), []string{"mintA", "mintB"})
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestClient_TokenPairsEmptyInput(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", upstream.NewHTTPFetcher())
	pairs, err := c.TokenPairs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, pairs)
}

func TestClient_Pair(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/pairs/solana/pair1", r.URL.Path)
		w.Write([]byte(`{"pairs":null,"pair":` + pairJSON + `}`))
	})

	p, err := c.Pair(context.Background(), "solana", "pair1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "pair1", p.PairAddress)
}

func TestClient_PairMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":null,"pair":null}`))
	})

	p, err := c.Pair(context.Background(), "solana", "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestClient_LatestBoosts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token-boosts/latest/v1", r.URL.Path)
		w.Write([]byte(`[{"chainId":"solana","tokenAddress":"mintA","amount":10},{"chainId":"base","tokenAddress":"0xabc"}]`))
	})

	boosts, err := c.LatestBoosts(context.Background())
	require.NoError(t, err)
	require.Len(t, boosts, 2)
	assert.Equal(t, "mintA", boosts[0].TokenAddress)
	assert.Equal(t, 10.0, boosts[0].Amount.Float())
}

func TestClient_LatestBoostsWrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"boosts":[{"chainId":"solana","tokenAddress":"mintA"}]}`))
	})

	boosts, err := c.LatestBoosts(context.Background())
	require.NoError(t, err)
	assert.Len(t, boosts, 1)
}

func TestClient_LatestBoostsStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.LatestBoosts(context.Background())
	se, ok := upstream.IsStatus(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestClient_SearchKeepsGoodPairsBesideMalformedOnes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs":[` + pairJSON + `,
			{"chainId":"solana","pairAddress":"pair2","baseToken":{"address":"mintB"},
			 "liquidity":"n/a","txns":{"h24":[1,2]},"volume":false,"info":"none"},
			{"chainId":7,"pairAddress":"pair3"},
			"garbage"]}`))
	})

	pairs, err := c.Search(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "pair1", pairs[0].PairAddress)
	assert.Equal(t, 150000.0, pairs[0].Liquidity.USD.Float())

	bad := pairs[1]
	assert.Equal(t, "pair2", bad.PairAddress)
	require.NotNil(t, bad.BaseToken)
	assert.Equal(t, "mintB", bad.BaseToken.Address)
	require.NotNil(t, bad.Liquidity)
	assert.Zero(t, bad.Liquidity.USD.Float())
	require.NotNil(t, bad.Txns)
	require.NotNil(t, bad.Txns.H24)
	assert.Zero(t, bad.Txns.H24.Buys.Int())
	require.NotNil(t, bad.Volume)
	assert.Zero(t, bad.Volume.H24.Float())
}

func TestClient_LatestBoostsSkipsBadEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"chainId":"solana","tokenAddress":"mintA"},{"tokenAddress":42},"x"]`))
	})

	boosts, err := c.LatestBoosts(context.Background())
	require.NoError(t, err)
	require.Len(t, boosts, 1)
	assert.Equal(t, "mintA", boosts[0].TokenAddress)
}
