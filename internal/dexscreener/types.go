package dexscreener

import (
	"encoding/json"

	"screener-api/internal/upstream"
)

// PairsResponse is returned by search, token and pair lookups. Either field may be absent.
type PairsResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
	Pair          *Pair  `json:"pair"`
}

// Pair is a DEX trading pair. Nested sections are pointers because the
// upstream omits them for thin or freshly created pools.
type Pair struct {
	ChainID       string          `json:"chainId"`
	DexID         string          `json:"dexId"`
	URL           string          `json:"url"`
	PairAddress   string          `json:"pairAddress"`
	BaseToken     *Token          `json:"baseToken"`
	QuoteToken    *Token          `json:"quoteToken"`
	PriceNative   upstream.Number `json:"priceNative"`
	PriceUSD      upstream.Number `json:"priceUsd"`
	Txns          *Txns           `json:"txns"`
	Volume        *Windows        `json:"volume"`
	PriceChange   *Windows        `json:"priceChange"`
	Liquidity     *Liquidity      `json:"liquidity"`
	FDV           upstream.Number `json:"fdv"`
	MarketCap     upstream.Number `json:"marketCap"`
	PairCreatedAt upstream.Number `json:"pairCreatedAt"`
	Info          *Info           `json:"info"`
}

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type Txns struct {
	M5  *TxnCount `json:"m5"`
	H1  *TxnCount `json:"h1"`
	H6  *TxnCount `json:"h6"`
	H24 *TxnCount `json:"h24"`
}

type TxnCount struct {
	Buys  upstream.Number `json:"buys"`
	Sells upstream.Number `json:"sells"`
}

type Windows struct {
	M5  upstream.Number `json:"m5"`
	H1  upstream.Number `json:"h1"`
	H6  upstream.Number `json:"h6"`
	H24 upstream.Number `json:"h24"`
}

type Liquidity struct {
	USD   upstream.Number `json:"usd"`
	Base  upstream.Number `json:"base"`
	Quote upstream.Number `json:"quote"`
}

type Info struct {
	ImageURL string `json:"imageUrl"`
}

// Boost is one entry of the token-boosts feed.
type Boost struct {
	URL          string          `json:"url"`
	ChainID      string          `json:"chainId"`
	TokenAddress string          `json:"tokenAddress"`
	Amount       upstream.Number `json:"amount"`
	TotalAmount  upstream.Number `json:"totalAmount"`
	Icon         string          `json:"icon"`
	Description  string          `json:"description"`
}

// Nested sections decode leniently: a section of the wrong JSON type is
// zero instead of failing the whole pair.

func (t *Token) UnmarshalJSON(b []byte) error {
	type plain Token
	return upstream.Object(b, (*plain)(t))
}

func (x *Txns) UnmarshalJSON(b []byte) error {
	type plain Txns
	return upstream.Object(b, (*plain)(x))
}

func (c *TxnCount) UnmarshalJSON(b []byte) error {
	type plain TxnCount
	return upstream.Object(b, (*plain)(c))
}

func (w *Windows) UnmarshalJSON(b []byte) error {
	type plain Windows
	return upstream.Object(b, (*plain)(w))
}

func (l *Liquidity) UnmarshalJSON(b []byte) error {
	type plain Liquidity
	return upstream.Object(b, (*plain)(l))
}

func (i *Info) UnmarshalJSON(b []byte) error {
	type plain Info
	return upstream.Object(b, (*plain)(i))
}

// UnmarshalJSON keeps every pair that decodes and drops the rest.
func (r *PairsResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		SchemaVersion json.RawMessage `json:"schemaVersion"`
		Pairs         json.RawMessage `json:"pairs"`
		Pair          json.RawMessage `json:"pair"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = PairsResponse{}
	_ = json.Unmarshal(raw.SchemaVersion, &r.SchemaVersion)
	r.Pairs, _ = upstream.List[Pair](raw.Pairs)
	if len(raw.Pair) > 0 {
		var p Pair
		if err := json.Unmarshal(raw.Pair, &p); err == nil && p.PairAddress != "" {
			r.Pair = &p
		}
	}
	return nil
}
