package tokens

import "screener-api/internal/safety"

// Origin says which provider namespace a record's identity lives in.
type Origin string

const (
	OriginRanked Origin = "ranked"
	OriginDex    Origin = "dex"
)

type Asset struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Windows holds per-lookback values. D7 is only filled for ranked listings.
type Windows struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
	D7  float64 `json:"d7,omitempty"`
}

type TxnCount struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type Txns struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

// Token is the provider-agnostic record returned by every view.
// Numeric fields are 0 when the upstream omits them. Pointers mark data
// that only exists for DEX pairs or that may be genuinely unknown.
type Token struct {
	ID            string         `json:"id"`
	Origin        Origin         `json:"origin"`
	ChainID       string         `json:"chainId,omitempty"`
	PairAddress   string         `json:"pairAddress,omitempty"`
	DexID         string         `json:"dexId,omitempty"`
	URL           string         `json:"url,omitempty"`
	Image         string         `json:"image,omitempty"`
	MarketCapRank int            `json:"marketCapRank,omitempty"`
	BaseToken     Asset          `json:"baseToken"`
	QuoteToken    *Asset         `json:"quoteToken,omitempty"`
	PriceUSD      float64        `json:"priceUsd"`
	PriceChange   Windows        `json:"priceChange"`
	Volume        Windows        `json:"volume"`
	Txns          *Txns          `json:"txns,omitempty"`
	Liquidity     float64        `json:"liquidity"`
	MarketCap     float64        `json:"marketCap"`
	FDV           float64        `json:"fdv"`
	PairCreatedAt *int64         `json:"pairCreatedAt,omitempty"`
	Sparkline     []float64      `json:"sparkline,omitempty"`
	TrendingScore *int           `json:"trendingScore,omitempty"`
	SafetyScore   *safety.Result `json:"safetyScore,omitempty"`
}

// Key is the dedup identity: chain + base address for DEX pairs, id otherwise.
func (t Token) Key() string {
	if t.Origin == OriginDex {
		return t.ChainID + "-" + t.BaseToken.Address
	}
	return t.ID
}
