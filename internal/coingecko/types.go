package coingecko

import (
	"encoding/json"

	"screener-api/internal/upstream"
)

// Market is one row of /coins/markets.
type Market struct {
	ID                       string          `json:"id"`
	Symbol                   string          `json:"symbol"`
	Name                     string          `json:"name"`
	Image                    string          `json:"image"`
	CurrentPrice             upstream.Number `json:"current_price"`
	MarketCap                upstream.Number `json:"market_cap"`
	MarketCapRank            upstream.Number `json:"market_cap_rank"`
	FullyDilutedValuation    upstream.Number `json:"fully_diluted_valuation"`
	TotalVolume              upstream.Number `json:"total_volume"`
	PriceChangePercentage24h upstream.Number `json:"price_change_percentage_24h"`
	PriceChange1hInCurrency  upstream.Number `json:"price_change_percentage_1h_in_currency"`
	PriceChange24hInCurrency upstream.Number `json:"price_change_percentage_24h_in_currency"`
	PriceChange7dInCurrency  upstream.Number `json:"price_change_percentage_7d_in_currency"`
	Sparkline                *Sparkline      `json:"sparkline_in_7d"`
}

type Sparkline struct {
	Price []upstream.Number `json:"price"`
}

// MarketsParams selects a page of /coins/markets or a fixed id set.
type MarketsParams struct {
	Page    int
	PerPage int
	Order   string
	IDs     []string
}

type TrendingResponse struct {
	Coins []TrendingCoin `json:"coins"`
}

type TrendingCoin struct {
	Item TrendingItem `json:"item"`
}

type TrendingItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	MarketCapRank upstream.Number `json:"market_cap_rank"`
	Thumb         string          `json:"thumb"`
	Small         string          `json:"small"`
	Score         upstream.Number `json:"score"`
	Data          *TrendingData   `json:"data"`
}

// TrendingData is mostly string-encoded ("$1,234,567") upstream.
type TrendingData struct {
	Price                    upstream.Number `json:"price"`
	MarketCap                upstream.Number `json:"market_cap"`
	TotalVolume              upstream.Number `json:"total_volume"`
	PriceChangePercentage24h Currencies      `json:"price_change_percentage_24h"`
}

type SearchResponse struct {
	Coins []SearchCoin `json:"coins"`
}

type SearchCoin struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	MarketCapRank upstream.Number `json:"market_cap_rank"`
	Thumb         string          `json:"thumb"`
	Large         string          `json:"large"`
}

type GlobalResponse struct {
	Data *GlobalData `json:"data"`
}

type GlobalData struct {
	ActiveCryptocurrencies          upstream.Number `json:"active_cryptocurrencies"`
	TotalMarketCap                  Currencies      `json:"total_market_cap"`
	TotalVolume                     Currencies      `json:"total_volume"`
	MarketCapPercentage             Currencies      `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD upstream.Number `json:"market_cap_change_percentage_24h_usd"`
}

// Coin is /coins/{id} with optional sections disabled.
type Coin struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	MarketCapRank upstream.Number `json:"market_cap_rank"`
	Image         *CoinImage      `json:"image"`
	MarketData    *CoinMarketData `json:"market_data"`
}

type CoinImage struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

type CoinMarketData struct {
	CurrentPrice                      Currencies      `json:"current_price"`
	MarketCap                         Currencies      `json:"market_cap"`
	FullyDilutedValuation             Currencies      `json:"fully_diluted_valuation"`
	TotalVolume                       Currencies      `json:"total_volume"`
	PriceChangePercentage1hInCurrency Currencies      `json:"price_change_percentage_1h_in_currency"`
	PriceChangePercentage24h          upstream.Number `json:"price_change_percentage_24h"`
	PriceChangePercentage7d           upstream.Number `json:"price_change_percentage_7d"`
	Sparkline7d                       *Sparkline      `json:"sparkline_7d"`
}

// Exchanges is passed through untouched.
type Exchanges = json.RawMessage

// Currencies maps a currency or asset code to a value.
type Currencies map[string]upstream.Number

// Nested sections decode leniently: a section of the wrong JSON type is
// zero instead of failing the whole record.

func (c *Currencies) UnmarshalJSON(b []byte) error {
	type plain Currencies
	return upstream.Object(b, (*plain)(c))
}

func (s *Sparkline) UnmarshalJSON(b []byte) error {
	type plain Sparkline
	return upstream.Object(b, (*plain)(s))
}

func (d *TrendingData) UnmarshalJSON(b []byte) error {
	type plain TrendingData
	return upstream.Object(b, (*plain)(d))
}

func (i *CoinImage) UnmarshalJSON(b []byte) error {
	type plain CoinImage
	return upstream.Object(b, (*plain)(i))
}

func (m *CoinMarketData) UnmarshalJSON(b []byte) error {
	type plain CoinMarketData
	return upstream.Object(b, (*plain)(m))
}

func (g *GlobalData) UnmarshalJSON(b []byte) error {
	type plain GlobalData
	return upstream.Object(b, (*plain)(g))
}

// UnmarshalJSON keeps every trending coin that decodes and drops the rest.
func (r *TrendingResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Coins json.RawMessage `json:"coins"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Coins, _ = upstream.List[TrendingCoin](raw.Coins)
	return nil
}

// UnmarshalJSON keeps every search hit that decodes and drops the rest.
func (r *SearchResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Coins json.RawMessage `json:"coins"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Coins, _ = upstream.List[SearchCoin](raw.Coins)
	return nil
}
