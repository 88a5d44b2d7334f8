package tokens

import (
	"strings"
	"time"

	"screener-api/internal/coingecko"
	"screener-api/internal/dexscreener"
	"screener-api/internal/safety"
	"screener-api/internal/upstream"
)

// FromMarket maps a CoinGecko /coins/markets row.
func FromMarket(m coingecko.Market) Token {
	change24 := m.PriceChangePercentage24h.Float()
	if change24 == 0 {
		change24 = m.PriceChange24hInCurrency.Float()
	}
	t := Token{
		ID:            m.ID,
		Origin:        OriginRanked,
		Image:         m.Image,
		MarketCapRank: m.MarketCapRank.Int(),
		BaseToken:     Asset{Address: m.ID, Name: m.Name, Symbol: strings.ToUpper(m.Symbol)},
		PriceUSD:      m.CurrentPrice.Float(),
		PriceChange: Windows{
			H1:  m.PriceChange1hInCurrency.Float(),
			H24: change24,
			D7:  m.PriceChange7dInCurrency.Float(),
		},
		Volume:    Windows{H24: m.TotalVolume.Float()},
		MarketCap: capOrFDV(m.MarketCap.Float(), m.FullyDilutedValuation.Float()),
		FDV:       m.FullyDilutedValuation.Float(),
	}
	if m.Sparkline != nil {
		t.Sparkline = floats(m.Sparkline.Price)
	}
	return t
}

// FromTrending maps a /search/trending item. Trending rows carry no history
// windows beyond 24h and encode most numbers as display strings.
func FromTrending(it coingecko.TrendingItem) Token {
	image := it.Small
	if image == "" {
		image = it.Thumb
	}
	score := it.Score.Int()
	t := Token{
		ID:            it.ID,
		Origin:        OriginRanked,
		Image:         image,
		MarketCapRank: it.MarketCapRank.Int(),
		BaseToken:     Asset{Address: it.ID, Name: it.Name, Symbol: strings.ToUpper(it.Symbol)},
		TrendingScore: &score,
	}
	if d := it.Data; d != nil {
		t.PriceUSD = d.Price.Float()
		t.MarketCap = d.MarketCap.Float()
		t.Volume.H24 = d.TotalVolume.Float()
		t.PriceChange.H24 = d.PriceChangePercentage24h["usd"].Float()
	}
	return t
}

// FromCoin maps a /coins/{id} detail document.
func FromCoin(c coingecko.Coin) Token {
	t := Token{
		ID:            c.ID,
		Origin:        OriginRanked,
		MarketCapRank: c.MarketCapRank.Int(),
		BaseToken:     Asset{Address: c.ID, Name: c.Name, Symbol: strings.ToUpper(c.Symbol)},
	}
	if img := c.Image; img != nil {
		t.Image = firstNonEmpty(img.Large, img.Small, img.Thumb)
	}
	if md := c.MarketData; md != nil {
		fdv := md.FullyDilutedValuation["usd"].Float()
		t.PriceUSD = md.CurrentPrice["usd"].Float()
		t.MarketCap = capOrFDV(md.MarketCap["usd"].Float(), fdv)
		t.FDV = fdv
		t.Volume.H24 = md.TotalVolume["usd"].Float()
		t.PriceChange.H1 = md.PriceChangePercentage1hInCurrency["usd"].Float()
		t.PriceChange.H24 = md.PriceChangePercentage24h.Float()
		t.PriceChange.D7 = md.PriceChangePercentage7d.Float()
		if md.Sparkline7d != nil {
			t.Sparkline = floats(md.Sparkline7d.Price)
		}
	}
	return t
}

// FromPair maps a DexScreener pair. The id is the base asset address.
func FromPair(p dexscreener.Pair) Token {
	t := Token{
		Origin:      OriginDex,
		ChainID:     p.ChainID,
		PairAddress: p.PairAddress,
		DexID:       p.DexID,
		URL:         p.URL,
		PriceUSD:    p.PriceUSD.Float(),
		PriceChange: windows(p.PriceChange),
		Volume:      windows(p.Volume),
		Txns:        txns(p.Txns),
		MarketCap:   capOrFDV(p.MarketCap.Float(), p.FDV.Float()),
		FDV:         p.FDV.Float(),
	}
	if p.BaseToken != nil {
		t.BaseToken = Asset(*p.BaseToken)
	}
	t.ID = t.BaseToken.Address
	if p.QuoteToken != nil {
		q := Asset(*p.QuoteToken)
		t.QuoteToken = &q
	}
	if p.Liquidity != nil {
		t.Liquidity = p.Liquidity.USD.Float()
	}
	if ms := int64(p.PairCreatedAt); ms > 0 {
		t.PairCreatedAt = &ms
	}
	if p.Info != nil {
		t.Image = p.Info.ImageURL
	}
	return t
}

// SafetyMetrics extracts scoring inputs from a record as of now.
func SafetyMetrics(t Token, now time.Time) safety.Metrics {
	m := safety.Metrics{
		LiquidityUSD:   t.Liquidity,
		Volume24h:      t.Volume.H24,
		PriceChange24h: t.PriceChange.H24,
		MarketCap:      t.MarketCap,
	}
	if t.Txns != nil {
		m.Buys24h = t.Txns.H24.Buys
		m.Sells24h = t.Txns.H24.Sells
	}
	if t.PairCreatedAt != nil {
		age := now.Sub(time.UnixMilli(*t.PairCreatedAt))
		m.Age = &age
	}
	return m
}

// Annotate scores every DEX record in place.
func Annotate(list []Token, now time.Time) {
	for i := range list {
		if list[i].Origin != OriginDex {
			continue
		}
		r := safety.Score(SafetyMetrics(list[i], now))
		list[i].SafetyScore = &r
	}
}

func capOrFDV(mcap, fdv float64) float64 {
	if mcap > 0 {
		return mcap
	}
	return fdv
}

func windows(w *dexscreener.Windows) Windows {
	if w == nil {
		return Windows{}
	}
	return Windows{M5: w.M5.Float(), H1: w.H1.Float(), H6: w.H6.Float(), H24: w.H24.Float()}
}

func txns(x *dexscreener.Txns) *Txns {
	if x == nil {
		return nil
	}
	return &Txns{M5: txnCount(x.M5), H1: txnCount(x.H1), H6: txnCount(x.H6), H24: txnCount(x.H24)}
}

func txnCount(c *dexscreener.TxnCount) TxnCount {
	if c == nil {
		return TxnCount{}
	}
	return TxnCount{Buys: c.Buys.Int(), Sells: c.Sells.Int()}
}

func floats(in []upstream.Number) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, n := range in {
		out[i] = n.Float()
	}
	return out
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
