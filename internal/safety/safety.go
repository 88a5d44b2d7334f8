// Package safety computes a rule-based risk heuristic for DEX pairs.
// The score is advisory, it is not an audit of the token.
package safety

import "time"

type Flag string

const (
	LowLiquidity         Flag = "LOW_LIQUIDITY"
	LowVolume            Flag = "LOW_VOLUME"
	VeryNew              Flag = "VERY_NEW"
	NewToken             Flag = "NEW_TOKEN"
	HeavySelling         Flag = "HEAVY_SELLING"
	SuspiciousBuyPattern Flag = "SUSPICIOUS_BUY_PATTERN"
	Dumping              Flag = "DUMPING"
	PumpAlert            Flag = "PUMP_ALERT"
	MicroCap             Flag = "MICRO_CAP"
)

const (
	Baseline = 50
	MinScore = 0
	MaxScore = 100
)

// Metrics are the trading statistics a score is computed from. Age is nil
// when the pair creation time is unknown.
type Metrics struct {
	LiquidityUSD   float64
	Volume24h      float64
	Age            *time.Duration
	Buys24h        int
	Sells24h       int
	PriceChange24h float64
	MarketCap      float64
}

type Result struct {
	Score int    `json:"score"`
	Flags []Flag `json:"flags"`
}

// Has reports whether f was raised.
func (r Result) Has(f Flag) bool {
	for _, x := range r.Flags {
		if x == f {
			return true
		}
	}
	return false
}

// Score applies the rules to m. Flags keep rule order and never repeat.
func Score(m Metrics) Result {
	s := Baseline
	r := Result{Flags: []Flag{}}

	switch l := m.LiquidityUSD; {
	case l < 5_000:
		s -= 25
		r.add(LowLiquidity)
	case l < 20_000:
		s -= 10
		r.add(LowLiquidity)
	case l > 100_000:
		s += 15
	default:
		s += 5
	}

	switch v := m.Volume24h; {
	case v < 1_000:
		s -= 15
		r.add(LowVolume)
	case v > 50_000:
		s += 10
	}

	if m.Age != nil {
		switch a := *m.Age; {
		case a < time.Hour:
			s -= 15
			r.add(VeryNew)
		case a < 24*time.Hour:
			s -= 5
			r.add(NewToken)
		case a > 7*24*time.Hour:
			s += 10
		}
	}

	// float math so absurd counts cannot overflow
	b, sl := float64(m.Buys24h), float64(m.Sells24h)
	if sl > 2*b && sl > 10 {
		s -= 15
		r.add(HeavySelling)
	}
	if b > 5*sl && b > 50 {
		r.add(SuspiciousBuyPattern)
	}

	if m.PriceChange24h < -50 {
		s -= 10
		r.add(Dumping)
	}
	if m.PriceChange24h > 500 {
		r.add(PumpAlert)
	}

	if m.MarketCap > 0 && m.MarketCap < 10_000 {
		s -= 10
		r.add(MicroCap)
	}

	r.Score = clamp(s)
	return r
}

func (r *Result) add(f Flag) {
	if !r.Has(f) {
		r.Flags = append(r.Flags, f)
	}
}

func clamp(s int) int {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
