package upstream

import (
	"bytes"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Number decodes a JSON number, a numeric string ("0.0012", "$1,234"), or
// null. Anything it cannot resolve decodes to 0 without error so a single
// odd field never rejects a whole provider payload.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		*n = Number(ParseDecimal(strings.Trim(string(b), `"`)))
		return nil
	}
	if b[0] == '-' || (b[0] >= '0' && b[0] <= '9') {
		*n = Number(ParseDecimal(string(b)))
		return nil
	}
	*n = 0
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// Int truncates toward zero, saturating at the int range. NaN is 0.
func (n Number) Int() int {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// ParseDecimal parses a decimal string, tolerating a leading "$", thousands
// separators and surrounding space. Failure or overflow yields 0.
func ParseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
