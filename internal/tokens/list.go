package tokens

import (
	"sort"
	"strings"
)

const AllChains = "all"

// FilterChain drops records on another chain. Records without a chain
// (ranked listings) always pass, and "" or "all" keeps everything.
func FilterChain(list []Token, chain string) []Token {
	if chain == "" || strings.EqualFold(chain, AllChains) {
		return list
	}
	out := make([]Token, 0, len(list))
	for _, t := range list {
		if t.ChainID == "" || t.ChainID == chain {
			out = append(out, t)
		}
	}
	return out
}

type dedupKey struct {
	origin Origin
	key    string
}

// Dedup keeps the first record per Key, preserving first-seen order.
// Ranked and DEX keys never collide with each other.
func Dedup(list []Token) []Token {
	seen := make(map[dedupKey]struct{}, len(list))
	out := make([]Token, 0, len(list))
	for _, t := range list {
		k := dedupKey{t.Origin, t.Key()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SortByChange24h re-sorts in place by 24h change. Ties keep their order.
func SortByChange24h(list []Token, descending bool) {
	sort.SliceStable(list, func(i, j int) bool {
		if descending {
			return list[i].PriceChange.H24 > list[j].PriceChange.H24
		}
		return list[i].PriceChange.H24 < list[j].PriceChange.H24
	})
}

func Truncate(list []Token, max int) []Token {
	if max >= 0 && len(list) > max {
		return list[:max]
	}
	return list
}

// Finalize runs the list pipeline: chain filter, dedup, then cap.
func Finalize(list []Token, chain string, max int) []Token {
	out := Truncate(Dedup(FilterChain(list, chain)), max)
	if out == nil {
		return []Token{}
	}
	return out
}
