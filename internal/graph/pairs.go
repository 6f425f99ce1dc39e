package graph

import "fxchart-service/internal/domain"

// BuildPairIndex returns the distinct pairs in records in first-occurrence
// order. Records missing either currency are skipped.
func BuildPairIndex(records []domain.QuoteRecord) []domain.Pair {
	seen := make(map[string]struct{}, 8)
	out := make([]domain.Pair, 0, 8)
	for _, r := range records {
		if !r.HasPair() {
			continue
		}
		key := r.PairKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.Pair{Key: key, From: r.FromCurrency, To: r.ToCurrency})
	}
	return out
}

// ContainsPair reports whether key is one of pairs.
func ContainsPair(pairs []domain.Pair, key string) bool {
	for _, p := range pairs {
		if p.Key == key {
			return true
		}
	}
	return false
}
