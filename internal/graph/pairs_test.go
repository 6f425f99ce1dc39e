package graph

import (
	"testing"

	"fxchart-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestBuildPairIndex_FirstOccurrenceOrder(t *testing.T) {
	records := []domain.QuoteRecord{
		rec(t0, "Divine Orb", "Mirror of Kalandra", price(200), nil),
		rec(t0, "USD", "EUR", price(1.1), nil),
		rec(t0, "Divine Orb", "Mirror of Kalandra", price(210), nil),
		rec(t0, "EUR", "USD", nil, price(0.9)),
		rec(t0, "USD", "EUR", price(1.2), nil),
	}
	got := BuildPairIndex(records)
	require.Equal(t, []domain.Pair{
		{Key: "Divine Orb → Mirror of Kalandra", From: "Divine Orb", To: "Mirror of Kalandra"},
		{Key: "USD → EUR", From: "USD", To: "EUR"},
		{Key: "EUR → USD", From: "EUR", To: "USD"},
	}, got)
}

func TestBuildPairIndex_SkipsMalformed(t *testing.T) {
	records := []domain.QuoteRecord{
		rec(t0, "", "EUR", price(1), nil),
		rec(t0, "USD", "", price(1), nil),
		rec(t0, "GBP", "USD", nil, nil),
	}
	got := BuildPairIndex(records)
	require.Len(t, got, 1)
	require.Equal(t, "GBP → USD", got[0].Key)
}

func TestBuildPairIndex_Empty(t *testing.T) {
	got := BuildPairIndex(nil)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestBuildPairIndex_NoDuplicateKeys(t *testing.T) {
	currencies := []string{"USD", "EUR", "GBP", "JPY"}
	var records []domain.QuoteRecord
	for i := 0; i < 200; i++ {
		from := currencies[i%len(currencies)]
		to := currencies[(i*7+3)%len(currencies)]
		records = append(records, rec(t0, from, to, price(1), nil))
	}
	got := BuildPairIndex(records)

	seen := map[string]bool{}
	for _, p := range got {
		require.False(t, seen[p.Key], "duplicate key %q", p.Key)
		seen[p.Key] = true
	}

	// order must follow the first record carrying each key
	var firsts []string
	firstSeen := map[string]bool{}
	for _, r := range records {
		if !firstSeen[r.PairKey()] {
			firstSeen[r.PairKey()] = true
			firsts = append(firsts, r.PairKey())
		}
	}
	keys := make([]string, 0, len(got))
	for _, p := range got {
		keys = append(keys, p.Key)
	}
	require.Equal(t, firsts, keys)
}

func TestContainsPair(t *testing.T) {
	pairs := []domain.Pair{domain.NewPair("USD", "EUR")}
	require.True(t, ContainsPair(pairs, "USD → EUR"))
	require.False(t, ContainsPair(pairs, "USD->EUR"))
	require.False(t, ContainsPair(pairs, "usd → eur"))
}
