package graph

import (
	"time"

	"fxchart-service/internal/domain"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func rec(at time.Time, from, to string, sell, buy *float64) domain.QuoteRecord {
	return domain.QuoteRecord{Time: at, FromCurrency: from, ToCurrency: to, SellPrice: sell, BuyPrice: buy}
}

func price(v float64) *float64 { return domain.Price(v) }

// hourly returns n records for one pair spaced an hour apart.
func hourly(n int, from, to string) []domain.QuoteRecord {
	out := make([]domain.QuoteRecord, 0, n)
	for i := 0; i < n; i++ {
		v := 1 + float64(i)/100
		out = append(out, rec(t0.Add(time.Duration(i)*time.Hour), from, to, price(v), price(v-0.01)))
	}
	return out
}
