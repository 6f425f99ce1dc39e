package domain

import "time"

// QuoteRecord is one timestamped buy/sell observation for a currency pair.
// Either price may be absent.
type QuoteRecord struct {
	ID           string
	Time         time.Time
	FromCurrency string
	ToCurrency   string
	SellPrice    *float64
	BuyPrice     *float64
}

// HasPair reports whether both currencies are present.
func (r QuoteRecord) HasPair() bool {
	return r.FromCurrency != "" && r.ToCurrency != ""
}

func (r QuoteRecord) PairKey() string { return PairKey(r.FromCurrency, r.ToCurrency) }

// RecordPatch carries a partial update. Nil string/time fields are left
// untouched; a price is only changed when its Set flag is true, and a Set
// price with a nil Value clears it.
type RecordPatch struct {
	Time         *time.Time
	FromCurrency *string
	ToCurrency   *string
	SellPrice    OptionalPrice
	BuyPrice     OptionalPrice
}

type OptionalPrice struct {
	Set   bool
	Value *float64
}

func (p RecordPatch) Apply(r QuoteRecord) QuoteRecord {
	if p.Time != nil {
		r.Time = p.Time.UTC()
	}
	if p.FromCurrency != nil {
		r.FromCurrency = *p.FromCurrency
	}
	if p.ToCurrency != nil {
		r.ToCurrency = *p.ToCurrency
	}
	if p.SellPrice.Set {
		r.SellPrice = p.SellPrice.Value
	}
	if p.BuyPrice.Set {
		r.BuyPrice = p.BuyPrice.Value
	}
	return r
}

func Price(v float64) *float64 { return &v }
