// Package recordjson is the wire format of quote records shared by the HTTP
// API, the remote record source and the seed tool.
package recordjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fxchart-service/internal/domain"
)

// Record is the JSON shape of a stored record.
type Record struct {
	ID           string   `json:"id,omitempty"`
	Time         Time     `json:"time"`
	FromCurrency string   `json:"from_currency"`
	ToCurrency   string   `json:"to_currency"`
	SellPrice    *float64 `json:"sell_price"`
	BuyPrice     *float64 `json:"buy_price"`
}

func FromDomain(r domain.QuoteRecord) Record {
	return Record{
		ID:           r.ID,
		Time:         Time{r.Time.UTC()},
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		SellPrice:    r.SellPrice,
		BuyPrice:     r.BuyPrice,
	}
}

func FromDomainList(rs []domain.QuoteRecord) []Record {
	out := make([]Record, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromDomain(r))
	}
	return out
}

func (r Record) Domain() domain.QuoteRecord {
	return domain.QuoteRecord{
		ID:           r.ID,
		Time:         r.Time.UTC(),
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		SellPrice:    r.SellPrice,
		BuyPrice:     r.BuyPrice,
	}
}

// Input is a create or patch body. Absent fields stay nil; a price that is
// present as null is Set with a nil Value.
type Input struct {
	Time         *Time         `json:"time"`
	FromCurrency *string       `json:"from_currency"`
	ToCurrency   *string       `json:"to_currency"`
	SellPrice    OptionalPrice `json:"sell_price"`
	BuyPrice     OptionalPrice `json:"buy_price"`
}

// Record builds the record to create. Missing time stays zero so the
// service stamps it; missing currencies are empty and missing prices nil.
func (in Input) Record() domain.QuoteRecord {
	var r domain.QuoteRecord
	if in.Time != nil {
		r.Time = in.Time.UTC()
	}
	if in.FromCurrency != nil {
		r.FromCurrency = *in.FromCurrency
	}
	if in.ToCurrency != nil {
		r.ToCurrency = *in.ToCurrency
	}
	r.SellPrice = in.SellPrice.Value
	r.BuyPrice = in.BuyPrice.Value
	return r
}

func (in Input) Patch() domain.RecordPatch {
	p := domain.RecordPatch{
		FromCurrency: in.FromCurrency,
		ToCurrency:   in.ToCurrency,
		SellPrice:    domain.OptionalPrice(in.SellPrice),
		BuyPrice:     domain.OptionalPrice(in.BuyPrice),
	}
	if in.Time != nil {
		t := in.Time.UTC()
		p.Time = &t
	}
	return p
}

// OptionalPrice accepts a number, a numeric string or null.
type OptionalPrice domain.OptionalPrice

func (o *OptionalPrice) UnmarshalJSON(b []byte) error {
	o.Set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		o.Value = &f
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("price: expected number or null")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		o.Value = nil
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("price: %q is not a number", s)
	}
	o.Value = &f
	return nil
}

// Time marshals as RFC 3339 and accepts RFC 3339, ISO 8601 with seconds
// omitted, a zone-less timestamp (read as UTC), or the extended JSON form
// {"$date": ...}.
type Time struct{ time.Time }

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("time: cannot parse %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Time) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '{':
		var ext struct {
			Date json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(b, &ext); err != nil || len(ext.Date) == 0 {
			return fmt.Errorf("time: expected {\"$date\": ...}")
		}
		return t.UnmarshalJSON(ext.Date)
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseTime(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	default:
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("time: unsupported value %s", b)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
}
