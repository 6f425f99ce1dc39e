package graph

import (
	"time"

	"fxchart-service/internal/domain"
)

type Point struct {
	Time  time.Time
	Value float64
}

// Series is ordered ascending by time. Missing prices leave gaps; nothing is
// interpolated.
type Series []Point

type Projection struct {
	PairKey string
	Sell    Series
	Buy     Series
}

func (p Projection) Empty() bool { return len(p.Sell) == 0 && len(p.Buy) == 0 }

// Project filters records to pairKey and splits them into sell and buy
// series. records must already be ascending by time; Project does not sort.
func Project(records []domain.QuoteRecord, pairKey string) Projection {
	out := Projection{PairKey: pairKey, Sell: Series{}, Buy: Series{}}
	for _, r := range records {
		if r.PairKey() != pairKey {
			continue
		}
		if r.SellPrice != nil {
			out.Sell = append(out.Sell, Point{Time: r.Time, Value: *r.SellPrice})
		}
		if r.BuyPrice != nil {
			out.Buy = append(out.Buy, Point{Time: r.Time, Value: *r.BuyPrice})
		}
	}
	return out
}
