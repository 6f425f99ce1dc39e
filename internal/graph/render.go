package graph

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrEmptyDataset      = errors.New("no data points to render")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

type imageFormat struct {
	provider    chart.RendererProvider
	contentType string
}

var (
	registerOnce sync.Once
	formats      map[string]imageFormat
)

// Register installs the image formats the renderer can produce. It runs its
// setup once per process; later calls do nothing.
func Register() {
	registerOnce.Do(func() {
		formats = map[string]imageFormat{
			"png": {provider: chart.PNG, contentType: "image/png"},
			"svg": {provider: chart.SVG, contentType: "image/svg+xml"},
		}
	})
}

// ContentType returns the MIME type for a registered format name.
func ContentType(format string) (string, bool) {
	Register()
	f, ok := formats[format]
	return f.contentType, ok
}

type Renderer struct {
	Width  int
	Height int
	Unit   string
}

func NewRenderer(width, height int, unit string) *Renderer {
	Register()
	if width <= 0 {
		width = DefaultPlotWidth
	}
	if height <= 0 {
		height = 400
	}
	return &Renderer{Width: width, Height: height, Unit: unit}
}

var (
	sellColor = drawing.Color{R: 220, G: 38, B: 38, A: 230}
	buyColor  = drawing.Color{R: 16, G: 185, B: 129, A: 230}
)

// Render draws the points of p that fall inside win. The y axis is fitted to
// the visible values and does not include zero.
func (r *Renderer) Render(w io.Writer, format string, p Projection, win Window) error {
	Register()
	f, ok := formats[format]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range []struct {
		name  string
		pts   Series
		color drawing.Color
	}{
		{SellLabel, p.Sell, sellColor},
		{BuyLabel, p.Buy, buyColor},
	} {
		ts := chart.TimeSeries{
			Name: s.name,
			Style: chart.Style{
				StrokeColor: s.color,
				StrokeWidth: 2,
				DotColor:    s.color,
				DotWidth:    3,
			},
		}
		for _, pt := range s.pts {
			if !win.Contains(pt.Time) {
				continue
			}
			ts.XValues = append(ts.XValues, pt.Time)
			ts.YValues = append(ts.YValues, pt.Value)
			lo, hi = math.Min(lo, pt.Value), math.Max(hi, pt.Value)
		}
		if len(ts.XValues) > 0 {
			series = append(series, ts)
		}
	}
	if len(series) == 0 {
		return ErrEmptyDataset
	}

	xMin, xMax := win.Min, win.Max
	if !xMax.After(xMin) {
		xMin, xMax = xMin.Add(-30*time.Minute), xMax.Add(30*time.Minute)
	}
	yMin, yMax := paddedRange(lo, hi)

	unit := r.Unit
	if unit == "" || unit == UnitAuto {
		unit = UnitFor(xMax.Sub(xMin))
	}

	ch := chart.Chart{
		Title:  "Price history — " + p.PairKey,
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat(tickLayout(unit)),
			Range:          &chart.ContinuousRange{Min: timeToFloat(xMin), Max: timeToFloat(xMax)},
		},
		YAxis: chart.YAxis{
			Name:  "Price",
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(f.provider, w)
}

func timeToFloat(t time.Time) float64 { return float64(t.UnixNano()) }

func paddedRange(lo, hi float64) (float64, float64) {
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.01, 1)
		return lo - pad, hi + pad
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func tickLayout(unit string) string {
	switch unit {
	case UnitMinute:
		return "15:04"
	case UnitDay:
		return "2006-01-02"
	case UnitMonth:
		return "2006-01"
	default:
		return "01-02 15:04"
	}
}
