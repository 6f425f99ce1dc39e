package graph

import (
	"time"
)

const (
	SellLabel = "Sell Price"
	BuyLabel  = "Buy Price"

	UnitAuto   = "auto"
	UnitMinute = "minute"
	UnitHour   = "hour"
	UnitDay    = "day"
	UnitMonth  = "month"

	DefaultTooltipFormat = "Pp"
	DefaultLocale        = "en-US"
)

// Spec is a line chart description in the shape generic time-series chart
// surfaces (Chart.js and friends) consume directly.
type Spec struct {
	Type    string       `json:"type"`
	Data    SpecData     `json:"data"`
	Options ChartOptions `json:"options"`
}

type SpecData struct {
	Datasets []Dataset `json:"datasets"`
}

type XY struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

type Dataset struct {
	Label           string  `json:"label"`
	Data            []XY    `json:"data"`
	BorderColor     string  `json:"borderColor"`
	BackgroundColor string  `json:"backgroundColor"`
	Tension         float64 `json:"tension"`
	SpanGaps        bool    `json:"spanGaps"`
	PointRadius     int     `json:"pointRadius"`
}

type ChartOptions struct {
	Responsive  bool        `json:"responsive"`
	Interaction Interaction `json:"interaction"`
	Plugins     Plugins     `json:"plugins"`
	Scales      Scales      `json:"scales"`
}

type Interaction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type Plugins struct {
	Legend  Legend  `json:"legend"`
	Title   Title   `json:"title"`
	Tooltip Tooltip `json:"tooltip"`
}

type Legend struct {
	Position string `json:"position"`
}

type Title struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Tooltip struct {
	Enabled bool `json:"enabled"`
}

type Scales struct {
	X TimeAxis   `json:"x"`
	Y LinearAxis `json:"y"`
}

type TimeAxis struct {
	Type     string       `json:"type"`
	Min      *time.Time   `json:"min,omitempty"`
	Max      *time.Time   `json:"max,omitempty"`
	Time     TimeOptions  `json:"time"`
	Adapters AxisAdapters `json:"adapters"`
	Title    Title        `json:"title"`
}

type TimeOptions struct {
	Unit          string `json:"unit"`
	TooltipFormat string `json:"tooltipFormat"`
}

type AxisAdapters struct {
	Date DateAdapter `json:"date"`
}

type DateAdapter struct {
	Locale   string `json:"locale"`
	TimeZone string `json:"timeZone,omitempty"`
}

type LinearAxis struct {
	Display     bool  `json:"display"`
	Title       Title `json:"title"`
	BeginAtZero bool  `json:"beginAtZero"`
}

// SpecConfig controls axis formatting. Zero values fall back to defaults.
type SpecConfig struct {
	Unit          string
	TooltipFormat string
	Locale        string
	TimeZone      string
}

type seriesStyle struct {
	border, background string
}

var (
	sellStyle = seriesStyle{border: "rgba(220,38,38,0.9)", background: "rgba(220,38,38,0.2)"}
	buyStyle  = seriesStyle{border: "rgba(16,185,129,0.9)", background: "rgba(16,185,129,0.2)"}
)

// BuildSpec describes p for a chart surface with the x axis limited to win.
// A zero win leaves the axis bounds to the surface.
func BuildSpec(p Projection, win Window, cfg SpecConfig) Spec {
	unit := cfg.Unit
	if unit == "" {
		unit = UnitHour
	}
	if unit == UnitAuto {
		unit = UnitFor(win.Width())
	}
	tooltip := cfg.TooltipFormat
	if tooltip == "" {
		tooltip = DefaultTooltipFormat
	}
	locale := cfg.Locale
	if locale == "" {
		locale = DefaultLocale
	}

	x := TimeAxis{
		Type:     "time",
		Time:     TimeOptions{Unit: unit, TooltipFormat: tooltip},
		Adapters: AxisAdapters{Date: DateAdapter{Locale: locale, TimeZone: cfg.TimeZone}},
		Title:    Title{Display: true, Text: "Time"},
	}
	if !win.Min.IsZero() || !win.Max.IsZero() {
		lo, hi := win.Min, win.Max
		x.Min, x.Max = &lo, &hi
	}

	return Spec{
		Type: "line",
		Data: SpecData{Datasets: []Dataset{
			dataset(SellLabel, p.Sell, sellStyle),
			dataset(BuyLabel, p.Buy, buyStyle),
		}},
		Options: ChartOptions{
			Responsive:  true,
			Interaction: Interaction{Mode: "nearest", Intersect: false},
			Plugins: Plugins{
				Legend:  Legend{Position: "top"},
				Title:   Title{Display: true, Text: "Price history — " + p.PairKey},
				Tooltip: Tooltip{Enabled: true},
			},
			Scales: Scales{
				X: x,
				Y: LinearAxis{Display: true, Title: Title{Display: true, Text: "Price"}, BeginAtZero: false},
			},
		},
	}
}

func dataset(label string, s Series, st seriesStyle) Dataset {
	data := make([]XY, 0, len(s))
	for _, pt := range s {
		data = append(data, XY{X: pt.Time, Y: pt.Value})
	}
	return Dataset{
		Label:           label,
		Data:            data,
		BorderColor:     st.border,
		BackgroundColor: st.background,
		Tension:         0.2,
		SpanGaps:        true,
		PointRadius:     3,
	}
}

// UnitFor picks a tick unit that keeps a window of width readable.
func UnitFor(width time.Duration) string {
	switch {
	case width <= 2*time.Hour:
		return UnitMinute
	case width <= 3*24*time.Hour:
		return UnitHour
	case width <= 90*24*time.Hour:
		return UnitDay
	default:
		return UnitMonth
	}
}

// ValidUnit reports whether u is accepted by SpecConfig.Unit.
func ValidUnit(u string) bool {
	switch u {
	case UnitAuto, UnitMinute, UnitHour, UnitDay, UnitMonth:
		return true
	}
	return false
}
