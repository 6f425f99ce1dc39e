package graph

import (
	"math"
	"sort"
	"time"
)

type GestureState int

const (
	Idle GestureState = iota
	Panning
	Zooming
)

func (s GestureState) String() string {
	switch s {
	case Panning:
		return "panning"
	case Zooming:
		return "zooming"
	default:
		return "idle"
	}
}

// Window is a closed time range on the x axis.
type Window struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

func (w Window) Width() time.Duration { return w.Max.Sub(w.Min) }

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Min) && !t.After(w.Max)
}

const (
	DefaultPlotWidth     = 800
	DefaultZoomInFactor  = 0.8
	DefaultZoomOutFactor = 1.25
	DefaultWheelSpeed    = 0.1
)

type ViewportOptions struct {
	PlotWidth     int
	ZoomInFactor  float64
	ZoomOutFactor float64
	WheelSpeed    float64
	Bindings      Bindings
}

func DefaultViewportOptions() ViewportOptions {
	return ViewportOptions{
		PlotWidth:     DefaultPlotWidth,
		ZoomInFactor:  DefaultZoomInFactor,
		ZoomOutFactor: DefaultZoomOutFactor,
		WheelSpeed:    DefaultWheelSpeed,
		Bindings:      DefaultBindings(),
	}
}

func (o ViewportOptions) withDefaults() ViewportOptions {
	d := DefaultViewportOptions()
	if o.PlotWidth <= 0 {
		o.PlotWidth = d.PlotWidth
	}
	if o.ZoomInFactor <= 0 || o.ZoomInFactor >= 1 {
		o.ZoomInFactor = d.ZoomInFactor
	}
	if o.ZoomOutFactor <= 1 {
		o.ZoomOutFactor = d.ZoomOutFactor
	}
	if o.WheelSpeed <= 0 || o.WheelSpeed >= 1 {
		o.WheelSpeed = d.WheelSpeed
	}
	if o.Bindings.Validate() != nil {
		o.Bindings = d.Bindings
	}
	return o
}

type drag struct {
	intent Intent
	startX float64
	lastX  float64
	origin Window
}

// Viewport is the pan/zoom controller for one Projection. The visible window
// always stays inside the extent of the projected points and is never
// narrower than the smallest gap between adjacent points.
//
// Methods that take a gesture return false when the input was degenerate or
// changed nothing; they never fail.
type Viewport struct {
	opts     ViewportOptions
	extent   Window
	hasData  bool
	minWidth time.Duration
	window   Window
	state    GestureState
	drag     *drag
}

func NewViewport(p Projection, opts ViewportOptions) *Viewport {
	v := &Viewport{opts: opts.withDefaults()}
	times := make([]time.Time, 0, len(p.Sell)+len(p.Buy))
	for _, pt := range p.Sell {
		times = append(times, pt.Time)
	}
	for _, pt := range p.Buy {
		times = append(times, pt.Time)
	}
	if len(times) == 0 {
		return v
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	v.hasData = true
	v.extent = Window{Min: times[0], Max: times[len(times)-1]}
	for i := 1; i < len(times); i++ {
		d := times[i].Sub(times[i-1])
		if d > 0 && (v.minWidth == 0 || d < v.minWidth) {
			v.minWidth = d
		}
	}
	v.window = v.extent
	return v
}

func (v *Viewport) Window() Window              { return v.window }
func (v *Viewport) Extent() Window              { return v.extent }
func (v *Viewport) MinWidth() time.Duration     { return v.minWidth }
func (v *Viewport) State() GestureState         { return v.state }
func (v *Viewport) Options() ViewportOptions    { return v.opts }
func (v *Viewport) HasData() bool               { return v.hasData }
func (v *Viewport) zoomable() bool              { return v.hasData && v.extent.Width() > 0 }
func (v *Viewport) pxToRatio(x float64) float64 { return clampF(x/float64(v.opts.PlotWidth), 0, 1) }

// Scale is the magnification of the window relative to the full extent.
func (v *Viewport) Scale() float64 {
	if !v.zoomable() || v.window.Width() <= 0 {
		return 1
	}
	return float64(v.extent.Width()) / float64(v.window.Width())
}

// Offset is how far the window start sits from the extent start.
func (v *Viewport) Offset() time.Duration { return v.window.Min.Sub(v.extent.Min) }

// Selection returns the pending drag-to-zoom range, if a zoom drag is active.
func (v *Viewport) Selection() (Window, bool) {
	if v.drag == nil || v.drag.intent != IntentZoomDrag {
		return Window{}, false
	}
	a := v.timeAt(v.drag.origin, v.drag.startX)
	b := v.timeAt(v.drag.origin, v.drag.lastX)
	if b.Before(a) {
		a, b = b, a
	}
	return Window{Min: a, Max: b}, true
}

// Reset restores the full extent and drops any gesture in progress.
func (v *Viewport) Reset() bool {
	v.window = v.extent
	v.state = Idle
	v.drag = nil
	return true
}

func (v *Viewport) ZoomIn() bool  { return v.zoomAround(0.5, v.opts.ZoomInFactor) }
func (v *Viewport) ZoomOut() bool { return v.zoomAround(0.5, v.opts.ZoomOutFactor) }

// PanBy shifts the window by a pointer movement of dx pixels. Dragging right
// moves the window towards earlier times.
func (v *Viewport) PanBy(dx float64) bool {
	if !v.zoomable() || dx == 0 || !finite(dx) {
		return false
	}
	w := int64(v.window.Width())
	// bounded by the extent so huge movements saturate instead of overflowing
	ext := float64(v.extent.Width())
	shift := int64(clampF(-dx/float64(v.opts.PlotWidth)*float64(w), -ext, ext))
	if shift == 0 {
		return false
	}
	return v.set(v.fit(v.window.Min.UnixNano()+shift, w))
}

// Wheel zooms around pixel x. Negative deltaY zooms in.
func (v *Viewport) Wheel(x, deltaY float64) bool {
	if v.drag != nil || deltaY == 0 || math.IsNaN(deltaY) || !finite(x) {
		return false
	}
	factor := 1 + v.opts.WheelSpeed
	if deltaY < 0 {
		factor = 1 - v.opts.WheelSpeed
	}
	return v.transient(func() bool { return v.zoomAround(v.pxToRatio(x), factor) })
}

// Pinch zooms around the pinch centroid x; scale > 1 spreads the fingers and
// zooms in.
func (v *Viewport) Pinch(x, scale float64) bool {
	if v.drag != nil || scale <= 0 || scale == 1 || !finite(scale) || !finite(x) {
		return false
	}
	return v.transient(func() bool { return v.zoomAround(v.pxToRatio(x), 1/scale) })
}

// ZoomTo narrows the window to [a, b]. An empty range is ignored.
func (v *Viewport) ZoomTo(a, b time.Time) bool {
	if !v.zoomable() || a.Equal(b) {
		return false
	}
	if b.Before(a) {
		a, b = b, a
	}
	width := int64(b.Sub(a))
	start := a.UnixNano()
	if floor := int64(v.minWidth); width < floor {
		start -= (floor - width) / 2
		width = floor
	}
	return v.set(v.fit(start, width))
}

// BeginDrag resolves the drag intent from the held modifiers. A drag that
// resolves to IntentNone, or starts while another gesture is active, leaves
// the viewport untouched.
func (v *Viewport) BeginDrag(x float64, held Modifier) (Intent, bool) {
	if v.drag != nil || !v.zoomable() || math.IsNaN(x) {
		return IntentNone, false
	}
	intent := v.opts.Bindings.Resolve(held)
	switch intent {
	case IntentPan:
		v.state = Panning
	case IntentZoomDrag:
		v.state = Zooming
	default:
		return IntentNone, false
	}
	v.drag = &drag{intent: intent, startX: x, lastX: x, origin: v.window}
	return intent, true
}

func (v *Viewport) MoveDrag(x float64) bool {
	if v.drag == nil || math.IsNaN(x) {
		return false
	}
	switch v.drag.intent {
	case IntentPan:
		dx := x - v.drag.lastX
		v.drag.lastX = x
		return v.PanBy(dx)
	case IntentZoomDrag:
		moved := x != v.drag.lastX
		v.drag.lastX = x
		return moved
	}
	return false
}

// EndDrag finishes the active drag at x and returns to Idle. For a zoom drag
// the selected range becomes the window; a zero-width selection is ignored.
func (v *Viewport) EndDrag(x float64) bool {
	if v.drag == nil {
		return false
	}
	changed := false
	if !math.IsNaN(x) {
		switch v.drag.intent {
		case IntentPan:
			changed = v.MoveDrag(x)
		case IntentZoomDrag:
			v.drag.lastX = x
			if sel, ok := v.Selection(); ok {
				changed = v.ZoomTo(sel.Min, sel.Max)
			}
		}
	}
	v.drag = nil
	v.state = Idle
	return changed
}

func (v *Viewport) CancelDrag() bool {
	if v.drag == nil {
		return false
	}
	v.drag = nil
	v.state = Idle
	return true
}

func (v *Viewport) transient(fn func() bool) bool {
	v.state = Zooming
	defer func() { v.state = Idle }()
	return fn()
}

// zoomAround scales the window width by factor, keeping the time at ratio
// (0 = left edge, 1 = right edge) fixed on screen.
func (v *Viewport) zoomAround(ratio, factor float64) bool {
	if !v.zoomable() {
		return false
	}
	if math.IsNaN(factor) || factor <= 0 {
		return false
	}
	w := int64(v.window.Width())
	nw := int64(math.Round(clampF(float64(w)*factor, float64(v.minWidth), float64(v.extent.Width()))))
	if nw == w {
		return false
	}
	focal := v.window.Min.UnixNano() + int64(ratio*float64(w))
	start := focal - int64(ratio*float64(nw))
	return v.set(v.fit(start, nw))
}

// fit places a window of width starting at start inside the extent.
func (v *Viewport) fit(start, width int64) Window {
	lo, hi := v.extent.Min.UnixNano(), v.extent.Max.UnixNano()
	if width >= hi-lo {
		return v.extent
	}
	if start < lo {
		start = lo
	}
	if start+width > hi {
		start = hi - width
	}
	loc := v.extent.Min.Location()
	return Window{Min: time.Unix(0, start).In(loc), Max: time.Unix(0, start+width).In(loc)}
}

func (v *Viewport) set(w Window) bool {
	if w.Min.Equal(v.window.Min) && w.Max.Equal(v.window.Max) {
		return false
	}
	v.window = w
	return true
}

func (v *Viewport) timeAt(w Window, x float64) time.Time {
	off := time.Duration(v.pxToRatio(x) * float64(w.Width()))
	return w.Min.Add(off)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
