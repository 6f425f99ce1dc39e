package graph

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestViewport(n int) *Viewport {
	p := Project(hourly(n, "USD", "EUR"), "USD → EUR")
	return NewViewport(p, DefaultViewportOptions())
}

func requireInside(t *testing.T, v *Viewport) {
	t.Helper()
	w, ext := v.Window(), v.Extent()
	require.False(t, w.Min.Before(ext.Min), "window min %v before extent %v", w.Min, ext.Min)
	require.False(t, w.Max.After(ext.Max), "window max %v after extent %v", w.Max, ext.Max)
	require.GreaterOrEqual(t, w.Width(), v.MinWidth())
}

func TestViewport_Extent(t *testing.T) {
	v := newTestViewport(10)
	require.True(t, v.HasData())
	require.Equal(t, t0, v.Extent().Min)
	require.Equal(t, t0.Add(9*time.Hour), v.Extent().Max)
	require.Equal(t, time.Hour, v.MinWidth())
	require.Equal(t, v.Extent(), v.Window())
	require.Equal(t, Idle, v.State())
	require.InDelta(t, 1.0, v.Scale(), 1e-9)
}

func TestViewport_Empty(t *testing.T) {
	v := NewViewport(Projection{}, DefaultViewportOptions())
	require.False(t, v.HasData())
	require.False(t, v.ZoomIn())
	require.False(t, v.ZoomOut())
	require.False(t, v.PanBy(100))
	require.False(t, v.Wheel(100, -1))
	_, ok := v.BeginDrag(100, ModCtrl)
	require.False(t, ok)
	require.True(t, v.Reset())
	require.Equal(t, Idle, v.State())
}

func TestViewport_SinglePoint(t *testing.T) {
	v := newTestViewport(1)
	require.True(t, v.HasData())
	require.Zero(t, v.Extent().Width())
	require.False(t, v.ZoomIn())
	require.False(t, v.PanBy(-50))
	require.True(t, v.Reset())
}

func TestViewport_ZoomInCentered(t *testing.T) {
	v := newTestViewport(10)
	require.True(t, v.ZoomIn())
	w := v.Window()
	require.Equal(t, 7*time.Hour+12*time.Minute, w.Width())
	require.Equal(t, t0.Add(54*time.Minute), w.Min)
	require.InDelta(t, 1.25, v.Scale(), 1e-9)
	require.Equal(t, 54*time.Minute, v.Offset())
	requireInside(t, v)
}

func TestViewport_ZoomOutAtFullExtentIsNoop(t *testing.T) {
	v := newTestViewport(10)
	require.False(t, v.ZoomOut())
	require.Equal(t, v.Extent(), v.Window())

	require.True(t, v.ZoomIn())
	require.True(t, v.ZoomIn())
	require.True(t, v.ZoomOut())
	requireInside(t, v)
	require.Equal(t, 7*time.Hour+12*time.Minute, v.Window().Width())
	require.True(t, v.ZoomOut())
	require.Equal(t, v.Extent(), v.Window())
	require.False(t, v.ZoomOut())
}

func TestViewport_RepeatedZoomInStopsAtMinWidth(t *testing.T) {
	v := newTestViewport(48)
	for i := 0; i < 50; i++ {
		v.ZoomIn()
		requireInside(t, v)
	}
	require.Equal(t, v.MinWidth(), v.Window().Width())
	require.False(t, v.ZoomIn())
}

func TestViewport_PanClampsToExtent(t *testing.T) {
	v := newTestViewport(10)
	require.True(t, v.ZoomIn())
	require.True(t, v.ZoomIn())
	width := v.Window().Width()

	require.True(t, v.PanBy(100000))
	require.Equal(t, v.Extent().Min, v.Window().Min)
	require.Equal(t, width, v.Window().Width())
	require.False(t, v.PanBy(10))

	require.True(t, v.PanBy(-100000))
	require.Equal(t, v.Extent().Max, v.Window().Max)
	require.Equal(t, width, v.Window().Width())
}

func TestViewport_PanAtFullExtentIsNoop(t *testing.T) {
	v := newTestViewport(10)
	require.False(t, v.PanBy(200))
	require.Equal(t, v.Extent(), v.Window())
}

func TestViewport_DragPan(t *testing.T) {
	v := newTestViewport(10)
	require.True(t, v.ZoomIn())
	before := v.Window()

	intent, ok := v.BeginDrag(400, ModCtrl)
	require.True(t, ok)
	require.Equal(t, IntentPan, intent)
	require.Equal(t, Panning, v.State())

	require.True(t, v.MoveDrag(450))
	require.True(t, v.Window().Min.Before(before.Min))
	require.True(t, v.EndDrag(460))
	require.Equal(t, Idle, v.State())
	require.Equal(t, before.Width(), v.Window().Width())
	requireInside(t, v)
}

func TestViewport_DragSelectZoom(t *testing.T) {
	v := newTestViewport(10)
	intent, ok := v.BeginDrag(200, ModShift)
	require.True(t, ok)
	require.Equal(t, IntentZoomDrag, intent)
	require.Equal(t, Zooming, v.State())

	require.True(t, v.MoveDrag(600))
	sel, ok := v.Selection()
	require.True(t, ok)
	require.Equal(t, t0.Add(2*time.Hour+15*time.Minute), sel.Min)
	require.Equal(t, t0.Add(6*time.Hour+45*time.Minute), sel.Max)
	require.Equal(t, v.Extent(), v.Window(), "window must not move until the drag ends")

	require.True(t, v.EndDrag(600))
	require.Equal(t, Idle, v.State())
	require.Equal(t, sel, v.Window())
	_, ok = v.Selection()
	require.False(t, ok)
}

func TestViewport_DragSelectBackwards(t *testing.T) {
	v := newTestViewport(10)
	_, ok := v.BeginDrag(600, ModShift)
	require.True(t, ok)
	require.True(t, v.EndDrag(200))
	require.Equal(t, t0.Add(2*time.Hour+15*time.Minute), v.Window().Min)
}

func TestViewport_ZeroWidthSelectionIgnored(t *testing.T) {
	v := newTestViewport(10)
	_, ok := v.BeginDrag(300, ModShift)
	require.True(t, ok)
	require.False(t, v.EndDrag(300))
	require.Equal(t, Idle, v.State())
	require.Equal(t, v.Extent(), v.Window())
}

func TestViewport_NarrowSelectionWidensToMinWidth(t *testing.T) {
	v := newTestViewport(10)
	_, ok := v.BeginDrag(400, ModShift)
	require.True(t, ok)
	require.True(t, v.EndDrag(401))
	require.Equal(t, v.MinWidth(), v.Window().Width())
	requireInside(t, v)
}

func TestViewport_AmbiguousOrMissingModifier(t *testing.T) {
	v := newTestViewport(10)
	for _, held := range []Modifier{0, ModCtrl | ModShift, ModAlt} {
		intent, ok := v.BeginDrag(100, held)
		require.False(t, ok)
		require.Equal(t, IntentNone, intent)
		require.Equal(t, Idle, v.State())
	}
	require.False(t, v.MoveDrag(300))
	require.False(t, v.EndDrag(300))
	require.False(t, v.CancelDrag())
}

func TestViewport_SecondDragIgnored(t *testing.T) {
	v := newTestViewport(10)
	_, ok := v.BeginDrag(100, ModShift)
	require.True(t, ok)
	_, ok = v.BeginDrag(100, ModCtrl)
	require.False(t, ok)
	require.Equal(t, Zooming, v.State())
	require.False(t, v.Wheel(100, -1), "wheel is ignored while a drag is active")
	require.True(t, v.CancelDrag())
	require.Equal(t, Idle, v.State())
}

func TestViewport_WheelKeepsFocalPoint(t *testing.T) {
	v := newTestViewport(10)
	require.True(t, v.Wheel(0, -120))
	require.Equal(t, Idle, v.State())
	require.Equal(t, v.Extent().Min, v.Window().Min)
	require.Equal(t, 8*time.Hour+6*time.Minute, v.Window().Width())

	require.False(t, v.Wheel(400, 0))
	require.True(t, v.Wheel(800, 120))
	requireInside(t, v)
}

func TestViewport_Pinch(t *testing.T) {
	v := newTestViewport(10)
	require.True(t, v.Pinch(400, 2))
	require.Equal(t, 4*time.Hour+30*time.Minute, v.Window().Width())
	require.Equal(t, t0.Add(2*time.Hour+15*time.Minute), v.Window().Min)

	before := v.Window()
	require.False(t, v.Pinch(400, 0))
	require.False(t, v.Pinch(400, -2))
	require.False(t, v.Pinch(400, 1))
	require.Equal(t, before, v.Window())
}

func TestViewport_ExtremeMagnitudesSaturate(t *testing.T) {
	v := newTestViewport(10)
	require.True(t, v.ZoomIn())
	require.True(t, v.ZoomIn())
	require.Equal(t, 5*time.Hour+45*time.Minute+36*time.Second, v.Window().Width())

	require.True(t, v.PanBy(-1e30))
	require.Equal(t, v.Extent().Max, v.Window().Max, "a huge leftward drag pans to the latest data")
	require.True(t, v.PanBy(1e30))
	require.Equal(t, v.Extent().Min, v.Window().Min)

	require.True(t, v.Pinch(400, 1e-300))
	require.Equal(t, v.Extent(), v.Window(), "pinching fully closed zooms all the way out")

	require.True(t, v.Pinch(400, 1e300))
	require.Equal(t, v.MinWidth(), v.Window().Width())
	requireInside(t, v)
}

func TestViewport_NonFinitePointerIgnored(t *testing.T) {
	v := newTestViewport(10)
	nan, inf := math.NaN(), math.Inf(1)
	require.False(t, v.Wheel(nan, -120))
	require.False(t, v.Wheel(inf, -120))
	require.False(t, v.Pinch(nan, 2))
	require.False(t, v.Pinch(400, inf))
	require.False(t, v.PanBy(nan))
	require.Equal(t, v.Extent(), v.Window())
	require.Equal(t, Idle, v.State())
}

func TestViewport_ResetAfterHistory(t *testing.T) {
	v := newTestViewport(24)
	v.ZoomIn()
	v.ZoomIn()
	v.PanBy(300)
	_, _ = v.BeginDrag(10, ModShift)
	v.MoveDrag(90)

	require.True(t, v.Reset())
	require.Equal(t, v.Extent(), v.Window())
	require.Equal(t, Idle, v.State())
	_, ok := v.Selection()
	require.False(t, ok)
}

func TestViewport_RandomGesturesStayInsideExtent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	records := hourly(100, "USD", "EUR")
	// irregular spacing so the minimum width is not the typical gap
	records[50].Time = records[49].Time.Add(7 * time.Minute)
	v := NewViewport(Project(records, "USD → EUR"), DefaultViewportOptions())
	require.Equal(t, 7*time.Minute, v.MinWidth())

	mods := []Modifier{0, ModCtrl, ModShift, ModCtrl | ModShift}
	for i := 0; i < 2000; i++ {
		x := rng.Float64()*1000 - 100
		switch rng.Intn(9) {
		case 0:
			v.ZoomIn()
		case 1:
			v.ZoomOut()
		case 2:
			v.PanBy(rng.Float64()*2000 - 1000)
		case 3:
			v.Wheel(x, rng.Float64()*240-120)
		case 4:
			v.Pinch(x, rng.Float64()*3)
		case 5:
			v.BeginDrag(x, mods[rng.Intn(len(mods))])
		case 6:
			v.MoveDrag(x)
		case 7:
			v.EndDrag(x)
		case 8:
			if rng.Intn(10) == 0 {
				v.Reset()
				require.Equal(t, v.Extent(), v.Window())
			}
		}
		requireInside(t, v)
	}
}
