package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"time"

	"fxchart-service/internal/domain"
	"fxchart-service/internal/graph"

	"go.uber.org/zap"
)

type ViewStatus string

const (
	ViewLoading ViewStatus = "loading"
	ViewReady   ViewStatus = "ready"
	ViewFailed  ViewStatus = "failed"
	ViewClosed  ViewStatus = "closed"
)

const (
	MsgLoading    = "Loading…"
	MsgLoadFailed = "Failed to load records"
	MsgNoPairs    = "No currency pairs found"
)

func MsgNoPoints(pairKey string) string { return "No data points for " + pairKey }

// ViewConfig is shared by every view a manager opens.
type ViewConfig struct {
	Viewport graph.ViewportOptions
	Spec     graph.SpecConfig
}

type GestureKind string

const (
	GestureDragStart  GestureKind = "drag_start"
	GestureDragMove   GestureKind = "drag_move"
	GestureDragEnd    GestureKind = "drag_end"
	GestureDragCancel GestureKind = "drag_cancel"
	GestureWheel      GestureKind = "wheel"
	GesturePinch      GestureKind = "pinch"
)

// Gesture is one pointer event in plot pixel coordinates.
type Gesture struct {
	Kind      GestureKind
	X         float64
	DeltaY    float64
	Scale     float64
	Modifiers graph.Modifier
}

// Snapshot is a consistent copy of a view's state.
type Snapshot struct {
	ID              string
	Status          ViewStatus
	Message         string
	Pairs           []domain.Pair
	SelectedPairKey string
	HasData         bool
	Extent          graph.Window
	Window          graph.Window
	Gesture         graph.GestureState
	Scale           float64
	Chart           *graph.Spec
}

// ChartView is one activation of the chart: a single fetch of the records,
// the derived pair index, the current selection and its viewport.
//
// A fetch result is applied only if it belongs to the current activation of
// a view that is still open; anything else is dropped.
type ChartView struct {
	id     string
	source RecordSource
	cfg    ViewConfig
	log    *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	status     ViewStatus
	fetchErr   error
	records    []domain.QuoteRecord
	pairs      []domain.Pair
	selected   string
	projection graph.Projection
	viewport   *graph.Viewport
	gen        uint64
	cancel     context.CancelFunc
	touched    time.Time
}

func newChartView(id string, source RecordSource, cfg ViewConfig, log *zap.Logger, now func() time.Time) *ChartView {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &ChartView{
		id:      id,
		source:  source,
		cfg:     cfg,
		log:     log.With(zap.String("view_id", id)),
		now:     now,
		status:  ViewLoading,
		touched: now(),
	}
}

func (v *ChartView) ID() string { return v.id }

// Activate starts a fresh fetch under parent, superseding any fetch already
// in flight. The returned channel closes once this activation's fetch has
// been applied or dropped.
func (v *ChartView) Activate(parent context.Context) (<-chan struct{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == ViewClosed {
		return nil, ErrNotFound
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	v.status = ViewLoading
	v.fetchErr = nil
	v.records, v.pairs, v.selected = nil, nil, ""
	v.projection, v.viewport = graph.Projection{}, nil
	v.touched = v.now()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	v.cancel = cancel
	gen := v.gen
	v.log.Info("view.fetch_start", zap.Uint64("generation", gen))
	go v.fetch(ctx, gen, done)
	return done, nil
}

func (v *ChartView) fetch(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)
	records, err := v.source.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == ViewClosed || gen != v.gen || ctx.Err() != nil {
		v.log.Info("view.fetch_discarded", zap.Uint64("generation", gen), zap.String("status", string(v.status)))
		return
	}
	v.cancel = nil
	if err != nil {
		v.status = ViewFailed
		var fe *FetchError
		if !errors.As(err, &fe) {
			fe = &FetchError{Err: err}
		}
		v.fetchErr = fe
		v.log.Error("view.fetch_failed", zap.Uint64("generation", gen), zap.Error(err))
		return
	}
	v.ingest(records)
	v.log.Info("view.fetch_applied",
		zap.Uint64("generation", gen),
		zap.Int("records", len(v.records)),
		zap.Int("pairs", len(v.pairs)),
		zap.String("selected", v.selected),
	)
}

// ingest sorts once, builds the pair index and selects the first pair.
func (v *ChartView) ingest(records []domain.QuoteRecord) {
	v.records = slices.Clone(records)
	SortByTime(v.records)
	v.pairs = graph.BuildPairIndex(v.records)
	v.status = ViewReady
	if len(v.pairs) == 0 {
		v.selected = ""
		v.projection, v.viewport = graph.Projection{}, nil
		return
	}
	v.project(v.pairs[0].Key)
}

func (v *ChartView) project(key string) {
	v.selected = key
	v.projection = graph.Project(v.records, key)
	v.viewport = graph.NewViewport(v.projection, v.cfg.Viewport)
}

// Close cancels an outstanding fetch. Closing twice is harmless.
func (v *ChartView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == ViewClosed {
		return
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.gen++
	v.status = ViewClosed
	v.log.Info("view.closed")
}

// Err returns the fetch failure of a failed view.
func (v *ChartView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetchErr
}

// IdleSince reports when the view was last touched.
func (v *ChartView) IdleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.touched
}

// Snapshot reads the view state. Reading counts as activity for the idle
// sweep, so a client that only polls keeps its view open.
func (v *ChartView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != ViewClosed {
		v.touched = v.now()
	}
	return v.snapshotLocked()
}

// Select switches the chart to pairKey and rebuilds the projection; the
// viewport resets to the new extent.
func (v *ChartView) Select(pairKey string) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return Snapshot{}, err
	}
	if !graph.ContainsPair(v.pairs, pairKey) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownPair, pairKey)
	}
	v.project(pairKey)
	return v.snapshotLocked(), nil
}

func (v *ChartView) ZoomIn() (Snapshot, bool, error) {
	return v.withViewport(func(vp *graph.Viewport) bool { return vp.ZoomIn() })
}

func (v *ChartView) ZoomOut() (Snapshot, bool, error) {
	return v.withViewport(func(vp *graph.Viewport) bool { return vp.ZoomOut() })
}

func (v *ChartView) ResetZoom() (Snapshot, bool, error) {
	return v.withViewport(func(vp *graph.Viewport) bool { return vp.Reset() })
}

// Apply feeds one gesture to the viewport. Degenerate gestures report false.
func (v *ChartView) Apply(g Gesture) (Snapshot, bool, error) {
	for _, f := range []float64{g.X, g.DeltaY, g.Scale} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Snapshot{}, false, fmt.Errorf("%w: gesture values must be finite", ErrBadRequest)
		}
	}
	var fn func(vp *graph.Viewport) bool
	switch g.Kind {
	case GestureDragStart:
		fn = func(vp *graph.Viewport) bool {
			_, ok := vp.BeginDrag(g.X, g.Modifiers)
			return ok
		}
	case GestureDragMove:
		fn = func(vp *graph.Viewport) bool { return vp.MoveDrag(g.X) }
	case GestureDragEnd:
		fn = func(vp *graph.Viewport) bool { return vp.EndDrag(g.X) }
	case GestureDragCancel:
		fn = func(vp *graph.Viewport) bool { return vp.CancelDrag() }
	case GestureWheel:
		fn = func(vp *graph.Viewport) bool { return vp.Wheel(g.X, g.DeltaY) }
	case GesturePinch:
		fn = func(vp *graph.Viewport) bool { return vp.Pinch(g.X, g.Scale) }
	default:
		return Snapshot{}, false, fmt.Errorf("%w: unknown gesture %q", ErrBadRequest, g.Kind)
	}
	return v.withViewport(fn)
}

// Render draws the visible window of the selected pair.
func (v *ChartView) Render(w io.Writer, format string, r *graph.Renderer) error {
	v.mu.Lock()
	if err := v.readyLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	if v.viewport == nil || v.projection.Empty() {
		v.mu.Unlock()
		return graph.ErrEmptyDataset
	}
	p, win := v.projection, v.viewport.Window()
	v.mu.Unlock()
	// projections are rebuilt, never mutated, so p is safe to read unlocked
	return r.Render(w, format, p, win)
}

func (v *ChartView) withViewport(fn func(vp *graph.Viewport) bool) (Snapshot, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return Snapshot{}, false, err
	}
	applied := false
	if v.viewport != nil {
		applied = fn(v.viewport)
	}
	return v.snapshotLocked(), applied, nil
}

func (v *ChartView) readyLocked() error {
	switch v.status {
	case ViewReady:
		v.touched = v.now()
		return nil
	case ViewClosed:
		return ErrNotFound
	default:
		return ErrNotReady
	}
}

func (v *ChartView) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:              v.id,
		Status:          v.status,
		Pairs:           slices.Clone(v.pairs),
		SelectedPairKey: v.selected,
		Scale:           1,
	}
	if s.Pairs == nil {
		s.Pairs = []domain.Pair{}
	}
	switch v.status {
	case ViewLoading:
		s.Message = MsgLoading
	case ViewFailed:
		s.Message = MsgLoadFailed
	case ViewReady:
		switch {
		case len(v.pairs) == 0:
			s.Message = MsgNoPairs
		case v.projection.Empty():
			s.Message = MsgNoPoints(v.selected)
		}
	}
	if v.viewport != nil {
		s.HasData = v.viewport.HasData()
		s.Extent = v.viewport.Extent()
		s.Window = v.viewport.Window()
		s.Gesture = v.viewport.State()
		s.Scale = v.viewport.Scale()
	}
	if v.status == ViewReady && v.selected != "" {
		spec := graph.BuildSpec(v.projection, s.Window, v.cfg.Spec)
		s.Chart = &spec
	}
	return s
}
