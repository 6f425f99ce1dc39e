package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ViewManager owns the open chart views. Views live only in memory.
type ViewManager struct {
	source RecordSource
	cfg    ViewConfig
	log    *zap.Logger
	clock  Clock
	idgen  IDGen

	base   context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	views map[string]*ChartView
}

type ViewOption func(*ViewManager)

func WithViewClock(c Clock) ViewOption        { return func(m *ViewManager) { m.clock = c } }
func WithViewIDGen(g IDGen) ViewOption        { return func(m *ViewManager) { m.idgen = g } }
func WithViewLogger(l *zap.Logger) ViewOption { return func(m *ViewManager) { m.log = l } }

func NewViewManager(source RecordSource, cfg ViewConfig, opts ...ViewOption) *ViewManager {
	m := &ViewManager{
		source: source,
		cfg:    cfg,
		views:  map[string]*ChartView{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.clock == nil {
		m.clock = realClock{}
	}
	if m.idgen == nil {
		m.idgen = defaultIDGen{}
	}
	m.base, m.cancel = context.WithCancel(context.Background())
	return m
}

// Open registers a new view and starts its fetch.
func (m *ViewManager) Open() (*ChartView, <-chan struct{}) {
	v := newChartView(m.idgen.NewID(), m.source, m.cfg, m.log, m.clock.Now)
	m.mu.Lock()
	m.views[v.ID()] = v
	m.mu.Unlock()
	done, _ := v.Activate(m.base)
	return v, done
}

func (m *ViewManager) Get(id string) (*ChartView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Close removes the view and cancels its fetch.
func (m *ViewManager) Close(id string) error {
	m.mu.Lock()
	v, ok := m.views[id]
	delete(m.views, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	v.Close()
	return nil
}

// Sweep closes views untouched for longer than ttl and returns how many it
// closed.
func (m *ViewManager) Sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := m.clock.Now().Add(-ttl)
	var stale []*ChartView
	m.mu.Lock()
	for id, v := range m.views {
		if v.IdleSince().Before(cutoff) {
			stale = append(stale, v)
			delete(m.views, id)
		}
	}
	m.mu.Unlock()
	for _, v := range stale {
		v.Close()
	}
	if len(stale) > 0 {
		m.log.Info("view.swept", zap.Int("closed", len(stale)), zap.Duration("ttl", ttl))
	}
	return len(stale)
}

func (m *ViewManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// Shutdown closes every view and cancels all fetches.
func (m *ViewManager) Shutdown() {
	m.mu.Lock()
	views := m.views
	m.views = map[string]*ChartView{}
	m.mu.Unlock()
	for _, v := range views {
		v.Close()
	}
	m.cancel()
}
