package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fxchart-service/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

var t0 = time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC)

func rec(id string, at time.Time, from, to string, sell, buy *float64) domain.QuoteRecord {
	return domain.QuoteRecord{ID: id, Time: at, FromCurrency: from, ToCurrency: to, SellPrice: sell, BuyPrice: buy}
}

func p(v float64) *float64 { return domain.Price(v) }

type fakeRecordRepo struct {
	mu    sync.Mutex
	store map[string]domain.QuoteRecord
	order []string
	err   error
}

func (f *fakeRecordRepo) List(context.Context) ([]domain.QuoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.QuoteRecord, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.store[id])
	}
	return out, nil
}

func (f *fakeRecordRepo) Get(_ context.Context, id string) (domain.QuoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.QuoteRecord{}, f.err
	}
	r, ok := f.store[id]
	if !ok {
		return domain.QuoteRecord{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeRecordRepo) Create(_ context.Context, r domain.QuoteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[string]domain.QuoteRecord{}
	}
	f.store[r.ID] = r
	f.order = append(f.order, r.ID)
	return nil
}

func (f *fakeRecordRepo) Update(_ context.Context, id string, patch domain.RecordPatch) (domain.QuoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.QuoteRecord{}, f.err
	}
	r, ok := f.store[id]
	if !ok {
		return domain.QuoteRecord{}, ErrNotFound
	}
	r = patch.Apply(r)
	f.store[id] = r
	return r, nil
}

func (f *fakeRecordRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.store[id]; !ok {
		return ErrNotFound
	}
	delete(f.store, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// staticSource returns a fixed slice (or error) immediately.
type staticSource struct {
	records []domain.QuoteRecord
	err     error
}

func (s staticSource) List(context.Context) ([]domain.QuoteRecord, error) {
	return s.records, s.err
}

// gatedSource blocks each List call until release is closed. It ignores
// cancellation so a late result can still arrive.
type gatedSource struct {
	records []domain.QuoteRecord
	release chan struct{}
	started chan struct{}
}

func newGatedSource(records []domain.QuoteRecord) *gatedSource {
	return &gatedSource{records: records, release: make(chan struct{}), started: make(chan struct{}, 8)}
}

func (g *gatedSource) List(context.Context) ([]domain.QuoteRecord, error) {
	g.started <- struct{}{}
	<-g.release
	return g.records, nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type seqIDGen struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

type fakeIdem struct {
	seen map[string]bool
	err  error
}

func (f *fakeIdem) TryReserve(_ context.Context, k string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[k] {
		return false, nil
	}
	f.seen[k] = true
	return true, nil
}

func (f *fakeIdem) Release(_ context.Context, k string) error {
	delete(f.seen, k)
	return nil
}

type recordingUoW struct{ calls int }

func (u *recordingUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	return fn(ctx)
}
