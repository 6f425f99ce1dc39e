package memory

import (
	"context"
	"sync"

	"fxchart-service/internal/application"
	"fxchart-service/internal/domain"
)

var _ application.RecordRepo = (*RecordRepo)(nil)

// RecordRepo keeps records in process memory, in insertion order.
type RecordRepo struct {
	mu    sync.RWMutex
	byID  map[string]int
	items []domain.QuoteRecord
}

func NewRecordRepo(seed ...domain.QuoteRecord) *RecordRepo {
	r := &RecordRepo{byID: map[string]int{}}
	for _, rec := range seed {
		r.byID[rec.ID] = len(r.items)
		r.items = append(r.items, rec)
	}
	return r
}

func (r *RecordRepo) List(context.Context) ([]domain.QuoteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.QuoteRecord, len(r.items))
	copy(out, r.items)
	application.SortByTime(out)
	return out, nil
}

func (r *RecordRepo) Get(_ context.Context, id string) (domain.QuoteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return domain.QuoteRecord{}, application.ErrNotFound
	}
	return r.items[i], nil
}

func (r *RecordRepo) Create(_ context.Context, rec domain.QuoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.ID]; ok {
		return application.ErrConflict
	}
	r.byID[rec.ID] = len(r.items)
	r.items = append(r.items, rec)
	return nil
}

func (r *RecordRepo) Update(_ context.Context, id string, p domain.RecordPatch) (domain.QuoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return domain.QuoteRecord{}, application.ErrNotFound
	}
	r.items[i] = p.Apply(r.items[i])
	return r.items[i], nil
}

func (r *RecordRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return application.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.byID, id)
	for j := i; j < len(r.items); j++ {
		r.byID[r.items[j].ID] = j
	}
	return nil
}
