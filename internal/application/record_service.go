package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fxchart-service/internal/domain"
)

// RecordService is the CRUD collaborator behind the record endpoints.
type RecordService struct {
	repo  RecordRepo
	idem  IdempotencyStore
	uow   UnitOfWork
	clock Clock
	idgen IDGen
}

type Option func(*RecordService)

func WithClock(c Clock) Option           { return func(s *RecordService) { s.clock = c } }
func WithIDGen(g IDGen) Option           { return func(s *RecordService) { s.idgen = g } }
func WithUnitOfWork(u UnitOfWork) Option { return func(s *RecordService) { s.uow = u } }

func NewRecordService(repo RecordRepo, idem IdempotencyStore, opts ...Option) *RecordService {
	s := &RecordService{repo: repo, idem: idem}
	for _, opt := range opts {
		opt(s)
	}
	if s.idem == nil {
		s.idem = NoopIdempotency{}
	}
	if s.uow == nil {
		s.uow = NoopUoW{}
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idgen == nil {
		s.idgen = defaultIDGen{}
	}
	return s
}

// List returns every record ascending by time. Records sharing a timestamp
// keep the order the repo returned them in.
func (s *RecordService) List(ctx context.Context) ([]domain.QuoteRecord, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	SortByTime(out)
	return out, nil
}

func (s *RecordService) Get(ctx context.Context, id string) (domain.QuoteRecord, error) {
	return s.repo.Get(ctx, id)
}

// Create stores r under a fresh id. A zero Time defaults to now; missing
// currencies stay empty and missing prices stay nil. When idemKey is set, a
// second create with the same key fails with ErrConflict.
func (s *RecordService) Create(ctx context.Context, r domain.QuoteRecord, idemKey *string) (domain.QuoteRecord, error) {
	reserved := ""
	if idemKey != nil && strings.TrimSpace(*idemKey) != "" {
		reserved = "records:create:" + *idemKey
		ok, err := s.idem.TryReserve(ctx, reserved)
		if err != nil {
			return domain.QuoteRecord{}, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !ok {
			return domain.QuoteRecord{}, ErrConflict
		}
	}
	r = s.withDefaults(r)
	if err := s.repo.Create(ctx, r); err != nil {
		if reserved != "" {
			_ = s.idem.Release(ctx, reserved)
		}
		return domain.QuoteRecord{}, err
	}
	return r, nil
}

func (s *RecordService) Update(ctx context.Context, id string, p domain.RecordPatch) (domain.QuoteRecord, error) {
	return s.repo.Update(ctx, id, p)
}

func (s *RecordService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Import stores records in one unit of work. Records without an id get one.
func (s *RecordService) Import(ctx context.Context, records []domain.QuoteRecord) (int, error) {
	n := 0
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		for _, r := range records {
			if err := s.repo.Create(ctx, s.withDefaults(r)); err != nil {
				return fmt.Errorf("import record %d: %w", n, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *RecordService) withDefaults(r domain.QuoteRecord) domain.QuoteRecord {
	if r.ID == "" {
		r.ID = s.idgen.NewID()
	}
	if r.Time.IsZero() {
		r.Time = s.clock.Now()
	}
	r.Time = r.Time.UTC()
	return r
}

// SortByTime orders records ascending by time, keeping ties stable.
func SortByTime(records []domain.QuoteRecord) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Time.Before(records[j].Time) })
}
