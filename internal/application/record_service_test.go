package application

import (
	"context"
	"testing"
	"time"

	"fxchart-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func newTestRecordService(repo *fakeRecordRepo, idem IdempotencyStore) *RecordService {
	return NewRecordService(repo, idem,
		WithClock(&fakeClock{t: t0}),
		WithIDGen(&seqIDGen{prefix: "rec"}),
	)
}

func Test_Create_Defaults(t *testing.T) {
	t.Parallel()
	repo := &fakeRecordRepo{}
	svc := newTestRecordService(repo, nil)

	got, err := svc.Create(context.Background(), domain.QuoteRecord{}, nil)
	require.NoError(t, err)
	require.Equal(t, "rec-1", got.ID)
	require.Equal(t, t0, got.Time)
	require.Empty(t, got.FromCurrency)
	require.Empty(t, got.ToCurrency)
	require.Nil(t, got.SellPrice)
	require.Nil(t, got.BuyPrice)
	require.Contains(t, repo.store, "rec-1")
}

func Test_Create_NormalisesTimeToUTC(t *testing.T) {
	t.Parallel()
	svc := newTestRecordService(&fakeRecordRepo{}, nil)
	local := time.Date(2025, 10, 22, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	got, err := svc.Create(context.Background(), rec("", local, "EUR", "USD", p(1.1), nil), nil)
	require.NoError(t, err)
	require.Equal(t, time.UTC, got.Time.Location())
	require.True(t, local.Equal(got.Time))
}

func Test_Create_IdempotencyConflict(t *testing.T) {
	t.Parallel()
	svc := newTestRecordService(&fakeRecordRepo{}, &fakeIdem{})
	key := "ik-1"

	_, err := svc.Create(context.Background(), domain.QuoteRecord{}, &key)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), domain.QuoteRecord{}, &key)
	require.ErrorIs(t, err, ErrConflict)

	other := "ik-2"
	_, err = svc.Create(context.Background(), domain.QuoteRecord{}, &other)
	require.NoError(t, err)
}

func Test_Create_IdempotencyStoreFailure(t *testing.T) {
	t.Parallel()
	svc := newTestRecordService(&fakeRecordRepo{}, &fakeIdem{err: ErrRepo})
	key := "ik-1"
	_, err := svc.Create(context.Background(), domain.QuoteRecord{}, &key)
	require.ErrorIs(t, err, ErrRepo)
}

func Test_Create_ReleasesKeyOnFailure(t *testing.T) {
	t.Parallel()
	repo := &fakeRecordRepo{err: ErrRepo}
	idem := &fakeIdem{}
	svc := newTestRecordService(repo, idem)
	key := "ik-1"

	_, err := svc.Create(context.Background(), domain.QuoteRecord{}, &key)
	require.ErrorIs(t, err, ErrRepo)

	repo.err = nil
	_, err = svc.Create(context.Background(), domain.QuoteRecord{}, &key)
	require.NoError(t, err)
}

func Test_List_SortsByTime(t *testing.T) {
	t.Parallel()
	repo := &fakeRecordRepo{}
	ctx := context.Background()
	for _, r := range []domain.QuoteRecord{
		rec("b", t0.Add(2*time.Hour), "A", "B", p(2), nil),
		rec("a", t0, "A", "B", p(1), nil),
		rec("c", t0.Add(2*time.Hour), "A", "B", p(3), nil),
	} {
		require.NoError(t, repo.Create(ctx, r))
	}
	svc := newTestRecordService(repo, nil)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func Test_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	repo := &fakeRecordRepo{}
	svc := newTestRecordService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, rec("", t0, "EUR", "USD", p(1.1), p(1.0)), nil)
	require.NoError(t, err)

	to := "GBP"
	updated, err := svc.Update(ctx, created.ID, domain.RecordPatch{
		ToCurrency: &to,
		BuyPrice:   domain.OptionalPrice{Set: true},
	})
	require.NoError(t, err)
	require.Equal(t, "GBP", updated.ToCurrency)
	require.Nil(t, updated.BuyPrice)
	require.InDelta(t, 1.1, *updated.SellPrice, 1e-9)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func Test_Import_UsesUnitOfWork(t *testing.T) {
	t.Parallel()
	repo := &fakeRecordRepo{}
	uow := &recordingUoW{}
	svc := NewRecordService(repo, nil, WithUnitOfWork(uow), WithIDGen(&seqIDGen{prefix: "imp"}))

	n, err := svc.Import(context.Background(), []domain.QuoteRecord{
		rec("", t0, "A", "B", p(1), nil),
		rec("fixed", t0.Add(time.Minute), "A", "B", p(2), nil),
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1, uow.calls)
	require.Contains(t, repo.store, "imp-1")
	require.Contains(t, repo.store, "fixed")
}

func Test_Import_Failure(t *testing.T) {
	t.Parallel()
	svc := NewRecordService(&fakeRecordRepo{err: ErrRepo}, nil)
	n, err := svc.Import(context.Background(), []domain.QuoteRecord{rec("", t0, "A", "B", nil, nil)})
	require.ErrorIs(t, err, ErrRepo)
	require.Zero(t, n)
}
