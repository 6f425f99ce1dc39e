package memory

import (
	"context"
	"testing"
	"time"

	"fxchart-service/internal/application"
	"fxchart-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRecordRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewRecordRepo(
		domain.QuoteRecord{ID: "b", Time: t0.Add(time.Hour), FromCurrency: "USD", ToCurrency: "EUR"},
		domain.QuoteRecord{ID: "a", Time: t0, FromCurrency: "USD", ToCurrency: "EUR"},
	)
	require.NoError(t, repo.Create(ctx, domain.QuoteRecord{ID: "c", Time: t0.Add(30 * time.Minute)}))
	require.ErrorIs(t, repo.Create(ctx, domain.QuoteRecord{ID: "c"}), application.ErrConflict)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})

	sell := domain.Price(1.1)
	got, err := repo.Update(ctx, "a", domain.RecordPatch{SellPrice: domain.OptionalPrice{Set: true, Value: sell}})
	require.NoError(t, err)
	require.Equal(t, sell, got.SellPrice)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.ErrorIs(t, repo.Delete(ctx, "a"), application.ErrNotFound)
	_, err = repo.Get(ctx, "a")
	require.ErrorIs(t, err, application.ErrNotFound)

	// indexes stay consistent after removal
	got, err = repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, "b", got.ID)
	_, err = repo.Update(ctx, "missing", domain.RecordPatch{})
	require.ErrorIs(t, err, application.ErrNotFound)
}
