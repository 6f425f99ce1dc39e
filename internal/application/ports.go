package application

import (
	"context"

	"fxchart-service/internal/domain"
)

// RecordSource yields every stored record. Views fetch through it once per
// activation.
type RecordSource interface {
	List(ctx context.Context) ([]domain.QuoteRecord, error)
}

type RecordRepo interface {
	RecordSource
	Get(ctx context.Context, id string) (domain.QuoteRecord, error)
	Create(ctx context.Context, r domain.QuoteRecord) error
	Update(ctx context.Context, id string, p domain.RecordPatch) (domain.QuoteRecord, error)
	Delete(ctx context.Context, id string) error
}
