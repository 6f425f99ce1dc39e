//go:build wireinject

package bootstrap

import (
	"context"

	"fxchart-service/internal/application"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideStorage,
	ProvideIdempotency,
	ProvideRecordService,
)

// InitAPI builds the HTTP server, the view janitor and their cleanup.
func InitAPI(ctx context.Context) (App, func(), error) {
	wire.Build(
		infraSet,
		ProvideRecordSource,
		ProvideViewConfig,
		ProvideViewManager,
		ProvideRenderer,
		ProvideServer,
		ProvideJanitor,
		ProvideApp,
	)
	return App{}, nil, nil
}

// InitRecordService builds the record service alone, for the seed tool.
func InitRecordService(ctx context.Context) (*application.RecordService, func(), error) {
	wire.Build(infraSet)
	return nil, nil, nil
}
