package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"fxchart-service/internal/application"
	"fxchart-service/internal/config"
	"fxchart-service/internal/graph"
	httpserver "fxchart-service/internal/infrastructure/http"
	"fxchart-service/internal/infrastructure/logx"
	"fxchart-service/internal/infrastructure/memory"
	"fxchart-service/internal/infrastructure/pg"
	"fxchart-service/internal/infrastructure/recordclient"
	redisstore "fxchart-service/internal/infrastructure/redis"
	"fxchart-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrMissingDBURL        = errors.New("DATABASE_URL is required for STORAGE=pg")
	ErrMissingSourceURL    = errors.New("RECORD_SOURCE_URL is required for RECORD_SOURCE=http")
	ErrUnsupportedStorage  = errors.New("unsupported STORAGE")
	ErrUnsupportedSource   = errors.New("unsupported RECORD_SOURCE")
	ErrUnsupportedIdemType = errors.New("unsupported IDEMPOTENCY_BACKEND")
)

// Storage is the record store selected by STORAGE together with its
// transaction boundary and readiness probe.
type Storage struct {
	Repo application.RecordRepo
	UoW  application.UnitOfWork
	Ping func(ctx context.Context) error
}

// App is everything cmd/api runs.
type App struct {
	Server  *httpserver.Server
	Janitor *worker.Janitor
	Views   *application.ViewManager
	Config  config.Config
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideStorage(ctx context.Context, log *zap.Logger, cfg config.Config) (Storage, func(), error) {
	switch cfg.Storage {
	case "pg":
		db, cleanup, err := ProvideDB(ctx, log, cfg)
		if err != nil {
			return Storage{}, func() {}, err
		}
		return Storage{Repo: pg.NewRecordRepo(db), UoW: pg.NewUnitOfWork(db), Ping: db.Ping}, cleanup, nil
	case "memory":
		log.Warn("using in-memory record storage; records are lost on restart")
		return Storage{Repo: memory.NewRecordRepo(), UoW: application.NoopUoW{}}, func() {}, nil
	default:
		return Storage{}, func() {}, fmt.Errorf("%w %q", ErrUnsupportedStorage, cfg.Storage)
	}
}

func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return db, cleanup, nil
}

func ProvideIdempotency(log *zap.Logger, cfg config.Config) (application.IdempotencyStore, func(), error) {
	switch cfg.IdempotencyBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cleanup := func() {
			log.Info("closing redis")
			_ = client.Close()
		}
		return redisstore.New(client, cfg.RedisTTL), cleanup, nil
	case "none", "":
		return application.NoopIdempotency{}, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("%w %q", ErrUnsupportedIdemType, cfg.IdempotencyBackend)
	}
}

// ProvideRecordSource picks where views load records from: the local store,
// or another instance of this API.
func ProvideRecordSource(st Storage, cfg config.Config) (application.RecordSource, error) {
	switch cfg.RecordSource {
	case "local", "":
		return st.Repo, nil
	case "http":
		if cfg.RecordSourceURL == "" {
			return nil, ErrMissingSourceURL
		}
		return recordclient.New(cfg.RecordSourceURL, cfg.RecordSourceToken, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedSource, cfg.RecordSource)
	}
}

func ProvideViewConfig(cfg config.Config) (application.ViewConfig, error) {
	pan, err := graph.ParseModifier(cfg.PanModifier)
	if err != nil {
		return application.ViewConfig{}, fmt.Errorf("PAN_MODIFIER: %w", err)
	}
	zoom, err := graph.ParseModifier(cfg.ZoomDragModifier)
	if err != nil {
		return application.ViewConfig{}, fmt.Errorf("ZOOM_DRAG_MODIFIER: %w", err)
	}
	bindings := graph.Bindings{Pan: pan, ZoomDrag: zoom}
	if err := bindings.Validate(); err != nil {
		return application.ViewConfig{}, err
	}
	if !graph.ValidUnit(cfg.ChartTimeUnit) {
		return application.ViewConfig{}, fmt.Errorf("CHART_TIME_UNIT: unknown unit %q", cfg.ChartTimeUnit)
	}
	return application.ViewConfig{
		Viewport: graph.ViewportOptions{
			PlotWidth:     cfg.ChartWidth,
			ZoomInFactor:  cfg.ZoomInFactor,
			ZoomOutFactor: cfg.ZoomOutFactor,
			WheelSpeed:    cfg.WheelSpeed,
			Bindings:      bindings,
		},
		Spec: graph.SpecConfig{
			Unit:          cfg.ChartTimeUnit,
			TooltipFormat: cfg.ChartTooltipFormat,
			Locale:        cfg.ChartLocale,
			TimeZone:      cfg.ChartTimeZone,
		},
	}, nil
}

func ProvideViewManager(src application.RecordSource, vc application.ViewConfig, log *zap.Logger) (*application.ViewManager, func()) {
	m := application.NewViewManager(src, vc, application.WithViewLogger(log))
	return m, m.Shutdown
}

func ProvideRenderer(cfg config.Config) *graph.Renderer {
	return graph.NewRenderer(cfg.ChartWidth, cfg.ChartHeight, cfg.ChartTimeUnit)
}

func ProvideRecordService(st Storage, idem application.IdempotencyStore) *application.RecordService {
	return application.NewRecordService(st.Repo, idem, application.WithUnitOfWork(st.UoW))
}

func ProvideServer(records *application.RecordService, views *application.ViewManager, renderer *graph.Renderer, st Storage, cfg config.Config) *httpserver.Server {
	srv := httpserver.NewServer(records, views, renderer)
	srv.SetReadyCheck(st.Ping)
	srv.SetCORSOrigins(cfg.CORSOrigins)
	return srv
}

func ProvideJanitor(views *application.ViewManager, cfg config.Config, log *zap.Logger) *worker.Janitor {
	return &worker.Janitor{
		Views:     views,
		TTL:       cfg.ViewTTL,
		PollEvery: cfg.ViewSweepEvery,
		Log:       log,
	}
}

func ProvideApp(srv *httpserver.Server, j *worker.Janitor, views *application.ViewManager, cfg config.Config) App {
	return App{Server: srv, Janitor: j, Views: views, Config: cfg}
}
