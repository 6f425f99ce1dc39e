package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fxchart-service/internal/bootstrap"
	"fxchart-service/internal/graph"
	infraconfig "fxchart-service/internal/infrastructure/config"
	httpserver "fxchart-service/internal/infrastructure/http"
	"fxchart-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	graph.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := bootstrap.InitAPI(ctx)
	if err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer cleanup()

	port := app.Config.Port
	if port == "" {
		port = infraconfig.DefaultHTTPPort
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           httpserver.NewRouter(app.Server),
		ReadHeaderTimeout: infraconfig.DefaultReadTimeout,
	}

	go app.Janitor.Start(ctx)

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	cancel()
	app.Views.Shutdown()
	logger.Info("server stopped")
}
