package worker

import (
	"context"
	"time"

	"fxchart-service/internal/application"
	infraconfig "fxchart-service/internal/infrastructure/config"

	"go.uber.org/zap"
)

var _ application.Worker = (*Janitor)(nil)

type ViewSweeper interface {
	Sweep(ttl time.Duration) int
}

// Janitor periodically closes chart views that have been idle for longer
// than TTL.
type Janitor struct {
	Views ViewSweeper
	TTL   time.Duration

	PollEvery time.Duration
	Log       *zap.Logger
}

func (w *Janitor) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = infraconfig.DefaultJanitorPoll
	}
	if w.TTL <= 0 {
		log.Info("view_janitor_disabled")
		<-ctx.Done()
		return
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("view_janitor_started", zap.Duration("poll_every", w.PollEvery), zap.Duration("ttl", w.TTL))
	for {
		select {
		case <-ctx.Done():
			log.Info("view_janitor_stopped")
			return
		case <-t.C:
			if n := w.Views.Sweep(w.TTL); n > 0 {
				log.Debug("view_janitor_swept", zap.Int("closed", n))
			}
		}
	}
}
