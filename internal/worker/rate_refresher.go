package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ayo6706/fx-converter/internal/observability"
	"go.uber.org/zap"
)

const rateRefresherName = "rate_refresher"

// Reloader swaps in freshly loaded exchange rates.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context) error

func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

// RateRefresher periodically reloads exchange rates. A failed reload is
// logged and counted while the previous rates keep serving.
type RateRefresher struct {
	reloader Reloader
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateRefresher constructs a refresher with a default five minute interval.
func NewRateRefresher(reloader Reloader) *RateRefresher {
	return &RateRefresher{
		reloader: reloader,
		interval: 5 * time.Minute,
		timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the refresh interval.
func (w *RateRefresher) WithInterval(interval time.Duration) *RateRefresher {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// WithTimeout bounds a single reload.
func (w *RateRefresher) WithTimeout(timeout time.Duration) *RateRefresher {
	if timeout > 0 {
		w.timeout = timeout
	}
	return w
}

// Start blocks and reloads rates on every tick. The initial load is the
// caller's job, so the first reload happens one interval after start.
func (w *RateRefresher) Start(ctx context.Context) {
	zap.L().Info("rate refresher starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("rate refresher context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("rate refresher stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *RateRefresher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *RateRefresher) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *RateRefresher) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.reloader.Reload(ctx); err != nil {
		observability.IncrementWorkerRun(rateRefresherName, "failed")
		zap.L().Error("rate refresh failed, keeping previous rates", zap.Error(err))
		return
	}
	observability.IncrementWorkerRun(rateRefresherName, "success")
}
