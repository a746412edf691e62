package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/pkg/logx"
)

type Triggerer interface {
	Trigger(ctx context.Context, trigger entity.Trigger) error
}

// RefreshScheduler fires a background refresh on every tick. A tick that
// finds a refresh running is skipped, not queued.
type RefreshScheduler struct {
	refresher Triggerer
	interval  time.Duration
	onStart   bool
}

func NewRefreshScheduler(refresher Triggerer, interval time.Duration) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		interval:  interval,
	}
}

// WithRefreshOnStart fires the first refresh right away instead of after one
// interval.
func (w *RefreshScheduler) WithRefreshOnStart(enabled bool) *RefreshScheduler {
	w.onStart = enabled
	return w
}

func (w *RefreshScheduler) Run(ctx context.Context) error {
	logger(ctx).Info("refresh scheduler started", slog.Duration("interval", w.interval))

	if w.onStart {
		w.tick(ctx)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("refresh scheduler stopped")
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *RefreshScheduler) tick(ctx context.Context) {
	err := w.refresher.Trigger(ctx, entity.TriggerSchedule)

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRefreshInProgress):
		logger(ctx).Debug("scheduled refresh skipped, previous one still running")
	default:
		logger(ctx).Error("refresher.Trigger", logx.Error(err))
	}
}
