package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
)

const (
	TaskTypeRefresh = "analysis:refresh"
	QueueRefresh    = "refresh"

	// taskTimeoutMargin leaves time to publish, record and notify after an
	// analysis that ran up to its own timeout.
	taskTimeoutMargin = time.Minute
)

type Refresher interface {
	Refresh(ctx context.Context, trigger entity.Trigger) (entity.Snapshot, error)
}

// NewRefreshTask is enqueued by the asynq scheduler. Failed refreshes are not
// retried: the next tick runs a new one. timeout is the analysis timeout.
func NewRefreshTask(timeout time.Duration) *asynq.Task {
	return asynq.NewTask(
		TaskTypeRefresh,
		nil,
		asynq.Queue(QueueRefresh),
		asynq.MaxRetry(0),
		asynq.Timeout(TaskTimeout(timeout)),
	)
}

// TaskTimeout is the asynq deadline of a refresh task whose analysis is
// bounded by analysisTimeout.
func TaskTimeout(analysisTimeout time.Duration) time.Duration {
	return analysisTimeout + taskTimeoutMargin
}

type RefreshTaskHandler struct {
	refresher Refresher
}

func NewRefreshTaskHandler(refresher Refresher) RefreshTaskHandler {
	return RefreshTaskHandler{refresher: refresher}
}

func (h RefreshTaskHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	_, err := h.refresher.Refresh(ctx, entity.TriggerSchedule)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrRefreshInProgress):
		logger(ctx).Debug("scheduled refresh skipped, previous one still running")
		return nil
	default:
		return fmt.Errorf("refresher.Refresh: %w: %w", err, asynq.SkipRetry)
	}
}
