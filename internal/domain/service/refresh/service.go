package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/xid"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/pkg/contextx"
	"skin_market/pkg/errcodes"
	"skin_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const defaultTimeout = 10 * time.Minute

type Analyzer interface {
	RunAnalysis(ctx context.Context) (string, error)
}

type ResultCache interface {
	Replace(data string) entity.Snapshot
	TryAcquire() bool
	Release()
}

type Publisher interface {
	Publish(ctx context.Context, snapshot entity.Snapshot) error
}

type RunRecorder interface {
	Create(ctx context.Context, run *entity.RefreshRun) error
	Finish(ctx context.Context, run *entity.RefreshRun) error
}

type Notifier interface {
	NotifyRefresh(ctx context.Context, run entity.RefreshRun, snapshot entity.Snapshot) error
}

// Service runs the analysis engine and stores its output in the result cache.
// At most one analysis runs at a time; callers that find one running get
// domain.ErrRefreshInProgress instead of waiting for it.
type Service struct {
	analyzer Analyzer
	results  ResultCache
	timeout  time.Duration
	now      func() time.Time

	publisher Publisher
	recorder  RunRecorder
	notifier  Notifier
}

func NewService(analyzer Analyzer, results ResultCache) *Service {
	return &Service{
		analyzer: analyzer,
		results:  results,
		timeout:  defaultTimeout,
		now:      time.Now,
	}
}

func (s *Service) WithTimeout(timeout time.Duration) *Service {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

func (s *Service) WithRunRecorder(r RunRecorder) *Service {
	s.recorder = r
	return s
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// Refresh runs the analysis and waits for it. On failure the cache keeps its
// previous contents.
func (s *Service) Refresh(ctx context.Context, trigger entity.Trigger) (entity.Snapshot, error) {
	if !s.results.TryAcquire() {
		return entity.Snapshot{}, s.busy(ctx, trigger)
	}
	defer s.results.Release()

	return s.refresh(ctx, trigger)
}

// Trigger starts a refresh in the background and returns at once. The refresh
// outlives ctx cancellation but keeps its values.
func (s *Service) Trigger(ctx context.Context, trigger entity.Trigger) error {
	if !s.results.TryAcquire() {
		return s.busy(ctx, trigger)
	}

	go func() {
		defer s.results.Release()
		defer func() {
			if rec := recover(); rec != nil {
				logger(ctx).Error("background refresh panicked", slog.Any("panic", rec))
			}
		}()

		if _, err := s.refresh(context.WithoutCancel(ctx), trigger); err != nil {
			logger(ctx).Error("background refresh failed", slog.String(logx.FieldTrigger, trigger.String()), logx.Error(err))
		}
	}()

	return nil
}

func (s *Service) busy(ctx context.Context, trigger entity.Trigger) error {
	refreshTotal.WithLabelValues(trigger.String(), resultBusy).Inc()

	logger(ctx).Info("refresh skipped, another one is in flight", slog.String(logx.FieldTrigger, trigger.String()))

	return domain.ErrRefreshInProgress
}

// refresh must be called with the in-flight flag held.
func (s *Service) refresh(ctx context.Context, trigger entity.Trigger) (entity.Snapshot, error) {
	refreshInFlight.Set(1)
	defer refreshInFlight.Set(0)

	run := entity.RefreshRun{
		ID:        xid.New().String(),
		Trigger:   trigger,
		Status:    entity.RunStatusRunning,
		StartedAt: s.now(),
	}

	ctx = contextx.WithRunID(ctx, contextx.RunID(run.ID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldRunID, run.ID),
		slog.String(logx.FieldTrigger, trigger.String()),
	))

	logger(ctx).Info("refresh started")

	s.recordStart(ctx, &run)

	data, itemCount, err := s.analyze(ctx)

	refreshDuration.WithLabelValues(trigger.String()).Observe(s.now().Sub(run.StartedAt).Seconds())

	if err != nil {
		run.Fail(s.now(), err)
		s.recordFinish(ctx, &run)

		refreshTotal.WithLabelValues(trigger.String(), resultFailed).Inc()
		logger(ctx).Error("refresh failed", logx.Error(err))

		return entity.Snapshot{}, fmt.Errorf("analyze: %w", err)
	}

	snapshot := s.results.Replace(data)

	run.Succeed(s.now(), snapshot.Bytes(), itemCount)

	refreshTotal.WithLabelValues(trigger.String(), resultSucceeded).Inc()
	cachedBytes.Set(float64(snapshot.Bytes()))
	cachedItems.Set(float64(itemCount))

	logger(ctx).Info(
		"refresh completed",
		slog.Int(logx.FieldBytes, snapshot.Bytes()),
		slog.Int(logx.FieldItemCount, itemCount),
		slog.Int64(logx.FieldDurationMs, run.Duration().Milliseconds()),
	)

	s.recordFinish(ctx, &run)
	s.publish(ctx, snapshot)
	s.notify(ctx, run, snapshot)

	return snapshot, nil
}

func (s *Service) analyze(ctx context.Context) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.analyzer.RunAnalysis(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", 0, domain.WrapError(err, errcodes.TimeoutExceeded, "analysis timed out")
		}

		return "", 0, domain.WrapError(err, errcodes.AnalysisFailed, "analysis failed")
	}

	data = strings.TrimSpace(data)
	if data == "" || data == "null" {
		return "", 0, domain.ErrEmptyAnalysis
	}

	var items []jsoniter.RawMessage
	if err = json.UnmarshalFromString(data, &items); err != nil {
		return "", 0, domain.WrapError(err, errcodes.AnalysisFailed, "analysis returned malformed JSON")
	}

	return data, len(items), nil
}

func (s *Service) recordStart(ctx context.Context, run *entity.RefreshRun) {
	if s.recorder == nil {
		return
	}

	if err := s.recorder.Create(ctx, run); err != nil {
		logger(ctx).Error("recorder.Create", logx.Error(err))
	}
}

func (s *Service) recordFinish(ctx context.Context, run *entity.RefreshRun) {
	if s.recorder == nil {
		return
	}

	if err := s.recorder.Finish(ctx, run); err != nil {
		logger(ctx).Error("recorder.Finish", logx.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, snapshot entity.Snapshot) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, snapshot); err != nil {
		logger(ctx).Error("publisher.Publish", logx.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, run entity.RefreshRun, snapshot entity.Snapshot) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.NotifyRefresh(ctx, run, snapshot); err != nil {
		logger(ctx).Error("notifier.NotifyRefresh", logx.Error(err))
	}
}
