package items

import (
	"context"
	"errors"
	"log/slog"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/pkg/logx"
)

type ResultCache interface {
	Latest() (entity.Snapshot, bool)
}

type Refresher interface {
	Refresh(ctx context.Context, trigger entity.Trigger) (entity.Snapshot, error)
}

// MemorySource serves the in-process result cache and runs the analysis on
// the first request when nothing is cached yet.
type MemorySource struct {
	results   ResultCache
	refresher Refresher
}

func NewMemorySource(results ResultCache, refresher Refresher) MemorySource {
	return MemorySource{
		results:   results,
		refresher: refresher,
	}
}

func (s MemorySource) Load(ctx context.Context) (string, error) {
	if snapshot, ok := s.results.Latest(); ok {
		return snapshot.Data, nil
	}

	logger(ctx).Warn("result cache is empty, running analysis")

	snapshot, err := s.refresher.Refresh(ctx, entity.TriggerColdStart)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshInProgress) {
			return "", domain.ErrRefreshInProgress
		}

		logger(ctx).Error("cold start refresh failed", logx.Error(err))

		return "", domain.ErrAnalysisNotReady
	}

	return snapshot.Data, nil
}

type Bucket interface {
	Latest(ctx context.Context) (entity.Snapshot, error)
}

// BucketSource serves the result another process published to the durable
// store. It never runs the analysis itself.
type BucketSource struct {
	bucket Bucket
}

// NewBucketSource accepts a nil bucket: every load then fails with
// domain.ErrStorageNotConfigured.
func NewBucketSource(bucket Bucket) BucketSource {
	return BucketSource{bucket: bucket}
}

func (s BucketSource) Load(ctx context.Context) (string, error) {
	if s.bucket == nil {
		return "", domain.ErrStorageNotConfigured
	}

	snapshot, err := s.bucket.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			return "", domain.ErrAnalysisNotFound
		}

		return "", err //nolint:wrapcheck
	}

	logger(ctx).Debug("analysis loaded from bucket", slog.Int(logx.FieldBytes, snapshot.Bytes()))

	return snapshot.Data, nil
}
