package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/pkg/logx"
)

// LatestDataKey is the object name the analysis result is published under.
const LatestDataKey = "latest-data.json"

const updatedAtSuffix = ":updated-at"

// Bucket is a key-value object store on Redis. Objects never expire.
type Bucket struct {
	client redis.UniversalClient
	prefix string
}

func NewBucket(client redis.UniversalClient, prefix string) *Bucket {
	return &Bucket{
		client: client,
		prefix: prefix,
	}
}

// Get returns the object stored under key or domain.ErrAnalysisNotFound.
func (b *Bucket) Get(ctx context.Context, key string) (entity.Snapshot, error) {
	var (
		data      *redis.StringCmd
		updatedAt *redis.StringCmd
	)

	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		data = pipe.Get(ctx, b.key(key))
		updatedAt = pipe.Get(ctx, b.key(key)+updatedAtSuffix)

		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return entity.Snapshot{}, fmt.Errorf("client.Pipelined: %w", err)
	}

	if errors.Is(data.Err(), redis.Nil) {
		return entity.Snapshot{}, domain.ErrAnalysisNotFound
	}

	if data.Err() != nil {
		return entity.Snapshot{}, fmt.Errorf("get %s: %w", key, data.Err())
	}

	snapshot := entity.Snapshot{Data: data.Val()}

	if ts, err := time.Parse(time.RFC3339Nano, updatedAt.Val()); err == nil {
		snapshot.UpdatedAt = ts
	}

	return snapshot, nil
}

// Put stores the object and its modification time in one transaction.
func (b *Bucket) Put(ctx context.Context, key string, snapshot entity.Snapshot) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, b.key(key), snapshot.Data, 0)
		pipe.Set(ctx, b.key(key)+updatedAtSuffix, snapshot.UpdatedAt.UTC().Format(time.RFC3339Nano), 0)

		return nil
	})
	if err != nil {
		return fmt.Errorf("client.TxPipelined: %w", err)
	}

	logger(ctx).Info(
		"object stored",
		slog.String("key", key),
		slog.Int(logx.FieldBytes, snapshot.Bytes()),
	)

	return nil
}

func (b *Bucket) key(key string) string {
	return b.prefix + key
}

// LatestPublisher publishes every refreshed snapshot under LatestDataKey.
type LatestPublisher struct {
	bucket *Bucket
}

func NewLatestPublisher(bucket *Bucket) LatestPublisher {
	return LatestPublisher{bucket: bucket}
}

func (p LatestPublisher) Publish(ctx context.Context, snapshot entity.Snapshot) error {
	return p.bucket.Put(ctx, LatestDataKey, snapshot)
}

func (p LatestPublisher) Latest(ctx context.Context) (entity.Snapshot, error) {
	return p.bucket.Get(ctx, LatestDataKey)
}
