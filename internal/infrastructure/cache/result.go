package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/semaphore"

	"skin_market/internal/domain/entity"
)

const keyLatest = "latest"

// ResultCache holds the latest analysis output and the in-flight flag that
// keeps refreshes from overlapping. Entries never expire: a snapshot lives
// until the next successful refresh replaces it.
type ResultCache struct {
	store    *gocache.Cache
	sem      *semaphore.Weighted
	inFlight atomic.Bool
	now      func() time.Time
}

func NewResultCache() *ResultCache {
	return &ResultCache{
		store: gocache.New(gocache.NoExpiration, 0),
		sem:   semaphore.NewWeighted(1),
		now:   time.Now,
	}
}

// Latest returns the cached snapshot; ok is false until the first refresh
// completes.
func (c *ResultCache) Latest() (entity.Snapshot, bool) {
	v, ok := c.store.Get(keyLatest)
	if !ok {
		return entity.Snapshot{}, false
	}

	return v.(entity.Snapshot), true //nolint:forcetypeassert
}

// Replace swaps the cached snapshot for data.
func (c *ResultCache) Replace(data string) entity.Snapshot {
	snapshot := entity.Snapshot{
		Data:      data,
		UpdatedAt: c.now(),
	}

	c.store.Set(keyLatest, snapshot, gocache.NoExpiration)

	return snapshot
}

// TryAcquire sets the in-flight flag. It returns false without blocking when
// the flag is already set; on true the caller must call Release.
func (c *ResultCache) TryAcquire() bool {
	if !c.sem.TryAcquire(1) {
		return false
	}

	c.inFlight.Store(true)

	return true
}

func (c *ResultCache) Release() {
	c.inFlight.Store(false)
	c.sem.Release(1)
}

func (c *ResultCache) InFlight() bool {
	return c.inFlight.Load()
}
