// Package cache holds the in-process snapshot cache for the normalized
// catalog.  The whole catalog is one cache entry: it is fetched, normalized,
// and served as an immutable unit until the TTL lapses or a caller
// invalidates it.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
)

// Fetcher retrieves the raw record list from the upstream endpoint.
type Fetcher interface {
	Fetch(ctx context.Context) ([]catalog.Raw, error)
}

// Metrics receives load observations.  A nil Metrics is allowed.
type Metrics interface {
	ObserveCatalogLoad(outcome string, elapsed time.Duration)
	SetCatalogSize(n int)
	SetCatalogRejects(report catalog.Report)
}

type snapshot struct {
	table     *catalog.Table
	report    catalog.Report
	fetchedAt time.Time
}

// SnapshotCache serves the current catalog snapshot, loading on miss and
// expiring by TTL.  Concurrent misses collapse into a single upstream fetch;
// a failed load caches nothing, so the next call retries.
type SnapshotCache struct {
	fetcher Fetcher
	ttl     time.Duration
	log     logging.Logger
	metrics Metrics
	now     func() time.Time

	mu    sync.RWMutex
	snap  *snapshot
	group singleflight.Group
}

// New builds a snapshot cache.  A non-positive ttl disables expiry: the
// snapshot is served until explicitly invalidated.
func New(fetcher Fetcher, ttl time.Duration, log logging.Logger, metrics Metrics) *SnapshotCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SnapshotCache{
		fetcher: fetcher,
		ttl:     ttl,
		log:     log.Named("cache"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Snapshot returns the current catalog table, loading it first if the cache
// is empty or expired.
func (c *SnapshotCache) Snapshot(ctx context.Context) (*catalog.Table, catalog.Report, time.Time, error) {
	if s := c.fresh(); s != nil {
		return s.table, s.report, s.fetchedAt, nil
	}

	v, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		// Another caller may have completed the load while this one waited.
		if s := c.fresh(); s != nil {
			return s, nil
		}
		return c.load(ctx)
	})
	if err != nil {
		return nil, catalog.Report{}, time.Time{}, err
	}

	s := v.(*snapshot)
	return s.table, s.report, s.fetchedAt, nil
}

// Invalidate discards the cached snapshot.  The next Snapshot call reloads.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
	c.log.Info("catalog snapshot invalidated")
}

// fresh returns the cached snapshot if it exists and has not expired.
func (c *SnapshotCache) fresh() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil
	}
	if c.ttl > 0 && c.now().Sub(c.snap.fetchedAt) >= c.ttl {
		return nil
	}
	return c.snap
}

func (c *SnapshotCache) load(ctx context.Context) (*snapshot, error) {
	start := c.now()

	items, err := c.fetcher.Fetch(ctx)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveCatalogLoad("error", c.now().Sub(start))
		}
		return nil, err
	}

	table, report := catalog.Normalize(items, c.log)

	s := &snapshot{table: table, report: report, fetchedAt: c.now()}
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.ObserveCatalogLoad("success", c.now().Sub(start))
		c.metrics.SetCatalogSize(table.Len())
		c.metrics.SetCatalogRejects(report)
	}
	c.log.Info("catalog snapshot loaded",
		logging.Int("records", table.Len()),
		logging.Int("raw", report.Total),
		logging.Bool("degraded", report.Degraded()),
	)
	return s, nil
}
