package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/pkg/errors"
)

type stubFetcher struct {
	calls int32
	items []catalog.Raw
	err   error
	delay time.Duration
}

func (f *stubFetcher) Fetch(_ context.Context) ([]catalog.Raw, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.items, f.err
}

func rawCompany(name string) catalog.Raw {
	return catalog.Raw{"name": name}
}

func TestSnapshotCache_LoadsOnceWithinTTL(t *testing.T) {
	fetcher := &stubFetcher{items: []catalog.Raw{rawCompany("Helion Energy")}}
	c := New(fetcher, time.Hour, logging.NewNopLogger(), nil)

	table1, _, at1, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	table2, _, at2, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(&fetcher.calls))
	assert.Same(t, table1, table2)
	assert.Equal(t, at1, at2)
}

func TestSnapshotCache_ExpiresByTTL(t *testing.T) {
	fetcher := &stubFetcher{items: []catalog.Raw{rawCompany("Zap Energy")}}
	c := New(fetcher, time.Hour, logging.NewNopLogger(), nil)

	current := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	_, _, _, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	current = current.Add(30 * time.Minute)
	_, _, _, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fetcher.calls), "still fresh")

	current = current.Add(31 * time.Minute)
	_, _, _, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&fetcher.calls), "expired, reloaded")
}

func TestSnapshotCache_InvalidateForcesReload(t *testing.T) {
	fetcher := &stubFetcher{items: []catalog.Raw{rawCompany("General Fusion")}}
	c := New(fetcher, time.Hour, logging.NewNopLogger(), nil)

	_, _, _, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	c.Invalidate()

	_, _, _, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&fetcher.calls))
}

func TestSnapshotCache_FailedLoadIsNotCached(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New(errors.ErrCodeSourceUnavailable, "refused")}
	c := New(fetcher, time.Hour, logging.NewNopLogger(), nil)

	_, _, _, err := c.Snapshot(context.Background())
	require.Error(t, err)

	// Upstream recovers; the next call must retry rather than replay the error.
	fetcher.err = nil
	fetcher.items = []catalog.Raw{rawCompany("Tokamak Energy")}

	table, _, _, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.EqualValues(t, 2, atomic.LoadInt32(&fetcher.calls))
}

func TestSnapshotCache_ConcurrentMissesCollapse(t *testing.T) {
	fetcher := &stubFetcher{
		items: []catalog.Raw{rawCompany("Marvel Fusion")},
		delay: 50 * time.Millisecond,
	}
	c := New(fetcher, time.Hour, logging.NewNopLogger(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := c.Snapshot(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&fetcher.calls))
}

func TestSnapshotCache_ZeroTTLNeverExpires(t *testing.T) {
	fetcher := &stubFetcher{items: []catalog.Raw{rawCompany("First Light Fusion")}}
	c := New(fetcher, 0, logging.NewNopLogger(), nil)

	current := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	_, _, _, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	current = current.Add(1000 * time.Hour)
	_, _, _, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fetcher.calls))
}

func TestSnapshotCache_NormalizesRawItems(t *testing.T) {
	fetcher := &stubFetcher{items: []catalog.Raw{
		{"name": "Helion Energy", "funding": map[string]interface{}{"amount": float64(577000000)}},
		{"description": "nameless, rejected"},
	}}
	c := New(fetcher, time.Hour, logging.NewNopLogger(), nil)

	table, report, _, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 1, report.RejectedNoName)
	assert.True(t, report.Degraded())
}
