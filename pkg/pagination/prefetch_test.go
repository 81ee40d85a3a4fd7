package pagination

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/catalog-client/pkg/cache"
	"github.com/Sternrassler/catalog-client/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func fetchedOnce(fetcher *fakeFetcher, pages ...int) func() bool {
	return func() bool {
		for _, p := range pages {
			if fetcher.callsFor(p) != 1 {
				return false
			}
		}
		return true
	}
}

func TestFetchPage_PrefetchesNextPages(t *testing.T) {
	fetcher := newFakeFetcher(1000)
	ctrl, store, _ := newTestController(t, fetcher, DefaultConfig())
	filters := catalog.Filters{CategoryID: "5"}

	_, err := ctrl.FetchPage(context.Background(), 0, filters)
	require.NoError(t, err)

	require.Eventually(t, fetchedOnce(fetcher, 1, 2), waitFor, tick)
	require.Eventually(t, func() bool { return store.Stats().EntryCount == 3 }, waitFor, tick)
	assert.Zero(t, fetcher.callsFor(3), "only PrefetchPages pages are prefetched")

	// Prefetched pages are now cache hits.
	_, err = ctrl.FetchPage(context.Background(), 1, filters)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callsFor(1))
}

func TestFetchPage_PrefetchStopsAtLastPage(t *testing.T) {
	t.Run("window clipped", func(t *testing.T) {
		fetcher := newFakeFetcher(250)
		ctrl, _, _ := newTestController(t, fetcher, DefaultConfig())

		_, err := ctrl.FetchPage(context.Background(), 1, catalog.Filters{})
		require.NoError(t, err)

		require.Eventually(t, fetchedOnce(fetcher, 2), waitFor, tick)
		time.Sleep(50 * time.Millisecond)
		assert.Zero(t, fetcher.callsFor(3))
	})

	t.Run("last page prefetches nothing", func(t *testing.T) {
		fetcher := newFakeFetcher(250)
		ctrl, _, _ := newTestController(t, fetcher, DefaultConfig())

		_, err := ctrl.FetchPage(context.Background(), 2, catalog.Filters{})
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, fetcher.totalCalls())
	})
}

func TestFetchPage_PrefetchErrorsAreSwallowed(t *testing.T) {
	fetcher := newFakeFetcher(1000)
	fetcher.failPage(1, errors.New("prefetch boom"))
	ctrl, store, _ := newTestController(t, fetcher, DefaultConfig())
	filters := catalog.Filters{}

	page, err := ctrl.FetchPage(context.Background(), 0, filters)
	require.NoError(t, err)
	assert.Len(t, page.Items, 100)

	require.Eventually(t, fetchedOnce(fetcher, 1, 2), waitFor, tick)
	require.Eventually(t, func() bool {
		_, ok := store.Fresh(cache.NewKey(filters, 2))
		return ok
	}, waitFor, tick)

	_, ok := store.Get(cache.NewKey(filters, 1))
	assert.False(t, ok, "failed prefetch must not create an entry")
}

func TestFetchPage_PrefetchSurvivesCallerCancellation(t *testing.T) {
	fetcher := newFakeFetcher(1000)
	ctrl, store, _ := newTestController(t, fetcher, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	_, err := ctrl.FetchPage(ctx, 0, catalog.Filters{})
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool { return store.Stats().EntryCount == 3 }, waitFor, tick)
}

func TestPrefetchNextPages_DoesNotBlock(t *testing.T) {
	fetcher := newFakeFetcher(1000)
	ctrl, store, _ := newTestController(t, fetcher, noPrefetch())
	filters := catalog.Filters{StoreID: "4"}

	_, err := ctrl.FetchPage(context.Background(), 0, filters)
	require.NoError(t, err)

	gate := fetcher.block()
	defer close(gate)

	start := time.Now()
	ctrl.PrefetchNextPages(context.Background(), 0, filters, 2)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.Eventually(t, func() bool { return store.Stats().PendingRequests == 2 }, waitFor, tick)
}

func TestPrefetchNextPages_SkipsFreshPages(t *testing.T) {
	fetcher := newFakeFetcher(1000)
	ctrl, _, _ := newTestController(t, fetcher, noPrefetch())
	ctx := context.Background()

	_, err := ctrl.FetchPage(ctx, 0, catalog.Filters{})
	require.NoError(t, err)
	_, err = ctrl.FetchPage(ctx, 1, catalog.Filters{})
	require.NoError(t, err)

	ctrl.PrefetchNextPages(ctx, 0, catalog.Filters{}, 3)

	require.Eventually(t, fetchedOnce(fetcher, 2, 3), waitFor, tick)
	assert.Equal(t, 1, fetcher.callsFor(1))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fetcher.callsFor(4))
}

func TestPrefetchNextPages_ResolvesUnknownTotal(t *testing.T) {
	fetcher := newFakeFetcher(150)
	ctrl, store, _ := newTestController(t, fetcher, noPrefetch())

	ctrl.PrefetchNextPages(context.Background(), 0, catalog.Filters{}, 5)

	require.Eventually(t, fetchedOnce(fetcher, 0, 1), waitFor, tick)
	require.Eventually(t, func() bool { return store.Stats().EntryCount == 2 }, waitFor, tick)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fetcher.callsFor(2))
}

func TestPrefetchNextPages_NoOp(t *testing.T) {
	fetcher := newFakeFetcher(1000)
	ctrl, _, _ := newTestController(t, fetcher, noPrefetch())

	ctrl.PrefetchNextPages(context.Background(), 0, catalog.Filters{}, 0)
	ctrl.PrefetchNextPages(context.Background(), -1, catalog.Filters{}, 2)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fetcher.totalCalls())
}
