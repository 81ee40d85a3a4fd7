package pagination

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/catalog-client/pkg/cache"
	"github.com/Sternrassler/catalog-client/pkg/catalog"
	"github.com/rs/zerolog"
)

// fakeFetcher serves a listing of total products and records calls per page.
type fakeFetcher struct {
	mu        sync.Mutex
	total     int
	failPages map[int]error
	gate      chan struct{}
	calls     map[int]int
	filters   []catalog.Filters
}

func newFakeFetcher(total int) *fakeFetcher {
	return &fakeFetcher{
		total:     total,
		failPages: make(map[int]error),
		calls:     make(map[int]int),
	}
}

func (f *fakeFetcher) FetchProducts(ctx context.Context, filters catalog.Filters, limit, offset int) (catalog.Page, error) {
	page := offset / limit

	f.mu.Lock()
	f.calls[page]++
	f.filters = append(f.filters, filters)
	gate := f.gate
	err := f.failPages[page]
	total := f.total
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return catalog.Page{}, err
	}

	end := min(offset+limit, total)
	items := make([]catalog.Product, 0, max(end-offset, 0))
	for i := offset; i < end; i++ {
		id := strconv.Itoa(i + 1)
		items = append(items, catalog.Product{ID: id, Raw: []byte(`{"id":` + id + `}`)})
	}
	return catalog.Page{Items: items, TotalCount: total}, nil
}

func (f *fakeFetcher) failPage(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPages[page] = err
}

func (f *fakeFetcher) block() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

func (f *fakeFetcher) callsFor(page int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[page]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestController(t *testing.T, fetcher PageFetcher, cfg Config) (*Controller, *cache.Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := cache.NewStore(cache.DefaultConfig(), cache.WithClock(clock.Now), cache.WithLogger(zerolog.Nop()))
	ctrl := New(fetcher, store, cfg)
	ctrl.logger = zerolog.Nop()
	return ctrl, store, clock
}

func noPrefetch() Config {
	cfg := DefaultConfig()
	cfg.PrefetchNext = false
	return cfg
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("Atoi(%q) error = %v", s, err)
	}
	return n
}
