package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sternrassler/catalog-client/pkg/catalog"
	"github.com/Sternrassler/catalog-client/pkg/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched page is served from cache.
const DefaultTTL = 5 * time.Minute

// ErrInvalidTTL is returned for a non-positive TTL.
var ErrInvalidTTL = errors.New("cache ttl must be positive")

// Config holds the store configuration.
type Config struct {
	// TTL gates reads. Expired entries are kept until overwritten or cleared.
	TTL time.Duration
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{TTL: DefaultTTL}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return ErrInvalidTTL
	}
	return nil
}

// LoadFunc fetches a page from the source of truth.
type LoadFunc func(ctx context.Context) (catalog.Page, error)

// Stats summarizes the store contents.
type Stats struct {
	EntryCount       int
	TotalItemsCached int
	// ApproximateBytes counts raw product bytes plus key lengths.
	ApproximateBytes int
	PendingRequests  int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger overrides the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store is an in-memory page cache with request coalescing.
// A Store is safe for concurrent use. Create one per application or session
// and hand it to the consumers that should share it.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]*Entry

	group   singleflight.Group
	pending atomic.Int64

	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewStore creates an empty store. A zero TTL falls back to DefaultTTL.
func NewStore(cfg Config, opts ...Option) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	s := &Store{
		entries: make(map[Key]*Entry),
		ttl:     cfg.TTL,
		now:     time.Now,
		logger:  logging.NewLogger("catalog-cache"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the stored entry for key, stale or not.
func (s *Store) Get(key Key) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	return entry, ok
}

// Fresh returns the entry for key only if it is still valid.
func (s *Store) Fresh(key Key) (*Entry, bool) {
	entry, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	if !entry.IsValid(s.now(), s.ttl) {
		return nil, false
	}
	return entry, true
}

// Lookup is Fresh with hit/miss accounting.
func (s *Store) Lookup(key Key) (*Entry, bool) {
	entry, ok := s.Get(key)
	switch {
	case !ok:
		CacheMisses.WithLabelValues("absent").Inc()
		s.logger.Debug().Str("key", key.String()).Msg("Cache miss")
		return nil, false
	case !entry.IsValid(s.now(), s.ttl):
		CacheMisses.WithLabelValues("stale").Inc()
		s.logger.Debug().
			Str("key", key.String()).
			Time("fetched_at", entry.FetchedAt).
			Msg("Cache entry stale")
		return nil, false
	}

	CacheHits.Inc()
	s.logger.Debug().Str("key", key.String()).Int("items", len(entry.Items)).Msg("Cache hit")
	return entry, true
}

// Put stores entry under key, replacing any previous entry.
func (s *Store) Put(key Key, entry *Entry) {
	if entry == nil {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry
	n := len(s.entries)
	s.mu.Unlock()

	CacheEntries.Set(float64(n))
}

// Load runs fn for key unless a fetch for the same key is already in flight,
// in which case the caller joins it and observes the same entry or error.
// A successful fetch is stored; a failed one stores nothing.
//
// The shared fetch is not cancelled when a caller's context ends; that caller
// simply stops waiting for it.
func (s *Store) Load(ctx context.Context, key Key, fn LoadFunc) (*Entry, error) {
	fetchCtx := context.WithoutCancel(ctx)

	ch := s.group.DoChan(key.String(), func() (any, error) {
		// A fetch that completed just before this one started satisfies it.
		if entry, ok := s.Fresh(key); ok {
			return entry, nil
		}

		s.pending.Add(1)
		defer s.pending.Add(-1)

		page, err := fn(fetchCtx)
		if err != nil {
			CacheErrors.WithLabelValues("load").Inc()
			return nil, err
		}

		entry := NewEntry(page, s.now())
		s.Put(key, entry)
		return entry, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			CoalescedRequests.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InvalidateWhere removes every entry whose filters satisfy match and
// returns how many were removed.
func (s *Store) InvalidateWhere(match func(catalog.Filters) bool) int {
	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if match(key.Filters) {
			delete(s.entries, key)
			removed++
		}
	}
	n := len(s.entries)
	s.mu.Unlock()

	CacheEntries.Set(float64(n))
	Invalidations.Add(float64(removed))
	s.logger.Debug().Int("removed", removed).Int("remaining", n).Msg("Cache invalidated")

	return removed
}

// MatchFilters returns a predicate for InvalidateWhere where unset pattern
// fields act as wildcards.
func MatchFilters(pattern catalog.Filters) func(catalog.Filters) bool {
	return func(f catalog.Filters) bool {
		return f.Matches(pattern)
	}
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[Key]*Entry)
	s.mu.Unlock()

	CacheEntries.Set(0)
	s.logger.Debug().Msg("Cache cleared")
}

// Stats returns a snapshot of the store contents.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		EntryCount:      len(s.entries),
		PendingRequests: int(s.pending.Load()),
	}
	for key, entry := range s.entries {
		stats.TotalItemsCached += len(entry.Items)
		stats.ApproximateBytes += len(key.String()) + entry.size()
	}
	return stats
}
