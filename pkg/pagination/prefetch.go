package pagination

import (
	"context"
	"sync"

	"github.com/Sternrassler/catalog-client/pkg/cache"
	"github.com/Sternrassler/catalog-client/pkg/catalog"
)

// unknownTotal asks the prefetch task to resolve the listing size itself.
const unknownTotal = -1

// PrefetchNextPages warms the cache for up to pagesToPrefetch pages after
// currentPage. It returns immediately; the work runs on a detached goroutine
// that is never joined or cancelled by the caller, and its errors are only
// logged. Pages past the last page or already fresh in cache are skipped.
func (c *Controller) PrefetchNextPages(ctx context.Context, currentPage int, filters catalog.Filters, pagesToPrefetch int) {
	c.schedulePrefetch(ctx, currentPage, filters.Normalize(), pagesToPrefetch, unknownTotal)
}

func (c *Controller) schedulePrefetch(ctx context.Context, currentPage int, filters catalog.Filters, pagesToPrefetch, total int) {
	if pagesToPrefetch <= 0 || currentPage < 0 {
		return
	}

	// Detach from the caller so its return or cancellation does not stop the prefetch.
	ctx = context.WithoutCancel(ctx)
	go c.prefetch(ctx, currentPage, filters, pagesToPrefetch, total)
}

// prefetch resolves the page window and fetches it with a bounded worker pool.
func (c *Controller) prefetch(ctx context.Context, currentPage int, filters catalog.Filters, pagesToPrefetch, total int) {
	if total == unknownTotal {
		baseCtx, cancel := context.WithTimeout(ctx, c.config.PrefetchTimeout)
		base, err := c.fetchPage(baseCtx, currentPage, filters, false)
		cancel()
		if err != nil {
			prefetchTotal.WithLabelValues("error").Inc()
			c.logger.Warn().
				Err(err).
				Int("page", currentPage).
				Msg("Prefetch could not resolve listing size")
			return
		}
		total = base.TotalCount
	}

	lastPage := TotalPages(total, c.config.PageSize) - 1

	pages := make([]int, 0, pagesToPrefetch)
	for page := currentPage + 1; page <= currentPage+pagesToPrefetch && page <= lastPage; page++ {
		if _, ok := c.store.Fresh(cache.NewKey(filters, page)); ok {
			prefetchTotal.WithLabelValues("skipped").Inc()
			continue
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		return
	}

	c.logger.Debug().
		Int("from_page", currentPage).
		Ints("pages", pages).
		Msg("Prefetching pages")

	// Fill page queue
	pageQueue := make(chan int, len(pages))
	for _, page := range pages {
		pageQueue <- page
	}
	close(pageQueue)

	// Start worker pool
	workers := min(c.config.PrefetchConcurrency, len(pages))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go c.prefetchWorker(ctx, filters, pageQueue, &wg, i)
	}
	wg.Wait()
}

// prefetchWorker processes pages from the queue
func (c *Controller) prefetchWorker(ctx context.Context, filters catalog.Filters, pageQueue <-chan int, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for page := range pageQueue {
		pageCtx, cancel := context.WithTimeout(ctx, c.config.PrefetchTimeout)
		_, err := c.fetchPage(pageCtx, page, filters, false)
		cancel()

		if err != nil {
			prefetchTotal.WithLabelValues("error").Inc()
			c.logger.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", page).
				Msg("Prefetch failed")
			continue
		}

		prefetchTotal.WithLabelValues("ok").Inc()
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		c.logger.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Prefetch worker completed")
	}
}
