package pagination

import (
	"context"
	"time"

	"github.com/Sternrassler/catalog-client/pkg/catalog"
)

// ProgressFunc receives the number of loaded products and the running
// estimate of the total. The estimate is exact only on the final call.
type ProgressFunc func(loaded, estimatedTotal int)

// LoadAll fetches pages 0, 1, 2, ... in order until a page is shorter than
// the page size, and returns all products in fetch order.
//
// onProgress is called once with (0, 0) before the first fetch and then after
// every page. A page failure ends the loop and the products loaded so far are
// returned without error. Only cancellation of ctx yields an error, again
// together with the partial result.
func (c *Controller) LoadAll(ctx context.Context, filters catalog.Filters, onProgress ProgressFunc) ([]catalog.Product, error) {
	start := time.Now()
	pageSize := c.config.PageSize
	filters = filters.Normalize()

	report := func(loaded, total int) {
		if onProgress != nil {
			onProgress(loaded, total)
		}
	}

	c.logger.Info().
		Str("store_id", filters.StoreID).
		Str("category_id", filters.CategoryID).
		Msg("Starting full listing load")

	var products []catalog.Product
	report(0, 0)

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return c.loadCancelled(products, page, err)
		}

		p, err := c.fetchPage(ctx, page, filters, false)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return c.loadCancelled(products, page, ctxErr)
			}

			loadAllTotal.WithLabelValues("partial").Inc()
			loadAllItems.Observe(float64(len(products)))
			c.logger.Warn().
				Err(err).
				Int("page", page).
				Int("loaded", len(products)).
				Msg("Full listing load ended early - returning partial results")
			return products, nil
		}

		products = append(products, p.Items...)

		lastPage := len(p.Items) < pageSize
		estimate := len(products) + pageSize
		if lastPage {
			estimate = len(products)
		}
		report(len(products), estimate)

		if lastPage {
			break
		}
	}

	loadAllTotal.WithLabelValues("complete").Inc()
	loadAllItems.Observe(float64(len(products)))
	c.logger.Info().
		Int("loaded", len(products)).
		Dur("duration", time.Since(start)).
		Msg("Full listing load complete")

	return products, nil
}

// GetAllProducts is LoadAll under its exposed name.
func (c *Controller) GetAllProducts(ctx context.Context, filters catalog.Filters, onProgress ProgressFunc) ([]catalog.Product, error) {
	return c.LoadAll(ctx, filters, onProgress)
}

func (c *Controller) loadCancelled(products []catalog.Product, page int, err error) ([]catalog.Product, error) {
	loadAllTotal.WithLabelValues("cancelled").Inc()
	c.logger.Debug().
		Err(err).
		Int("page", page).
		Int("loaded", len(products)).
		Msg("Full listing load cancelled")
	return products, err
}
