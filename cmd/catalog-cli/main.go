// Command catalog-cli browses the marketplace product listing through the
// cached pagination controller and prints results as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/catalog-client/internal/config"
	"github.com/Sternrassler/catalog-client/pkg/cache"
	"github.com/Sternrassler/catalog-client/pkg/catalog"
	"github.com/Sternrassler/catalog-client/pkg/client"
	"github.com/Sternrassler/catalog-client/pkg/logging"
	"github.com/Sternrassler/catalog-client/pkg/metrics"
	"github.com/Sternrassler/catalog-client/pkg/pagination"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-cli: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	page    int
	all     bool
	stats   bool
	filters catalog.Filters
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("catalog-cli", flag.ContinueOnError)
	fs.IntVar(&opts.page, "page", 0, "zero-based page index to fetch")
	fs.BoolVar(&opts.all, "all", false, "load the whole listing page by page")
	fs.BoolVar(&opts.stats, "stats", false, "print cache statistics to stderr when done")
	fs.StringVar(&opts.filters.CategoryID, "category-id", "", "filter by category id")
	fs.StringVar(&opts.filters.CategorySlug, "category", "", "filter by category slug")
	fs.StringVar(&opts.filters.StoreID, "store", "", "filter by store id")
	fs.StringVar(&opts.filters.Search, "search", "", "free-text search")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.page < 0 {
		return options{}, fmt.Errorf("page must not be negative (got %d)", opts.page)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LoggingConfig())

	apiClient, err := client.New(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	store := cache.NewStore(cfg.CacheConfig())
	ctrl := pagination.New(apiClient, store, cfg.PaginationConfig())

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           newRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if opts.all {
		products, err := ctrl.LoadAll(ctx, opts.filters, func(loaded, total int) {
			log.Info().Int("loaded", loaded).Int("estimated_total", total).Msg("Loading listing")
		})
		if err != nil {
			return fmt.Errorf("load listing: %w", err)
		}
		if err := enc.Encode(products); err != nil {
			return fmt.Errorf("encode products: %w", err)
		}
	} else {
		page, err := ctrl.GetProductsPage(ctx, opts.page, opts.filters)
		if err != nil {
			return err
		}
		if err := enc.Encode(page); err != nil {
			return fmt.Errorf("encode page: %w", err)
		}
	}

	if opts.stats {
		s := ctrl.CacheStats()
		log.Info().
			Int("entries", s.EntryCount).
			Int("items", s.TotalItemsCached).
			Int("bytes", s.ApproximateBytes).
			Int("pending", s.PendingRequests).
			Msg("Cache statistics")
	}
	return nil
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
