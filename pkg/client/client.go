// Package client provides the HTTP client for the marketplace product
// listing API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/catalog-client/pkg/catalog"
	"github.com/Sternrassler/catalog-client/pkg/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for product API requests.
var (
	catalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Total product API requests by status",
	}, []string{"status"})

	catalogRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Product API request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	catalogErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_errors_total",
		Help: "Total product API errors by class",
	}, []string{"class"})
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Defaults for the product API client.
const (
	DefaultProductsPath = "/products/"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 32 << 20
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the marketplace API, e.g. "https://api.example.com/api"
	BaseURL string

	// ProductsPath is the listing endpoint relative to BaseURL
	ProductsPath string

	// User-Agent header sent with every request
	UserAgent string

	// Timeout per request
	Timeout time.Duration

	// MaxBodyBytes caps the listing body size
	MaxBodyBytes int64
}

// DefaultConfig returns a default configuration for the given API.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:      baseURL,
		ProductsPath: DefaultProductsPath,
		UserAgent:    userAgent,
		Timeout:      DefaultTimeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Client fetches product listing pages from the marketplace API.
// It performs no retries; callers decide how to surface failures.
type Client struct {
	httpClient *http.Client
	endpoint   string
	config     Config
	logger     zerolog.Logger
}

// New creates a new product API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.ProductsPath == "" {
		cfg.ProductsPath = DefaultProductsPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(cfg.ProductsPath, "/")
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse products endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint: u.String(),
		config:   cfg,
		logger:   logging.NewLogger("catalog-client"),
	}, nil
}

// FetchProducts fetches one listing page starting at offset.
// Every returned error is an *APIError matching ErrNetwork.
func (c *Client) FetchProducts(ctx context.Context, filters catalog.Filters, limit, offset int) (catalog.Page, error) {
	startTime := time.Now()
	defer func() {
		catalogRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(filters, limit, offset), nil)
	if err != nil {
		return catalog.Page{}, networkError(fmt.Errorf("create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With().Str("request_id", requestID).Logger()
	logger.Debug().
		Str("url", req.URL.String()).
		Msg("Executing product listing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		catalogErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		catalogRequestsTotal.WithLabelValues("network_error").Inc()
		logger.Error().Err(err).Int("offset", offset).Msg("HTTP request failed")
		return catalog.Page{}, networkError(err)
	}
	defer resp.Body.Close()

	catalogRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if class := classifyStatus(resp.StatusCode); class != "" {
		catalogErrorsTotal.WithLabelValues(string(class)).Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		logger.Warn().
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Int("offset", offset).
			Msg("Product listing request error")
		return catalog.Page{}, statusError(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes))
	if err != nil {
		catalogErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return catalog.Page{}, networkError(fmt.Errorf("read response body: %w", err))
	}

	page, err := decodeListing(body)
	if err != nil {
		catalogErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		logger.Warn().Err(err).Int("offset", offset).Msg("Failed to decode product listing")
		return catalog.Page{}, decodeError(resp.StatusCode, err)
	}

	logger.Debug().
		Int("offset", offset).
		Int("items", len(page.Items)).
		Int("count", page.TotalCount).
		Dur("duration", time.Since(startTime)).
		Msg("Product listing fetched")

	return page, nil
}

// requestURL builds the listing URL with paging and filter parameters.
func (c *Client) requestURL(filters catalog.Filters, limit, offset int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	for _, f := range filters.Normalize().Fields() {
		if f.Value != "" {
			q.Set(f.Name, f.Value)
		}
	}
	return c.endpoint + "?" + q.Encode()
}

// paginatedBody is the object form of a listing response.
type paginatedBody struct {
	Results *[]catalog.Product `json:"results"`
	Count   *int               `json:"count"`
}

// decodeListing normalizes both response shapes into a page.
// A bare array becomes {results: array, count: len(array)}.
func decodeListing(body []byte) (catalog.Page, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return catalog.Page{}, ErrEmptyBody
	}

	switch body[0] {
	case '[':
		var items []catalog.Product
		if err := json.Unmarshal(body, &items); err != nil {
			return catalog.Page{}, err
		}
		return catalog.Page{Items: items, TotalCount: len(items)}, nil

	case '{':
		var pb paginatedBody
		if err := json.Unmarshal(body, &pb); err != nil {
			return catalog.Page{}, err
		}
		if pb.Results == nil {
			return catalog.Page{}, fmt.Errorf("%w: missing results", ErrUnexpectedShape)
		}
		page := catalog.Page{Items: *pb.Results, TotalCount: len(*pb.Results)}
		if pb.Count != nil {
			page.TotalCount = *pb.Count
		}
		return page, nil

	default:
		return catalog.Page{}, ErrUnexpectedShape
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Endpoint returns the resolved listing URL without query.
func (c *Client) Endpoint() string {
	return c.endpoint
}
