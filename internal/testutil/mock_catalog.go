// Package testutil provides testing utilities for the catalog client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ProductsPath is the listing path served by MockCatalog.
const ProductsPath = "/products/"

// MockProduct is a product served by the mock API.
type MockProduct struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	StoreID    string `json:"store_id"`
	CategoryID string `json:"category_id"`
	Category   string `json:"category"`
}

// MockCatalog is a configurable mock product listing API for testing.
type MockCatalog struct {
	server *httptest.Server

	mu         sync.RWMutex
	products   []MockProduct
	bareArray  bool
	delay      time.Duration
	failOffset map[int]int
	handler    http.HandlerFunc

	// Tracking
	requestCount  int
	offsetCounts  map[int]int
	lastQuery     url.Values
	lastUserAgent string
	lastRequestID string
}

// NewMockCatalog creates a mock API serving the given products.
func NewMockCatalog(products []MockProduct) *MockCatalog {
	m := &MockCatalog{
		products:     products,
		failOffset:   make(map[int]int),
		offsetCounts: make(map[int]int),
	}

	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

// GenerateProducts builds n products spread over the given store ids.
func GenerateProducts(n int, storeIDs ...string) []MockProduct {
	if len(storeIDs) == 0 {
		storeIDs = []string{"1"}
	}
	products := make([]MockProduct, n)
	for i := range products {
		products[i] = MockProduct{
			ID:         i + 1,
			Name:       fmt.Sprintf("Product %d", i+1),
			StoreID:    storeIDs[i%len(storeIDs)],
			CategoryID: strconv.Itoa(i%3 + 1),
			Category:   fmt.Sprintf("category-%d", i%3+1),
		}
	}
	return products
}

// URL returns the mock server URL.
func (m *MockCatalog) URL() string {
	return m.server.URL
}

// Client returns an HTTP client wired to the mock server.
func (m *MockCatalog) Client() *http.Client {
	return m.server.Client()
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// SetBareArray switches responses to a bare JSON array without count.
func (m *MockCatalog) SetBareArray(bare bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bareArray = bare
}

// SetDelay delays every response.
func (m *MockCatalog) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// FailAtOffset makes requests for offset answer with statusCode.
func (m *MockCatalog) FailAtOffset(offset, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOffset[offset] = statusCode
}

// ClearFailures removes all configured failures.
func (m *MockCatalog) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOffset = make(map[int]int)
}

// SetHandler replaces the listing handler. Requests are still tracked.
func (m *MockCatalog) SetHandler(handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// RequestCount returns the number of requests made to the server.
func (m *MockCatalog) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// RequestsForOffset returns the number of requests for one offset.
func (m *MockCatalog) RequestsForOffset(offset int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offsetCounts[offset]
}

// LastQuery returns the query of the most recent request.
func (m *MockCatalog) LastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}

// LastUserAgent returns the User-Agent of the most recent request.
func (m *MockCatalog) LastUserAgent() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUserAgent
}

// LastRequestID returns the X-Request-ID of the most recent request.
func (m *MockCatalog) LastRequestID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestID
}

// Reset clears all tracking counters.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.offsetCounts = make(map[int]int)
	m.lastQuery = nil
	m.lastUserAgent = ""
	m.lastRequestID = ""
}

func (m *MockCatalog) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get("offset"))

	m.mu.Lock()
	m.requestCount++
	m.offsetCounts[offset]++
	m.lastQuery = query
	m.lastUserAgent = r.UserAgent()
	m.lastRequestID = r.Header.Get("X-Request-ID")
	handler := m.handler
	delay := m.delay
	failStatus, fail := m.failOffset[offset]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if handler != nil {
		handler(w, r)
		return
	}

	if r.URL.Path != ProductsPath {
		http.NotFound(w, r)
		return
	}

	if fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(failStatus)
		_, _ = w.Write([]byte(`{"detail":"mock failure"}`))
		return
	}

	m.listProducts(w, query, offset)
}

func (m *MockCatalog) listProducts(w http.ResponseWriter, query url.Values, offset int) {
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	m.mu.RLock()
	matched := make([]MockProduct, 0, len(m.products))
	for _, p := range m.products {
		if matches(p, query) {
			matched = append(matched, p)
		}
	}
	bare := m.bareArray
	m.mu.RUnlock()

	start := min(offset, len(matched))
	end := min(start+limit, len(matched))
	results := matched[start:end]

	w.Header().Set("Content-Type", "application/json")

	var body any = map[string]any{
		"count":   len(matched),
		"results": results,
	}
	if bare {
		body = results
	}
	_ = json.NewEncoder(w).Encode(body)
}

func matches(p MockProduct, query url.Values) bool {
	if v := query.Get("store_id"); v != "" && v != p.StoreID {
		return false
	}
	if v := query.Get("category_id"); v != "" && v != p.CategoryID {
		return false
	}
	if v := query.Get("category"); v != "" && v != p.Category {
		return false
	}
	if v := query.Get("search"); v != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(v)) {
		return false
	}
	return true
}
