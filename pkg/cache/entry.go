package cache

import (
	"time"

	"github.com/Sternrassler/catalog-client/pkg/catalog"
)

// Entry represents one cached page of products.
type Entry struct {
	// Items are the products in upstream order.
	Items []catalog.Product

	// TotalCount is the listing size reported with this page.
	TotalCount int

	// FetchedAt is when the network response was accepted. It is never updated.
	FetchedAt time.Time
}

// NewEntry creates an entry for a freshly fetched page.
func NewEntry(page catalog.Page, fetchedAt time.Time) *Entry {
	return &Entry{
		Items:      page.Items,
		TotalCount: page.TotalCount,
		FetchedAt:  fetchedAt,
	}
}

// IsValid reports whether the entry is younger than ttl at now.
func (e *Entry) IsValid(now time.Time, ttl time.Duration) bool {
	if e == nil {
		return false
	}
	return now.Sub(e.FetchedAt) < ttl
}

// Page converts the entry back to a listing page.
func (e *Entry) Page() catalog.Page {
	return catalog.Page{
		Items:      e.Items,
		TotalCount: e.TotalCount,
	}
}

// size approximates the memory held by the entry's products.
func (e *Entry) size() int {
	n := 0
	for _, p := range e.Items {
		n += p.Size() + len(p.ID)
	}
	return n
}
