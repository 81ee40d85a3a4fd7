package cache

import (
	"strconv"
	"strings"

	"github.com/Sternrassler/catalog-client/pkg/catalog"
)

// keyPrefix namespaces product listing keys.
const keyPrefix = "products"

// Key identifies one cached page of a product listing.
// Keys are comparable and can be used directly as map keys.
type Key struct {
	// Filters are the normalized listing filters.
	Filters catalog.Filters

	// Page is the 0-based page index.
	Page int
}

// NewKey builds the cache key for a filter set and page index.
// Filters are normalized so logically equal filter sets share a key.
func NewKey(filters catalog.Filters, page int) Key {
	return Key{
		Filters: filters.Normalize(),
		Page:    page,
	}
}

// String generates a deterministic key string.
// Format: products:category_id=..:category=..:store_id=..:search=..:page=N
//
// Example:
//
//	products:category_id=3:category=:store_id=:search=lamp:page=0
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(keyPrefix)

	for _, f := range k.Filters.Fields() {
		b.WriteByte(':')
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(escapeValue(f.Value))
	}

	b.WriteString(":page=")
	b.WriteString(strconv.Itoa(k.Page))

	return b.String()
}

// escapeValue keeps free-text search values from colliding with separators.
func escapeValue(v string) string {
	if !strings.ContainsAny(v, `:=\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `:`, `\:`, `=`, `\=`)
	return r.Replace(v)
}
