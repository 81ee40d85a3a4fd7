package catalog

import "strings"

// Query parameter names understood by the product listing endpoint.
const (
	ParamCategoryID   = "category_id"
	ParamCategorySlug = "category"
	ParamStoreID      = "store_id"
	ParamSearch       = "search"
)

// Filters narrows a product listing. Empty fields are unset.
type Filters struct {
	CategoryID   string
	CategorySlug string
	StoreID      string
	Search       string
}

// Field is a single named filter value.
type Field struct {
	Name  string
	Value string
}

// FiltersFromMap builds Filters from query-style names. Unknown names are ignored.
func FiltersFromMap(m map[string]string) Filters {
	return Filters{
		CategoryID:   m[ParamCategoryID],
		CategorySlug: m[ParamCategorySlug],
		StoreID:      m[ParamStoreID],
		Search:       m[ParamSearch],
	}.Normalize()
}

// Normalize trims surrounding whitespace from every field.
func (f Filters) Normalize() Filters {
	return Filters{
		CategoryID:   strings.TrimSpace(f.CategoryID),
		CategorySlug: strings.TrimSpace(f.CategorySlug),
		StoreID:      strings.TrimSpace(f.StoreID),
		Search:       strings.TrimSpace(f.Search),
	}
}

// Fields returns all filter fields in their fixed order, set or not.
func (f Filters) Fields() []Field {
	return []Field{
		{Name: ParamCategoryID, Value: f.CategoryID},
		{Name: ParamCategorySlug, Value: f.CategorySlug},
		{Name: ParamStoreID, Value: f.StoreID},
		{Name: ParamSearch, Value: f.Search},
	}
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Matches reports whether f satisfies pattern. Every non-empty pattern field
// must be equal; empty pattern fields match anything.
func (f Filters) Matches(pattern Filters) bool {
	pattern = pattern.Normalize()
	if pattern.CategoryID != "" && pattern.CategoryID != f.CategoryID {
		return false
	}
	if pattern.CategorySlug != "" && pattern.CategorySlug != f.CategorySlug {
		return false
	}
	if pattern.StoreID != "" && pattern.StoreID != f.StoreID {
		return false
	}
	if pattern.Search != "" && pattern.Search != f.Search {
		return false
	}
	return true
}

// Page is one page of a product listing.
type Page struct {
	Items []Product

	// TotalCount is the size of the whole listing as reported upstream.
	TotalCount int
}
