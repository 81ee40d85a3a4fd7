// Package catalog defines the marketplace product data model shared by the
// cache, the upstream client and the pagination layer.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingID is returned when a product object carries no usable id.
var ErrMissingID = errors.New("product has no id")

// Product is an opaque catalog record as returned by the upstream API.
// Only the id is extracted; everything else stays in Raw untouched.
type Product struct {
	// ID is the catalog-unique identifier. Numeric ids keep their literal form.
	ID string

	// Raw is the verbatim JSON object.
	Raw json.RawMessage
}

// UnmarshalJSON keeps the raw object and extracts its id.
func (p *Product) UnmarshalJSON(data []byte) error {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("decode product: %w", err)
	}

	id, err := parseID(probe.ID)
	if err != nil {
		return err
	}

	p.ID = id
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the raw object back unchanged.
func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.Raw) == 0 {
		return json.Marshal(map[string]string{"id": p.ID})
	}
	return p.Raw, nil
}

// Decode unmarshals the raw object into v.
func (p Product) Decode(v any) error {
	if err := json.Unmarshal(p.Raw, v); err != nil {
		return fmt.Errorf("decode product %s: %w", p.ID, err)
	}
	return nil
}

// Size returns the number of raw bytes held for the product.
func (p Product) Size() int {
	return len(p.Raw)
}

func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrMissingID
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode product id: %w", err)
		}
		if s == "" {
			return "", ErrMissingID
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("product id must be a string or number: %w", err)
		}
		return n.String(), nil
	}
}
