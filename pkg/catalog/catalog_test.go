package catalog

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestProduct_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr error
	}{
		{name: "string id", input: `{"id":"a1b2","name":"Mug"}`, wantID: "a1b2"},
		{name: "numeric id", input: `{"id":42,"price":"9.99"}`, wantID: "42"},
		{name: "large numeric id", input: `{"id":90071992547409930}`, wantID: "90071992547409930"},
		{name: "missing id", input: `{"name":"Mug"}`, wantErr: ErrMissingID},
		{name: "null id", input: `{"id":null}`, wantErr: ErrMissingID},
		{name: "empty string id", input: `{"id":""}`, wantErr: ErrMissingID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			err := json.Unmarshal([]byte(tt.input), &p)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if p.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", p.ID, tt.wantID)
			}
			if string(p.Raw) != tt.input {
				t.Errorf("Raw = %s, want %s", p.Raw, tt.input)
			}
		})
	}
}

func TestProduct_RoundTripKeepsUnknownFields(t *testing.T) {
	input := `[{"id":1,"vendor":{"id":7,"name":"Acme"}},{"id":"x","tags":["a","b"]}]`

	var products []Product
	if err := json.Unmarshal([]byte(input), &products); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	out, err := json.Marshal(products)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != input {
		t.Errorf("Marshal() = %s, want %s", out, input)
	}
}

func TestProduct_Decode(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":3,"name":"Lamp","price":12.5}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	var view struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := p.Decode(&view); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if view.Name != "Lamp" || view.Price != 12.5 {
		t.Errorf("Decode() = %+v", view)
	}
}

func TestFiltersFromMap_InsertionOrder(t *testing.T) {
	a := map[string]string{}
	a[ParamStoreID] = "9"
	a[ParamSearch] = "chair"
	a[ParamCategoryID] = "3"

	b := map[string]string{}
	b[ParamCategoryID] = "3"
	b[ParamSearch] = " chair "
	b[ParamStoreID] = "9"

	if FiltersFromMap(a) != FiltersFromMap(b) {
		t.Errorf("FiltersFromMap() differs: %+v vs %+v", FiltersFromMap(a), FiltersFromMap(b))
	}
}

func TestFilters_Matches(t *testing.T) {
	f := Filters{CategoryID: "3", StoreID: "1", Search: "desk"}

	tests := []struct {
		name    string
		pattern Filters
		want    bool
	}{
		{name: "empty pattern matches all", pattern: Filters{}, want: true},
		{name: "single field match", pattern: Filters{StoreID: "1"}, want: true},
		{name: "single field mismatch", pattern: Filters{StoreID: "2"}, want: false},
		{name: "multiple fields match", pattern: Filters{CategoryID: "3", Search: "desk"}, want: true},
		{name: "unset field in target", pattern: Filters{CategorySlug: "office"}, want: false},
		{name: "pattern is normalized", pattern: Filters{StoreID: " 1 "}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Matches(tt.pattern); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}
