// internal/domain/filter/state.go
package filter

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// SortOption is a storefront sort order; the zero value means "use the catalog default"
type SortOption string

const (
	SortNewest     SortOption = "newest"
	SortPriceLow   SortOption = "price-low"
	SortPriceHigh  SortOption = "price-high"
	SortName       SortOption = "name"
	SortPopularity SortOption = "popularity"
)

// IsValid reports whether s is one of the known sort orders
func (s SortOption) IsValid() bool {
	switch s {
	case SortNewest, SortPriceLow, SortPriceHigh, SortName, SortPopularity:
		return true
	}
	return false
}

// Dimension names one of the multi-select filter sets
type Dimension string

const (
	DimensionCollections   Dimension = "collections"
	DimensionCategories    Dimension = "categories"
	DimensionTypes         Dimension = "types"
	DimensionColors        Dimension = "colors"
	DimensionSubcategories Dimension = "subcategories"
)

// Dimensions lists the multi-select dimensions in canonical order
var Dimensions = []Dimension{
	DimensionCollections,
	DimensionCategories,
	DimensionTypes,
	DimensionColors,
	DimensionSubcategories,
}

// Query keys, in the order Serialize emits them
const (
	KeySearch        = "search"
	KeyMinPrice      = "minPrice"
	KeyMaxPrice      = "maxPrice"
	KeyCollections   = "collections"
	KeyCategories    = "categories"
	KeyTypes         = "types"
	KeyColors        = "colors"
	KeySubcategories = "subcategories"
	KeySortBy        = "sortBy"
	KeyFeatured      = "featured"
)

var recognizedKeys = []string{
	KeySearch,
	KeyMinPrice,
	KeyMaxPrice,
	KeyCollections,
	KeyCategories,
	KeyTypes,
	KeyColors,
	KeySubcategories,
	KeySortBy,
	KeyFeatured,
}

// State is the canonical set of active catalog filters.
// Empty strings, nil slices and false all mean "absent".
type State struct {
	Search        string     `json:"search,omitempty"`
	MinPrice      string     `json:"minPrice,omitempty"`
	MaxPrice      string     `json:"maxPrice,omitempty"`
	Collections   []string   `json:"collections,omitempty"`
	Categories    []string   `json:"categories,omitempty"`
	Types         []string   `json:"types,omitempty"`
	Colors        []string   `json:"colors,omitempty"`
	Subcategories []string   `json:"subcategories,omitempty"`
	SortBy        SortOption `json:"sortBy,omitempty"`
	Featured      bool       `json:"featured,omitempty"`
}

// Values returns the set held for dim, or nil for an unknown dimension
func (s State) Values(dim Dimension) []string {
	switch dim {
	case DimensionCollections:
		return s.Collections
	case DimensionCategories:
		return s.Categories
	case DimensionTypes:
		return s.Types
	case DimensionColors:
		return s.Colors
	case DimensionSubcategories:
		return s.Subcategories
	}
	return nil
}

func (s *State) setValues(dim Dimension, values []string) {
	switch dim {
	case DimensionCollections:
		s.Collections = values
	case DimensionCategories:
		s.Categories = values
	case DimensionTypes:
		s.Types = values
	case DimensionColors:
		s.Colors = values
	case DimensionSubcategories:
		s.Subcategories = values
	}
}

// Clone returns a deep copy so callers cannot alias the manager's slices
func (s State) Clone() State {
	out := s
	out.Collections = cloneList(s.Collections)
	out.Categories = cloneList(s.Categories)
	out.Types = cloneList(s.Types)
	out.Colors = cloneList(s.Colors)
	out.Subcategories = cloneList(s.Subcategories)
	return out
}

// IsEmpty reports whether no filter is active
func (s State) IsEmpty() bool {
	return ActiveCount(s) == 0
}

// normalized trims, drops malformed values and de-duplicates sets
func (s State) normalized() State {
	out := State{
		Search:   strings.TrimSpace(s.Search),
		MinPrice: normalizePrice(s.MinPrice),
		MaxPrice: normalizePrice(s.MaxPrice),
		Featured: s.Featured,
	}
	if s.SortBy.IsValid() {
		out.SortBy = s.SortBy
	}
	for _, dim := range Dimensions {
		out.setValues(dim, normalizeList(s.Values(dim)))
	}
	return out
}

// Parse reads a URL query string into a State. It never fails: unknown keys are
// ignored and malformed values are treated as absent.
func Parse(rawQuery string) State {
	// ParseQuery keeps every well-formed pair even when it reports an error
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return FromValues(values)
}

// FromValues builds a State from already-decoded query values
func FromValues(values url.Values) State {
	state := State{
		Search:   values.Get(KeySearch),
		MinPrice: values.Get(KeyMinPrice),
		MaxPrice: values.Get(KeyMaxPrice),
		SortBy:   SortOption(values.Get(KeySortBy)),
		Featured: values.Get(KeyFeatured) == "true",
	}
	state.Collections = SplitList(strings.Join(values[KeyCollections], ","))
	state.Categories = SplitList(strings.Join(values[KeyCategories], ","))
	state.Types = SplitList(strings.Join(values[KeyTypes], ","))
	state.Colors = SplitList(strings.Join(values[KeyColors], ","))
	state.Subcategories = SplitList(strings.Join(values[KeySubcategories], ","))

	return state.normalized()
}

// Serialize encodes the non-empty fields of s as a query string in canonical key order.
// List order is kept as-is and prices are emitted verbatim.
func Serialize(s State) string {
	s = s.normalized()

	parts := make([]string, 0, len(recognizedKeys))
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+value)
		}
	}

	add(KeySearch, url.QueryEscape(s.Search))
	add(KeyMinPrice, url.QueryEscape(s.MinPrice))
	add(KeyMaxPrice, url.QueryEscape(s.MaxPrice))
	add(KeyCollections, joinList(s.Collections))
	add(KeyCategories, joinList(s.Categories))
	add(KeyTypes, joinList(s.Types))
	add(KeyColors, joinList(s.Colors))
	add(KeySubcategories, joinList(s.Subcategories))
	add(KeySortBy, url.QueryEscape(string(s.SortBy)))
	if s.Featured {
		add(KeyFeatured, "true")
	}

	return strings.Join(parts, "&")
}

// ActiveCount counts active filter dimensions, not values: the price range counts once
// however many bounds are set.
func ActiveCount(s State) int {
	count := 0
	if strings.TrimSpace(s.Search) != "" {
		count++
	}
	if s.MinPrice != "" || s.MaxPrice != "" {
		count++
	}
	for _, dim := range Dimensions {
		if len(s.Values(dim)) > 0 {
			count++
		}
	}
	if s.Featured {
		count++
	}
	return count
}

// SplitList splits a comma-separated list, trimming fragments and dropping empty ones
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return normalizeList(strings.Split(raw, ","))
}

func joinList(values []string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		escaped = append(escaped, url.QueryEscape(v))
	}
	return strings.Join(escaped, ",")
}

func normalizeList(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// normalizePrice keeps the caller's text when it is a non-negative number
func normalizePrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return ""
	}
	return raw
}

func cloneList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func isRecognizedKey(key string) bool {
	for _, k := range recognizedKeys {
		if k == key {
			return true
		}
	}
	return false
}
