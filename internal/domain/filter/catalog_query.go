// internal/domain/filter/catalog_query.go
package filter

import (
	"net/url"
	"strings"
)

// CatalogQuery is the flattened query handed to the catalog query service.
// Multi-select values are comma-joined; note the service names the color set "color".
type CatalogQuery struct {
	Search        string `json:"search,omitempty"`
	MinPrice      string `json:"minPrice,omitempty"`
	MaxPrice      string `json:"maxPrice,omitempty"`
	Collections   string `json:"collections,omitempty"`
	Categories    string `json:"categories,omitempty"`
	Types         string `json:"types,omitempty"`
	Color         string `json:"color,omitempty"`
	Subcategories string `json:"subcategories,omitempty"`
	SortBy        string `json:"sortBy,omitempty"`
	Featured      bool   `json:"featured,omitempty"`
}

// BuildCatalogQuery flattens a filter state for the catalog query service
func BuildCatalogQuery(s State) CatalogQuery {
	s = s.normalized()
	return CatalogQuery{
		Search:        s.Search,
		MinPrice:      s.MinPrice,
		MaxPrice:      s.MaxPrice,
		Collections:   strings.Join(s.Collections, ","),
		Categories:    strings.Join(s.Categories, ","),
		Types:         strings.Join(s.Types, ","),
		Color:         strings.Join(s.Colors, ","),
		Subcategories: strings.Join(s.Subcategories, ","),
		SortBy:        string(s.SortBy),
		Featured:      s.Featured,
	}
}

// Values encodes the non-empty fields as query parameters
func (q CatalogQuery) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	set("search", q.Search)
	set("minPrice", q.MinPrice)
	set("maxPrice", q.MaxPrice)
	set("collections", q.Collections)
	set("categories", q.Categories)
	set("types", q.Types)
	set("color", q.Color)
	set("subcategories", q.Subcategories)
	set("sortBy", q.SortBy)
	if q.Featured {
		values.Set("featured", "true")
	}

	return values
}

// ParseCatalogQuery is the receiving side of Values
func ParseCatalogQuery(values url.Values) CatalogQuery {
	return CatalogQuery{
		Search:        values.Get("search"),
		MinPrice:      values.Get("minPrice"),
		MaxPrice:      values.Get("maxPrice"),
		Collections:   values.Get("collections"),
		Categories:    values.Get("categories"),
		Types:         values.Get("types"),
		Color:         values.Get("color"),
		Subcategories: values.Get("subcategories"),
		SortBy:        values.Get("sortBy"),
		Featured:      values.Get("featured") == "true",
	}
}
