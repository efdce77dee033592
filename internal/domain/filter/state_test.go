package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected State
	}{
		{
			name:  "collections and featured",
			query: "collections=silk,cotton&featured=true",
			expected: State{
				Collections: []string{"silk", "cotton"},
				Featured:    true,
			},
		},
		{
			name:  "leading question mark and encoded search",
			query: "?search=+red+silk+&minPrice=100.50&maxPrice=2000",
			expected: State{
				Search:   "red silk",
				MinPrice: "100.50",
				MaxPrice: "2000",
			},
		},
		{
			name:     "malformed values degrade to absent",
			query:    "minPrice=abc&maxPrice=-5&sortBy=cheapest&types=,,saree,,&featured=yes&unknown=1",
			expected: State{Types: []string{"saree"}},
		},
		{
			name:     "duplicate fragments collapse",
			query:    "colors=red,blue,red",
			expected: State{Colors: []string{"red", "blue"}},
		},
		{
			name:     "bad escape keeps the valid pairs",
			query:    "%zz&categories=kurta",
			expected: State{Categories: []string{"kurta"}},
		},
		{
			name:     "min above max is kept as typed",
			query:    "minPrice=900&maxPrice=100&sortBy=price-high",
			expected: State{MinPrice: "900", MaxPrice: "100", SortBy: SortPriceHigh},
		},
		{
			name:     "empty query",
			query:    "",
			expected: State{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.query))
		})
	}
}

func TestSerialize(t *testing.T) {
	state := State{
		Search:        "red silk",
		MinPrice:      "100.50",
		MaxPrice:      "2000",
		Collections:   []string{"silk", "cotton"},
		Categories:    []string{"sarees"},
		Types:         []string{"handloom"},
		Colors:        []string{"red"},
		Subcategories: []string{"banarasi"},
		SortBy:        SortPriceLow,
		Featured:      true,
	}

	assert.Equal(t,
		"search=red+silk&minPrice=100.50&maxPrice=2000&collections=silk,cotton&categories=sarees&types=handloom&colors=red&subcategories=banarasi&sortBy=price-low&featured=true",
		Serialize(state))

	assert.Equal(t, "collections=silk,cotton&featured=true",
		Serialize(Parse("collections=silk,cotton&featured=true")))

	assert.Equal(t, "", Serialize(State{Collections: []string{}, Search: "  "}))
}

func TestRoundTrip(t *testing.T) {
	states := []State{
		{Search: "summer dress"},
		{MinPrice: "0", MaxPrice: "49.99"},
		{Collections: []string{"linen", "silk"}, Colors: []string{"navy-blue"}},
		{Types: []string{"t-shirt"}, Subcategories: []string{"men & boys"}, SortBy: SortPopularity},
		{Categories: []string{"shoes"}, Featured: true, SortBy: SortName},
	}

	for _, state := range states {
		assert.Equal(t, state, Parse(Serialize(state)), Serialize(state))
	}
}

func TestActiveCount(t *testing.T) {
	assert.Equal(t, 0, ActiveCount(State{}))
	assert.Equal(t, 1, ActiveCount(State{MinPrice: "10", MaxPrice: "20"}))
	assert.Equal(t, 1, ActiveCount(State{MaxPrice: "20"}))
	assert.Equal(t, 1, ActiveCount(State{Colors: []string{"red", "blue", "green"}}))
	assert.Equal(t, 5, ActiveCount(State{
		Search:      "kurta",
		MinPrice:    "10",
		Colors:      []string{"red"},
		Collections: []string{"festive"},
		Featured:    true,
	}))
	assert.True(t, State{}.IsEmpty())
}

func TestBuildCatalogQuery(t *testing.T) {
	query := BuildCatalogQuery(State{
		Search:   "silk",
		MaxPrice: "500",
		Colors:   []string{"red", "gold"},
		Types:    []string{"saree"},
		Featured: true,
	})

	assert.Equal(t, "red,gold", query.Color)
	assert.Equal(t, "saree", query.Types)

	values := query.Values()
	assert.Equal(t, "red,gold", values.Get("color"))
	assert.Equal(t, "true", values.Get("featured"))
	assert.Equal(t, "500", values.Get("maxPrice"))
	assert.False(t, values.Has("colors"))
	assert.False(t, values.Has("minPrice"))

	assert.Equal(t, query, ParseCatalogQuery(values))
}
