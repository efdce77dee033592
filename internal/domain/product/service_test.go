package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/filter"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDryRunService builds statements against the postgres dialect without a server
func newDryRunService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=storefront dbname=storefront sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return NewService(db)
}

func listStatement(t *testing.T, q filter.CatalogQuery) (string, []interface{}) {
	t.Helper()
	svc := newDryRunService(t)
	var products []Product
	stmt := svc.filteredQuery(context.Background(), q).Order(orderClause(q.SortBy)).Find(&products).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestFilteredQuery_NoFilters(t *testing.T) {
	sql, vars := listStatement(t, filter.CatalogQuery{})

	assert.Contains(t, sql, `products.is_active = $1`)
	assert.Contains(t, sql, "ORDER BY products.created_at DESC")
	assert.NotContains(t, sql, "EXISTS")
	assert.Equal(t, []interface{}{true}, vars)
}

func TestFilteredQuery_AllFilters(t *testing.T) {
	q := filter.BuildCatalogQuery(filter.State{
		Search:      "Linen Shirt",
		MinPrice:    "500",
		MaxPrice:    "2000",
		Collections: []string{"Summer"},
		Categories:  []string{"Men", "Women"},
		Colors:      []string{"Black", "white"},
		SortBy:      filter.SortPriceHigh,
		Featured:    true,
	})

	sql, vars := listStatement(t, q)

	assert.Contains(t, sql, "LOWER(products.name) LIKE")
	assert.Contains(t, sql, "products.price >=")
	assert.Contains(t, sql, "products.price <=")
	assert.Contains(t, sql, "LOWER(products.collection) IN")
	assert.Contains(t, sql, "LOWER(products.category) IN")
	assert.NotContains(t, sql, "LOWER(products.type) IN")
	assert.Contains(t, sql, "FROM product_variants pv")
	assert.Contains(t, sql, "LOWER(pv.color) IN")
	assert.Contains(t, sql, "products.is_featured")
	assert.Contains(t, sql, "ORDER BY products.price DESC")

	assert.Contains(t, vars, "%linen shirt%")
	assert.Contains(t, vars, "summer")
	assert.Contains(t, vars, "men")
	assert.Contains(t, vars, "women")
	assert.Contains(t, vars, "black")
	assert.Contains(t, vars, "white")
}

func TestFilteredQuery_SearchWildcardsMatchLiterally(t *testing.T) {
	sql, vars := listStatement(t, filter.CatalogQuery{Search: `50%_OFF\`})

	assert.Contains(t, sql, `LIKE $2 ESCAPE '\'`)
	assert.Contains(t, vars, `%50\%\_off\\%`)
}

func TestFilteredQuery_PriceBoundsPassThrough(t *testing.T) {
	sql, vars := listStatement(t, filter.CatalogQuery{MinPrice: "900", MaxPrice: "100"})

	assert.Contains(t, sql, "products.price >=")
	assert.Contains(t, sql, "products.price <=")
	require.Len(t, vars, 3)
	assert.True(t, decimal.NewFromInt(900).Equal(vars[1].(decimal.Decimal)))
	assert.True(t, decimal.NewFromInt(100).Equal(vars[2].(decimal.Decimal)))
}

func TestFilteredQuery_IgnoresUnparsablePrices(t *testing.T) {
	sql, _ := listStatement(t, filter.CatalogQuery{MinPrice: "cheap", MaxPrice: "-5"})
	assert.NotContains(t, sql, "products.price")
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sortBy string
		want   string
	}{
		{"", "products.created_at DESC"},
		{"newest", "products.created_at DESC"},
		{"price-low", "products.price ASC, products.created_at DESC"},
		{"price-high", "products.price DESC, products.created_at DESC"},
		{"name", "products.name ASC"},
		{"popularity", "products.popularity DESC, products.created_at DESC"},
		{"price; DROP TABLE products", "products.created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sortBy))
		})
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 12}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 3, Limit: 100}, NewPagination(3, 500))
	assert.Equal(t, Pagination{Page: 1, Limit: 12}, NewPagination(-4, -1))

	p := NewPagination(2, 10).withTotal(25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
	assert.Equal(t, 10, p.offset())

	empty := NewPagination(1, 12).withTotal(0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestGetProduct_RejectsMalformedID(t *testing.T) {
	svc := newDryRunService(t)

	_, err := svc.GetProduct(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.ResolveLine(context.Background(), "'; --", "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestLineFor(t *testing.T) {
	shirt := &Product{
		ID:       "5f1c2c9e-0000-4000-8000-000000000001",
		Name:     "Linen Shirt",
		Price:    decimal.NewFromInt(1499),
		ImageURL: "https://cdn.example.com/shirt.jpg",
		Variants: []ProductVariant{
			{ID: "v-black-m", Label: "Black / M", Color: "Black", IsActive: true},
			{ID: "v-white-l", Label: "White / L", Color: "White", Price: decimal.NewFromInt(1599), IsActive: true},
			{ID: "v-retired", Label: "Red / S", IsActive: false},
		},
	}
	mug := &Product{
		ID:    "5f1c2c9e-0000-4000-8000-000000000002",
		Name:  "Mug",
		Price: decimal.RequireFromString("349.50"),
	}

	line, err := lineFor(shirt, "v-black-m")
	require.NoError(t, err)
	assert.Equal(t, "v-black-m", line.VariantID)
	assert.Equal(t, shirt.ID, line.ProductID)
	assert.Equal(t, "Black / M", line.VariantLabel)
	assert.Equal(t, "Linen Shirt", line.Title)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(1499)))

	line, err = lineFor(shirt, "v-white-l")
	require.NoError(t, err)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(1599)))

	_, err = lineFor(shirt, "v-retired")
	assert.ErrorIs(t, err, ErrVariantNotFound)

	_, err = lineFor(shirt, "")
	assert.ErrorIs(t, err, ErrVariantRequired)

	line, err = lineFor(mug, "")
	require.NoError(t, err)
	assert.Equal(t, mug.ID, line.VariantID)
	assert.Empty(t, line.VariantLabel)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("349.5")))
}
