package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

func TestModels(t *testing.T) {
	models := Models()
	assert.Len(t, models, 2)
	assert.IsType(t, &product.Product{}, models[0])
	assert.IsType(t, &product.ProductVariant{}, models[1])
}

func TestIndexesAreIdempotent(t *testing.T) {
	for _, stmt := range Indexes {
		assert.True(t, strings.HasPrefix(stmt, "CREATE INDEX IF NOT EXISTS"), stmt)
	}
}

func TestSeedProducts(t *testing.T) {
	slugs := map[string]bool{}
	for _, p := range SeedProducts() {
		assert.False(t, slugs[p.Slug], "duplicate slug %s", p.Slug)
		slugs[p.Slug] = true
		assert.True(t, p.Price.IsPositive())
		assert.True(t, p.IsActive)
		for _, v := range p.Variants {
			assert.NotEmpty(t, v.Color)
			assert.GreaterOrEqual(t, v.Stock, 0)
		}
	}
}
