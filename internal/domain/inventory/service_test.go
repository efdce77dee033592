package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	variantID   = "0b7a8d3e-1111-4000-8000-000000000001"
	productID   = "0b7a8d3e-2222-4000-8000-000000000002"
	unknownID   = "0b7a8d3e-3333-4000-8000-000000000003"
	negativeID  = "0b7a8d3e-4444-4000-8000-000000000004"
	brokenRowID = "0b7a8d3e-5555-4000-8000-000000000005"
)

type fakeQueries struct {
	variants map[string]int
	products map[string]int
	calls    []string
}

func (f *fakeQueries) VariantStock(_ context.Context, id string) (int, bool, error) {
	f.calls = append(f.calls, "variant:"+id)
	if id == brokenRowID {
		return 0, false, errors.New("connection reset")
	}
	stock, ok := f.variants[id]
	return stock, ok, nil
}

func (f *fakeQueries) ProductStock(_ context.Context, id string) (int, bool, error) {
	f.calls = append(f.calls, "product:"+id)
	stock, ok := f.products[id]
	return stock, ok, nil
}

func TestAvailableQuantity(t *testing.T) {
	queries := &fakeQueries{
		variants: map[string]int{variantID: 7, negativeID: -2},
		products: map[string]int{productID: 3},
	}
	svc := &Service{queries: queries}
	ctx := context.Background()

	stock, err := svc.AvailableQuantity(ctx, variantID)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	stock, err = svc.AvailableQuantity(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock)

	stock, err = svc.AvailableQuantity(ctx, negativeID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	_, err = svc.AvailableQuantity(ctx, unknownID)
	assert.ErrorIs(t, err, cart.ErrStockNotFound)

	_, err = svc.AvailableQuantity(ctx, brokenRowID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, cart.ErrStockNotFound)
}

func TestAvailableQuantity_MalformedKeySkipsQueries(t *testing.T) {
	queries := &fakeQueries{}
	svc := &Service{queries: queries}

	_, err := svc.AvailableQuantity(context.Background(), "variant-1")
	assert.ErrorIs(t, err, cart.ErrStockNotFound)
	assert.Empty(t, queries.calls)
}

func TestGormQueries_Statements(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=storefront dbname=storefront sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	ctx := context.Background()

	variantSQL := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []stockRow
		return (&gormQueries{db: tx}).variantQuery(ctx, variantID).Find(&rows)
	})
	assert.Contains(t, variantSQL, "JOIN products ON products.id = product_variants.product_id")
	assert.Contains(t, variantSQL, variantID)
	assert.Contains(t, variantSQL, "LIMIT 1")

	productSQL := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []stockRow
		return (&gormQueries{db: tx}).productQuery(ctx, productID).Find(&rows)
	})
	assert.Contains(t, productSQL, "NOT EXISTS")
	assert.Contains(t, productSQL, productID)
	assert.Contains(t, productSQL, `"products"."deleted_at" IS NULL`)
}
