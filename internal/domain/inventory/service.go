// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// stockQueries reads raw stock levels; found is false when no active row matches
type stockQueries interface {
	VariantStock(ctx context.Context, variantID string) (stock int, found bool, err error)
	ProductStock(ctx context.Context, productID string) (stock int, found bool, err error)
}

// Service answers live stock lookups for cart validation
type Service struct {
	queries stockQueries
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{
		queries: &gormQueries{db: db},
	}
}

// AvailableQuantity returns the sellable stock for a cart line key. The key is an active
// variant id, or the id of an active product without variants. Anything else yields
// cart.ErrStockNotFound.
func (s *Service) AvailableQuantity(ctx context.Context, variantID string) (int, error) {
	if _, err := uuid.Parse(variantID); err != nil {
		return 0, cart.ErrStockNotFound
	}

	stock, found, err := s.queries.VariantStock(ctx, variantID)
	if err != nil {
		return 0, fmt.Errorf("failed to get variant stock: %w", err)
	}
	if found {
		return max(stock, 0), nil
	}

	stock, found, err = s.queries.ProductStock(ctx, variantID)
	if err != nil {
		return 0, fmt.Errorf("failed to get product stock: %w", err)
	}
	if found {
		return max(stock, 0), nil
	}

	return 0, cart.ErrStockNotFound
}

type stockRow struct {
	Stock int
}

type gormQueries struct {
	db *gorm.DB
}

func (q *gormQueries) VariantStock(ctx context.Context, variantID string) (int, bool, error) {
	return firstStock(q.variantQuery(ctx, variantID))
}

func (q *gormQueries) ProductStock(ctx context.Context, productID string) (int, bool, error) {
	return firstStock(q.productQuery(ctx, productID))
}

// variantQuery only counts variants whose product is still sellable
func (q *gormQueries) variantQuery(ctx context.Context, variantID string) *gorm.DB {
	return q.db.WithContext(ctx).
		Model(&product.ProductVariant{}).
		Select("product_variants.stock").
		Joins("JOIN products ON products.id = product_variants.product_id AND products.is_active = ? AND products.deleted_at IS NULL", true).
		Where("product_variants.id = ? AND product_variants.is_active = ?", variantID, true).
		Limit(1)
}

func (q *gormQueries) productQuery(ctx context.Context, productID string) *gorm.DB {
	return q.db.WithContext(ctx).
		Model(&product.Product{}).
		Select("products.stock").
		Where("products.id = ? AND products.is_active = ?", productID, true).
		Where(`NOT EXISTS (
			SELECT 1 FROM product_variants pv
			WHERE pv.product_id = products.id
			  AND pv.is_active = true
			  AND pv.deleted_at IS NULL
		)`).
		Limit(1)
}

func firstStock(query *gorm.DB) (int, bool, error) {
	var rows []stockRow
	if err := query.Find(&rows).Error; err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Stock, true, nil
}
