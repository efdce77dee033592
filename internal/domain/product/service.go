// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/filter"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned for unknown, inactive or malformed product ids
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound is returned when the requested variant is not an active variant of the product
	ErrVariantNotFound = errors.New("variant not found")
	// ErrVariantRequired is returned when adding a product that has variants without choosing one
	ErrVariantRequired = errors.New("variant selection required")
)

const (
	defaultLimit = 12
	maxLimit     = 100
)

// Service handles catalog queries
type Service struct {
	db *gorm.DB
}

// NewService creates a new product service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// ListResponse represents product list response with pagination
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination clamps page to at least 1 and limit to 1..100, defaulting to 12
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) withTotal(total int64) Pagination {
	p.Total = total
	p.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
	return p
}

// ListProducts retrieves active products matching the catalog query
func (s *Service) ListProducts(ctx context.Context, q filter.CatalogQuery, page Pagination) (*ListResponse, error) {
	page = NewPagination(page.Page, page.Limit)

	var total int64
	if err := s.filteredQuery(ctx, q).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products := []Product{}
	err := s.filteredQuery(ctx, q).
		Preload("Variants", "is_active = ?", true).
		Order(orderClause(q.SortBy)).
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ListResponse{
		Products:   products,
		Pagination: page.withTotal(total),
	}, nil
}

// GetProduct retrieves a single active product with its active variants
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProductNotFound
	}

	var product Product
	result := s.db.WithContext(ctx).
		Preload("Variants", "is_active = ?", true).
		Where("id = ? AND is_active = ?", id, true).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// ResolveLine builds a cart line for the product, capturing its current price and
// display metadata. Quantity is left for the caller.
func (s *Service) ResolveLine(ctx context.Context, productID, variantID string) (*cart.Line, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return lineFor(product, variantID)
}

func lineFor(product *Product, variantID string) (*cart.Line, error) {
	line := &cart.Line{
		VariantID: product.ID,
		ProductID: product.ID,
		UnitPrice: product.Price,
		Title:     product.Name,
		ImageURL:  product.ImageURL,
	}

	if variantID == "" || variantID == product.ID {
		if len(product.Variants) > 0 {
			return nil, ErrVariantRequired
		}
		return line, nil
	}

	variant, ok := product.FindVariant(variantID)
	if !ok {
		return nil, ErrVariantNotFound
	}
	line.VariantID = variant.ID
	line.UnitPrice = variant.EffectivePrice(product)
	line.VariantLabel = variant.Label
	return line, nil
}

// likeEscaper makes LIKE wildcards in search text match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filteredQuery applies every catalog filter to a fresh products query
func (s *Service) filteredQuery(ctx context.Context, q filter.CatalogQuery) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&Product{}).Where("products.is_active = ?", true)

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	// min > max is passed through and simply matches nothing
	if minPrice, ok := parsePrice(q.MinPrice); ok {
		query = query.Where("products.price >= ?", minPrice)
	}
	if maxPrice, ok := parsePrice(q.MaxPrice); ok {
		query = query.Where("products.price <= ?", maxPrice)
	}

	columns := []struct {
		column string
		values string
	}{
		{"products.collection", q.Collections},
		{"products.category", q.Categories},
		{"products.type", q.Types},
		{"products.subcategory", q.Subcategories},
	}
	for _, c := range columns {
		if values := lowerList(filter.SplitList(c.values)); len(values) > 0 {
			query = query.Where("LOWER("+c.column+") IN ?", values)
		}
	}

	if colors := lowerList(filter.SplitList(q.Color)); len(colors) > 0 {
		query = query.Where(`EXISTS (
			SELECT 1 FROM product_variants pv
			WHERE pv.product_id = products.id
			  AND pv.is_active = true
			  AND pv.deleted_at IS NULL
			  AND LOWER(pv.color) IN ?
		)`, colors)
	}

	if q.Featured {
		query = query.Where("products.is_featured = ?", true)
	}

	return query
}

// orderClause maps a sort option to an ORDER BY clause; unknown options sort newest first
func orderClause(sortBy string) string {
	switch filter.SortOption(sortBy) {
	case filter.SortPriceLow:
		return "products.price ASC, products.created_at DESC"
	case filter.SortPriceHigh:
		return "products.price DESC, products.created_at DESC"
	case filter.SortName:
		return "products.name ASC"
	case filter.SortPopularity:
		return "products.popularity DESC, products.created_at DESC"
	default:
		return "products.created_at DESC"
	}
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero, false
	}
	return price, true
}

func lowerList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
