// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/filter"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// Catalog is the product catalog the handlers read from
type Catalog interface {
	ListProducts(ctx context.Context, q filter.CatalogQuery, page product.Pagination) (*product.ListResponse, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	ResolveLine(ctx context.Context, productID, variantID string) (*cart.Line, error)
}

// CatalogObserver receives one call per catalog listing
type CatalogObserver interface {
	ObserveCatalogQuery(activeFilters int)
}

// CatalogHandler handles catalog and filter endpoints
type CatalogHandler struct {
	catalog  Catalog
	observer CatalogObserver
	logger   logrus.FieldLogger
}

// NewCatalogHandler creates a new catalog handler; observer may be nil
func NewCatalogHandler(catalog Catalog, observer CatalogObserver, logger logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		observer: observer,
		logger:   logger,
	}
}

// ToggleRequest flips one value of a multi-select dimension
type ToggleRequest struct {
	Dimension string `json:"dimension" binding:"required"`
	Value     string `json:"value" binding:"required"`
}

type filterResponse struct {
	Query       string       `json:"query"`
	Filters     filter.State `json:"filters"`
	ActiveCount int          `json:"active_count"`
}

// ListProducts handles GET /catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	state := filter.Parse(c.Request.URL.RawQuery)
	query := filter.BuildCatalogQuery(state)
	page := product.NewPagination(queryInt(c, "page"), queryInt(c, "limit"))

	response, err := h.catalog.ListProducts(c.Request.Context(), query, page)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	active := filter.ActiveCount(state)
	if h.observer != nil {
		h.observer.ObserveCatalogQuery(active)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products":     response.Products,
			"pagination":   response.Pagination,
			"filters":      state,
			"active_count": active,
			"query":        filter.Serialize(state),
		},
	})
}

// GetProduct handles GET /catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to retrieve product")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// UpdateFilters handles POST /catalog/filters. The request's own query string is the
// page query being edited; the response carries the query to navigate to.
func (h *CatalogHandler) UpdateFilters(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	patch, err := filter.DecodePatch(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.respondWithFilters(c, "Filters updated", func(m *filter.Manager) {
		m.Update(patch)
	})
}

// ToggleFilter handles POST /catalog/filters/toggle
func (h *CatalogHandler) ToggleFilter(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	dim, ok := filter.ParseDimension(req.Dimension)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unknown filter dimension",
			"details": req.Dimension,
		})
		return
	}

	h.respondWithFilters(c, "Filter toggled", func(m *filter.Manager) {
		m.Toggle(dim, req.Value)
	})
}

// ClearFilters handles POST /catalog/filters/clear
func (h *CatalogHandler) ClearFilters(c *gin.Context) {
	h.respondWithFilters(c, "Filters cleared", func(m *filter.Manager) {
		m.Clear()
	})
}

func (h *CatalogHandler) respondWithFilters(c *gin.Context, message string, apply func(*filter.Manager)) {
	location := filter.NewMemoryURL(c.Request.URL.RawQuery)
	manager := filter.NewManager(location, nil)
	apply(manager)

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data": filterResponse{
			Query:       location.Query(),
			Filters:     manager.State(),
			ActiveCount: manager.ActiveCount(),
		},
	})
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
