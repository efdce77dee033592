// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlist *wishlist.Service
	catalog  Catalog
	carts    *CartHandler
	logger   logrus.FieldLogger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(service *wishlist.Service, catalog Catalog, carts *CartHandler, logger logrus.FieldLogger) *WishlistHandler {
	return &WishlistHandler{
		wishlist: service,
		catalog:  catalog,
		carts:    carts,
		logger:   logger,
	}
}

// MoveToCartRequest picks the variant and quantity for a wishlisted product
type MoveToCartRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"max=999"`
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	ids, err := h.wishlist.List(c.Request.Context(), middleware.GetOwnerFromContext(c))
	if err != nil {
		h.storeUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    wishlistData(ids),
	})
}

// CheckItem handles GET /wishlist/:productId
func (h *WishlistHandler) CheckItem(c *gin.Context) {
	inWishlist, err := h.wishlist.Contains(c.Request.Context(), middleware.GetOwnerFromContext(c), c.Param("productId"))
	if err != nil {
		h.storeUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist status retrieved successfully",
		"data": gin.H{
			"product_id":  c.Param("productId"),
			"in_wishlist": inWishlist,
		},
	})
}

// AddToWishlist handles POST /wishlist/:productId
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	productID := c.Param("productId")
	if !h.productExists(c, productID) {
		return
	}

	ids, err := h.wishlist.Add(c.Request.Context(), middleware.GetOwnerFromContext(c), productID)
	if err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product added to wishlist",
		"data":    wishlistData(ids),
	})
}

// RemoveFromWishlist handles DELETE /wishlist/:productId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	ids, err := h.wishlist.Remove(c.Request.Context(), middleware.GetOwnerFromContext(c), c.Param("productId"))
	if err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product removed from wishlist",
		"data":    wishlistData(ids),
	})
}

// ToggleWishlist handles POST /wishlist/:productId/toggle
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.GetOwnerFromContext(c)
	productID := c.Param("productId")

	present, err := h.wishlist.Contains(ctx, owner, productID)
	if err != nil {
		h.storeUnavailable(c, err)
		return
	}
	if !present && !h.productExists(c, productID) {
		return
	}

	added, ids, err := h.wishlist.Toggle(ctx, owner, productID)
	if err != nil {
		h.mutationFailed(c, err)
		return
	}

	data := wishlistData(ids)
	data["in_wishlist"] = added
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist updated",
		"data":    data,
	})
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	if err := h.wishlist.Clear(c.Request.Context(), middleware.GetOwnerFromContext(c)); err != nil {
		h.storeUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist cleared",
		"data":    wishlistData(nil),
	})
}

// MoveToCart handles POST /wishlist/:productId/move-to-cart
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	var req MoveToCartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": err.Error(),
			})
			return
		}
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	owner := middleware.GetOwnerFromContext(c)
	productID := c.Param("productId")

	present, err := h.wishlist.Contains(ctx, owner, productID)
	if err != nil {
		h.storeUnavailable(c, err)
		return
	}
	if !present {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not in wishlist",
		})
		return
	}

	engine, ok := h.carts.load(c)
	if !ok {
		return
	}
	if !h.carts.addLine(c, engine, productID, req.VariantID, req.Quantity) {
		return
	}

	ids, err := h.wishlist.Remove(ctx, owner, productID)
	if err != nil {
		h.logger.WithError(err).Warn("Item moved to cart but not removed from wishlist")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product moved to cart",
		"data": gin.H{
			"cart":     h.carts.response(engine),
			"wishlist": wishlistData(ids),
		},
	})
}

func (h *WishlistHandler) productExists(c *gin.Context, productID string) bool {
	if _, err := h.catalog.GetProduct(c.Request.Context(), productID); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return false
		}
		h.logger.WithError(err).Error("Failed to retrieve product")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product",
		})
		return false
	}
	return true
}

func (h *WishlistHandler) mutationFailed(c *gin.Context, err error) {
	if errors.Is(err, wishlist.ErrInvalidProductID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}
	h.storeUnavailable(c, err)
}

func (h *WishlistHandler) storeUnavailable(c *gin.Context, err error) {
	h.logger.WithError(err).Error("Wishlist storage unavailable")
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Wishlist storage unavailable",
	})
}

func wishlistData(ids []string) gin.H {
	if ids == nil {
		ids = []string{}
	}
	return gin.H{
		"product_ids": ids,
		"count":       len(ids),
	}
}
