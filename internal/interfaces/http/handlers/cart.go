// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/kvstore"
)

// CartHandler handles cart endpoints. Carts are loaded from the store on every request.
type CartHandler struct {
	store   kvstore.Store
	catalog Catalog
	stock   cart.StockLookup
	policy  cart.PricingPolicy
	opts    cart.EngineOptions
	logger  logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store kvstore.Store, catalog Catalog, stock cart.StockLookup, policy cart.PricingPolicy, opts cart.EngineOptions) *CartHandler {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &CartHandler{
		store:   store,
		catalog: catalog,
		stock:   stock,
		policy:  policy,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// AddToCartRequest represents an add-to-cart request
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=999"`
}

// UpdateCartItemRequest sets a line quantity; zero or less removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

type cartResponse struct {
	Items   []cart.Line  `json:"items"`
	Summary cart.Summary `json:"summary"`
	State   cart.State   `json:"state"`
}

type validationResponse struct {
	Validity    cart.LineValidity `json:"validity"`
	Eligible    bool              `json:"eligible"`
	Unavailable []string          `json:"unavailable"`
	Summary     cart.Summary      `json:"summary"`
	State       cart.State        `json:"state"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	engine, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.response(engine),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	engine, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": engine.Count(),
		},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	engine, ok := h.load(c)
	if !ok {
		return
	}
	if !h.addLine(c, engine, req.ProductID, req.VariantID, req.Quantity) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.response(engine),
	})
}

// UpdateCartItem handles PUT /cart/items/:variantId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	engine, ok := h.load(c)
	if !ok {
		return
	}

	if err := engine.UpdateQuantity(c.Request.Context(), c.Param("variantId"), *req.Quantity); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.response(engine),
	})
}

// RemoveFromCart handles DELETE /cart/items/:variantId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	engine, ok := h.load(c)
	if !ok {
		return
	}

	if err := engine.RemoveItem(c.Request.Context(), c.Param("variantId")); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.response(engine),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	engine := h.engine(middleware.GetOwnerFromContext(c))
	if err := engine.Clear(c.Request.Context()); err != nil {
		h.mutationFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    h.response(engine),
	})
}

// ValidateCart handles POST /cart/validate
func (h *CartHandler) ValidateCart(c *gin.Context) {
	engine, ok := h.load(c)
	if !ok {
		return
	}

	result, ok := h.validate(c, engine)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart validated",
		"data":    result,
	})
}

// Checkout handles POST /cart/checkout. Stock is re-validated; the priced cart is
// returned for the payment flow only when every line is available.
func (h *CartHandler) Checkout(c *gin.Context) {
	engine, ok := h.load(c)
	if !ok {
		return
	}

	result, ok := h.validate(c, engine)
	if !ok {
		return
	}

	if !result.Eligible {
		details := "Cart is empty"
		if len(result.Unavailable) > 0 {
			details = "Some items are no longer available in the requested quantity"
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Cart is not eligible for checkout",
			"details": details,
			"data":    result,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart is ready for checkout",
		"data":    h.response(engine),
	})
}

// MergeGuestCart handles POST /cart/merge: after sign-in, the guest session cart is
// folded into the user's cart and then cleared
func (h *CartHandler) MergeGuestCart(c *gin.Context) {
	ctx := c.Request.Context()

	guest := h.engine(middleware.SessionOwner(middleware.GetSessionIDFromContext(c)))
	if err := guest.Load(ctx); err != nil {
		h.storeUnavailable(c, err)
		return
	}

	engine, ok := h.load(c)
	if !ok {
		return
	}

	if err := engine.Merge(ctx, guest.Lines()); err != nil {
		h.mutationFailed(c, err)
		return
	}
	if err := guest.Clear(ctx); err != nil {
		h.logger.WithError(err).Warn("Failed to clear merged guest cart")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Guest cart merged successfully",
		"data":    h.response(engine),
	})
}

// addLine resolves the product at its current price and adds it; it writes the error
// response itself and reports whether the line was added
func (h *CartHandler) addLine(c *gin.Context, engine *cart.Engine, productID, variantID string, quantity int) bool {
	line, err := h.catalog.ResolveLine(c.Request.Context(), productID, variantID)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, product.ErrVariantNotFound), errors.Is(err, product.ErrVariantRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid variant",
				"details": err.Error(),
			})
		default:
			h.logger.WithError(err).Error("Failed to resolve cart line")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to add item to cart",
			})
		}
		return false
	}

	line.Quantity = quantity
	if err := engine.AddItem(c.Request.Context(), *line); err != nil {
		h.mutationFailed(c, err)
		return false
	}
	return true
}

func (h *CartHandler) validate(c *gin.Context, engine *cart.Engine) (*validationResponse, bool) {
	validity, err := engine.Validate(c.Request.Context())
	if err != nil {
		if errors.Is(err, cart.ErrStaleValidation) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Cart changed during validation, please retry",
			})
			return nil, false
		}
		h.logger.WithError(err).Error("Cart validation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to validate cart",
		})
		return nil, false
	}

	unavailable := []string{}
	for _, line := range engine.Lines() {
		if !validity[line.VariantID] {
			unavailable = append(unavailable, line.VariantID)
		}
	}

	return &validationResponse{
		Validity:    validity,
		Eligible:    engine.IsCheckoutEligible(validity),
		Unavailable: unavailable,
		Summary:     engine.Summary(h.policy),
		State:       engine.State(),
	}, true
}

func (h *CartHandler) engine(owner string) *cart.Engine {
	opts := h.opts
	opts.Logger = h.logger.WithField("owner", owner)
	return cart.NewEngine(h.store, cart.Key(owner), h.stock, opts)
}

func (h *CartHandler) load(c *gin.Context) (*cart.Engine, bool) {
	engine := h.engine(middleware.GetOwnerFromContext(c))
	if err := engine.Load(c.Request.Context()); err != nil {
		h.storeUnavailable(c, err)
		return nil, false
	}
	return engine, true
}

func (h *CartHandler) response(engine *cart.Engine) cartResponse {
	items := engine.Lines()
	if items == nil {
		items = []cart.Line{}
	}
	return cartResponse{
		Items:   items,
		Summary: engine.Summary(h.policy),
		State:   engine.State(),
	}
}

func (h *CartHandler) mutationFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found in cart",
		})
	case errors.Is(err, cart.ErrInvalidLine):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid cart item",
			"details": err.Error(),
		})
	default:
		h.storeUnavailable(c, err)
	}
}

func (h *CartHandler) storeUnavailable(c *gin.Context, err error) {
	h.logger.WithError(err).Error("Cart storage unavailable")
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "Cart storage unavailable",
	})
}
