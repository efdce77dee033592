// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// Handlers groups the API handlers
type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Wishlist *handlers.WishlistHandler
}

// SetupCatalogRoutes sets up catalog and filter routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/products", h.ListProducts)
		catalog.GET("/products/:id", h.GetProduct)

		catalog.POST("/filters", h.UpdateFilters)
		catalog.POST("/filters/toggle", h.ToggleFilter)
		catalog.POST("/filters/clear", h.ClearFilters)
	}
}

// SetupCartRoutes sets up cart routes; visitor resolves the cart owner
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, visitor ...gin.HandlerFunc) {
	cart := rg.Group("/cart")
	cart.Use(visitor...)
	{
		cart.GET("", h.GetCart)
		cart.GET("/count", h.GetCartCount)
		cart.DELETE("", h.ClearCart)

		cart.POST("/items", h.AddToCart)
		cart.PUT("/items/:variantId", h.UpdateCartItem)
		cart.DELETE("/items/:variantId", h.RemoveFromCart)

		cart.POST("/validate", h.ValidateCart)
		cart.POST("/checkout", h.Checkout)
		cart.POST("/merge", middleware.RequireAuth(), h.MergeGuestCart)
	}
}

// SetupWishlistRoutes sets up wishlist routes; visitor resolves the wishlist owner
func SetupWishlistRoutes(rg *gin.RouterGroup, h *handlers.WishlistHandler, visitor ...gin.HandlerFunc) {
	wishlist := rg.Group("/wishlist")
	wishlist.Use(visitor...)
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.DELETE("", h.ClearWishlist)

		wishlist.GET("/:productId", h.CheckItem)
		wishlist.POST("/:productId", h.AddToWishlist)
		wishlist.DELETE("/:productId", h.RemoveFromWishlist)
		wishlist.POST("/:productId/toggle", h.ToggleWishlist)
		wishlist.POST("/:productId/move-to-cart", h.MoveToCart)
	}
}

// SetupRoutes registers all API v1 routes
func SetupRoutes(rg *gin.RouterGroup, h Handlers, visitor ...gin.HandlerFunc) {
	SetupCatalogRoutes(rg, h.Catalog)
	SetupCartRoutes(rg, h.Cart, visitor...)
	SetupWishlistRoutes(rg, h.Wishlist, visitor...)
}
