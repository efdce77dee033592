// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/kvstore"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

// HealthChecker is a dependency probed by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependencies are the collaborators the server wires into its handlers
type Dependencies struct {
	Catalog     handlers.Catalog
	Stock       cart.StockLookup
	Store       kvstore.Store
	RateCounter middleware.RateCounter // nil disables rate limiting
	Metrics     *metrics.Metrics
	Logger      *logrus.Logger
	Health      map[string]HealthChecker
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	deps       Dependencies
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with middleware and routes registered
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    cfg,
		deps:      deps,
		gin:       gin.New(),
		startedAt: time.Now(),
	}

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			deps.Logger.WithError(err).Warn("Ignoring invalid trusted proxies")
		}
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down HTTP server...")

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.deps.Logger))

	s.gin.Use(middleware.Metrics(s.deps.Metrics))

	// CORS middleware
	s.gin.Use(middleware.CORS(s.config))

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders())

	// Rate limiting middleware
	if s.deps.RateCounter != nil && s.config.Security.RateLimitPerMinute > 0 {
		s.gin.Use(middleware.RateLimit(s.deps.RateCounter, s.config.Security.RateLimitPerMinute, s.deps.Logger))
	}

	// Request size limit middleware
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))

	// Timeout middleware
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoints (no auth required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	s.gin.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))

	logger := s.deps.Logger
	policy := cart.PricingPolicy{
		TaxRate:  s.config.Pricing.TaxRate,
		Shipping: s.config.Pricing.ShippingFlat,
	}

	cartHandler := handlers.NewCartHandler(s.deps.Store, s.deps.Catalog, s.deps.Stock, policy, cart.EngineOptions{
		LookupTimeout:  s.config.Stock.LookupTimeout,
		MaxConcurrency: s.config.Stock.LookupConcurrency,
		Logger:         logger,
		Observer:       s.deps.Metrics,
	})

	h := routes.Handlers{
		Catalog:  handlers.NewCatalogHandler(s.deps.Catalog, s.deps.Metrics, logger),
		Cart:     cartHandler,
		Wishlist: handlers.NewWishlistHandler(wishlist.NewService(s.deps.Store, logger), s.deps.Catalog, cartHandler, logger),
	}

	visitor := []gin.HandlerFunc{
		middleware.OptionalAuthMiddleware(auth.NewJWTManager(s.config)),
		middleware.Session(s.config.Redis.KeyTTL, s.config.Security.SecureCookies),
	}

	// API v1 routes
	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, h, visitor...)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"catalog":  "/api/v1/catalog",
					"cart":     "/api/v1/cart",
					"wishlist": "/api/v1/wishlist",
					"metrics":  "/metrics",
				},
			})
		})
	}
}

// healthCheck probes every dependency
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	for name, checker := range s.deps.Health {
		if err := checker.Health(ctx); err != nil {
			s.deps.Logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			checks[name] = "unhealthy"
			healthy = false
			continue
		}
		checks[name] = "healthy"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"checks":      checks,
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
