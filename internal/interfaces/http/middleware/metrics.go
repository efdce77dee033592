// internal/interfaces/http/middleware/metrics.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

// Metrics records request count and latency per route template
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
