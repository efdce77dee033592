package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.LookupCompleted("available")
	m.LookupCompleted("available")
	m.LookupCompleted("timeout")
	m.ValidationDiscarded()
	m.ObserveRequest("/api/v1/cart", http.MethodGet, http.StatusOK, 15*time.Millisecond)
	m.ObserveCatalogQuery(2)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.stockLookups.WithLabelValues("available")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stockLookups.WithLabelValues("timeout")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.staleValidations))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/cart", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.catalogQueries.WithLabelValues("2")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ValidationDiscarded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "storefront_cart_stale_validations_total 1"))
}
