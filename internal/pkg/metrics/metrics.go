// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry         *prometheus.Registry
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	stockLookups     *prometheus.CounterVec
	staleValidations prometheus.Counter
	catalogQueries   *prometheus.CounterVec
}

// New registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		stockLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "stock_lookups_total",
			Help:      "Cart stock lookups by outcome.",
		}, []string{"outcome"}),
		staleValidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "stale_validations_total",
			Help:      "Validation batches discarded because the cart changed while they ran.",
		}),
		catalogQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Catalog queries by number of active filter dimensions.",
		}, []string{"active_filters"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.stockLookups,
		m.staleValidations,
		m.catalogQueries,
	)

	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveCatalogQuery records a catalog listing with its active filter count
func (m *Metrics) ObserveCatalogQuery(activeFilters int) {
	m.catalogQueries.WithLabelValues(strconv.Itoa(activeFilters)).Inc()
}

// LookupCompleted counts a stock lookup outcome
func (m *Metrics) LookupCompleted(outcome string) {
	m.stockLookups.WithLabelValues(outcome).Inc()
}

// ValidationDiscarded counts a stale validation batch
func (m *Metrics) ValidationDiscarded() {
	m.staleValidations.Inc()
}
