package sites

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the site extractors.
type Metrics struct {
	Registry       *prometheus.Registry
	SearchesTotal  *prometheus.CounterVec
	ListingsTotal  *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	searches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_searches_total",
			Help: "Total search requests issued per site.",
		},
		[]string{"site"},
	)
	listings := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_listings_total",
			Help: "Total listings returned per site.",
		},
		[]string{"site"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_errors_total",
			Help: "Total swallowed extractor errors per site.",
		},
		[]string{"site"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extractor_search_duration_seconds",
			Help:    "End-to-end search latency per site, enrichment included.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"site"},
	)

	registry.MustRegister(searches, listings, errorsTotal, duration)

	return &Metrics{
		Registry:       registry,
		SearchesTotal:  searches,
		ListingsTotal:  listings,
		ErrorsTotal:    errorsTotal,
		SearchDuration: duration,
	}
}

// IncSearch increments the per-site search counter.
func (m *Metrics) IncSearch(site string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(site).Inc()
}

// AddListings adds to the per-site listings counter.
func (m *Metrics) AddListings(site string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ListingsTotal.WithLabelValues(site).Add(float64(n))
}

// IncError increments the per-site swallowed-error counter.
func (m *Metrics) IncError(site string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(site).Inc()
}

// ObserveSearch records a search duration for a site.
func (m *Metrics) ObserveSearch(site string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(site).Observe(d.Seconds())
}
