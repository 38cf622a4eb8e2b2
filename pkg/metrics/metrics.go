// Package metrics defines the Prometheus collectors used by the ingestion
// and search daemons and exposes an HTTP server for scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	PagesConsumedTotal *prometheus.CounterVec
	DocsIndexedTotal   prometheus.Counter
	IndexBuildSeconds  prometheus.Histogram
	IndexTerms         prometheus.Gauge
	IndexDocs          prometheus.Gauge

	SearchQueriesTotal *prometheus.CounterVec
	SearchLatency      *prometheus.HistogramVec
	SearchHitsCount    prometheus.Histogram

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		PagesConsumedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pages_consumed_total",
				Help: "Crawled pages consumed from Kafka by outcome (stored, invalid, error).",
			},
			[]string{"outcome"},
		),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total number of documents added to boolean indexes.",
			},
		),
		IndexBuildSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_build_seconds",
				Help:    "Wall time of full index builds in seconds.",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			},
		),
		IndexTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_terms",
				Help: "Distinct terms in the current index snapshot.",
			},
		),
		IndexDocs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_docs",
				Help: "Documents in the current index snapshot.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, rejected).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		SearchHitsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_hits_count",
				Help:    "Number of matching documents per query.",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of query cache misses.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.PagesConsumedTotal,
		m.DocsIndexedTotal,
		m.IndexBuildSeconds,
		m.IndexTerms,
		m.IndexDocs,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchHitsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)
	return m
}
