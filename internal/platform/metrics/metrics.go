package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by both services
type Metrics struct {
	// API metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Parse metrics
	ParseRequests    *prometheus.CounterVec
	ParseCacheHits   prometheus.Counter
	ParseCacheMisses prometheus.Counter
	LLMDuration      prometheus.Histogram

	// Save metrics
	SaveRequests     *prometheus.CounterVec
	ProcessedSaves   *prometheus.CounterVec
	OutboxPublished  *prometheus.CounterVec
	TransactionTotal prometheus.Histogram

	// History metrics
	HistoryQueries *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fingenie_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fingenie_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fingenie_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		ParseRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fingenie_parse_requests_total",
				Help: "Transcript parse requests by outcome",
			},
			[]string{"outcome"},
		),
		ParseCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "fingenie_parse_cache_hits_total",
			Help: "Parses served from the Redis cache",
		}),
		ParseCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "fingenie_parse_cache_misses_total",
			Help: "Parses that had to call the model",
		}),
		LLMDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fingenie_llm_duration_seconds",
			Help:    "Duration of model calls",
			Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32},
		}),

		SaveRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fingenie_save_requests_total",
				Help: "Save requests accepted by the gateway by outcome",
			},
			[]string{"outcome"},
		),
		ProcessedSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fingenie_processed_saves_total",
				Help: "Save requests handled by the processor by status",
			},
			[]string{"status"},
		),
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fingenie_outbox_published_total",
				Help: "Outbox messages written to the transaction store by result",
			},
			[]string{"result"},
		),
		TransactionTotal: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fingenie_transaction_amount",
			Help:    "Amounts of stored transactions",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),

		HistoryQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fingenie_history_queries_total",
				Help: "History queries by kind",
			},
			[]string{"kind"},
		),
	}
}
