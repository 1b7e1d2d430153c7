package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess     = "success"
	ResultFailure     = "failure"
	ResultDiscarded   = "discarded"
	ResultConverted   = "converted"
	ResultIdentity    = "identity"
	ResultUnavailable = "unavailable"
	ResultHit         = "hit"
	ResultMiss        = "miss"
	ResultExpired     = "expired"
	ResultCorrupt     = "corrupt"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RefreshTotal      *prometheus.CounterVec
	RefreshDuration   prometheus.Histogram
	ConversionsTotal  *prometheus.CounterVec
	StoreOperations   *prometheus.CounterVec
	RateSetValidUntil prometheus.Gauge
	RateSetSize       prometheus.Gauge
}

// NewMetrics registers the collectors with reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchange_rate_refresh_total",
				Help: "Total number of exchange rate refreshes by result",
			},
			[]string{"result"},
		),

		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exchange_rate_refresh_duration_seconds",
				Help:    "Duration of exchange rate fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_conversions_total",
				Help: "Total number of currency conversions by result",
			},
			[]string{"result"},
		),

		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_store_operations_total",
				Help: "Total number of persistent rate cache operations",
			},
			[]string{"operation", "result"},
		),

		RateSetValidUntil: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "exchange_rate_valid_until_timestamp_seconds",
				Help: "Expiry instant of the rate set currently served",
			},
		),

		RateSetSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "exchange_rate_pairs",
				Help: "Number of rate records in the set currently served",
			},
		),
	}
}
