package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the GeoFlix backend.
type Metrics struct {
	Recommendations *prometheus.CounterVec // labels: category
	StoreErrors     *prometheus.CounterVec // labels: op={append,read}
	WeatherLookups  *prometheus.CounterVec // labels: outcome={success,error}
	LogRecords      prometheus.Gauge
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoflix",
			Name:      "recommendations_total",
			Help:      help("Classified and logged requests by category."),
		}, []string{"category"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoflix",
			Name:      "store_errors_total",
			Help:      help("Log store failures by operation."),
		}, []string{"op"}),
		WeatherLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoflix",
			Name:      "weather_lookups_total",
			Help:      help("Current-weather lookups by outcome."),
		}, []string{"outcome"}),
		LogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geoflix",
			Name:      "log_records",
			Help:      help("Records in the log store at the last summary."),
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.Recommendations,
		m.StoreErrors,
		m.WeatherLookups,
		m.LogRecords,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build
// as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
