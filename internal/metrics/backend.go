package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search backend Prometheus metrics.
var (
	BackendQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dataprovider",
			Name:      "backend_queries_total",
			Help:      "Total number of search backend queries",
		},
		[]string{"path", "status"}, // path: "models" / "count"
	)

	BackendQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dataprovider",
			Name:      "backend_query_duration_seconds",
			Help:      "Search backend query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"path"},
	)

	BackendDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dataprovider",
			Name:      "backend_documents_total",
			Help:      "Total documents returned by the search backend",
		},
	)
)

var backendMetricsRegistered bool

// RegisterBackendMetrics registers search backend metrics. Must be called once from main.
func RegisterBackendMetrics() {
	if backendMetricsRegistered {
		return
	}
	prometheus.MustRegister(BackendQueriesTotal)
	prometheus.MustRegister(BackendQueryDuration)
	prometheus.MustRegister(BackendDocumentsTotal)
	backendMetricsRegistered = true
}
