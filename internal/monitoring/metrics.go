package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sweep metrics
	sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retire_sim_sweeps_total",
			Help: "Total number of runs by mode and status",
		},
		[]string{"mode", "status"},
	)

	sweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retire_sim_run_duration_seconds",
			Help:    "Distribution of run durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// Simulation metrics
	simulationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "retire_sim_simulated_paths_total",
			Help: "Total number of simulated retirement paths",
		},
	)

	bestSuccessRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "retire_sim_best_success_rate",
			Help: "Success rate of the best allocation in the last completed sweep",
		},
	)

	// Dataset metrics
	datasetMonths = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "retire_sim_dataset_months",
			Help: "Number of months in the loaded historical dataset",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retire_sim_errors_total",
			Help: "Total number of errors by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(sweepsTotal)
	prometheus.MustRegister(sweepDuration)
	prometheus.MustRegister(simulationsTotal)
	prometheus.MustRegister(bestSuccessRate)
	prometheus.MustRegister(datasetMonths)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordRun records a finished sweep or single run. mode is "sweep" or
// "single", status "complete", "timeout" or "error".
func RecordRun(mode, status string, simulations int, duration time.Duration) {
	sweepsTotal.WithLabelValues(mode, status).Inc()
	sweepDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if simulations > 0 {
		simulationsTotal.Add(float64(simulations))
	}
}

// UpdateBestSuccessRate sets the best success rate gauge
func UpdateBestSuccessRate(rate float64) {
	bestSuccessRate.Set(rate)
}

// UpdateDatasetMonths sets the dataset size gauge
func UpdateDatasetMonths(months int) {
	datasetMonths.Set(float64(months))
}

// RecordError records an error metric
func RecordError(category string) {
	errorsTotal.WithLabelValues(category).Inc()
}
