package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus metrics for pkg/graph's facade operations.
type Registry struct {
	OperationsTotal      *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	ConflictRetriesTotal *prometheus.CounterVec
	IDListLength         *prometheus.HistogramVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a fresh registry with every graph metric initialized.
// A nil *Registry receiver is valid on every Record*/StartTimer method (a
// Graph built without metrics.NewRegistry records nothing), so NewRegistry
// is only required when metrics are actually wanted.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.OperationsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphlayer_operations_total",
			Help: "Total number of pkg/graph facade operations, by operation and outcome.",
		},
		[]string{"operation", "status"},
	)

	r.OperationDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphlayer_operation_duration_seconds",
			Help:    "pkg/graph facade operation latency in seconds, including any retries.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	r.ConflictRetriesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphlayer_conflict_retries_total",
			Help: "Total number of transaction retries triggered by a write-write conflict.",
		},
		[]string{"operation"},
	)

	r.IDListLength = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphlayer_idlist_length",
			Help:    "Length of adjacency id-lists observed while walking them.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"slot"},
	)

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry, for
// wiring into an HTTP handler (promhttp.HandlerFor).
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}
