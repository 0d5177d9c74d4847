package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cluster state metrics

	NodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ariadne_nodes_total",
			Help: "Total number of graph nodes by resource kind",
		},
		[]string{"kind"},
	)

	EdgesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ariadne_edges_total",
			Help: "Total number of graph edges by edge kind",
		},
		[]string{"kind"},
	)

	// Observer metrics

	ObserverSnapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariadne_observer_snapshots_total",
			Help: "Objects ingested by the observer per resolve cycle, by source kind",
		},
		[]string{"kind"},
	)

	// Diff / resolve loop metrics

	ResolveCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ariadne_resolve_cycles_total",
			Help: "Resolve loop iterations completed",
		},
	)

	ResolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ariadne_resolve_duration_seconds",
			Help:    "Time to diff and apply one resolve cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	DiffNodesAdded = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ariadne_diff_nodes_added",
			Help:    "Nodes added per diff",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	DiffNodesRemoved = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ariadne_diff_nodes_removed",
			Help:    "Nodes removed per diff",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	DiffNodesModified = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ariadne_diff_nodes_modified",
			Help:    "Nodes modified per diff",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	DiffEdgesChanged = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ariadne_diff_edges_changed",
			Help:    "Edges added plus removed per diff",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	// Backend / query metrics

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariadne_queries_total",
			Help: "Queries executed by backend label and outcome",
		},
		[]string{"backend", "outcome"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ariadne_query_duration_seconds",
			Help:    "Query execution duration from parse through evaluation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	QueryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariadne_query_errors_total",
			Help: "Query failures by ariaerr kind",
		},
		[]string{"kind"},
	)

	BackendReconnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ariadne_backend_reconnects_total",
			Help: "Remote backend reconnect attempts after a failed round trip",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(NodesTotal)
	prometheus.MustRegister(EdgesTotal)

	prometheus.MustRegister(ObserverSnapshotsTotal)

	prometheus.MustRegister(ResolveCyclesTotal)
	prometheus.MustRegister(ResolveDuration)
	prometheus.MustRegister(DiffNodesAdded)
	prometheus.MustRegister(DiffNodesRemoved)
	prometheus.MustRegister(DiffNodesModified)
	prometheus.MustRegister(DiffEdgesChanged)

	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryErrorsTotal)
	prometheus.MustRegister(BackendReconnectsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
