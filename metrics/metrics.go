// Package metrics exposes Prometheus metrics for the sports meet API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"

	directionAdded   = "added"
	directionRemoved = "removed"

	unmatchedRoute = "unmatched"
)

// Manager owns the service metrics on its own registry.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	runtimeCollectors bool

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	pointsOperations *prometheus.CounterVec
	pointsAwarded    *prometheus.CounterVec
}

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) { m.namespace = namespace }
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) { m.histogramBuckets = buckets }
}

// WithRegistry registers the metrics on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) { m.registry = registry }
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) { m.runtimeCollectors = true }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sportsmeet",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	if m.runtimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.pointsOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "points",
		Name:      "operations_total",
		Help:      "Points operations by kind and outcome",
	}, []string{"operation", "outcome"})

	m.pointsAwarded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "points",
		Name:      "awarded_total",
		Help:      "Points added to or removed from faculty counters by division",
	}, []string{"division", "direction"})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency by chi route pattern, so
// /api/results/1 and /api/results/2 share one series.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *Manager) ObservePointsOperation(operation string, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	m.pointsOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *Manager) ObserveAllocation(alloc *models.PointsAllocation, removed bool) {
	if alloc.Empty() {
		return
	}
	direction := directionAdded
	if removed {
		direction = directionRemoved
	}
	var mens, womens int
	for _, d := range alloc.Deltas {
		mens += d.Delta.Mens
		womens += d.Delta.Womens
	}
	if mens > 0 {
		m.pointsAwarded.WithLabelValues(string(models.DivisionMen), direction).Add(float64(mens))
	}
	if womens > 0 {
		m.pointsAwarded.WithLabelValues(string(models.DivisionWomen), direction).Add(float64(womens))
	}
}
