package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry exposed on /metrics.
// Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
	dbQueryDuration *prometheus.HistogramVec

	ordersPlaced     prometheus.Counter
	orderRevenue     prometheus.Counter
	ordersCancelled  prometheus.Counter
	orderTransitions *prometheus.CounterVec
	stockConflicts   prometheus.Counter
	messagesReceived *prometheus.CounterVec
	uploads          *prometheus.CounterVec
}

// NewMetrics creates a registry with Go runtime, process and application collectors
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	m.dbQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Database statement latency by GORM operation.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"operation"})

	m.ordersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders successfully placed.",
	})

	m.orderRevenue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_amount_total",
		Help:      "Sum of order totals at placement, in currency units.",
	})

	m.ordersCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "cancelled_total",
		Help:      "Orders cancelled and restocked.",
	})

	m.orderTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "status_changes_total",
		Help:      "Order status changes by target status.",
	}, []string{"status"})

	m.stockConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "stock_conflicts_total",
		Help:      "Placements rejected because a stock reservation failed.",
	})

	m.messagesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "messages",
		Name:      "received_total",
		Help:      "Inbound messages by type.",
	}, []string{"type"})

	m.uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "uploads",
		Name:      "files_total",
		Help:      "Uploaded files by upload type.",
	}, []string{"type"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.dbQueryDuration,
		m.ordersPlaced,
		m.orderRevenue,
		m.ordersCancelled,
		m.orderTransitions,
		m.stockConflicts,
		m.messagesReceived,
		m.uploads,
	)

	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InFlight adjusts the in-flight gauge by delta
func (m *Metrics) InFlight(delta float64) {
	m.httpInFlight.Add(delta)
}

// ObserveDBQuery records one statement latency
func (m *Metrics) ObserveDBQuery(operation string, elapsed time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordOrderPlaced counts a placed order and its total
func (m *Metrics) RecordOrderPlaced(total float64) {
	m.ordersPlaced.Inc()
	m.orderRevenue.Add(total)
}

// RecordOrderCancelled counts a cancellation
func (m *Metrics) RecordOrderCancelled() {
	m.ordersCancelled.Inc()
}

// RecordOrderStatusChange counts a status change to status
func (m *Metrics) RecordOrderStatusChange(status string) {
	m.orderTransitions.WithLabelValues(status).Inc()
}

// RecordStockConflict counts a rejected reservation
func (m *Metrics) RecordStockConflict() {
	m.stockConflicts.Inc()
}

// RecordMessageReceived counts an inbound message
func (m *Metrics) RecordMessageReceived(messageType string) {
	m.messagesReceived.WithLabelValues(messageType).Inc()
}

// RecordUploads counts n stored files of an upload type
func (m *Metrics) RecordUploads(uploadType string, n int) {
	m.uploads.WithLabelValues(uploadType).Add(float64(n))
}
