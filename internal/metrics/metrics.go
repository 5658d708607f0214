// Package metrics holds the Prometheus instruments of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "foodcourt"

// Module provides Metrics via fx.
var Module = fx.Provide(New)

// Metrics owns a private registry so that parallel graphs in tests never collide.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	inFlight        prometheus.Gauge
	ordersPlaced    *prometheus.CounterVec
	placeFailures   *prometheus.CounterVec
	eventsRelayed   *prometheus.CounterVec
}

// New creates and registers all instruments.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders committed, by stall.",
		}, []string{"stall_id"}),
		placeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placement_failures_total",
			Help:      "Rejected order placements, by reason.",
		}, []string{"reason"}),
		eventsRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_relayed_total",
			Help:      "Outbox events handed to the publisher, by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestTotal,
		m.inFlight,
		m.ordersPlaced,
		m.placeFailures,
		m.eventsRelayed,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted increments the in-flight gauge and returns a func recording the outcome.
func (m *Metrics) RequestStarted() func(method, route string, status int) {
	start := time.Now()
	m.inFlight.Inc()
	return func(method, route string, status int) {
		m.inFlight.Dec()
		code := strconv.Itoa(status)
		m.requestDuration.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(method, route, code).Inc()
	}
}

// OrderPlaced counts a committed order.
func (m *Metrics) OrderPlaced(stallID string) {
	m.ordersPlaced.WithLabelValues(stallID).Inc()
}

// PlacementFailed counts a rejected placement.
func (m *Metrics) PlacementFailed(reason string) {
	m.placeFailures.WithLabelValues(reason).Inc()
}

// EventRelayed counts an outbox publish attempt.
func (m *Metrics) EventRelayed(ok bool) {
	outcome := "published"
	if !ok {
		outcome = "failed"
	}
	m.eventsRelayed.WithLabelValues(outcome).Inc()
}

// Handler serves the exposition page.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
