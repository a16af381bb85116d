// Package metrics holds the Prometheus collectors operators use to spot
// pricing failures and inventory events that did not reach the broker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orders"

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	PricingRequests          *prometheus.CounterVec
	PricingLatencyMS         prometheus.Histogram
	NotificationFailures     prometheus.Counter
	InventoryPublishFailures *prometheus.CounterVec
	InventoryOutboxRelayed   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PricingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "requests_total",
			Help:      "Pricing round-trips by outcome.",
		}, []string{"outcome"}),
		PricingLatencyMS: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "round_trip_ms",
			Help:      "Pricing request/reply latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		NotificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "failures_total",
			Help:      "Order confirmation notifications that could not be published.",
		}),
		InventoryPublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "publish_failures_total",
			Help:      "Inventory events that failed to publish after the store was changed.",
		}, []string{"kind"}),
		InventoryOutboxRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "outbox_relayed_total",
			Help:      "Inventory outbox events relayed by the retry job, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.PricingRequests,
		m.PricingLatencyMS,
		m.NotificationFailures,
		m.InventoryPublishFailures,
		m.InventoryOutboxRelayed,
	)
	return m
}

// ObservePricing records one pricing round-trip.
func (m *Metrics) ObservePricing(outcome string, ms float64) {
	if m == nil {
		return
	}
	m.PricingRequests.WithLabelValues(outcome).Inc()
	m.PricingLatencyMS.Observe(ms)
}

// NotificationFailed records a dropped order confirmation.
func (m *Metrics) NotificationFailed() {
	if m == nil {
		return
	}
	m.NotificationFailures.Inc()
}

// InventoryPublishFailed records a reserve/restore event that did not reach the broker.
func (m *Metrics) InventoryPublishFailed(kind string) {
	if m == nil {
		return
	}
	m.InventoryPublishFailures.WithLabelValues(kind).Inc()
}

// OutboxRelayed records the result of relaying one outbox event.
func (m *Metrics) OutboxRelayed(result string) {
	if m == nil {
		return
	}
	m.InventoryOutboxRelayed.WithLabelValues(result).Inc()
}

// Handler exposes the default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor exposes a specific gatherer.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
