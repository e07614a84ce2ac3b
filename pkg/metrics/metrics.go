package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the service exports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	ReservationsCreated *prometheus.CounterVec
	BookingConflicts    *prometheus.CounterVec
	WebhookEvents       *prometheus.CounterVec
	LoyaltyRedemptions  *prometheus.CounterVec
}

// New registers collectors in the default registry under the service namespace
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors in reg. Tests pass a fresh registry.
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	ns := namespace(serviceName)
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation", "status"}),
		DBOpenConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_open_connections",
			Help:      "Open connections in the pool",
		}, []string{"service"}),
		DBInUse: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_in_use_connections",
			Help:      "Connections currently in use",
		}, []string{"service"}),
		DBIdle: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_idle_connections",
			Help:      "Idle connections in the pool",
		}, []string{"service"}),
		DBWaitCount: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}, []string{"service"}),

		ReservationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "reservations_created_total",
			Help:      "Reservations successfully created",
		}, []string{"service"}),
		BookingConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the interval was taken",
		}, []string{"service"}),
		WebhookEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "webhook_events_total",
			Help:      "Gateway webhook deliveries by provider and result",
		}, []string{"service", "provider", "result"}),
		LoyaltyRedemptions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "loyalty_redemptions_total",
			Help:      "Loyalty redemption attempts by kind and result",
		}, []string{"service", "kind", "result"}),
	}
}

func namespace(serviceName string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(serviceName))
}

// IncReservationCreated counts a committed reservation
func (m *Metrics) IncReservationCreated(service string) {
	if m == nil {
		return
	}
	m.ReservationsCreated.WithLabelValues(service).Inc()
}

// IncBookingConflict counts a rejected overlapping booking
func (m *Metrics) IncBookingConflict(service string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(service).Inc()
}

// IncWebhookEvent counts a webhook delivery
func (m *Metrics) IncWebhookEvent(service, provider, result string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(service, provider, result).Inc()
}

// IncLoyaltyRedemption counts a redemption attempt
func (m *Metrics) IncLoyaltyRedemption(service, kind, result string) {
	if m == nil {
		return
	}
	m.LoyaltyRedemptions.WithLabelValues(service, kind, result).Inc()
}
