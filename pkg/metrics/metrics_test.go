package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncReservationCreated("svc")
		m.IncBookingConflict("svc")
		m.IncWebhookEvent("svc", "stripe", "applied")
		m.IncLoyaltyRedemption("svc", "individual", "ok")
	})
}

func TestCounters(t *testing.T) {
	m := NewWithRegisterer("SMC-BookingCore", prometheus.NewRegistry())

	m.IncWebhookEvent("core", "stripe", "duplicate")
	m.IncWebhookEvent("core", "stripe", "duplicate")
	m.IncBookingConflict("core")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhookEvents.WithLabelValues("core", "stripe", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingConflicts.WithLabelValues("core")))
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "smc_bookingcore", namespace("SMC-BookingCore"))
}
