package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	OpReserve = "reserve"
	OpPickup  = "pickup"
	OpPay     = "pay"
	OpCancel  = "cancel"
)

// ReservationMetrics counts reservation engine outcomes. A nil value is a no-op.
type ReservationMetrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewReservationMetrics(reg prometheus.Registerer) *ReservationMetrics {
	if reg == nil {
		return &ReservationMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_operations_total",
		Help: "Reservation engine operations by outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reservation_operation_duration_seconds",
		Help:    "Latency of reservation engine operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(outcomes, duration)
	return &ReservationMetrics{
		outcomes: outcomes,
		duration: duration,
	}
}

func (m *ReservationMetrics) Observe(op, outcome string, elapsed time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(elapsed.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
