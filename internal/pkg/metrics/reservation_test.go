//go:build unit

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReservationMetrics(reg)

	m.Observe(OpReserve, "ok", 20*time.Millisecond)
	m.Observe(OpReserve, "ok", 10*time.Millisecond)
	m.Observe(OpReserve, "sold_out", time.Millisecond)
	m.Observe("", "", time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.Equal(t, 2.0, counterValue(t, mfs, "reservation_operations_total", OpReserve, "ok"))
	assert.Equal(t, 1.0, counterValue(t, mfs, "reservation_operations_total", OpReserve, "sold_out"))
	assert.Equal(t, 1.0, counterValue(t, mfs, "reservation_operations_total", "unknown", "unknown"))

	hist := findFamily(mfs, "reservation_operation_duration_seconds")
	require.NotNil(t, hist)
	for _, metric := range hist.GetMetric() {
		if hasLabel(metric.GetLabel(), "operation", OpReserve) {
			assert.Equal(t, uint64(3), metric.GetHistogram().GetSampleCount())
		}
	}
}

func TestReservationMetrics_NilIsNoop(t *testing.T) {
	var m *ReservationMetrics
	assert.NotPanics(t, func() { m.Observe(OpPickup, "ok", time.Second) })
	assert.NotPanics(t, func() { NewReservationMetrics(nil).Observe(OpPay, "ok", time.Second) })
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name, op, outcome string) float64 {
	t.Helper()
	mf := findFamily(mfs, name)
	require.NotNil(t, mf, "metric %q not found", name)
	for _, metric := range mf.GetMetric() {
		if hasLabel(metric.GetLabel(), "operation", op) && hasLabel(metric.GetLabel(), "outcome", outcome) {
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %q missing operation=%s outcome=%s", name, op, outcome)
	return 0
}

func findFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func hasLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, l := range labels {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}
