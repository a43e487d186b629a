package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInventoryMetrics_Registra(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)

	m.ObserveOperation("sale", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveOperation("sale", OutcomeSuccess, 10*time.Millisecond)
	m.ObserveOperation("sale", "", time.Millisecond)
	m.IncIntegrityViolation()
	m.IncRetry("purchase")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("sale", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("sale", "unknown")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.integrity))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.retries.WithLabelValues("purchase")))
}

func TestInventoryMetrics_NilSeguro(t *testing.T) {
	var m *InventoryMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("sale", OutcomeSuccess, time.Second)
		m.IncIntegrityViolation()
		m.IncRetry("sale")
	})
	empty := NewInventoryMetrics(nil)
	assert.NotPanics(t, func() { empty.ObserveOperation("purchase", OutcomeError, time.Second) })
}
