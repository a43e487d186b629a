package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados normalizados para la etiqueta outcome.
const (
	OutcomeSuccess           = "success"
	OutcomeValidation        = "validation"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeInvariant         = "invariant_violation"
	OutcomeContention        = "contention"
	OutcomeError             = "error"
)

// InventoryMetrics métricas del coordinador de compras y ventas.
// Un receptor nil (o creado con registerer nil) ignora todas las llamadas.
type InventoryMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	integrity  prometheus.Counter
	retries    *prometheus.CounterVec
}

// NewInventoryMetrics registra las métricas de inventario en el registerer dado.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_operations_total",
		Help: "Compras y ventas procesadas por resultado.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_operation_duration_seconds",
		Help:    "Duración de compras y ventas (incluye reintentos).",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	integrity := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_integrity_violations_total",
		Help: "Ventas abortadas porque los lotes no cubren Product.quantity.",
	})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_tx_retries_total",
		Help: "Transacciones reintentadas por contención.",
	}, []string{"operation"})
	reg.MustRegister(operations, duration, integrity, retries)
	return &InventoryMetrics{
		operations: operations,
		duration:   duration,
		integrity:  integrity,
		retries:    retries,
	}
}

// ObserveOperation registra el resultado y la duración de una operación.
func (m *InventoryMetrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(operation, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncIntegrityViolation cuenta una desincronización lotes / Product.quantity.
func (m *InventoryMetrics) IncIntegrityViolation() {
	if m == nil || m.integrity == nil {
		return
	}
	m.integrity.Inc()
}

// IncRetry cuenta un reintento por contención.
func (m *InventoryMetrics) IncRetry(operation string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(operation).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
