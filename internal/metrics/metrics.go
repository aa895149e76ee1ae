package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the escrow operations. A nil *Metrics is valid and
// records nothing, so tests and one-shot tools can skip registration.
type Metrics struct {
	// Completed operations by kind: fund, withdraw_own, withdraw_master
	Operations *prometheus.CounterVec

	// Rejections by operation kind and reason
	Rejections *prometheus.CounterVec

	// Transferred amounts by operation kind
	Amounts *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brickfund_escrow_operations_total",
			Help: "Completed escrow operations by kind",
		}, []string{"op"}),

		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brickfund_escrow_rejections_total",
			Help: "Rejected escrow operations by kind and reason",
		}, []string{"op", "reason"}),

		Amounts: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brickfund_escrow_amount_units",
			Help:    "Transferred amounts in ledger units by operation kind",
			Buckets: prometheus.ExponentialBuckets(1, 10, 12),
		}, []string{"op"}),
	}
}

func (m *Metrics) IncOperation(op string, amount uint64) {
	if m != nil {
		m.Operations.WithLabelValues(op).Inc()
		m.Amounts.WithLabelValues(op).Observe(float64(amount))
	}
}

func (m *Metrics) IncRejection(op, reason string) {
	if m != nil {
		m.Rejections.WithLabelValues(op, reason).Inc()
	}
}
