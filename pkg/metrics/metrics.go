// Package metrics exposes Prometheus collectors for the reward engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "rewards"

// Metrics groups the reward engine collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	allocations *prometheus.CounterVec
	credited    *prometheus.CounterVec
	escrowed    prometheus.Counter
	claims      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Allocation runs by result.",
		}, []string{"result"}),
		credited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credited_amount_total",
			Help:      "Amount credited to beneficiary balances in ZAR.",
		}, []string{"beneficiary"}),
		escrowed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pending_escrow_amount_total",
			Help:      "Amount escrowed for unregistered recipients in ZAR.",
		}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Pending reward claims by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.allocations, m.credited, m.escrowed, m.claims)
	}
	return m
}

// Allocation counts one allocation run.
func (m *Metrics) Allocation(result string) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(result).Inc()
}

// Credited adds a committed credit for a beneficiary class.
func (m *Metrics) Credited(beneficiary string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.credited.WithLabelValues(beneficiary).Add(amount.InexactFloat64())
}

// Escrowed adds an amount placed in the pending ledger.
func (m *Metrics) Escrowed(amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.escrowed.Add(amount.InexactFloat64())
}

// Claim counts one claim attempt.
func (m *Metrics) Claim(result string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(result).Inc()
}
