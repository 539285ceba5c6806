package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dicebet"

// Metrics are the app's Prometheus collectors.
type Metrics struct {
	Txs           *prometheus.CounterVec
	TxErrors      *prometheus.CounterVec
	BetsCommitted prometheus.Counter
	BetsSettled   *prometheus.CounterVec
	BetsVoided    prometheus.Counter
	Staked        prometheus.Counter
	PaidOut       prometheus.Counter

	TreasuryBalance  prometheus.Gauge
	TreasuryReserved prometheus.Gauge
	Height           prometheus.Gauge
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "txs_total", Help: "delivered txs by type and result",
		}, []string{"type", "result"}),
		TxErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "tx_errors_total", Help: "failed txs by error kind",
		}, []string{"kind"}),
		BetsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "bets_committed_total", Help: "bets accepted",
		}),
		BetsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bets_settled_total", Help: "bets settled by outcome",
		}, []string{"outcome"}),
		BetsVoided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "bets_voided_total", Help: "bets refunded after an expired commitment",
		}),
		Staked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "staked_base_units_total", Help: "stake escrowed into the treasury",
		}),
		PaidOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "paid_out_base_units_total", Help: "winnings and refunds paid by the treasury",
		}),
		TreasuryBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "treasury_balance_base_units", Help: "treasury balance at last block",
		}),
		TreasuryReserved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "treasury_reserved_base_units", Help: "payouts reserved for open bets",
		}),
		Height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "block_height", Help: "last finalized height",
		}),
	}
	reg.MustRegister(
		m.Txs, m.TxErrors,
		m.BetsCommitted, m.BetsSettled, m.BetsVoided,
		m.Staked, m.PaidOut,
		m.TreasuryBalance, m.TreasuryReserved, m.Height,
	)
	return m
}

// NewNop returns collectors registered on a private registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
