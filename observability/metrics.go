package observability

import (
	"math"
	"math/big"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// EconomyMetrics wraps the collectors tracking economy engine activity for
// one hub session.
type EconomyMetrics struct {
	operations   *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	treasury     prometheus.Gauge
	balance      prometheus.Gauge
	rewardTokens prometheus.Gauge
}

var (
	economyOnce     sync.Once
	economyRegistry *EconomyMetrics
)

// Economy returns the lazily-initialised metrics registry for economy
// operations.
func Economy() *EconomyMetrics {
	economyOnce.Do(func() {
		economyRegistry = &EconomyMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "gamehub",
				Subsystem: "economy",
				Name:      "operations_total",
				Help:      "Count of economy operations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "gamehub",
				Subsystem: "economy",
				Name:      "rejections_total",
				Help:      "Count of rejected economy operations segmented by operation and reason.",
			}, []string{"operation", "reason"}),
			treasury: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "gamehub",
				Subsystem: "economy",
				Name:      "treasury_micro_units",
				Help:      "Current hub treasury balance in settlement micro-units.",
			}),
			balance: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "gamehub",
				Subsystem: "economy",
				Name:      "player_balance_micro_units",
				Help:      "Current player settlement balance in micro-units.",
			}),
			rewardTokens: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "gamehub",
				Subsystem: "economy",
				Name:      "player_reward_tokens",
				Help:      "Current player reward-token balance.",
			}),
		}
		prometheus.MustRegister(
			economyRegistry.operations,
			economyRegistry.rejections,
			economyRegistry.treasury,
			economyRegistry.balance,
			economyRegistry.rewardTokens,
		)
	})
	return economyRegistry
}

// Observe records the outcome of an operation. Rejected operations also
// increment the rejection counter with the supplied reason.
func (m *EconomyMetrics) Observe(operation, reason string) {
	if m == nil {
		return
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if reason == "" {
		m.operations.WithLabelValues(op, "committed").Inc()
		return
	}
	m.operations.WithLabelValues(op, "rejected").Inc()
	m.rejections.WithLabelValues(op, reason).Inc()
}

// RecordBalances updates the gauges tracking treasury and player holdings.
func (m *EconomyMetrics) RecordBalances(treasury, balance *big.Int, rewardTokens uint64) {
	if m == nil {
		return
	}
	m.treasury.Set(bigToFloat(treasury))
	m.balance.Set(bigToFloat(balance))
	m.rewardTokens.Set(float64(rewardTokens))
}

func bigToFloat(value *big.Int) float64 {
	if value == nil {
		return 0
	}
	floatVal, _ := new(big.Float).SetInt(value).Float64()
	if math.IsNaN(floatVal) || math.IsInf(floatVal, 0) {
		return 0
	}
	return floatVal
}
