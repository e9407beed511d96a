package keeper

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DEXMetrics holds all Prometheus metrics for the DEX module
type DEXMetrics struct {
	// Swap metrics
	SwapsTotal  *prometheus.CounterVec
	SwapVolume  *prometheus.CounterVec
	SwapLatency prometheus.Histogram

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	LPMinted         *prometheus.CounterVec
	LPBurned         *prometheus.CounterVec

	// Pool metrics
	PoolsTotal       prometheus.Gauge
	PoolCreationRate prometheus.Counter

	// Failures by operation and error
	OperationErrors *prometheus.CounterVec
}

var (
	dexMetricsOnce sync.Once
	dexMetrics     *DEXMetrics
)

// NewDEXMetrics creates and registers DEX metrics (singleton pattern)
func NewDEXMetrics() *DEXMetrics {
	dexMetricsOnce.Do(func() {
		dexMetrics = &DEXMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"pool_id", "input_asset", "output_asset", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pool_id", "asset"},
			),
			SwapLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency",
					Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
				},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity deposits",
				},
				[]string{"pool_id"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity withdrawals",
				},
				[]string{"pool_id"},
			),
			LPMinted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "lp_minted_total",
					Help:      "Total LP tokens minted in base units",
				},
				[]string{"pool_id"},
			),
			LPBurned: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "lp_burned_total",
					Help:      "Total LP tokens burned in base units",
				},
				[]string{"pool_id"},
			),
			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "pools_total",
					Help:      "Number of pools created",
				},
			),
			PoolCreationRate: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "pool_creations_total",
					Help:      "Pool creations since process start",
				},
			),
			OperationErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "subgame",
					Subsystem: "dex",
					Name:      "operation_errors_total",
					Help:      "Rejected DEX operations by error",
				},
				[]string{"operation", "error"},
			),
		}
	})
	return dexMetrics
}

// amountToFloat converts a ledger amount for prometheus counters.
func amountToFloat(amount math.Int) float64 {
	f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
	return f
}
