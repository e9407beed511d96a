package types

import (
	"cosmossdk.io/math"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
)

// SwapRequest describes a single-hop trade against one pool.
type SwapRequest struct {
	PoolID      PoolID              `json:"pool_id" yaml:"pool_id"`
	InputAsset  assetstypes.AssetID `json:"input_asset" yaml:"input_asset"`
	InputAmount math.Int            `json:"input_amount" yaml:"input_amount"`
	OutputAsset assetstypes.AssetID `json:"output_asset" yaml:"output_asset"`
	// ExpectedOutput is the caller's quote; it must be positive.
	ExpectedOutput math.Int `json:"expected_output" yaml:"expected_output"`
	// MaxSlippagePercent bounds |expected - actual| / expected in percent. Zero disables it.
	MaxSlippagePercent uint64 `json:"max_slippage_percent" yaml:"max_slippage_percent"`
	// Deadline is the last block height the swap may execute at. Zero disables it.
	Deadline uint64 `json:"deadline" yaml:"deadline"`
}

// SwapResult is the outcome of an executed or simulated swap.
type SwapResult struct {
	PoolID       PoolID              `json:"pool_id"`
	InputAsset   assetstypes.AssetID `json:"input_asset"`
	InputAmount  math.Int            `json:"input_amount"`
	OutputAsset  assetstypes.AssetID `json:"output_asset"`
	OutputAmount math.Int            `json:"output_amount"`
	ReserveIn    math.Int            `json:"reserve_in"`
	ReserveOut   math.Int            `json:"reserve_out"`
}
