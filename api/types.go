package api

import (
	"github.com/subgame-network/subgame/app"
	dexkeeper "github.com/subgame-network/subgame/x/dex/keeper"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// StatusResponse reports the committed height
type StatusResponse struct {
	Height  int64  `json:"height"`
	Version string `json:"version"`
}

// PoolsResponse lists pools
type PoolsResponse struct {
	Pools []dexkeeper.PoolInfo `json:"pools"`
	Count int                  `json:"count"`
}

// BalanceResponse is one account's balance of one asset
type BalanceResponse struct {
	Account string `json:"account"`
	Asset   uint32 `json:"asset"`
	Balance string `json:"balance"`
}

// SubmitBlockRequest carries the operations of one block
type SubmitBlockRequest struct {
	Operations []app.Operation `json:"operations" binding:"required,min=1"`
}
