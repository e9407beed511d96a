package api

import (
	"net/http"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	dexkeeper "github.com/subgame-network/subgame/x/dex/keeper"
	dextypes "github.com/subgame-network/subgame/x/dex/types"
)

// SwapQuoteRequest are the query parameters of a swap quote
type SwapQuoteRequest struct {
	PoolID      uint32 `form:"pool_id" binding:"required"`
	InputAsset  uint32 `form:"input_asset"`
	OutputAsset uint32 `form:"output_asset"`
	Amount      string `form:"amount" binding:"required"`
	Expected    string `form:"expected"`
	Slippage    uint64 `form:"slippage"`
	Deadline    uint64 `form:"deadline"`
}

// handleQuoteSwap prices a swap against committed reserves
func (s *Server) handleQuoteSwap(c *gin.Context) {
	var req SwapQuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: "INVALID_PARAMETER", Details: err.Error()})
		return
	}

	amount, ok := math.NewIntFromString(req.Amount)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount", Code: "INVALID_PARAMETER"})
		return
	}
	expected := math.OneInt()
	if req.Expected != "" {
		if expected, ok = math.NewIntFromString(req.Expected); !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid expected output", Code: "INVALID_PARAMETER"})
			return
		}
	}

	swapReq := dextypes.SwapRequest{
		PoolID:             dextypes.PoolID(req.PoolID),
		InputAsset:         assetstypes.AssetID(req.InputAsset),
		InputAmount:        amount,
		OutputAsset:        assetstypes.AssetID(req.OutputAsset),
		ExpectedOutput:     expected,
		MaxSlippagePercent: req.Slippage,
		Deadline:           req.Deadline,
	}

	var res dextypes.SwapResult
	err := s.app.QueryDex(func(ctx sdk.Context, k dexkeeper.Keeper) (err error) {
		// Quote as if included in the next block.
		res, err = k.SimulateSwap(ctx.WithBlockHeight(ctx.BlockHeight()+1), swapReq)
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
