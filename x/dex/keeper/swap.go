package keeper

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/subgame-network/subgame/x/dex/types"
)

// Swap trades req.InputAmount of req.InputAsset for req.OutputAsset against
// one pool and returns the amount paid out.
func (k Keeper) Swap(ctx context.Context, trader sdk.AccAddress, req types.SwapRequest) (math.Int, error) {
	start := time.Now()
	defer func() {
		if k.metrics != nil {
			k.metrics.SwapLatency.Observe(time.Since(start).Seconds())
		}
		measureSince(start, "swap")
	}()

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()

	res, err := k.swap(cacheCtx, trader, req)
	if err != nil {
		k.recordFailure("swap", err)
		if k.metrics != nil {
			k.metrics.SwapsTotal.WithLabelValues(req.PoolID.String(), req.InputAsset.String(), req.OutputAsset.String(), "failed").Inc()
		}
		return math.Int{}, err
	}
	writeFn()

	if k.metrics != nil {
		poolIDStr := req.PoolID.String()
		k.metrics.SwapsTotal.WithLabelValues(poolIDStr, req.InputAsset.String(), req.OutputAsset.String(), "success").Inc()
		k.metrics.SwapVolume.WithLabelValues(poolIDStr, req.InputAsset.String()).Add(amountToFloat(req.InputAmount))
	}
	incrOperation("swap", req.PoolID, "success")
	return res.OutputAmount, nil
}

func (k Keeper) swap(ctx sdk.Context, trader sdk.AccAddress, req types.SwapRequest) (types.SwapResult, error) {
	pool, res, err := k.quoteSwap(ctx, req, trader)
	if err != nil {
		return types.SwapResult{}, err
	}

	if err := k.depositToPool(ctx, req.InputAsset, trader, pool, req.InputAmount); err != nil {
		return types.SwapResult{}, errorsmod.Wrapf(err, "deposit asset %d", req.InputAsset)
	}
	if err := k.withdrawFromPool(ctx, req.OutputAsset, pool, trader, res.OutputAmount); err != nil {
		return types.SwapResult{}, errorsmod.Wrapf(err, "pay out asset %d", req.OutputAsset)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.ID.String()),
			sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
			sdk.NewAttribute(types.AttributeKeyInputAsset, req.InputAsset.String()),
			sdk.NewAttribute(types.AttributeKeyInputAmount, req.InputAmount.String()),
			sdk.NewAttribute(types.AttributeKeyOutputAsset, req.OutputAsset.String()),
			sdk.NewAttribute(types.AttributeKeyOutputAmount, res.OutputAmount.String()),
		),
	)
	return res, nil
}

// SimulateSwap quotes a swap without moving funds or checking the caller's balance.
func (k Keeper) SimulateSwap(ctx context.Context, req types.SwapRequest) (types.SwapResult, error) {
	_, res, err := k.quoteSwap(sdk.UnwrapSDKContext(ctx), req, nil)
	return res, err
}

// quoteSwap runs every swap precondition in order and prices the trade.
// A nil trader skips the balance check.
func (k Keeper) quoteSwap(ctx sdk.Context, req types.SwapRequest, trader sdk.AccAddress) (types.Pool, types.SwapResult, error) {
	// Deadline first, before any state is read.
	if req.Deadline != 0 && uint64(ctx.BlockHeight()) > req.Deadline {
		return types.Pool{}, types.SwapResult{}, types.ErrDeadlineExceeded.Wrapf("height %d past deadline %d", ctx.BlockHeight(), req.Deadline)
	}

	pool, found := k.GetPool(ctx, req.PoolID)
	if !found {
		return types.Pool{}, types.SwapResult{}, types.ErrNoSwapExists.Wrapf("pool %d", req.PoolID)
	}
	if req.InputAsset == req.OutputAsset {
		return types.Pool{}, types.SwapResult{}, types.ErrDuplicateAssetID.Wrapf("cannot swap asset %d for itself", req.InputAsset)
	}
	if !pool.HasAsset(req.InputAsset) || !pool.HasAsset(req.OutputAsset) {
		return types.Pool{}, types.SwapResult{}, types.ErrAssetNotInPool.Wrapf(
			"pool %d trades %d/%d, got %d/%d", pool.ID, pool.AssetX, pool.AssetY, req.InputAsset, req.OutputAsset,
		)
	}
	if req.ExpectedOutput.IsNil() || !req.ExpectedOutput.IsPositive() {
		return types.Pool{}, types.SwapResult{}, types.ErrZeroExpectedAmount
	}
	if req.InputAmount.IsNil() || !req.InputAmount.IsPositive() {
		return types.Pool{}, types.SwapResult{}, types.ErrZeroBalance.Wrap("input amount must be positive")
	}
	if trader != nil {
		if err := k.requireBalance(ctx, req.InputAsset, trader, req.InputAmount); err != nil {
			return types.Pool{}, types.SwapResult{}, err
		}
	}

	reserveIn := k.reserveOf(ctx, pool, req.InputAsset)
	reserveOut := k.reserveOf(ctx, pool, req.OutputAsset)
	out, err := SwapOutput(req.InputAmount, reserveIn, reserveOut)
	if err != nil {
		return types.Pool{}, types.SwapResult{}, err
	}
	if out.IsZero() {
		return types.Pool{}, types.SwapResult{}, types.ErrNotEnoughLiquidity.Wrapf("input %s yields nothing against reserves %s/%s", req.InputAmount, reserveIn, reserveOut)
	}
	if !WithinSlippage(req.ExpectedOutput, out, req.MaxSlippagePercent) {
		return types.Pool{}, types.SwapResult{}, types.ErrSlippageExceeded.Wrapf(
			"expected %s, actual %s, max %d%%", req.ExpectedOutput, out, req.MaxSlippagePercent,
		)
	}
	if !ProductNotDecreased(reserveIn, reserveOut, req.InputAmount, out) {
		return types.Pool{}, types.SwapResult{}, types.ErrInvariantViolation.Wrapf("pool %d", pool.ID)
	}

	return pool, types.SwapResult{
		PoolID:       pool.ID,
		InputAsset:   req.InputAsset,
		InputAmount:  req.InputAmount,
		OutputAsset:  req.OutputAsset,
		OutputAmount: out,
		ReserveIn:    reserveIn,
		ReserveOut:   reserveOut,
	}, nil
}
