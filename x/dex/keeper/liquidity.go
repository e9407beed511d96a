package keeper

import (
	"context"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/types"
)

// CreatePool opens a pool for (assetX, assetY) seeded with the caller's
// deposit and mints the initial LP tokens to the caller.
func (k Keeper) CreatePool(
	ctx context.Context,
	creator sdk.AccAddress,
	assetX, assetY assetstypes.AssetID,
	amountX, amountY math.Int,
) (types.PoolID, error) {
	defer measureSince(time.Now(), "create_pool")

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()

	pool, minted, err := k.createPool(cacheCtx, creator, assetX, assetY, amountX, amountY)
	if err != nil {
		k.recordFailure("create_pool", err)
		return 0, err
	}
	writeFn()

	if k.metrics != nil {
		k.metrics.PoolsTotal.Set(float64(pool.ID))
		k.metrics.PoolCreationRate.Inc()
		k.metrics.LPMinted.WithLabelValues(pool.ID.String()).Add(amountToFloat(minted))
	}
	incrOperation("create_pool", pool.ID, "success")

	k.Logger(ctx).Info("pool created",
		"pool_id", pool.ID,
		"asset_x", pool.AssetX,
		"asset_y", pool.AssetY,
		"lp_minted", minted.String(),
	)
	return pool.ID, nil
}

func (k Keeper) createPool(
	ctx sdk.Context,
	creator sdk.AccAddress,
	assetX, assetY assetstypes.AssetID,
	amountX, amountY math.Int,
) (types.Pool, math.Int, error) {
	// 1. Pair validation
	if assetX == assetY {
		return types.Pool{}, math.Int{}, types.ErrDuplicateAssetID.Wrapf("asset %d paired with itself", assetX)
	}
	if id, exists := k.pairExists(ctx, assetX, assetY); exists {
		return types.Pool{}, math.Int{}, types.ErrPoolAlreadyExists.Wrapf("pool %d already trades %d/%d", id, assetX, assetY)
	}

	// 2. Amounts
	if amountX.IsNil() || !amountX.IsPositive() || amountY.IsNil() || !amountY.IsPositive() {
		return types.Pool{}, math.Int{}, types.ErrZeroBalance.Wrap("both deposit amounts must be positive")
	}

	// 3. Asset metadata
	symbolX, decimalsX, err := k.assetDetails(ctx, assetX)
	if err != nil {
		return types.Pool{}, math.Int{}, err
	}
	symbolY, decimalsY, err := k.assetDetails(ctx, assetY)
	if err != nil {
		return types.Pool{}, math.Int{}, err
	}

	// 4. Caller balances
	if err := k.requireBalance(ctx, assetX, creator, amountX); err != nil {
		return types.Pool{}, math.Int{}, err
	}
	if err := k.requireBalance(ctx, assetY, creator, amountY); err != nil {
		return types.Pool{}, math.Int{}, err
	}

	// 5. Initial LP issuance
	minted, err := InitialLiquidity(amountX, amountY, decimalsX, decimalsY)
	if err != nil {
		return types.Pool{}, math.Int{}, err
	}
	if minted.IsZero() {
		return types.Pool{}, math.Int{}, types.ErrZeroBalance.Wrapf("deposit %s/%s mints no lp tokens", amountX, amountY)
	}
	product, err := SafeMul(amountX, amountY)
	if err != nil {
		return types.Pool{}, math.Int{}, err
	}

	// 6. Allocate the id and persist the pool
	poolID, err := k.allocatePoolID(ctx)
	if err != nil {
		return types.Pool{}, math.Int{}, err
	}
	pool := types.NewPool(poolID, assetX, assetY, product)
	if err := k.SetPool(ctx, pool); err != nil {
		return types.Pool{}, math.Int{}, fmt.Errorf("CreatePool: store pool: %w", err)
	}
	k.setPairIndex(ctx, pool)

	// 7. LP asset owned by the custody account
	if err := k.assetKeeper.CreateAsset(ctx, pool.LPAsset, pool.CustodyAccount, types.LPMaxHolders, math.NewInt(types.LPMinBalance)); err != nil {
		return types.Pool{}, math.Int{}, fmt.Errorf("CreatePool: create lp asset: %w", err)
	}
	lpSymbol := fmt.Sprintf("%s-%s", symbolX, symbolY)
	if err := k.assetKeeper.SetMetadata(ctx, pool.CustodyAccount, pool.LPAsset, lpSymbol+" LP", lpSymbol, types.LPDecimals); err != nil {
		return types.Pool{}, math.Int{}, fmt.Errorf("CreatePool: set lp metadata: %w", err)
	}

	// 8. Move the deposit and mint shares
	if err := k.depositToPool(ctx, assetX, creator, pool, amountX); err != nil {
		return types.Pool{}, math.Int{}, errorsmod.Wrapf(err, "deposit asset %d", assetX)
	}
	if err := k.depositToPool(ctx, assetY, creator, pool, amountY); err != nil {
		return types.Pool{}, math.Int{}, errorsmod.Wrapf(err, "deposit asset %d", assetY)
	}
	if err := k.assetKeeper.Mint(ctx, pool.CustodyAccount, pool.LPAsset, creator, minted); err != nil {
		return types.Pool{}, math.Int{}, fmt.Errorf("CreatePool: mint lp: %w", err)
	}

	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeCreatePool,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.ID.String()),
			sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
			sdk.NewAttribute(types.AttributeKeyAssetX, assetX.String()),
			sdk.NewAttribute(types.AttributeKeyAmountX, amountX.String()),
			sdk.NewAttribute(types.AttributeKeyAssetY, assetY.String()),
			sdk.NewAttribute(types.AttributeKeyAmountY, amountY.String()),
			sdk.NewAttribute(types.AttributeKeyCustodyAccount, pool.CustodyAccount.String()),
			sdk.NewAttribute(types.AttributeKeyLPAsset, pool.LPAsset.String()),
			sdk.NewAttribute(types.AttributeKeyLPMinted, minted.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.AttributeValueCategory),
			sdk.NewAttribute(sdk.AttributeKeySender, creator.String()),
		),
	})

	return pool, minted, nil
}

// AddLiquidity deposits dx and dy into a pool at its current ratio and
// returns the LP tokens minted to the provider.
func (k Keeper) AddLiquidity(ctx context.Context, provider sdk.AccAddress, poolID types.PoolID, dx, dy math.Int) (math.Int, error) {
	defer measureSince(time.Now(), "add_liquidity")

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()

	minted, err := k.addLiquidity(cacheCtx, provider, poolID, dx, dy)
	if err != nil {
		k.recordFailure("add_liquidity", err)
		return math.Int{}, err
	}
	writeFn()

	if k.metrics != nil {
		k.metrics.LiquidityAdded.WithLabelValues(poolID.String()).Inc()
		k.metrics.LPMinted.WithLabelValues(poolID.String()).Add(amountToFloat(minted))
	}
	incrOperation("add_liquidity", poolID, "success")
	return minted, nil
}

func (k Keeper) addLiquidity(ctx sdk.Context, provider sdk.AccAddress, poolID types.PoolID, dx, dy math.Int) (math.Int, error) {
	pool, found := k.GetPool(ctx, poolID)
	if !found {
		return math.Int{}, types.ErrNoSwapExists.Wrapf("pool %d", poolID)
	}
	if dx.IsNil() || !dx.IsPositive() || dy.IsNil() || !dy.IsPositive() {
		return math.Int{}, types.ErrZeroBalance.Wrap("both deposit amounts must be positive")
	}
	if err := k.requireBalance(ctx, pool.AssetX, provider, dx); err != nil {
		return math.Int{}, err
	}
	if err := k.requireBalance(ctx, pool.AssetY, provider, dy); err != nil {
		return math.Int{}, err
	}

	x, y := k.Reserves(ctx, pool)
	supply := k.LPSupply(ctx, pool)
	minted, err := LiquidityToMint(dx, dy, x, y, supply)
	if err != nil {
		return math.Int{}, err
	}
	if !minted.IsPositive() {
		return math.Int{}, types.ErrZeroBalance.Wrapf("deposit %s/%s mints no lp tokens", dx, dy)
	}

	if err := k.depositToPool(ctx, pool.AssetX, provider, pool, dx); err != nil {
		return math.Int{}, errorsmod.Wrapf(err, "deposit asset %d", pool.AssetX)
	}
	if err := k.depositToPool(ctx, pool.AssetY, provider, pool, dy); err != nil {
		return math.Int{}, errorsmod.Wrapf(err, "deposit asset %d", pool.AssetY)
	}
	if err := k.assetKeeper.Mint(ctx, pool.CustodyAccount, pool.LPAsset, provider, minted); err != nil {
		return math.Int{}, fmt.Errorf("AddLiquidity: mint lp: %w", err)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAddLiquidity,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.ID.String()),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmountX, dx.String()),
			sdk.NewAttribute(types.AttributeKeyAmountY, dy.String()),
			sdk.NewAttribute(types.AttributeKeyLPMinted, minted.String()),
		),
	)
	return minted, nil
}

// RemoveLiquidity burns lpAmount of the provider's LP tokens and pays out the
// proportional share of both reserves.
func (k Keeper) RemoveLiquidity(ctx context.Context, provider sdk.AccAddress, poolID types.PoolID, lpAmount math.Int) (math.Int, math.Int, error) {
	defer measureSince(time.Now(), "remove_liquidity")

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()

	dx, dy, err := k.removeLiquidity(cacheCtx, provider, poolID, lpAmount)
	if err != nil {
		k.recordFailure("remove_liquidity", err)
		return math.Int{}, math.Int{}, err
	}
	writeFn()

	if k.metrics != nil {
		k.metrics.LiquidityRemoved.WithLabelValues(poolID.String()).Inc()
		k.metrics.LPBurned.WithLabelValues(poolID.String()).Add(amountToFloat(lpAmount))
	}
	incrOperation("remove_liquidity", poolID, "success")
	return dx, dy, nil
}

func (k Keeper) removeLiquidity(ctx sdk.Context, provider sdk.AccAddress, poolID types.PoolID, lpAmount math.Int) (math.Int, math.Int, error) {
	pool, found := k.GetPool(ctx, poolID)
	if !found {
		return math.Int{}, math.Int{}, types.ErrNoSwapExists.Wrapf("pool %d", poolID)
	}
	if lpAmount.IsNil() || !lpAmount.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrZeroBalance.Wrap("lp amount must be positive")
	}
	if held := k.assetKeeper.Balance(ctx, pool.LPAsset, provider); held.LT(lpAmount) {
		return math.Int{}, math.Int{}, types.ErrNotEnoughLPToken.Wrapf("%s holds %s lp of pool %d, redeeming %s", provider, held, pool.ID, lpAmount)
	}
	supply := k.LPSupply(ctx, pool)
	if lpAmount.GTE(supply) {
		return math.Int{}, math.Int{}, types.ErrTooManyLPToken.Wrapf("redeeming %s of %s outstanding", lpAmount, supply)
	}

	x, y := k.Reserves(ctx, pool)
	if x.IsZero() || y.IsZero() {
		return math.Int{}, math.Int{}, types.ErrNotEnoughLiquidity.Wrapf("pool %d reserves %s/%s", pool.ID, x, y)
	}
	dx, dy, err := RedeemAmounts(lpAmount, x, y, supply)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if dx.IsZero() || dy.IsZero() {
		return math.Int{}, math.Int{}, types.ErrZeroBalance.Wrapf("redeeming %s lp pays %s/%s", lpAmount, dx, dy)
	}

	if err := k.assetKeeper.Burn(ctx, pool.CustodyAccount, pool.LPAsset, provider, lpAmount); err != nil {
		return math.Int{}, math.Int{}, fmt.Errorf("RemoveLiquidity: burn lp: %w", err)
	}
	if err := k.withdrawFromPool(ctx, pool.AssetX, pool, provider, dx); err != nil {
		return math.Int{}, math.Int{}, errorsmod.Wrapf(err, "pay out asset %d", pool.AssetX)
	}
	if err := k.withdrawFromPool(ctx, pool.AssetY, pool, provider, dy); err != nil {
		return math.Int{}, math.Int{}, errorsmod.Wrapf(err, "pay out asset %d", pool.AssetY)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRemoveLiquidity,
			sdk.NewAttribute(types.AttributeKeyPoolID, pool.ID.String()),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyLPAmount, lpAmount.String()),
			sdk.NewAttribute(types.AttributeKeyAmountX, dx.String()),
			sdk.NewAttribute(types.AttributeKeyAmountY, dy.String()),
		),
	)
	return dx, dy, nil
}
