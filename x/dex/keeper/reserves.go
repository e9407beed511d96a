package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/types"
)

// balanceOf reads addr's balance of asset, routing the native coin to the
// native ledger.
func (k Keeper) balanceOf(ctx context.Context, asset assetstypes.AssetID, addr sdk.AccAddress) math.Int {
	if asset.IsNative() {
		return k.nativeKeeper.FreeBalance(ctx, addr)
	}
	return k.assetKeeper.Balance(ctx, asset, addr)
}

// Reserves returns the custody account's live balances of the pool's assets.
func (k Keeper) Reserves(ctx context.Context, pool types.Pool) (x, y math.Int) {
	return k.balanceOf(ctx, pool.AssetX, pool.CustodyAccount), k.balanceOf(ctx, pool.AssetY, pool.CustodyAccount)
}

// reserveOf returns the custody balance of one side of the pool.
func (k Keeper) reserveOf(ctx context.Context, pool types.Pool, asset assetstypes.AssetID) math.Int {
	return k.balanceOf(ctx, asset, pool.CustodyAccount)
}

// LPSupply returns the outstanding LP tokens of a pool.
func (k Keeper) LPSupply(ctx context.Context, pool types.Pool) math.Int {
	return k.assetKeeper.TotalSupply(ctx, pool.LPAsset)
}

// requireBalance fails with ErrInsufficientBalance when addr holds less than amount.
func (k Keeper) requireBalance(ctx context.Context, asset assetstypes.AssetID, addr sdk.AccAddress, amount math.Int) error {
	if bal := k.balanceOf(ctx, asset, addr); bal.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s of asset %d, needs %s", addr, bal, asset, amount)
	}
	return nil
}

// depositToPool moves funds from a trader into custody. Native deposits keep
// the trader's account alive.
func (k Keeper) depositToPool(ctx context.Context, asset assetstypes.AssetID, from sdk.AccAddress, pool types.Pool, amount math.Int) error {
	if asset.IsNative() {
		return k.nativeKeeper.Transfer(ctx, from, pool.CustodyAccount, amount, assetstypes.KeepAlive)
	}
	return k.assetKeeper.Transfer(ctx, from, asset, pool.CustodyAccount, amount)
}

// withdrawFromPool moves funds out of custody to a trader.
func (k Keeper) withdrawFromPool(ctx context.Context, asset assetstypes.AssetID, pool types.Pool, to sdk.AccAddress, amount math.Int) error {
	if asset.IsNative() {
		return k.nativeKeeper.Transfer(ctx, pool.CustodyAccount, to, amount, assetstypes.AllowDeath)
	}
	return k.assetKeeper.Transfer(ctx, pool.CustodyAccount, asset, to, amount)
}

// assetDetails returns the symbol and decimals of asset. Non-native assets
// without metadata are unknown to the DEX.
func (k Keeper) assetDetails(ctx context.Context, asset assetstypes.AssetID) (string, uint8, error) {
	if asset.IsNative() {
		return k.native.Symbol, k.native.Decimals, nil
	}
	md, err := k.assetKeeper.Metadata(ctx, asset)
	if err != nil {
		return "", 0, types.ErrUnknownAsset.Wrapf("asset %d: %v", asset, err)
	}
	return md.Symbol, md.Decimals, nil
}
