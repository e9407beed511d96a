package keeper

import (
	"context"
	"errors"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/subgame-network/subgame/x/dex/types"
)

// Keeper of the dex store
type Keeper struct {
	storeKey     storetypes.StoreKey
	assetKeeper  types.AssetKeeper
	nativeKeeper types.NativeKeeper
	native       types.NativeAsset
	metrics      *DEXMetrics
}

// NewKeeper creates a new dex Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	assetKeeper types.AssetKeeper,
	nativeKeeper types.NativeKeeper,
	native types.NativeAsset,
) Keeper {
	return Keeper{
		storeKey:     key,
		assetKeeper:  assetKeeper,
		nativeKeeper: nativeKeeper,
		native:       native,
		metrics:      NewDEXMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the dex module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// recordFailure counts a rejected operation under its registered error.
func (k Keeper) recordFailure(operation string, err error) {
	if k.metrics == nil || err == nil {
		return
	}
	label := "internal"
	var sdkErr *errorsmod.Error
	if errors.As(err, &sdkErr) {
		label = sdkErr.Error()
	}
	k.metrics.OperationErrors.WithLabelValues(operation, label).Inc()
}
