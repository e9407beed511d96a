package keeper

import (
	"context"
	"encoding/binary"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/subgame-network/subgame/x/assets/types"
)

// Keeper of the asset ledger. Balances and supply live in x/bank under
// per-asset denoms; the asset registry lives in the module store.
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	native     types.NativeConfig
}

// NewKeeper creates a new asset ledger Keeper instance
func NewKeeper(key storetypes.StoreKey, bankKeeper types.BankKeeper, native types.NativeConfig) Keeper {
	if err := native.Validate(); err != nil {
		panic(err)
	}
	return Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
		native:     native,
	}
}

// Native returns the base currency view of the ledger.
func (k Keeper) Native() NativeKeeper {
	return NativeKeeper{bankKeeper: k.bankKeeper, config: k.native}
}

// NativeConfig returns the configured base currency.
func (k Keeper) NativeConfig() types.NativeConfig {
	return k.native
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// GetAsset returns the registry entry for id.
func (k Keeper) GetAsset(ctx context.Context, id types.AssetID) (types.AssetInfo, bool) {
	bz := k.getStore(ctx).Get(types.GetAssetInfoKey(id))
	if bz == nil {
		return types.AssetInfo{}, false
	}
	var info types.AssetInfo
	if err := info.Unmarshal(bz); err != nil {
		k.Logger(ctx).Error("corrupt asset entry", "asset_id", id, "error", err)
		return types.AssetInfo{}, false
	}
	return info, true
}

func (k Keeper) setAsset(ctx context.Context, info types.AssetInfo) error {
	bz, err := info.Marshal()
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.GetAssetInfoKey(info.ID), bz)
	return nil
}

// IterateAssets walks all registered assets in id order.
func (k Keeper) IterateAssets(ctx context.Context, cb func(info types.AssetInfo) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.AssetInfoKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var info types.AssetInfo
		if err := info.Unmarshal(iterator.Value()); err != nil {
			k.Logger(ctx).Error("corrupt asset entry", "key", iterator.Key(), "error", err)
			continue
		}
		if cb(info) {
			break
		}
	}
}

// Holders returns the number of accounts with a positive balance of id.
func (k Keeper) Holders(ctx context.Context, id types.AssetID) uint32 {
	bz := k.getStore(ctx).Get(types.GetHolderCountKey(id))
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint32(bz)
}

func (k Keeper) setHolders(ctx context.Context, id types.AssetID, n uint32) {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, n)
	k.getStore(ctx).Set(types.GetHolderCountKey(id), bz)
}
