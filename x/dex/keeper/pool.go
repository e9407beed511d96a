package keeper

import (
	"context"
	"encoding/binary"

	storetypes "cosmossdk.io/store/types"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/types"
)

// GetNextPoolID returns the id the next created pool will receive.
func (k Keeper) GetNextPoolID(ctx context.Context) types.PoolID {
	bz := k.getStore(ctx).Get(types.PoolCountKey)
	if bz == nil {
		return types.FirstPoolID
	}
	return types.PoolID(binary.BigEndian.Uint32(bz))
}

// SetNextPoolID stores the next pool id.
func (k Keeper) SetNextPoolID(ctx context.Context, id types.PoolID) {
	k.getStore(ctx).Set(types.PoolCountKey, id.Bytes())
}

// allocatePoolID hands out the next id and advances the counter.
func (k Keeper) allocatePoolID(ctx context.Context) (types.PoolID, error) {
	id := k.GetNextPoolID(ctx)
	if id > types.MaxPoolID {
		return 0, types.ErrPoolIDOverflow.Wrapf("next pool id %d exceeds %d", id, types.MaxPoolID)
	}
	k.SetNextPoolID(ctx, id+1)
	return id, nil
}

// GetPool returns a pool by id.
func (k Keeper) GetPool(ctx context.Context, id types.PoolID) (types.Pool, bool) {
	bz := k.getStore(ctx).Get(types.GetPoolKey(id))
	if bz == nil {
		return types.Pool{}, false
	}
	var pool types.Pool
	if err := pool.Unmarshal(bz); err != nil {
		k.Logger(ctx).Error("corrupt pool record", "pool_id", id, "error", err)
		return types.Pool{}, false
	}
	return pool, true
}

// SetPool stores a pool record.
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	bz, err := pool.Marshal()
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.GetPoolKey(pool.ID), bz)
	return nil
}

// setPairIndex points both orderings of the pool's pair at its id.
func (k Keeper) setPairIndex(ctx context.Context, pool types.Pool) {
	store := k.getStore(ctx)
	store.Set(types.GetSwapPairKey(pool.AssetX, pool.AssetY), pool.ID.Bytes())
	store.Set(types.GetSwapPairKey(pool.AssetY, pool.AssetX), pool.ID.Bytes())
}

// GetPoolIDByPair looks up the pool registered for (a, b).
func (k Keeper) GetPoolIDByPair(ctx context.Context, a, b assetstypes.AssetID) (types.PoolID, bool) {
	bz := k.getStore(ctx).Get(types.GetSwapPairKey(a, b))
	if bz == nil {
		return 0, false
	}
	return types.PoolID(binary.BigEndian.Uint32(bz)), true
}

// pairExists checks the index in both orderings.
func (k Keeper) pairExists(ctx context.Context, a, b assetstypes.AssetID) (types.PoolID, bool) {
	if id, ok := k.GetPoolIDByPair(ctx, a, b); ok {
		return id, true
	}
	return k.GetPoolIDByPair(ctx, b, a)
}

// IteratePools walks every pool in id order.
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := pool.Unmarshal(iterator.Value()); err != nil {
			k.Logger(ctx).Error("corrupt pool record", "key", iterator.Key(), "error", err)
			continue
		}
		if cb(pool) {
			break
		}
	}
}

// GetAllPools returns every pool.
func (k Keeper) GetAllPools(ctx context.Context) []types.Pool {
	pools := []types.Pool{}
	k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools
}

// iteratePairIndex walks the raw pair index entries.
func (k Keeper) iteratePairIndex(ctx context.Context, cb func(a, b assetstypes.AssetID, id types.PoolID) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.SwapPairKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		a, b, ok := types.ParseSwapPairKey(iterator.Key())
		if !ok || len(iterator.Value()) != 4 {
			continue
		}
		if cb(a, b, types.PoolID(binary.BigEndian.Uint32(iterator.Value()))) {
			break
		}
	}
}
