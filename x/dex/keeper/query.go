package keeper

import (
	"context"

	"cosmossdk.io/math"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/types"
)

// PoolInfo is a pool record together with its live reserves and LP supply.
type PoolInfo struct {
	types.Pool
	ReserveX math.Int `json:"reserve_x"`
	ReserveY math.Int `json:"reserve_y"`
	LPSupply math.Int `json:"lp_supply"`
}

// PoolByID returns the pool with the given id.
func (k Keeper) PoolByID(ctx context.Context, id types.PoolID) (types.Pool, error) {
	pool, found := k.GetPool(ctx, id)
	if !found {
		return types.Pool{}, types.ErrNoSwapExists.Wrapf("pool %d", id)
	}
	return pool, nil
}

// PoolForPair returns the pool trading a and b, in either order.
func (k Keeper) PoolForPair(ctx context.Context, a, b assetstypes.AssetID) (types.Pool, error) {
	id, found := k.GetPoolIDByPair(ctx, a, b)
	if !found {
		return types.Pool{}, types.ErrNoSwapExists.Wrapf("no pool for pair %d/%d", a, b)
	}
	return k.PoolByID(ctx, id)
}

// PoolInfo returns a pool with its reserves and LP supply.
func (k Keeper) PoolInfo(ctx context.Context, id types.PoolID) (PoolInfo, error) {
	pool, err := k.PoolByID(ctx, id)
	if err != nil {
		return PoolInfo{}, err
	}
	return k.poolInfo(ctx, pool), nil
}

// PoolInfos returns every pool with its reserves and LP supply.
func (k Keeper) PoolInfos(ctx context.Context) []PoolInfo {
	infos := []PoolInfo{}
	k.IteratePools(ctx, func(pool types.Pool) bool {
		infos = append(infos, k.poolInfo(ctx, pool))
		return false
	})
	return infos
}

func (k Keeper) poolInfo(ctx context.Context, pool types.Pool) PoolInfo {
	x, y := k.Reserves(ctx, pool)
	return PoolInfo{Pool: pool, ReserveX: x, ReserveY: y, LPSupply: k.LPSupply(ctx, pool)}
}
