package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/types"
)

// RegisterInvariants registers all DEX invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pair-index", PairIndexInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-records", PoolRecordsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "lp-supply", LPSupplyInvariant(k))
}

// AllInvariants runs all invariants of the DEX module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := PairIndexInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PoolRecordsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return LPSupplyInvariant(k)(ctx)
	}
}

// PairIndexInvariant checks that every pool is indexed under both orderings
// of its pair and that no index entry points elsewhere.
func PairIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IteratePools(ctx, func(pool types.Pool) bool {
			for _, pair := range [][2]assetstypes.AssetID{{pool.AssetX, pool.AssetY}, {pool.AssetY, pool.AssetX}} {
				id, found := k.GetPoolIDByPair(ctx, pair[0], pair[1])
				if !found || id != pool.ID {
					count++
					msg += fmt.Sprintf("\tpool %d missing from pair index %d/%d (found %d)\n", pool.ID, pair[0], pair[1], id)
				}
			}
			return false
		})

		k.iteratePairIndex(ctx, func(a, b assetstypes.AssetID, id types.PoolID) bool {
			pool, found := k.GetPool(ctx, id)
			if !found || !pool.HasAsset(a) || !pool.HasAsset(b) {
				count++
				msg += fmt.Sprintf("\tpair %d/%d points at pool %d which does not trade it\n", a, b, id)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pair-index",
			fmt.Sprintf("found %d pair index inconsistencies\n%s", count, msg),
		), broken
	}
}

// PoolRecordsInvariant checks stored pools against their derived fields and
// the id counter.
func PoolRecordsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		next := k.GetNextPoolID(ctx)
		k.IteratePools(ctx, func(pool types.Pool) bool {
			if err := pool.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("\t%v\n", err)
			}
			if pool.ID >= next {
				count++
				msg += fmt.Sprintf("\tpool %d not below next pool id %d\n", pool.ID, next)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-records",
			fmt.Sprintf("found %d malformed pools\n%s", count, msg),
		), broken
	}
}

// LPSupplyInvariant checks that every pool has outstanding LP tokens and
// non-empty reserves.
func LPSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IteratePools(ctx, func(pool types.Pool) bool {
			supply := k.LPSupply(ctx, pool)
			x, y := k.Reserves(ctx, pool)
			if !supply.IsPositive() {
				count++
				msg += fmt.Sprintf("\tpool %d has no lp supply\n", pool.ID)
			}
			if !x.IsPositive() || !y.IsPositive() {
				count++
				msg += fmt.Sprintf("\tpool %d reserves %s/%s\n", pool.ID, x, y)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "lp-supply",
			fmt.Sprintf("found %d pools without liquidity\n%s", count, msg),
		), broken
	}
}
