package keeper

import (
	"context"
	"fmt"

	"github.com/subgame-network/subgame/x/dex/types"
)

// InitGenesis stores pools and rebuilds the pair index. LP assets and
// reserves are restored by the asset ledger's genesis.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	for _, pool := range gs.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("genesis pool %d: %w", pool.ID, err)
		}
		k.setPairIndex(ctx, pool)
	}
	k.SetNextPoolID(ctx, gs.NextPoolID)
	return nil
}

// ExportGenesis returns the module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	return &types.GenesisState{
		Pools:      k.GetAllPools(ctx),
		NextPoolID: k.GetNextPoolID(ctx),
	}
}
