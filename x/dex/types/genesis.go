package types

import (
	"fmt"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
)

// GenesisState defines the DEX module's genesis state. The pair index is
// rebuilt from Pools on import.
type GenesisState struct {
	Pools      []Pool `json:"pools"`
	NextPoolID PoolID `json:"next_pool_id"`
}

// DefaultGenesis returns the default genesis state for the DEX module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Pools:      []Pool{},
		NextPoolID: FirstPoolID,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.NextPoolID < FirstPoolID {
		return ErrInvalidGenesis.Wrapf("next pool id %d below %d", gs.NextPoolID, FirstPoolID)
	}

	seenIDs := make(map[PoolID]bool, len(gs.Pools))
	seenPairs := make(map[[2]assetstypes.AssetID]PoolID, len(gs.Pools))
	for _, pool := range gs.Pools {
		if err := pool.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		if seenIDs[pool.ID] {
			return ErrInvalidGenesis.Wrapf("duplicate pool id %d", pool.ID)
		}
		seenIDs[pool.ID] = true
		if pool.ID >= gs.NextPoolID {
			return ErrInvalidGenesis.Wrapf("pool id %d not below next pool id %d", pool.ID, gs.NextPoolID)
		}

		pair := [2]assetstypes.AssetID{pool.AssetX, pool.AssetY}
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		if other, ok := seenPairs[pair]; ok {
			return ErrInvalidGenesis.Wrap(fmt.Sprintf("pools %d and %d share pair %d/%d", other, pool.ID, pair[0], pair[1]))
		}
		seenPairs[pair] = pool.ID
	}
	return nil
}
