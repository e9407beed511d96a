package app

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	dextypes "github.com/subgame-network/subgame/x/dex/types"
)

// GenesisState represents the genesis state of the host.
// It is a map from module name to module genesis state.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState returns empty ledgers and an empty pool registry.
func NewDefaultGenesisState() GenesisState {
	return GenesisState{
		assetstypes.ModuleName: mustMarshalJSON(assetstypes.DefaultGenesis()),
		dextypes.ModuleName:    mustMarshalJSON(dextypes.DefaultGenesis()),
	}
}

// Modules decodes the module sections, filling defaults for missing ones.
func (gs GenesisState) Modules() (assetstypes.GenesisState, dextypes.GenesisState, error) {
	assets := *assetstypes.DefaultGenesis()
	dex := *dextypes.DefaultGenesis()
	if bz, ok := gs[assetstypes.ModuleName]; ok {
		if err := json.Unmarshal(bz, &assets); err != nil {
			return assets, dex, fmt.Errorf("decode %s genesis: %w", assetstypes.ModuleName, err)
		}
	}
	if bz, ok := gs[dextypes.ModuleName]; ok {
		if err := json.Unmarshal(bz, &dex); err != nil {
			return assets, dex, fmt.Errorf("decode %s genesis: %w", dextypes.ModuleName, err)
		}
	}
	return assets, dex, nil
}

// Validate checks every module section.
func (gs GenesisState) Validate() error {
	assets, dex, err := gs.Modules()
	if err != nil {
		return err
	}
	if err := assets.Validate(); err != nil {
		return err
	}
	if err := dex.Validate(); err != nil {
		return err
	}

	// Share tokens are created by their pool; a stray one would block the
	// pool id it belongs to.
	issued := make(map[assetstypes.AssetID]bool, len(dex.Pools))
	for _, pool := range dex.Pools {
		issued[pool.LPAsset] = true
	}
	for _, a := range assets.Assets {
		if a.Info.ID.IsLP() && !issued[a.Info.ID] {
			return assetstypes.ErrInvalidGenesis.Wrapf("asset %d is a pool share id but no pool issues it", a.Info.ID)
		}
	}
	return nil
}

// InitChain loads gs as the first block. The assets section goes first so
// pool custody balances and LP tokens exist before the pools that use them.
func (app *App) InitChain(ctx context.Context, gs GenesisState) error {
	if h := app.Height(); h != 0 {
		return fmt.Errorf("chain already initialised at height %d", h)
	}
	if err := gs.Validate(); err != nil {
		return err
	}
	assets, dex, err := gs.Modules()
	if err != nil {
		return err
	}

	_, err = app.ExecuteBlockFunc(ctx, func(sdkCtx sdk.Context) (int, error) {
		if err := app.AssetKeeper.InitGenesis(sdkCtx, assets); err != nil {
			return 0, err
		}
		if err := app.DexKeeper.InitGenesis(sdkCtx, dex); err != nil {
			return 0, err
		}
		return len(assets.Assets) + len(assets.Balances) + len(dex.Pools), nil
	})
	if err == nil {
		app.logger.Info("initialised chain", "assets", len(assets.Assets), "pools", len(dex.Pools))
	}
	return err
}

// ExportGenesis exports the committed state of every module.
func (app *App) ExportGenesis() (GenesisState, error) {
	gs := make(GenesisState)
	err := app.View(func(ctx sdk.Context) error {
		assets := app.AssetKeeper.ExportGenesis(ctx)
		dex := app.DexKeeper.ExportGenesis(ctx)

		var err error
		if gs[assetstypes.ModuleName], err = json.Marshal(assets); err != nil {
			return err
		}
		gs[dextypes.ModuleName], err = json.Marshal(dex)
		return err
	})
	return gs, err
}

// Helper functions
func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
