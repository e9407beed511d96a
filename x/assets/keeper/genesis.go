package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/subgame-network/subgame/x/assets/types"
)

// InitGenesis registers assets and mints their balances.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}

	for _, a := range gs.Assets {
		if err := k.CreateAsset(ctx, a.Info.ID, a.Info.Owner, a.Info.MaxHolders, a.Info.MinBalance); err != nil {
			return fmt.Errorf("genesis asset %d: %w", a.Info.ID, err)
		}
		if a.Metadata != nil {
			k.bankKeeper.SetDenomMetaData(ctx, a.Metadata.ToBankMetadata(a.Info.ID))
		}
	}

	native := k.Native()
	for _, b := range gs.Balances {
		if b.AssetID.IsNative() {
			if err := native.Mint(ctx, b.Address, b.Amount); err != nil {
				return err
			}
			continue
		}
		info, _ := k.GetAsset(ctx, b.AssetID)
		if err := k.mint(ctx, info, b.Address, b.Amount); err != nil {
			return fmt.Errorf("genesis balance of asset %d: %w", b.AssetID, err)
		}
	}
	return nil
}

// ExportGenesis exports registered assets and every ledger balance, native included.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	gs := types.DefaultGenesis()

	k.IterateAssets(ctx, func(info types.AssetInfo) bool {
		entry := types.GenesisAsset{Info: info}
		if md, err := k.Metadata(ctx, info.ID); err == nil {
			entry.Metadata = &md
		}
		gs.Assets = append(gs.Assets, entry)
		return false
	})

	k.bankKeeper.IterateAllBalances(ctx, func(addr sdk.AccAddress, coin sdk.Coin) bool {
		var id types.AssetID
		switch {
		case coin.Denom == k.native.Denom:
			id = types.NativeAssetID
		default:
			parsed, ok := types.AssetIDFromDenom(coin.Denom)
			if !ok {
				return false
			}
			id = parsed
		}
		if coin.Amount.IsPositive() {
			gs.Balances = append(gs.Balances, types.GenesisBalance{
				Address: addr,
				AssetID: id,
				Amount:  coin.Amount,
			})
		}
		return false
	})
	return gs
}
