package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
)

// AssetKeeper defines the asset ledger operations the DEX consumes.
type AssetKeeper interface {
	Balance(ctx context.Context, id assetstypes.AssetID, addr sdk.AccAddress) math.Int
	TotalSupply(ctx context.Context, id assetstypes.AssetID) math.Int
	Metadata(ctx context.Context, id assetstypes.AssetID) (assetstypes.Metadata, error)
	Transfer(ctx context.Context, from sdk.AccAddress, id assetstypes.AssetID, to sdk.AccAddress, amount math.Int) error
	Mint(ctx context.Context, authority sdk.AccAddress, id assetstypes.AssetID, to sdk.AccAddress, amount math.Int) error
	Burn(ctx context.Context, authority sdk.AccAddress, id assetstypes.AssetID, from sdk.AccAddress, amount math.Int) error
	CreateAsset(ctx context.Context, id assetstypes.AssetID, owner sdk.AccAddress, maxHolders uint32, minBalance math.Int) error
	SetMetadata(ctx context.Context, owner sdk.AccAddress, id assetstypes.AssetID, name, symbol string, decimals uint8) error
}

// NativeKeeper defines the base currency operations the DEX consumes.
type NativeKeeper interface {
	FreeBalance(ctx context.Context, addr sdk.AccAddress) math.Int
	Transfer(ctx context.Context, from, to sdk.AccAddress, amount math.Int, policy assetstypes.ExistencePolicy) error
}

// NativeAsset describes the base currency to the DEX.
type NativeAsset struct {
	Symbol   string
	Decimals uint8
}
