package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/subgame-network/subgame/testutil/keeper"
	"github.com/subgame-network/subgame/x/assets/types"
)

func TestGenesisRoundTrip(t *testing.T) {
	owner := keepertest.AccAddress("owner")
	alice := keepertest.AccAddress("alice")

	md := types.Metadata{Name: "Tether", Symbol: "USDT", Decimals: 6}
	gs := types.GenesisState{
		Assets: []types.GenesisAsset{
			{Info: types.AssetInfo{ID: usdt, Owner: owner, MaxHolders: 10, MinBalance: math.OneInt()}, Metadata: &md},
		},
		Balances: []types.GenesisBalance{
			{Address: alice, AssetID: usdt, Amount: math.NewInt(500)},
			{Address: alice, AssetID: types.NativeAssetID, Amount: math.NewInt(7_000)},
		},
	}

	f := keepertest.NewFixture(t)
	require.NoError(t, f.AssetKeeper.InitGenesis(f.Ctx, gs))
	require.Equal(t, int64(500), f.Balance(usdt, alice).Int64())
	require.Equal(t, int64(7_000), f.Balance(types.NativeAssetID, alice).Int64())
	require.Equal(t, uint32(1), f.AssetKeeper.Holders(f.Ctx, usdt))

	exported := f.AssetKeeper.ExportGenesis(f.Ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Assets, 1)
	require.Equal(t, md, *exported.Assets[0].Metadata)
	require.Len(t, exported.Balances, 2)

	g := keepertest.NewFixture(t)
	require.NoError(t, g.AssetKeeper.InitGenesis(g.Ctx, *exported))
	require.Equal(t, int64(500), g.Balance(usdt, alice).Int64())
	require.Equal(t, int64(7_000), g.Balance(types.NativeAssetID, alice).Int64())
	require.Equal(t, int64(500), g.AssetKeeper.TotalSupply(g.Ctx, usdt).Int64())
}

func TestGenesisValidate(t *testing.T) {
	owner := keepertest.AccAddress("owner")
	info := types.AssetInfo{ID: usdt, Owner: owner, MinBalance: math.OneInt()}

	tests := []struct {
		name  string
		gs    types.GenesisState
		valid bool
	}{
		{"default", *types.DefaultGenesis(), true},
		{"single asset", types.GenesisState{Assets: []types.GenesisAsset{{Info: info}}}, true},
		{"duplicate asset", types.GenesisState{Assets: []types.GenesisAsset{{Info: info}, {Info: info}}}, false},
		{"native registered", types.GenesisState{Assets: []types.GenesisAsset{{Info: types.AssetInfo{Owner: owner, MinBalance: math.OneInt()}}}}, false},
		{"bad metadata", types.GenesisState{Assets: []types.GenesisAsset{{Info: info, Metadata: &types.Metadata{Symbol: "X"}}}}, false},
		{"balance of unknown asset", types.GenesisState{Balances: []types.GenesisBalance{{Address: owner, AssetID: 9, Amount: math.OneInt()}}}, false},
		{"zero balance", types.GenesisState{Balances: []types.GenesisBalance{{Address: owner, AssetID: types.NativeAssetID, Amount: math.ZeroInt()}}}, false},
		{"native balance", types.GenesisState{Balances: []types.GenesisBalance{{Address: owner, AssetID: types.NativeAssetID, Amount: math.OneInt()}}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.gs.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, types.ErrInvalidGenesis)
			}
		})
	}
}
