package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/subgame-network/subgame/testutil/keeper"
	"github.com/subgame-network/subgame/x/dex/types"
)

func (suite *KeeperTestSuite) TestGenesis_RoundTrip() {
	suite.createPoolA()
	_, err := suite.f.DexKeeper.CreatePool(suite.ctx, suite.bob, gogo, sgb, oneUSDT, oneSGB)
	suite.Require().NoError(err)

	exported := suite.f.DexKeeper.ExportGenesis(suite.ctx)
	suite.Require().Len(exported.Pools, 2)
	suite.Require().Equal(types.PoolID(3), exported.NextPoolID)

	fresh := keepertest.NewFixture(suite.T())
	suite.Require().NoError(fresh.DexKeeper.InitGenesis(fresh.Ctx, *exported))

	pool, err := fresh.DexKeeper.PoolForPair(fresh.Ctx, sgb, gogo)
	suite.Require().NoError(err)
	suite.Require().Equal(exported.Pools[1], pool)
	suite.Require().Equal(types.PoolID(3), fresh.DexKeeper.GetNextPoolID(fresh.Ctx))
}

func TestGenesisValidate(t *testing.T) {
	pool := types.NewPool(1, 7, 0, math.NewInt(100))
	other := types.NewPool(2, 0, 7, math.NewInt(100))

	tests := []struct {
		name    string
		gs      types.GenesisState
		wantErr bool
	}{
		{"default", *types.DefaultGenesis(), false},
		{"one pool", types.GenesisState{Pools: []types.Pool{pool}, NextPoolID: 2}, false},
		{"next id zero", types.GenesisState{NextPoolID: 0}, true},
		{"pool id not below next", types.GenesisState{Pools: []types.Pool{pool}, NextPoolID: 1}, true},
		{"duplicate pair", types.GenesisState{Pools: []types.Pool{pool, other}, NextPoolID: 3}, true},
		{"duplicate id", types.GenesisState{Pools: []types.Pool{pool, pool}, NextPoolID: 3}, true},
		{"foreign custody", types.GenesisState{Pools: []types.Pool{{
			ID: 1, CustodyAccount: types.CustodyAddress(2), AssetX: 7, AssetY: 0, LPAsset: types.LPAssetID(1), KAtCreation: math.ZeroInt(),
		}}, NextPoolID: 2}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.gs.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, types.ErrInvalidGenesis)
				return
			}
			require.NoError(t, err)
		})
	}
}
