package keeper_test

import (
	"github.com/subgame-network/subgame/x/dex/keeper"
	"github.com/subgame-network/subgame/x/dex/types"
)

func (suite *KeeperTestSuite) TestInvariants_HoldAfterOperations() {
	k := suite.f.DexKeeper
	id := suite.createPoolA()

	_, err := k.AddLiquidity(suite.ctx, suite.bob, id, oneUSDT, poolAY)
	suite.Require().NoError(err)
	_, err = k.Swap(suite.ctx, suite.bob, swapRequest(id, sgb, usdt, oneSGB, poolAS))
	suite.Require().NoError(err)
	_, _, err = k.RemoveLiquidity(suite.ctx, suite.alice, id, poolAS.QuoRaw(2))
	suite.Require().NoError(err)

	msg, broken := keeper.AllInvariants(k)(suite.ctx)
	suite.Require().False(broken, msg)
}

func (suite *KeeperTestSuite) TestPairIndexInvariant_DetectsMissingEntry() {
	id := suite.createPoolA()
	pool, _ := suite.f.DexKeeper.PoolByID(suite.ctx, id)

	store := suite.ctx.KVStore(suite.f.StoreKey(types.StoreKey))
	store.Delete(types.GetSwapPairKey(pool.AssetY, pool.AssetX))

	_, broken := keeper.PairIndexInvariant(suite.f.DexKeeper)(suite.ctx)
	suite.Require().True(broken)
}

func (suite *KeeperTestSuite) TestLPSupplyInvariant_EmptyRegistry() {
	_, broken := keeper.LPSupplyInvariant(suite.f.DexKeeper)(suite.ctx)
	suite.Require().False(broken)
}
