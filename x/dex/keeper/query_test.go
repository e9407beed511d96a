package keeper_test

import (
	"github.com/subgame-network/subgame/x/dex/types"
)

func (suite *KeeperTestSuite) TestPoolForPair_Symmetric() {
	k := suite.f.DexKeeper
	id := suite.createPoolA()

	ab, err := k.PoolForPair(suite.ctx, usdt, sgb)
	suite.Require().NoError(err)
	ba, err := k.PoolForPair(suite.ctx, sgb, usdt)
	suite.Require().NoError(err)
	suite.Require().Equal(ab, ba)
	suite.Require().Equal(id, ab.ID)

	_, err = k.PoolForPair(suite.ctx, usdt, gogo)
	suite.Require().ErrorIs(err, types.ErrNoSwapExists)
}

func (suite *KeeperTestSuite) TestPoolByID_Unknown() {
	_, err := suite.f.DexKeeper.PoolByID(suite.ctx, types.FirstPoolID)
	suite.Require().ErrorIs(err, types.ErrNoSwapExists)
}

func (suite *KeeperTestSuite) TestPoolInfos() {
	suite.createPoolA()
	_, err := suite.f.DexKeeper.CreatePool(suite.ctx, suite.bob, gogo, usdt, oneUSDT, oneUSDT)
	suite.Require().NoError(err)

	infos := suite.f.DexKeeper.PoolInfos(suite.ctx)
	suite.Require().Len(infos, 2)
	suite.Require().Equal(poolAS, infos[0].LPSupply)
	suite.Require().Equal(poolAY, infos[0].ReserveY)
	// Two 6-decimal assets at 1:1 mint exactly one LP unit per base unit.
	suite.Require().Equal(oneUSDT, infos[1].LPSupply)
}
