package keeper_test

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/types"
)

func (suite *KeeperTestSuite) TestCreatePool_ScenarioA() {
	k := suite.f.DexKeeper
	usdtBefore := suite.balance(usdt, suite.alice)
	sgbBefore := suite.balance(sgb, suite.alice)

	id := suite.createPoolA()
	suite.Require().Equal(types.FirstPoolID, id)

	pool, err := k.PoolByID(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Require().Equal(usdt, pool.AssetX)
	suite.Require().Equal(sgb, pool.AssetY)
	suite.Require().Equal(types.CustodyAddress(id), pool.CustodyAccount)
	suite.Require().Equal(types.LPAssetID(id), pool.LPAsset)
	suite.Require().Equal(poolAX.Mul(poolAY), pool.KAtCreation)

	suite.Require().Equal(poolAS, suite.balance(pool.LPAsset, suite.alice))
	suite.Require().Equal(poolAS, k.LPSupply(suite.ctx, pool))

	x, y := k.Reserves(suite.ctx, pool)
	suite.Require().Equal(poolAX, x)
	suite.Require().Equal(poolAY, y)
	suite.Require().Equal(usdtBefore.Sub(poolAX), suite.balance(usdt, suite.alice))
	suite.Require().Equal(sgbBefore.Sub(poolAY), suite.balance(sgb, suite.alice))

	md, err := suite.f.AssetKeeper.Metadata(suite.ctx, pool.LPAsset)
	suite.Require().NoError(err)
	suite.Require().Equal("USDT-SGB LP", md.Name)
	suite.Require().Equal(types.LPDecimals, md.Decimals)

	events := suite.eventsOfType(types.EventTypeCreatePool)
	suite.Require().Len(events, 1)
	suite.Require().Equal("1", attribute(events[0], types.AttributeKeyPoolID))
	suite.Require().Equal(poolAX.String(), attribute(events[0], types.AttributeKeyAmountX))
	suite.Require().Equal(pool.CustodyAccount.String(), attribute(events[0], types.AttributeKeyCustodyAccount))
}

func (suite *KeeperTestSuite) TestCreatePool_IDsIncrease() {
	first := suite.createPoolA()
	second, err := suite.f.DexKeeper.CreatePool(suite.ctx, suite.alice, gogo, sgb, oneUSDT, oneSGB.MulRaw(11))
	suite.Require().NoError(err)
	suite.Require().Equal(first+1, second)

	pool, err := suite.f.DexKeeper.PoolByID(suite.ctx, second)
	suite.Require().NoError(err)
	md, err := suite.f.AssetKeeper.Metadata(suite.ctx, pool.LPAsset)
	suite.Require().NoError(err)
	suite.Require().Equal("GOGO-SGB LP", md.Name)
	suite.Require().NotEqual(types.CustodyAddress(first), pool.CustodyAccount)
}

func (suite *KeeperTestSuite) TestCreatePool_Errors() {
	suite.createPoolA()
	unregistered := usdt + 100

	tests := []struct {
		name    string
		assetX  assetstypes.AssetID
		assetY  assetstypes.AssetID
		amountX math.Int
		amountY math.Int
		err     error
	}{
		{"duplicate asset", gogo, gogo, oneUSDT, oneUSDT, types.ErrDuplicateAssetID},
		{"pair exists", usdt, sgb, oneUSDT, oneSGB, types.ErrPoolAlreadyExists},
		{"pair exists reversed", sgb, usdt, oneSGB, oneUSDT, types.ErrPoolAlreadyExists},
		{"zero amount x", gogo, sgb, math.ZeroInt(), oneSGB, types.ErrZeroBalance},
		{"zero amount y", gogo, sgb, oneUSDT, math.ZeroInt(), types.ErrZeroBalance},
		{"unknown asset", unregistered, sgb, oneUSDT, oneSGB, types.ErrUnknownAsset},
		{"insufficient balance", gogo, sgb, oneUSDT.MulRaw(1_000), oneSGB, types.ErrInsufficientBalance},
		{"insufficient native", gogo, sgb, oneUSDT, oneSGB.MulRaw(5_000), types.ErrInsufficientBalance},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := suite.f.DexKeeper.CreatePool(suite.ctx, suite.alice, tc.assetX, tc.assetY, tc.amountX, tc.amountY)
			suite.Require().ErrorIs(err, tc.err)
		})
	}

	// Failed attempts neither consume ids nor leave pools behind.
	suite.Require().Equal(types.PoolID(2), suite.f.DexKeeper.GetNextPoolID(suite.ctx))
	suite.Require().Len(suite.f.DexKeeper.GetAllPools(suite.ctx), 1)
}

func (suite *KeeperTestSuite) TestCreatePool_IDOverflow() {
	suite.f.DexKeeper.SetNextPoolID(suite.ctx, types.MaxPoolID+1)
	gogoBefore := suite.balance(gogo, suite.alice)

	_, err := suite.f.DexKeeper.CreatePool(suite.ctx, suite.alice, gogo, sgb, oneUSDT, oneSGB)
	suite.Require().ErrorIs(err, types.ErrPoolIDOverflow)
	suite.Require().Equal(gogoBefore, suite.balance(gogo, suite.alice))
}

func (suite *KeeperTestSuite) TestAddLiquidity_ScenarioB() {
	k := suite.f.DexKeeper
	id := suite.createPoolA()

	minted, err := k.AddLiquidity(suite.ctx, suite.bob, id, oneUSDT.MulRaw(2), oneSGB.MulRaw(22))
	suite.Require().NoError(err)
	suite.Require().Equal(poolAS.MulRaw(2), minted)

	pool, _ := k.PoolByID(suite.ctx, id)
	suite.Require().Equal(minted, suite.balance(pool.LPAsset, suite.bob))
	suite.Require().Equal(poolAS.MulRaw(3), k.LPSupply(suite.ctx, pool))

	x, y := k.Reserves(suite.ctx, pool)
	suite.Require().Equal(poolAX.MulRaw(3), x)
	suite.Require().Equal(poolAY.MulRaw(3), y)

	events := suite.eventsOfType(types.EventTypeAddLiquidity)
	suite.Require().Len(events, 1)
	suite.Require().Equal(suite.bob.String(), attribute(events[0], types.AttributeKeyProvider))
}

func (suite *KeeperTestSuite) TestAddLiquidity_RatioSelection() {
	k := suite.f.DexKeeper
	id := suite.createPoolA()

	// A few extra units of y still floor to the x-side ratio.
	minted, err := k.AddLiquidity(suite.ctx, suite.bob, id, oneUSDT, poolAY.AddRaw(5))
	suite.Require().NoError(err)
	suite.Require().Equal(poolAS, minted)

	// Neither side reproduces the other after flooring.
	_, err = k.AddLiquidity(suite.ctx, suite.bob, id, oneUSDT, oneSGB.MulRaw(44))
	suite.Require().ErrorIs(err, types.ErrLiquidityRatioMismatch)
}

func (suite *KeeperTestSuite) TestAddLiquidity_Errors() {
	id := suite.createPoolA()
	bobUSDT := suite.balance(usdt, suite.bob)

	tests := []struct {
		name   string
		poolID types.PoolID
		dx, dy math.Int
		err    error
	}{
		{"unknown pool", id + 1, oneUSDT, oneSGB, types.ErrNoSwapExists},
		{"zero dx", id, math.ZeroInt(), oneSGB, types.ErrZeroBalance},
		{"zero dy", id, oneUSDT, math.ZeroInt(), types.ErrZeroBalance},
		{"insufficient balance", id, oneUSDT.MulRaw(500), oneSGB.MulRaw(5_500), types.ErrInsufficientBalance},
		{"ratio mismatch", id, oneUSDT, oneSGB.MulRaw(22), types.ErrLiquidityRatioMismatch},
		{"dust", id, math.OneInt(), math.OneInt(), types.ErrLiquidityRatioMismatch},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := suite.f.DexKeeper.AddLiquidity(suite.ctx, suite.bob, tc.poolID, tc.dx, tc.dy)
			suite.Require().ErrorIs(err, tc.err)
		})
	}
	suite.Require().Equal(bobUSDT, suite.balance(usdt, suite.bob))
}

func (suite *KeeperTestSuite) TestRemoveLiquidity() {
	k := suite.f.DexKeeper
	id := suite.createPoolA()
	pool, _ := k.PoolByID(suite.ctx, id)
	usdtBefore := suite.balance(usdt, suite.alice)
	sgbBefore := suite.balance(sgb, suite.alice)

	dx, dy, err := k.RemoveLiquidity(suite.ctx, suite.alice, id, math.NewInt(1_658_312))
	suite.Require().NoError(err)
	suite.Require().Equal(math.NewInt(500_000), dx)
	suite.Require().Equal(oneSGB.MulRaw(11).QuoRaw(2), dy)

	suite.Require().Equal(usdtBefore.Add(dx), suite.balance(usdt, suite.alice))
	suite.Require().Equal(sgbBefore.Add(dy), suite.balance(sgb, suite.alice))
	suite.Require().Equal(math.NewInt(1_658_312), k.LPSupply(suite.ctx, pool))

	events := suite.eventsOfType(types.EventTypeRemoveLiquidity)
	suite.Require().Len(events, 1)
	suite.Require().Equal("1658312", attribute(events[0], types.AttributeKeyLPAmount))
}

func (suite *KeeperTestSuite) TestRemoveLiquidity_Errors() {
	id := suite.createPoolA()
	_, err := suite.f.DexKeeper.AddLiquidity(suite.ctx, suite.bob, id, oneUSDT, poolAY)
	suite.Require().NoError(err)

	tests := []struct {
		name     string
		provider sdk.AccAddress
		poolID   types.PoolID
		amount   math.Int
		err      error
	}{
		{"unknown pool", suite.alice, id + 1, math.OneInt(), types.ErrNoSwapExists},
		{"zero amount", suite.alice, id, math.ZeroInt(), types.ErrZeroBalance},
		{"more than held", suite.bob, id, poolAS.AddRaw(1), types.ErrNotEnoughLPToken},
		{"rounds to zero", suite.alice, id, math.OneInt(), types.ErrZeroBalance},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, _, err := suite.f.DexKeeper.RemoveLiquidity(suite.ctx, tc.provider, tc.poolID, tc.amount)
			suite.Require().ErrorIs(err, tc.err)
		})
	}
}

func (suite *KeeperTestSuite) TestRemoveLiquidity_EntireSupply() {
	id := suite.createPoolA()

	_, _, err := suite.f.DexKeeper.RemoveLiquidity(suite.ctx, suite.alice, id, poolAS)
	suite.Require().ErrorIs(err, types.ErrTooManyLPToken)

	pool, _ := suite.f.DexKeeper.PoolByID(suite.ctx, id)
	suite.Require().Equal(poolAS, suite.balance(pool.LPAsset, suite.alice))
}

func (suite *KeeperTestSuite) TestAddThenRemove_ReturnsDeposit() {
	k := suite.f.DexKeeper
	id := suite.createPoolA()
	usdtBefore := suite.balance(usdt, suite.bob)
	sgbBefore := suite.balance(sgb, suite.bob)

	minted, err := k.AddLiquidity(suite.ctx, suite.bob, id, oneUSDT.MulRaw(2), oneSGB.MulRaw(22))
	suite.Require().NoError(err)
	_, _, err = k.RemoveLiquidity(suite.ctx, suite.bob, id, minted)
	suite.Require().NoError(err)

	suite.Require().True(usdtBefore.Sub(suite.balance(usdt, suite.bob)).LTE(math.OneInt()))
	suite.Require().True(sgbBefore.Sub(suite.balance(sgb, suite.bob)).LTE(math.OneInt()))
}
