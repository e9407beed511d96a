package keeper_test

import (
	"fmt"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/subgame-network/subgame/testutil/keeper"
	"github.com/subgame-network/subgame/x/assets/keeper"
	"github.com/subgame-network/subgame/x/assets/types"
)

const usdt types.AssetID = 7

type LedgerTestSuite struct {
	suite.Suite
	f     *keepertest.Fixture
	k     keeper.Keeper
	ctx   sdk.Context
	owner sdk.AccAddress
	alice sdk.AccAddress
	bob   sdk.AccAddress
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.f = keepertest.NewFixture(suite.T())
	suite.k = suite.f.AssetKeeper
	suite.ctx = suite.f.Ctx
	suite.owner = keepertest.AccAddress("owner")
	suite.alice = keepertest.AccAddress("alice")
	suite.bob = keepertest.AccAddress("bob")
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) TestCreateAsset() {
	suite.Require().NoError(suite.k.CreateAsset(suite.ctx, usdt, suite.owner, 10, math.OneInt()))

	info, found := suite.k.GetAsset(suite.ctx, usdt)
	suite.Require().True(found)
	suite.Require().Equal(suite.owner, info.Owner)
	suite.Require().Equal(uint32(10), info.MaxHolders)
	suite.Require().Equal("1", info.MinBalance.String())

	err := suite.k.CreateAsset(suite.ctx, usdt, suite.alice, 10, math.OneInt())
	suite.Require().ErrorIs(err, types.ErrAssetExists)

	err = suite.k.CreateAsset(suite.ctx, types.NativeAssetID, suite.owner, 0, math.OneInt())
	suite.Require().ErrorIs(err, types.ErrReservedAssetID)

	err = suite.k.CreateAsset(suite.ctx, 9, suite.owner, 0, math.NewInt(-1))
	suite.Require().ErrorIs(err, types.ErrInvalidAmount)
}

func (suite *LedgerTestSuite) TestValidateUserAssetID() {
	suite.Require().NoError(keeper.ValidateUserAssetID(usdt))
	suite.Require().ErrorIs(keeper.ValidateUserAssetID(types.NativeAssetID), types.ErrReservedAssetID)
	suite.Require().ErrorIs(keeper.ValidateUserAssetID(types.LPAssetIDBase|3), types.ErrReservedAssetID)
}

func (suite *LedgerTestSuite) TestMetadata() {
	_, err := suite.k.Metadata(suite.ctx, usdt)
	suite.Require().ErrorIs(err, types.ErrAssetNotFound)

	suite.Require().NoError(suite.k.CreateAsset(suite.ctx, usdt, suite.owner, 0, math.OneInt()))
	_, err = suite.k.Metadata(suite.ctx, usdt)
	suite.Require().ErrorIs(err, types.ErrMetadataNotFound)

	err = suite.k.SetMetadata(suite.ctx, suite.alice, usdt, "Tether", "USDT", 6)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	suite.Require().NoError(suite.k.SetMetadata(suite.ctx, suite.owner, usdt, "Tether", "USDT", 6))
	md, err := suite.k.Metadata(suite.ctx, usdt)
	suite.Require().NoError(err)
	suite.Require().Equal(types.Metadata{Name: "Tether", Symbol: "USDT", Decimals: 6}, md)
}

func (suite *LedgerTestSuite) TestMintAndBurn() {
	suite.f.RegisterAsset(suite.T(), usdt, suite.owner, "USDT", 6)

	err := suite.k.Mint(suite.ctx, suite.alice, usdt, suite.alice, math.NewInt(100))
	suite.Require().ErrorIs(err, types.ErrUnauthorized)
	err = suite.k.Mint(suite.ctx, suite.owner, usdt, suite.alice, math.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrInvalidAmount)

	suite.Require().NoError(suite.k.Mint(suite.ctx, suite.owner, usdt, suite.alice, math.NewInt(100)))
	suite.Require().Equal(int64(100), suite.k.Balance(suite.ctx, usdt, suite.alice).Int64())
	suite.Require().Equal(int64(100), suite.k.TotalSupply(suite.ctx, usdt).Int64())
	suite.Require().Equal(uint32(1), suite.k.Holders(suite.ctx, usdt))

	err = suite.k.Burn(suite.ctx, suite.alice, usdt, suite.alice, math.NewInt(10))
	suite.Require().ErrorIs(err, types.ErrUnauthorized)
	err = suite.k.Burn(suite.ctx, suite.owner, usdt, suite.alice, math.NewInt(101))
	suite.Require().ErrorIs(err, types.ErrInsufficientFunds)

	suite.Require().NoError(suite.k.Burn(suite.ctx, suite.owner, usdt, suite.alice, math.NewInt(100)))
	suite.Require().True(suite.k.Balance(suite.ctx, usdt, suite.alice).IsZero())
	suite.Require().True(suite.k.TotalSupply(suite.ctx, usdt).IsZero())
	suite.Require().Equal(uint32(0), suite.k.Holders(suite.ctx, usdt))
}

func (suite *LedgerTestSuite) TestTransferMinBalance() {
	suite.Require().NoError(suite.k.CreateAsset(suite.ctx, usdt, suite.owner, 0, math.NewInt(5)))
	suite.Require().NoError(suite.k.Mint(suite.ctx, suite.owner, usdt, suite.alice, math.NewInt(20)))

	tests := []struct {
		name   string
		amount math.Int
		err    error
	}{
		{"zero", math.ZeroInt(), types.ErrInvalidAmount},
		{"more than held", math.NewInt(21), types.ErrInsufficientFunds},
		{"recipient below minimum", math.NewInt(4), types.ErrBelowMinBalance},
		{"sender left below minimum", math.NewInt(17), types.ErrBelowMinBalance},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := suite.k.Transfer(suite.ctx, suite.alice, usdt, suite.bob, tc.amount)
			suite.Require().ErrorIs(err, tc.err)
		})
	}

	// Emptying the sender is allowed.
	suite.Require().NoError(suite.k.Transfer(suite.ctx, suite.alice, usdt, suite.bob, math.NewInt(20)))
	suite.Require().True(suite.k.Balance(suite.ctx, usdt, suite.alice).IsZero())
	suite.Require().Equal(int64(20), suite.k.Balance(suite.ctx, usdt, suite.bob).Int64())
	suite.Require().Equal(uint32(1), suite.k.Holders(suite.ctx, usdt))
}

func (suite *LedgerTestSuite) TestHolderCap() {
	suite.Require().NoError(suite.k.CreateAsset(suite.ctx, usdt, suite.owner, 3, math.OneInt()))

	holders := make([]sdk.AccAddress, 4)
	for i := range holders {
		holders[i] = keepertest.AccAddress(fmt.Sprintf("holder-%d", i))
	}
	for _, addr := range holders[:3] {
		suite.Require().NoError(suite.k.Mint(suite.ctx, suite.owner, usdt, addr, math.NewInt(10)))
	}

	err := suite.k.Mint(suite.ctx, suite.owner, usdt, holders[3], math.NewInt(10))
	suite.Require().ErrorIs(err, types.ErrTooManyHolders)
	err = suite.k.Transfer(suite.ctx, holders[0], usdt, holders[3], math.NewInt(5))
	suite.Require().ErrorIs(err, types.ErrTooManyHolders)

	// Existing holders can always receive more.
	suite.Require().NoError(suite.k.Mint(suite.ctx, suite.owner, usdt, holders[1], math.NewInt(10)))

	// A sender handing over its whole balance frees its slot.
	suite.Require().NoError(suite.k.Transfer(suite.ctx, holders[0], usdt, holders[3], math.NewInt(10)))
	suite.Require().Equal(uint32(3), suite.k.Holders(suite.ctx, usdt))
}

func (suite *LedgerTestSuite) TestTransferEmitsEvent() {
	suite.f.RegisterAsset(suite.T(), usdt, suite.owner, "USDT", 6)
	suite.f.MintAsset(suite.T(), usdt, suite.alice, math.NewInt(50))
	suite.ctx = suite.ctx.WithEventManager(sdk.NewEventManager())

	suite.Require().NoError(suite.k.Transfer(suite.ctx, suite.alice, usdt, suite.bob, math.NewInt(30)))

	var found bool
	for _, ev := range suite.ctx.EventManager().Events() {
		if ev.Type != types.EventTypeAssetTransfer {
			continue
		}
		found = true
		for _, attr := range ev.Attributes {
			if attr.Key == types.AttributeKeyAmount {
				suite.Require().Equal("30", attr.Value)
			}
		}
	}
	suite.Require().True(found)
}

func TestNativeTransferExistentialDeposit(t *testing.T) {
	cfg := types.DefaultNativeConfig()
	cfg.ExistentialDeposit = math.NewInt(100)
	f := keepertest.NewFixtureWithNative(t, cfg)
	native := f.AssetKeeper.Native()

	alice := keepertest.AccAddress("alice")
	bob := keepertest.AccAddress("bob")
	carol := keepertest.AccAddress("carol")
	f.FundNative(t, alice, math.NewInt(1_000))

	err := native.Transfer(f.Ctx, alice, bob, math.NewInt(950), types.KeepAlive)
	require.ErrorIs(t, err, types.ErrKeepAlive)

	err = native.Transfer(f.Ctx, alice, bob, math.NewInt(50), types.AllowDeath)
	require.ErrorIs(t, err, types.ErrBelowMinBalance)

	err = native.Transfer(f.Ctx, alice, bob, math.NewInt(1_001), types.AllowDeath)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	require.NoError(t, native.Transfer(f.Ctx, alice, bob, math.NewInt(900), types.KeepAlive))
	require.Equal(t, int64(100), native.FreeBalance(f.Ctx, alice).Int64())

	require.NoError(t, native.Transfer(f.Ctx, alice, carol, math.NewInt(100), types.AllowDeath))
	require.True(t, native.FreeBalance(f.Ctx, alice).IsZero())
	require.Equal(t, int64(100), native.FreeBalance(f.Ctx, carol).Int64())
}
