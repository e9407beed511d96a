package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	"github.com/cometbft/cometbft/crypto"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	moduletestutil "github.com/cosmos/cosmos-sdk/types/module/testutil"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authcodec "github.com/cosmos/cosmos-sdk/x/auth/codec"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	assetskeeper "github.com/subgame-network/subgame/x/assets/keeper"
	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/keeper"
	"github.com/subgame-network/subgame/x/dex/types"
)

// Fixture bundles the keepers the DEX runs on over a fresh in-memory store.
type Fixture struct {
	Ctx           sdk.Context
	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	AssetKeeper   assetskeeper.Keeper
	DexKeeper     keeper.Keeper

	keys map[string]*storetypes.KVStoreKey
}

// NewFixture mounts auth, bank, assets and dex stores on a MemDB and wires
// the keepers together.
func NewFixture(t testing.TB) *Fixture {
	return NewFixtureWithNative(t, assetstypes.DefaultNativeConfig())
}

// NewFixtureWithNative is NewFixture with a custom base currency.
func NewFixtureWithNative(t testing.TB, native assetstypes.NativeConfig) *Fixture {
	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, assetstypes.StoreKey, types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, key := range keys {
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	require.NoError(t, stateStore.LoadLatestVersion())

	encCfg := moduletestutil.MakeTestEncodingConfig(auth.AppModuleBasic{}, bank.AppModuleBasic{})
	authority := authtypes.NewModuleAddress("gov").String()
	prefix := sdk.GetConfig().GetBech32AccountAddrPrefix()
	maccPerms := map[string][]string{
		assetstypes.ModuleName: {authtypes.Minter, authtypes.Burner},
		minttypes.ModuleName:   {authtypes.Minter},
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		encCfg.Codec, runtime.NewKVStoreService(keys[authtypes.StoreKey]), authtypes.ProtoBaseAccount,
		maccPerms, authcodec.NewBech32Codec(prefix), prefix, authority,
	)
	bankKeeper := bankkeeper.NewBaseKeeper(
		encCfg.Codec, runtime.NewKVStoreService(keys[banktypes.StoreKey]), accountKeeper,
		map[string]bool{}, authority, log.NewNopLogger(),
	)

	assetKeeper := assetskeeper.NewKeeper(keys[assetstypes.StoreKey], bankKeeper, native)
	dexKeeper := keeper.NewKeeper(
		keys[types.StoreKey],
		assetKeeper,
		assetKeeper.Native(),
		types.NativeAsset{Symbol: native.Symbol, Decimals: native.Decimals},
	)

	header := cmtproto.Header{Height: 1, Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())

	return &Fixture{
		Ctx:           ctx,
		AccountKeeper: accountKeeper,
		BankKeeper:    bankKeeper,
		AssetKeeper:   assetKeeper,
		DexKeeper:     dexKeeper,
		keys:          keys,
	}
}

// StoreKey returns the mounted store key of a module.
func (f *Fixture) StoreKey(name string) *storetypes.KVStoreKey {
	return f.keys[name]
}

// DexKeeper creates a test keeper for the DEX module backed by real ledgers
func DexKeeper(t testing.TB) (keeper.Keeper, sdk.Context) {
	f := NewFixture(t)
	return f.DexKeeper, f.Ctx
}

// AccAddress returns a deterministic address for a test account name.
func AccAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(name)))
}

// RegisterAsset creates an asset owned by owner and sets its metadata.
func (f *Fixture) RegisterAsset(t testing.TB, id assetstypes.AssetID, owner sdk.AccAddress, symbol string, decimals uint8) {
	require.NoError(t, f.AssetKeeper.CreateAsset(f.Ctx, id, owner, 10, math.OneInt()))
	require.NoError(t, f.AssetKeeper.SetMetadata(f.Ctx, owner, id, symbol, symbol, decimals))
}

// MintAsset mints amount of id to addr on behalf of the asset owner.
func (f *Fixture) MintAsset(t testing.TB, id assetstypes.AssetID, addr sdk.AccAddress, amount math.Int) {
	info, found := f.AssetKeeper.GetAsset(f.Ctx, id)
	require.True(t, found, "asset %d not registered", id)
	require.NoError(t, f.AssetKeeper.Mint(f.Ctx, info.Owner, id, addr, amount))
}

// FundNative credits addr with native coins.
func (f *Fixture) FundNative(t testing.TB, addr sdk.AccAddress, amount math.Int) {
	denom := f.AssetKeeper.NativeConfig().Denom
	require.NoError(t, banktestutil.FundAccount(f.Ctx, f.BankKeeper, addr, sdk.NewCoins(sdk.NewCoin(denom, amount))))
}

// Balance returns addr's balance of id, native included.
func (f *Fixture) Balance(id assetstypes.AssetID, addr sdk.AccAddress) math.Int {
	if id.IsNative() {
		return f.AssetKeeper.Native().FreeBalance(f.Ctx, addr)
	}
	return f.AssetKeeper.Balance(f.Ctx, id, addr)
}

// WithHeight moves the fixture context to the given block height.
func (f *Fixture) WithHeight(height int64) {
	f.Ctx = f.Ctx.WithBlockHeight(height)
}
