package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/subgame-network/subgame/app"
	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	dextypes "github.com/subgame-network/subgame/x/dex/types"
)

// SetupTestApp opens a host app on an in-memory store.
func SetupTestApp(t testing.TB) *app.App {
	t.Helper()

	cfg := app.DefaultConfig()
	cfg.Store.Backend = app.BackendMemDB
	testApp, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testApp.Close() })

	return testApp
}

// CreateTestPool registers asset as a 6-decimal user asset owned by "owner", funds
// "alice" and "bob" with it, and has alice open an asset/native pool in the
// next block.
func CreateTestPool(t testing.TB, a *app.App, asset assetstypes.AssetID, amountX, amountY string) dextypes.PoolID {
	t.Helper()

	res, err := a.ExecuteBlock(context.Background(), []app.Operation{
		{Kind: app.OpCreateAsset, Sender: "owner", Asset: asset, MaxHolders: 10, MinBalance: "1"},
		{Kind: app.OpSetMetadata, Sender: "owner", Asset: asset, Name: "Tether", Symbol: "USDT", Decimals: 6},
		{Kind: app.OpMint, Sender: "owner", Asset: asset, Recipient: "alice", Amount: "100000000"},
		{Kind: app.OpMint, Sender: "owner", Asset: asset, Recipient: "bob", Amount: "100000000"},
		{Kind: app.OpFundNative, Sender: "alice", Amount: "10000000000000"},
		{Kind: app.OpCreatePool, Sender: "alice", AssetX: asset, AssetY: assetstypes.NativeAssetID, AmountX: amountX, AmountY: amountY},
	})
	require.NoError(t, err)
	require.Zero(t, res.Failed(), "%+v", res.Operations)

	return res.Operations[len(res.Operations)-1].PoolID
}
