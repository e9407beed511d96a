// Package app hosts the DEX engine outside a consensus node.
//
// The host mounts the auth, bank, assets and dex stores on one commit
// multistore, wires the keepers, and executes operations strictly in order.
// Every operation runs in its own cache context so a failed operation leaves
// no state behind; every block runs in a cache of the multistore so a block
// that breaks an invariant is dropped whole.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authcodec "github.com/cosmos/cosmos-sdk/x/auth/codec"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	assetskeeper "github.com/subgame-network/subgame/x/assets/keeper"
	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	dexkeeper "github.com/subgame-network/subgame/x/dex/keeper"
	dextypes "github.com/subgame-network/subgame/x/dex/types"
)

// Name is the application name.
const Name = "subgame-dex"

// module account permissions
var maccPerms = map[string][]string{
	assetstypes.ModuleName: {authtypes.Minter, authtypes.Burner},
}

// GetMaccPerms returns a copy of the module account permissions
func GetMaccPerms() map[string][]string {
	dupMaccPerms := make(map[string][]string, len(maccPerms))
	for k, v := range maccPerms {
		dupMaccPerms[k] = v
	}
	return dupMaccPerms
}

// App is the sequential execution environment of the DEX.
type App struct {
	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey
	cdc    codec.Codec
	config Config

	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	AssetKeeper   assetskeeper.Keeper
	DexKeeper     dexkeeper.Keeper

	invariants *invariantRegistry
	metrics    *HostMetrics

	// mu serialises block execution against readers of committed state.
	mu sync.RWMutex
}

// OpenDB opens the configured database under home.
func OpenDB(cfg Config, home string) (dbm.DB, error) {
	if cfg.Store.Backend == BackendMemDB {
		return dbm.NewMemDB(), nil
	}
	dir := cfg.Store.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(home, dir)
	}
	return dbm.NewDB("application", dbm.BackendType(cfg.Store.Backend), dir)
}

// New mounts the module stores on db, loads the latest version and wires the keepers.
func New(logger log.Logger, db dbm.DB, cfg Config) (*App, error) {
	SetConfig()

	native, err := cfg.NativeConfig()
	if err != nil {
		return nil, err
	}

	encodingConfig := MakeEncodingConfig()
	appCodec := encodingConfig.Codec

	keys := storetypes.NewKVStoreKeys(
		authtypes.StoreKey, banktypes.StoreKey,
		assetstypes.StoreKey, dextypes.StoreKey,
	)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load latest version: %w", err)
	}

	app := &App{
		logger:     logger.With("module", "app"),
		db:         db,
		cms:        cms,
		keys:       keys,
		cdc:        appCodec,
		config:     cfg,
		invariants: &invariantRegistry{},
	}

	authority := authtypes.NewModuleAddress("gov").String()
	app.AccountKeeper = authkeeper.NewAccountKeeper(
		appCodec, runtime.NewKVStoreService(keys[authtypes.StoreKey]), authtypes.ProtoBaseAccount, maccPerms,
		authcodec.NewBech32Codec(Bech32PrefixAccAddr), Bech32PrefixAccAddr, authority,
	)
	app.BankKeeper = bankkeeper.NewBaseKeeper(
		appCodec, runtime.NewKVStoreService(keys[banktypes.StoreKey]), app.AccountKeeper,
		BlockedModuleAccountAddrs(), authority, logger,
	)

	app.AssetKeeper = assetskeeper.NewKeeper(keys[assetstypes.StoreKey], app.BankKeeper, native)
	app.DexKeeper = dexkeeper.NewKeeper(
		keys[dextypes.StoreKey],
		app.AssetKeeper,
		app.AssetKeeper.Native(),
		dextypes.NativeAsset{Symbol: native.Symbol, Decimals: native.Decimals},
	)

	dexkeeper.RegisterInvariants(app.invariants, app.DexKeeper)

	if app.metrics, err = NewHostMetrics(); err != nil {
		return nil, err
	}
	return app, nil
}

// BlockedModuleAccountAddrs returns the module accounts that may not receive funds.
func BlockedModuleAccountAddrs() map[string]bool {
	blocked := make(map[string]bool, len(maccPerms))
	for acc := range maccPerms {
		blocked[authtypes.NewModuleAddress(acc).String()] = true
	}
	return blocked
}

// Logger returns the host logger.
func (app *App) Logger() log.Logger { return app.logger }

// Config returns the configuration the host was built with.
func (app *App) Config() Config { return app.config }

// Height returns the last committed height.
func (app *App) Height() int64 {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cms.LastCommitID().Version
}

// GetKey returns the KVStoreKey for the provided store key.
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// Close releases the database.
func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) newContext(ms storetypes.MultiStore, height int64) sdk.Context {
	header := cmtproto.Header{Height: height, Time: time.Now().UTC()}
	return sdk.NewContext(ms, header, false, app.logger)
}

// View runs fn against a read-only snapshot of the last committed state.
// Writes made by fn are discarded.
func (app *App) View(fn func(ctx sdk.Context) error) error {
	app.mu.RLock()
	defer app.mu.RUnlock()

	height := app.cms.LastCommitID().Version
	return fn(app.newContext(app.cms.CacheMultiStore(), height))
}

// BlockResult reports the outcome of every operation of a block.
type BlockResult struct {
	Height     int64             `json:"height"`
	Operations []OperationResult `json:"operations"`
}

// Failed returns the number of operations that did not apply.
func (r BlockResult) Failed() int {
	n := 0
	for _, op := range r.Operations {
		if op.Error != "" {
			n++
		}
	}
	return n
}

// ExecuteBlock delivers ops in order at the next height and commits. A failing
// operation is reported and skipped; a broken invariant drops the whole block.
func (app *App) ExecuteBlock(ctx context.Context, ops []Operation) (BlockResult, error) {
	var result BlockResult
	err := app.executeBlock(ctx, func(sdkCtx sdk.Context) (int, error) {
		result.Height = sdkCtx.BlockHeight()
		for _, op := range ops {
			result.Operations = append(result.Operations, app.deliverTraced(sdkCtx, op))
		}
		return len(ops), nil
	})
	return result, err
}

// ExecuteBlockFunc runs fn as the body of the next block. fn returns the
// number of operations it applied; its error aborts the block.
func (app *App) ExecuteBlockFunc(ctx context.Context, fn func(ctx sdk.Context) (int, error)) (int64, error) {
	var height int64
	err := app.executeBlock(ctx, func(sdkCtx sdk.Context) (int, error) {
		height = sdkCtx.BlockHeight()
		return fn(sdkCtx)
	})
	return height, err
}

func (app *App) executeBlock(ctx context.Context, body func(ctx sdk.Context) (int, error)) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	height := app.cms.LastCommitID().Version + 1
	ctx, span := TraceBlock(ctx, height)
	defer span.End()

	cache := app.cms.CacheMultiStore()
	sdkCtx := app.newContext(cache, height).WithContext(ctx)
	applied, err := body(sdkCtx)
	if err != nil {
		return err
	}

	if app.config.CheckInvariants {
		if err := app.invariants.assert(sdkCtx); err != nil {
			app.logger.Error("dropping block", "height", height, "err", err)
			return err
		}
	}

	cache.Write()
	commitID := app.cms.Commit()
	app.metrics.RecordBlock(ctx, commitID.Version, applied)
	app.logger.Debug("committed block", "height", commitID.Version, "hash", fmt.Sprintf("%X", commitID.Hash))
	return nil
}

// QueryDex runs fn with the dex keeper against committed state.
func (app *App) QueryDex(fn func(ctx sdk.Context, k dexkeeper.Keeper) error) error {
	return app.View(func(ctx sdk.Context) error {
		return fn(ctx, app.DexKeeper)
	})
}

// PoolCount returns the number of pools in committed state.
func (app *App) PoolCount() (int, error) {
	var n int
	err := app.View(func(ctx sdk.Context) error {
		n = len(app.DexKeeper.GetAllPools(ctx))
		return nil
	})
	return n, err
}

// AssertInvariants runs every registered invariant on the committed state.
func (app *App) AssertInvariants() error {
	return app.View(app.invariants.assert)
}

type invariantRoute struct {
	module string
	route  string
	inv    sdk.Invariant
}

// invariantRegistry collects module invariants the way x/crisis does.
type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, inv: invar})
	sort.SliceStable(r.routes, func(i, j int) bool {
		return r.routes[i].module+"/"+r.routes[i].route < r.routes[j].module+"/"+r.routes[j].route
	})
}

func (r *invariantRegistry) assert(ctx sdk.Context) error {
	for _, route := range r.routes {
		if msg, broken := route.inv(ctx); broken {
			return dextypes.ErrInvariantViolation.Wrapf("%s/%s: %s", route.module, route.route, msg)
		}
	}
	return nil
}
