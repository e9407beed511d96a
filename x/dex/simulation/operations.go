package simulation

import (
	"math/rand"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/keeper"
	"github.com/subgame-network/subgame/x/dex/types"
)

// Simulation operation weights constants
const (
	OpWeightCreatePool      = "op_weight_create_pool"
	OpWeightAddLiquidity    = "op_weight_add_liquidity"
	OpWeightRemoveLiquidity = "op_weight_remove_liquidity"
	OpWeightSwap            = "op_weight_swap"

	DefaultWeightCreatePool      = 15
	DefaultWeightAddLiquidity    = 30
	DefaultWeightRemoveLiquidity = 20
	DefaultWeightSwap            = 50
)

// Operation names
const (
	OpCreatePool      = "create_pool"
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwap            = "swap"
)

// OperationMsg reports what a simulated operation did. OK is false when the
// operation was skipped or the keeper rejected it.
type OperationMsg struct {
	Name    string
	OK      bool
	Comment string
}

// NoOpMsg reports a skipped operation.
func NoOpMsg(name, comment string) OperationMsg {
	return OperationMsg{Name: name, Comment: comment}
}

func resultMsg(name string, err error) OperationMsg {
	if err != nil {
		return OperationMsg{Name: name, Comment: err.Error()}
	}
	return OperationMsg{Name: name, OK: true}
}

// Operation runs one random keeper call against ctx.
type Operation func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) OperationMsg

// WeightedOperation is an operation with its selection weight.
type WeightedOperation struct {
	Weight int
	Op     Operation
}

// WeightedOperations returns all the DEX module operations with their respective weights.
func WeightedOperations(
	appParams simtypes.AppParams,
	k keeper.Keeper,
	ak types.AssetKeeper,
	nk types.NativeKeeper,
	assets []assetstypes.AssetID,
) []WeightedOperation {
	var (
		weightCreatePool      int
		weightAddLiquidity    int
		weightRemoveLiquidity int
		weightSwap            int
	)

	appParams.GetOrGenerate(OpWeightCreatePool, &weightCreatePool, nil,
		func(_ *rand.Rand) {
			weightCreatePool = DefaultWeightCreatePool
		},
	)

	appParams.GetOrGenerate(OpWeightAddLiquidity, &weightAddLiquidity, nil,
		func(_ *rand.Rand) {
			weightAddLiquidity = DefaultWeightAddLiquidity
		},
	)

	appParams.GetOrGenerate(OpWeightRemoveLiquidity, &weightRemoveLiquidity, nil,
		func(_ *rand.Rand) {
			weightRemoveLiquidity = DefaultWeightRemoveLiquidity
		},
	)

	appParams.GetOrGenerate(OpWeightSwap, &weightSwap, nil,
		func(_ *rand.Rand) {
			weightSwap = DefaultWeightSwap
		},
	)

	bal := balances{assets: ak, native: nk}
	return []WeightedOperation{
		{Weight: weightCreatePool, Op: SimulateCreatePool(k, bal, assets)},
		{Weight: weightAddLiquidity, Op: SimulateAddLiquidity(k, bal)},
		{Weight: weightRemoveLiquidity, Op: SimulateRemoveLiquidity(k, ak)},
		{Weight: weightSwap, Op: SimulateSwap(k, bal)},
	}
}

// balances reads ledger and native balances alike.
type balances struct {
	assets types.AssetKeeper
	native types.NativeKeeper
}

func (b balances) of(ctx sdk.Context, id assetstypes.AssetID, addr sdk.AccAddress) math.Int {
	if id.IsNative() {
		return b.native.FreeBalance(ctx, addr)
	}
	return b.assets.Balance(ctx, id, addr)
}

// randAmount returns a random amount in [1, max], or zero when max < 1.
func randAmount(r *rand.Rand, max math.Int) math.Int {
	if !max.IsPositive() {
		return math.ZeroInt()
	}
	return simtypes.RandomAmount(r, max.SubRaw(1)).AddRaw(1)
}

func randomPool(r *rand.Rand, ctx sdk.Context, k keeper.Keeper) (types.Pool, bool) {
	pools := k.GetAllPools(ctx)
	if len(pools) == 0 {
		return types.Pool{}, false
	}
	return pools[r.Intn(len(pools))], true
}

// SimulateCreatePool opens a pool for a random unused pair
func SimulateCreatePool(k keeper.Keeper, bal balances, assets []assetstypes.AssetID) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) OperationMsg {
		if len(assets) < 2 {
			return NoOpMsg(OpCreatePool, "fewer than two assets")
		}
		simAccount, _ := simtypes.RandomAcc(r, accs)

		assetX := assets[r.Intn(len(assets))]
		assetY := assets[r.Intn(len(assets))]
		if assetX == assetY {
			return NoOpMsg(OpCreatePool, "same asset")
		}
		if _, exists := k.GetPoolIDByPair(ctx, assetX, assetY); exists {
			return NoOpMsg(OpCreatePool, "pair already has a pool")
		}

		amountX := math.NewInt(int64(simtypes.RandIntBetween(r, 1000, 1000000)))
		amountY := math.NewInt(int64(simtypes.RandIntBetween(r, 1000, 1000000)))
		if bal.of(ctx, assetX, simAccount.Address).LT(amountX) || bal.of(ctx, assetY, simAccount.Address).LT(amountY) {
			return NoOpMsg(OpCreatePool, "insufficient balance")
		}

		_, err := k.CreatePool(ctx, simAccount.Address, assetX, assetY, amountX, amountY)
		return resultMsg(OpCreatePool, err)
	}
}

// SimulateAddLiquidity deposits a random amount at the pool ratio
func SimulateAddLiquidity(k keeper.Keeper, bal balances) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) OperationMsg {
		simAccount, _ := simtypes.RandomAcc(r, accs)

		pool, ok := randomPool(r, ctx, k)
		if !ok {
			return NoOpMsg(OpAddLiquidity, "no pools")
		}
		x, y := k.Reserves(ctx, pool)
		supply := k.LPSupply(ctx, pool)
		if x.IsZero() || supply.IsZero() {
			return NoOpMsg(OpAddLiquidity, "empty pool")
		}

		dx := randAmount(r, math.MinInt(bal.of(ctx, pool.AssetX, simAccount.Address), x))
		if dx.IsZero() {
			return NoOpMsg(OpAddLiquidity, "insufficient balance")
		}
		// Derive dy from the LP amount dx buys so the deposit matches the ratio.
		minted, err := keeper.SafeMulDiv(dx, supply, x)
		if err != nil {
			return resultMsg(OpAddLiquidity, err)
		}
		dy, err := keeper.SafeMulDiv(minted, y, supply)
		if err != nil {
			return resultMsg(OpAddLiquidity, err)
		}
		if dy.IsZero() {
			return NoOpMsg(OpAddLiquidity, "deposit too small")
		}
		if bal.of(ctx, pool.AssetY, simAccount.Address).LT(dy) {
			return NoOpMsg(OpAddLiquidity, "insufficient balance")
		}

		_, err = k.AddLiquidity(ctx, simAccount.Address, pool.ID, dx, dy)
		return resultMsg(OpAddLiquidity, err)
	}
}

// SimulateRemoveLiquidity redeems part of a random provider's LP tokens
func SimulateRemoveLiquidity(k keeper.Keeper, ak types.AssetKeeper) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) OperationMsg {
		pool, ok := randomPool(r, ctx, k)
		if !ok {
			return NoOpMsg(OpRemoveLiquidity, "no pools")
		}

		var holders []simtypes.Account
		for _, acc := range accs {
			if ak.Balance(ctx, pool.LPAsset, acc.Address).IsPositive() {
				holders = append(holders, acc)
			}
		}
		if len(holders) == 0 {
			return NoOpMsg(OpRemoveLiquidity, "no lp holders")
		}
		simAccount, _ := simtypes.RandomAcc(r, holders)

		held := ak.Balance(ctx, pool.LPAsset, simAccount.Address)
		supply := k.LPSupply(ctx, pool)
		lp := randAmount(r, math.MinInt(held, supply.SubRaw(1)))
		if lp.IsZero() {
			return NoOpMsg(OpRemoveLiquidity, "sole provider")
		}

		_, _, err := k.RemoveLiquidity(ctx, simAccount.Address, pool.ID, lp)
		return resultMsg(OpRemoveLiquidity, err)
	}
}

// SimulateSwap trades a random amount against a quote taken just before
func SimulateSwap(k keeper.Keeper, bal balances) Operation {
	return func(r *rand.Rand, ctx sdk.Context, accs []simtypes.Account) OperationMsg {
		simAccount, _ := simtypes.RandomAcc(r, accs)

		pool, ok := randomPool(r, ctx, k)
		if !ok {
			return NoOpMsg(OpSwap, "no pools")
		}
		in, out := pool.AssetX, pool.AssetY
		if r.Intn(2) == 0 {
			in, out = out, in
		}

		reserveIn := bal.of(ctx, in, pool.CustodyAccount)
		amount := randAmount(r, math.MinInt(bal.of(ctx, in, simAccount.Address), reserveIn))
		if amount.IsZero() {
			return NoOpMsg(OpSwap, "insufficient balance")
		}

		req := types.SwapRequest{
			PoolID:      pool.ID,
			InputAsset:  in,
			InputAmount: amount,
			OutputAsset: out,
		}
		quote, err := k.SimulateSwap(ctx, types.SwapRequest{
			PoolID:         pool.ID,
			InputAsset:     in,
			InputAmount:    amount,
			OutputAsset:    out,
			ExpectedOutput: math.OneInt(),
		})
		if err != nil {
			return resultMsg(OpSwap, err)
		}
		if quote.OutputAmount.IsZero() {
			return NoOpMsg(OpSwap, "output rounds to zero")
		}
		req.ExpectedOutput = quote.OutputAmount
		req.MaxSlippagePercent = uint64(simtypes.RandIntBetween(r, 0, 5))
		req.Deadline = uint64(ctx.BlockHeight()) + uint64(simtypes.RandIntBetween(r, 0, 3))

		_, err = k.Swap(ctx, simAccount.Address, req)
		return resultMsg(OpSwap, err)
	}
}
