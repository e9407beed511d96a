package app

import (
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"

	assetskeeper "github.com/subgame-network/subgame/x/assets/keeper"
	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	dextypes "github.com/subgame-network/subgame/x/dex/types"
)

// OperationKind names an operation the host can deliver.
type OperationKind string

const (
	OpCreateAsset     OperationKind = "create_asset"
	OpSetMetadata     OperationKind = "set_metadata"
	OpMint            OperationKind = "mint"
	OpTransfer        OperationKind = "transfer"
	OpFundNative      OperationKind = "fund_native"
	OpCreatePool      OperationKind = "create_pool"
	OpAddLiquidity    OperationKind = "add_liquidity"
	OpRemoveLiquidity OperationKind = "remove_liquidity"
	OpSwap            OperationKind = "swap"
)

// Operation is one entry of an operation script. Which fields apply depends
// on Kind. Accounts are bech32 addresses or plain names; a name maps to a
// fixed address derived from its hash. Amounts are decimal strings.
type Operation struct {
	Kind      OperationKind `yaml:"kind" json:"kind"`
	Sender    string        `yaml:"sender" json:"sender"`
	Recipient string        `yaml:"recipient,omitempty" json:"recipient,omitempty"`

	Asset      assetstypes.AssetID `yaml:"asset,omitempty" json:"asset,omitempty"`
	Amount     string              `yaml:"amount,omitempty" json:"amount,omitempty"`
	MaxHolders uint32              `yaml:"max_holders,omitempty" json:"max_holders,omitempty"`
	MinBalance string              `yaml:"min_balance,omitempty" json:"min_balance,omitempty"`
	Name       string              `yaml:"name,omitempty" json:"name,omitempty"`
	Symbol     string              `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Decimals   uint8               `yaml:"decimals,omitempty" json:"decimals,omitempty"`

	PoolID  dextypes.PoolID     `yaml:"pool_id,omitempty" json:"pool_id,omitempty"`
	AssetX  assetstypes.AssetID `yaml:"asset_x,omitempty" json:"asset_x,omitempty"`
	AssetY  assetstypes.AssetID `yaml:"asset_y,omitempty" json:"asset_y,omitempty"`
	AmountX string              `yaml:"amount_x,omitempty" json:"amount_x,omitempty"`
	AmountY string              `yaml:"amount_y,omitempty" json:"amount_y,omitempty"`

	OutputAsset    assetstypes.AssetID `yaml:"output_asset,omitempty" json:"output_asset,omitempty"`
	ExpectedOutput string              `yaml:"expected_output,omitempty" json:"expected_output,omitempty"`
	MaxSlippage    uint64              `yaml:"max_slippage,omitempty" json:"max_slippage,omitempty"`
	Deadline       uint64              `yaml:"deadline,omitempty" json:"deadline,omitempty"`
}

// OperationResult reports what an operation did, or why it did not apply.
type OperationResult struct {
	Kind    OperationKind   `json:"kind"`
	PoolID  dextypes.PoolID `json:"pool_id,omitempty"`
	Minted  string          `json:"minted,omitempty"`
	AmountX string          `json:"amount_x,omitempty"`
	AmountY string          `json:"amount_y,omitempty"`
	Output  string          `json:"output,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ResolveAddress turns a bech32 address or an account name into an address.
func ResolveAddress(account string) (sdk.AccAddress, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, fmt.Errorf("empty account")
	}
	if strings.HasPrefix(account, Bech32PrefixAccAddr+"1") {
		return sdk.AccAddressFromBech32(account)
	}
	return sdk.AccAddress(crypto.AddressHash([]byte(account))), nil
}

func parseAmount(field, s string) (math.Int, error) {
	if s == "" {
		return math.ZeroInt(), nil
	}
	v, ok := math.NewIntFromString(strings.ReplaceAll(s, "_", ""))
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}

// deliverTraced delivers op inside a cache context, traces it and records metrics.
func (app *App) deliverTraced(ctx sdk.Context, op Operation) OperationResult {
	traceCtx, span := TraceOperation(ctx.Context(), op.Kind, ctx.BlockHeight())
	defer span.End()

	start := time.Now()
	cacheCtx, write := ctx.CacheContext()
	res, err := app.Deliver(cacheCtx, op)
	if err == nil {
		write()
	} else {
		res.Error = err.Error()
		span.RecordError(err)
		app.logger.Info("operation failed", "height", ctx.BlockHeight(), "kind", op.Kind, "err", err)
	}
	app.metrics.RecordOperation(traceCtx, op.Kind, time.Since(start), err == nil)
	return res
}

// Deliver applies one operation to ctx. The caller owns atomicity.
func (app *App) Deliver(ctx sdk.Context, op Operation) (OperationResult, error) {
	res := OperationResult{Kind: op.Kind}

	sender, err := ResolveAddress(op.Sender)
	if err != nil {
		return res, fmt.Errorf("sender: %w", err)
	}
	amount, err := parseAmount("amount", op.Amount)
	if err != nil {
		return res, err
	}

	switch op.Kind {
	case OpCreateAsset:
		minBalance, err := parseAmount("min_balance", op.MinBalance)
		if err != nil {
			return res, err
		}
		if err := assetskeeper.ValidateUserAssetID(op.Asset); err != nil {
			return res, err
		}
		return res, app.AssetKeeper.CreateAsset(ctx, op.Asset, sender, op.MaxHolders, minBalance)

	case OpSetMetadata:
		return res, app.AssetKeeper.SetMetadata(ctx, sender, op.Asset, op.Name, op.Symbol, op.Decimals)

	case OpMint:
		to, err := app.recipient(op, sender)
		if err != nil {
			return res, err
		}
		return res, app.AssetKeeper.Mint(ctx, sender, op.Asset, to, amount)

	case OpTransfer:
		to, err := ResolveAddress(op.Recipient)
		if err != nil {
			return res, fmt.Errorf("recipient: %w", err)
		}
		if op.Asset.IsNative() {
			return res, app.AssetKeeper.Native().Transfer(ctx, sender, to, amount, assetstypes.KeepAlive)
		}
		return res, app.AssetKeeper.Transfer(ctx, sender, op.Asset, to, amount)

	case OpFundNative:
		to, err := app.recipient(op, sender)
		if err != nil {
			return res, err
		}
		return res, app.AssetKeeper.Native().Mint(ctx, to, amount)

	case OpCreatePool:
		amountX, amountY, err := op.pairAmounts()
		if err != nil {
			return res, err
		}
		id, err := app.DexKeeper.CreatePool(ctx, sender, op.AssetX, op.AssetY, amountX, amountY)
		if err != nil {
			return res, err
		}
		res.PoolID = id
		pool, _ := app.DexKeeper.GetPool(ctx, id)
		res.Minted = app.AssetKeeper.Balance(ctx, pool.LPAsset, sender).String()
		return res, nil

	case OpAddLiquidity:
		amountX, amountY, err := op.pairAmounts()
		if err != nil {
			return res, err
		}
		minted, err := app.DexKeeper.AddLiquidity(ctx, sender, op.PoolID, amountX, amountY)
		if err != nil {
			return res, err
		}
		res.PoolID, res.Minted = op.PoolID, minted.String()
		return res, nil

	case OpRemoveLiquidity:
		x, y, err := app.DexKeeper.RemoveLiquidity(ctx, sender, op.PoolID, amount)
		if err != nil {
			return res, err
		}
		res.PoolID, res.AmountX, res.AmountY = op.PoolID, x.String(), y.String()
		return res, nil

	case OpSwap:
		expected, err := parseAmount("expected_output", op.ExpectedOutput)
		if err != nil {
			return res, err
		}
		out, err := app.DexKeeper.Swap(ctx, sender, dextypes.SwapRequest{
			PoolID:             op.PoolID,
			InputAsset:         op.Asset,
			InputAmount:        amount,
			OutputAsset:        op.OutputAsset,
			ExpectedOutput:     expected,
			MaxSlippagePercent: op.MaxSlippage,
			Deadline:           op.Deadline,
		})
		if err != nil {
			return res, err
		}
		res.PoolID, res.Output = op.PoolID, out.String()
		return res, nil

	default:
		return res, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func (app *App) recipient(op Operation, sender sdk.AccAddress) (sdk.AccAddress, error) {
	if op.Recipient == "" {
		return sender, nil
	}
	to, err := ResolveAddress(op.Recipient)
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	return to, nil
}

func (op Operation) pairAmounts() (math.Int, math.Int, error) {
	x, err := parseAmount("amount_x", op.AmountX)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	y, err := parseAmount("amount_y", op.AmountY)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return x, y, nil
}
