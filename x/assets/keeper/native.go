package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/subgame-network/subgame/x/assets/types"
)

// NativeKeeper exposes the base currency with existential-deposit semantics.
type NativeKeeper struct {
	bankKeeper types.BankKeeper
	config     types.NativeConfig
}

// Denom returns the bank denom of the base currency.
func (n NativeKeeper) Denom() string { return n.config.Denom }

// Config returns the base currency configuration.
func (n NativeKeeper) Config() types.NativeConfig { return n.config }

// FreeBalance returns the spendable base currency of addr.
func (n NativeKeeper) FreeBalance(ctx context.Context, addr sdk.AccAddress) math.Int {
	return n.bankKeeper.SpendableCoin(ctx, addr, n.config.Denom).Amount
}

// Transfer moves base currency between accounts. KeepAlive refuses to leave
// the sender below the existential deposit.
func (n NativeKeeper) Transfer(ctx context.Context, from, to sdk.AccAddress, amount math.Int, policy types.ExistencePolicy) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("transfer amount %s", amount)
	}
	free := n.FreeBalance(ctx, from)
	if free.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf("%s has %s%s, needs %s", from, free, n.config.Denom, amount)
	}
	ed := n.config.ExistentialDeposit
	if policy == types.KeepAlive && free.Sub(amount).LT(ed) {
		return types.ErrKeepAlive.Wrapf("%s would keep %s, existential deposit is %s", from, free.Sub(amount), ed)
	}
	toAfter := n.bankKeeper.GetBalance(ctx, to, n.config.Denom).Amount.Add(amount)
	if toAfter.LT(ed) {
		return types.ErrBelowMinBalance.Wrapf("%s would hold %s, existential deposit is %s", to, toAfter, ed)
	}

	if err := n.bankKeeper.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewCoin(n.config.Denom, amount))); err != nil {
		return fmt.Errorf("send native: %w", err)
	}
	return nil
}

// Mint issues new base currency to addr. Used for genesis and faucet funding.
func (n NativeKeeper) Mint(ctx context.Context, to sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("mint amount %s", amount)
	}
	coins := sdk.NewCoins(sdk.NewCoin(n.config.Denom, amount))
	if err := n.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return fmt.Errorf("mint native: %w", err)
	}
	if err := n.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
		return fmt.Errorf("deliver minted native: %w", err)
	}
	return nil
}
