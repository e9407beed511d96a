package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/subgame-network/subgame/x/assets/types"
)

// ValidateUserAssetID rejects ids reserved for the native coin and pool share tokens.
func ValidateUserAssetID(id types.AssetID) error {
	if id.IsNative() {
		return types.ErrReservedAssetID.Wrap("asset 0 is the native coin")
	}
	if id.IsLP() {
		return types.ErrReservedAssetID.Wrapf("asset %d is in the pool share range", id)
	}
	return nil
}

// CreateAsset registers a new asset owned by owner.
func (k Keeper) CreateAsset(ctx context.Context, id types.AssetID, owner sdk.AccAddress, maxHolders uint32, minBalance math.Int) error {
	info := types.AssetInfo{ID: id, Owner: owner, MaxHolders: maxHolders, MinBalance: minBalance}
	if err := info.Validate(); err != nil {
		return err
	}
	if _, found := k.GetAsset(ctx, id); found {
		return types.ErrAssetExists.Wrapf("asset %d", id)
	}
	if err := k.setAsset(ctx, info); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetCreated,
			sdk.NewAttribute(types.AttributeKeyAssetID, id.String()),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyMaxHolders, fmt.Sprintf("%d", maxHolders)),
			sdk.NewAttribute(types.AttributeKeyMinBalance, minBalance.String()),
		),
	)
	return nil
}

// SetMetadata stores name, symbol and decimals for id. Only the owner may call it.
func (k Keeper) SetMetadata(ctx context.Context, owner sdk.AccAddress, id types.AssetID, name, symbol string, decimals uint8) error {
	info, found := k.GetAsset(ctx, id)
	if !found {
		return types.ErrAssetNotFound.Wrapf("asset %d", id)
	}
	if !info.Owner.Equals(owner) {
		return types.ErrUnauthorized.Wrapf("asset %d owned by %s", id, info.Owner)
	}
	md := types.Metadata{Name: name, Symbol: symbol, Decimals: decimals}
	if err := md.Validate(); err != nil {
		return err
	}
	k.bankKeeper.SetDenomMetaData(ctx, md.ToBankMetadata(id))

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMetadataSet,
			sdk.NewAttribute(types.AttributeKeyAssetID, id.String()),
			sdk.NewAttribute(types.AttributeKeyName, name),
			sdk.NewAttribute(types.AttributeKeySymbol, symbol),
			sdk.NewAttribute(types.AttributeKeyDecimals, fmt.Sprintf("%d", decimals)),
		),
	)
	return nil
}

// Metadata returns the metadata of a registered asset.
func (k Keeper) Metadata(ctx context.Context, id types.AssetID) (types.Metadata, error) {
	if _, found := k.GetAsset(ctx, id); !found {
		return types.Metadata{}, types.ErrAssetNotFound.Wrapf("asset %d", id)
	}
	bankMd, found := k.bankKeeper.GetDenomMetaData(ctx, id.Denom())
	if !found {
		return types.Metadata{}, types.ErrMetadataNotFound.Wrapf("asset %d", id)
	}
	md, ok := types.MetadataFromBank(bankMd)
	if !ok {
		return types.Metadata{}, types.ErrMetadataNotFound.Wrapf("asset %d has no display unit", id)
	}
	return md, nil
}

// Balance returns the balance of id held by addr.
func (k Keeper) Balance(ctx context.Context, id types.AssetID, addr sdk.AccAddress) math.Int {
	return k.bankKeeper.GetBalance(ctx, addr, id.Denom()).Amount
}

// TotalSupply returns the circulating supply of id.
func (k Keeper) TotalSupply(ctx context.Context, id types.AssetID) math.Int {
	return k.bankKeeper.GetSupply(ctx, id.Denom()).Amount
}

// Transfer moves amount of id from one account to another.
func (k Keeper) Transfer(ctx context.Context, from sdk.AccAddress, id types.AssetID, to sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("transfer amount %s", amount)
	}
	info, found := k.GetAsset(ctx, id)
	if !found {
		return types.ErrAssetNotFound.Wrapf("asset %d", id)
	}
	if from.Equals(to) {
		return nil
	}

	fromBal := k.Balance(ctx, id, from)
	if fromBal.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf("%s has %s of asset %d, needs %s", from, fromBal, id, amount)
	}
	toBal := k.Balance(ctx, id, to)
	fromAfter := fromBal.Sub(amount)
	toAfter := toBal.Add(amount)
	if err := checkMinBalance(info, fromAfter); err != nil {
		return err
	}
	if err := checkMinBalance(info, toAfter); err != nil {
		return err
	}
	if err := k.checkHolderCap(ctx, info, toBal, fromAfter); err != nil {
		return err
	}

	if err := k.bankKeeper.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewCoin(id.Denom(), amount))); err != nil {
		return fmt.Errorf("send asset %d: %w", id, err)
	}
	k.trackHolders(ctx, id, fromBal, fromAfter)
	k.trackHolders(ctx, id, toBal, toAfter)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetTransfer,
			sdk.NewAttribute(types.AttributeKeyAssetID, id.String()),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Mint creates amount of id for to. authority must own the asset.
func (k Keeper) Mint(ctx context.Context, authority sdk.AccAddress, id types.AssetID, to sdk.AccAddress, amount math.Int) error {
	info, found := k.GetAsset(ctx, id)
	if !found {
		return types.ErrAssetNotFound.Wrapf("asset %d", id)
	}
	if !info.Owner.Equals(authority) {
		return types.ErrUnauthorized.Wrapf("asset %d owned by %s", id, info.Owner)
	}
	return k.mint(ctx, info, to, amount)
}

func (k Keeper) mint(ctx context.Context, info types.AssetInfo, to sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("mint amount %s", amount)
	}
	toBal := k.Balance(ctx, info.ID, to)
	toAfter := toBal.Add(amount)
	if err := checkMinBalance(info, toAfter); err != nil {
		return err
	}
	if err := k.checkHolderCap(ctx, info, toBal, math.OneInt()); err != nil {
		return err
	}

	coins := sdk.NewCoins(sdk.NewCoin(info.ID.Denom(), amount))
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return fmt.Errorf("mint asset %d: %w", info.ID, err)
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
		return fmt.Errorf("deliver minted asset %d: %w", info.ID, err)
	}
	k.trackHolders(ctx, info.ID, toBal, toAfter)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetMinted,
			sdk.NewAttribute(types.AttributeKeyAssetID, info.ID.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Burn destroys amount of id held by from. authority must own the asset.
func (k Keeper) Burn(ctx context.Context, authority sdk.AccAddress, id types.AssetID, from sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("burn amount %s", amount)
	}
	info, found := k.GetAsset(ctx, id)
	if !found {
		return types.ErrAssetNotFound.Wrapf("asset %d", id)
	}
	if !info.Owner.Equals(authority) {
		return types.ErrUnauthorized.Wrapf("asset %d owned by %s", id, info.Owner)
	}
	fromBal := k.Balance(ctx, id, from)
	if fromBal.LT(amount) {
		return types.ErrInsufficientFunds.Wrapf("%s has %s of asset %d, burning %s", from, fromBal, id, amount)
	}
	fromAfter := fromBal.Sub(amount)
	if err := checkMinBalance(info, fromAfter); err != nil {
		return err
	}

	coins := sdk.NewCoins(sdk.NewCoin(id.Denom(), amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, from, types.ModuleName, coins); err != nil {
		return fmt.Errorf("collect asset %d for burn: %w", id, err)
	}
	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, coins); err != nil {
		return fmt.Errorf("burn asset %d: %w", id, err)
	}
	k.trackHolders(ctx, id, fromBal, fromAfter)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetBurned,
			sdk.NewAttribute(types.AttributeKeyAssetID, id.String()),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// checkMinBalance requires a non-zero balance to reach the asset minimum.
func checkMinBalance(info types.AssetInfo, after math.Int) error {
	if after.IsPositive() && after.LT(info.MinBalance) {
		return types.ErrBelowMinBalance.Wrapf("asset %d balance %s below minimum %s", info.ID, after, info.MinBalance)
	}
	return nil
}

// checkHolderCap rejects a movement that would add a holder to a full asset.
// senderAfter is the sender's resulting balance, zero when the sender leaves.
func (k Keeper) checkHolderCap(ctx context.Context, info types.AssetInfo, recipientBefore, senderAfter math.Int) error {
	if info.MaxHolders == 0 || recipientBefore.IsPositive() {
		return nil
	}
	holders := k.Holders(ctx, info.ID)
	if senderAfter.IsZero() && holders > 0 {
		holders--
	}
	if holders >= info.MaxHolders {
		return types.ErrTooManyHolders.Wrapf("asset %d has %d holders", info.ID, info.MaxHolders)
	}
	return nil
}

func (k Keeper) trackHolders(ctx context.Context, id types.AssetID, before, after math.Int) {
	n := k.Holders(ctx, id)
	switch {
	case before.IsZero() && after.IsPositive():
		k.setHolders(ctx, id, n+1)
	case before.IsPositive() && after.IsZero() && n > 0:
		k.setHolders(ctx, id, n-1)
	}
}
