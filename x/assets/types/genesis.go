package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisAsset is a registered asset together with its metadata.
type GenesisAsset struct {
	Info     AssetInfo `json:"info"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// GenesisBalance is one account balance of one asset. Asset 0 is the native coin.
type GenesisBalance struct {
	Address sdk.AccAddress `json:"address"`
	AssetID AssetID        `json:"asset_id"`
	Amount  math.Int       `json:"amount"`
}

// GenesisState defines the asset ledger's genesis state.
type GenesisState struct {
	Assets   []GenesisAsset   `json:"assets"`
	Balances []GenesisBalance `json:"balances"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Assets:   []GenesisAsset{},
		Balances: []GenesisBalance{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	known := make(map[AssetID]bool, len(gs.Assets))
	for _, a := range gs.Assets {
		if err := a.Info.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("asset %d: %v", a.Info.ID, err)
		}
		if known[a.Info.ID] {
			return ErrInvalidGenesis.Wrapf("duplicate asset %d", a.Info.ID)
		}
		known[a.Info.ID] = true
		if a.Metadata != nil {
			if err := a.Metadata.Validate(); err != nil {
				return ErrInvalidGenesis.Wrapf("asset %d metadata: %v", a.Info.ID, err)
			}
		}
	}

	for i, b := range gs.Balances {
		if err := sdk.VerifyAddressFormat(b.Address); err != nil {
			return ErrInvalidGenesis.Wrapf("balance %d: %v", i, err)
		}
		if b.Amount.IsNil() || !b.Amount.IsPositive() {
			return ErrInvalidGenesis.Wrapf("balance %d: amount must be positive", i)
		}
		if !b.AssetID.IsNative() && !known[b.AssetID] {
			return ErrInvalidGenesis.Wrap(fmt.Sprintf("balance %d: unknown asset %d", i, b.AssetID))
		}
	}
	return nil
}
