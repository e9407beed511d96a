package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// NativeConfig describes the chain's base currency.
type NativeConfig struct {
	Denom              string   `mapstructure:"denom" json:"denom"`
	Symbol             string   `mapstructure:"symbol" json:"symbol"`
	Decimals           uint8    `mapstructure:"decimals" json:"decimals"`
	ExistentialDeposit math.Int `mapstructure:"-" json:"existential_deposit"`
}

// DefaultNativeConfig returns the SGB defaults.
func DefaultNativeConfig() NativeConfig {
	return NativeConfig{
		Denom:              "usgb",
		Symbol:             "SGB",
		Decimals:           10,
		ExistentialDeposit: math.ZeroInt(),
	}
}

// Validate performs stateless checks.
func (c NativeConfig) Validate() error {
	if err := sdk.ValidateDenom(c.Denom); err != nil {
		return fmt.Errorf("invalid native denom: %w", err)
	}
	if c.Symbol == "" {
		return fmt.Errorf("native symbol cannot be empty")
	}
	if c.ExistentialDeposit.IsNil() || c.ExistentialDeposit.IsNegative() {
		return fmt.Errorf("existential deposit must be non-negative")
	}
	return nil
}
