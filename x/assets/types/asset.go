package types

import (
	"encoding/binary"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// ExistencePolicy controls whether a native transfer may drain the sender
// below the existential deposit.
type ExistencePolicy uint8

const (
	// KeepAlive rejects transfers that would leave the sender below the
	// existential deposit.
	KeepAlive ExistencePolicy = iota
	// AllowDeath lets the sender balance reach zero.
	AllowDeath
)

func (p ExistencePolicy) String() string {
	if p == AllowDeath {
		return "allow_death"
	}
	return "keep_alive"
}

// AssetInfo is the registry entry of a ledger asset.
type AssetInfo struct {
	ID AssetID `json:"id"`
	// Owner is the only account allowed to mint, burn or set metadata.
	Owner sdk.AccAddress `json:"owner"`
	// MaxHolders caps the number of accounts with a positive balance. Zero is unbounded.
	MaxHolders uint32   `json:"max_holders"`
	MinBalance math.Int `json:"min_balance"`
}

// Validate performs stateless checks.
func (a AssetInfo) Validate() error {
	if a.ID.IsNative() {
		return ErrReservedAssetID.Wrap("asset 0 is the native coin")
	}
	if err := sdk.VerifyAddressFormat(a.Owner); err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}
	if a.MinBalance.IsNil() || a.MinBalance.IsNegative() {
		return ErrInvalidAmount.Wrap("min balance must be non-negative")
	}
	return nil
}

// Marshal encodes the entry as id | max holders | owner len | owner | min balance.
func (a AssetInfo) Marshal() ([]byte, error) {
	if len(a.Owner) > address.MaxAddrLen {
		return nil, fmt.Errorf("asset %d owner address too long: %d bytes", a.ID, len(a.Owner))
	}
	minBz, err := a.MinBalance.Marshal()
	if err != nil {
		return nil, err
	}
	bz := make([]byte, 0, 9+len(a.Owner)+len(minBz))
	bz = binary.BigEndian.AppendUint32(bz, uint32(a.ID))
	bz = binary.BigEndian.AppendUint32(bz, a.MaxHolders)
	bz = append(bz, byte(len(a.Owner)))
	bz = append(bz, a.Owner...)
	return append(bz, minBz...), nil
}

// Unmarshal decodes an entry written by Marshal.
func (a *AssetInfo) Unmarshal(bz []byte) error {
	if len(bz) < 9 {
		return fmt.Errorf("asset info too short: %d bytes", len(bz))
	}
	a.ID = AssetID(binary.BigEndian.Uint32(bz[0:4]))
	a.MaxHolders = binary.BigEndian.Uint32(bz[4:8])
	n := int(bz[8])
	if len(bz) < 9+n {
		return fmt.Errorf("asset info owner truncated")
	}
	a.Owner = sdk.AccAddress(append([]byte{}, bz[9:9+n]...))
	a.MinBalance = math.ZeroInt()
	return a.MinBalance.Unmarshal(bz[9+n:])
}

// Metadata is the human-facing description of an asset.
type Metadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Validate performs stateless checks.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrInvalidMetadata.Wrap("name cannot be empty")
	}
	if strings.TrimSpace(m.Symbol) == "" {
		return ErrInvalidMetadata.Wrap("symbol cannot be empty")
	}
	if m.Decimals > 36 {
		return ErrInvalidMetadata.Wrapf("decimals %d exceed 36", m.Decimals)
	}
	return nil
}

// ToBankMetadata converts m into bank denom metadata for the asset's denom.
// The display unit carries the decimal exponent.
func (m Metadata) ToBankMetadata(id AssetID) banktypes.Metadata {
	base := id.Denom()
	display := strings.ToLower(m.Symbol)
	units := []*banktypes.DenomUnit{{Denom: base, Exponent: 0}}
	if display != base {
		units = append(units, &banktypes.DenomUnit{Denom: display, Exponent: uint32(m.Decimals)})
	}
	return banktypes.Metadata{
		Description: m.Name,
		DenomUnits:  units,
		Base:        base,
		Display:     display,
		Name:        m.Name,
		Symbol:      m.Symbol,
	}
}

// MetadataFromBank reads Metadata back out of bank denom metadata.
func MetadataFromBank(md banktypes.Metadata) (Metadata, bool) {
	for _, unit := range md.DenomUnits {
		if unit != nil && unit.Denom == md.Display {
			return Metadata{Name: md.Name, Symbol: md.Symbol, Decimals: uint8(unit.Exponent)}, true
		}
	}
	return Metadata{}, false
}
