package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	// ModuleName defines the module name
	ModuleName = "assets"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// DenomPrefix is the bank denom namespace for ledger assets.
	DenomPrefix = "asset/"
)

// Store key prefixes
var (
	AssetInfoKeyPrefix   = []byte{0x01} // prefix for asset registry entries
	HolderCountKeyPrefix = []byte{0x02} // prefix for per-asset holder counters
)

// AssetID identifies a fungible asset on the ledger. Zero is the native coin.
type AssetID uint32

const (
	// NativeAssetID is the reserved id of the chain's base currency.
	NativeAssetID AssetID = 0

	// LPAssetIDBase marks the id range reserved for pool share tokens.
	LPAssetIDBase AssetID = 1 << 31
)

// IsNative reports whether id refers to the base currency.
func (id AssetID) IsNative() bool { return id == NativeAssetID }

// IsLP reports whether id falls in the pool share token range.
func (id AssetID) IsLP() bool { return id&LPAssetIDBase != 0 }

func (id AssetID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Denom returns the bank denom backing a ledger asset.
func (id AssetID) Denom() string { return DenomPrefix + id.String() }

// Bytes returns the big-endian encoding of id.
func (id AssetID) Bytes() []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, uint32(id))
	return bz
}

// ParseAssetID parses a decimal asset id.
func ParseAssetID(s string) (AssetID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid asset id %q: %w", s, err)
	}
	return AssetID(v), nil
}

// AssetIDFromDenom reverses Denom.
func AssetIDFromDenom(denom string) (AssetID, bool) {
	if !strings.HasPrefix(denom, DenomPrefix) {
		return 0, false
	}
	id, err := ParseAssetID(strings.TrimPrefix(denom, DenomPrefix))
	if err != nil {
		return 0, false
	}
	return id, true
}

// GetAssetInfoKey returns the store key for an asset registry entry
func GetAssetInfoKey(id AssetID) []byte {
	return append(append([]byte{}, AssetInfoKeyPrefix...), id.Bytes()...)
}

// GetHolderCountKey returns the store key for an asset's holder counter
func GetHolderCountKey(id AssetID) []byte {
	return append(append([]byte{}, HolderCountKeyPrefix...), id.Bytes()...)
}
