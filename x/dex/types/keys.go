package types

import (
	"encoding/binary"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "dex"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	PoolKeyPrefix     = []byte{0x01} // prefix for pool records
	PoolCountKey      = []byte{0x02} // key for the next pool id
	SwapPairKeyPrefix = []byte{0x03} // prefix for the pair index, both orderings
)

// GetPoolKey returns the store key for a pool
func GetPoolKey(id PoolID) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), id.Bytes()...)
}

// GetSwapPairKey returns the pair index key for the ordered pair (a, b)
func GetSwapPairKey(a, b assetstypes.AssetID) []byte {
	key := make([]byte, 0, len(SwapPairKeyPrefix)+8)
	key = append(key, SwapPairKeyPrefix...)
	key = binary.BigEndian.AppendUint32(key, uint32(a))
	return binary.BigEndian.AppendUint32(key, uint32(b))
}

// ParseSwapPairKey splits a pair index key back into its two asset ids
func ParseSwapPairKey(key []byte) (a, b assetstypes.AssetID, ok bool) {
	if len(key) != len(SwapPairKeyPrefix)+8 {
		return 0, 0, false
	}
	rest := key[len(SwapPairKeyPrefix):]
	return assetstypes.AssetID(binary.BigEndian.Uint32(rest[:4])), assetstypes.AssetID(binary.BigEndian.Uint32(rest[4:])), true
}
