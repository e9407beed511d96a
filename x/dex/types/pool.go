package types

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
)

// PoolID identifies a pool. Ids start at 1.
type PoolID uint32

const (
	// FirstPoolID is the id allocated to the first pool.
	FirstPoolID PoolID = 1

	// MaxPoolID is the largest id whose LP asset fits the share token range.
	MaxPoolID = PoolID(assetstypes.LPAssetIDBase - 1)
)

func (id PoolID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Bytes returns the big-endian encoding of id.
func (id PoolID) Bytes() []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, uint32(id))
	return bz
}

// ParsePoolID parses a decimal pool id.
func ParsePoolID(s string) (PoolID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid pool id %q: %w", s, err)
	}
	return PoolID(v), nil
}

// CustodyAddress derives the keyless account holding a pool's reserves.
func CustodyAddress(id PoolID) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, []byte("pool"), id.Bytes()))
}

// LPAssetID derives the share token id of a pool.
func LPAssetID(id PoolID) assetstypes.AssetID {
	return assetstypes.LPAssetIDBase | assetstypes.AssetID(id)
}

// Pool is the persisted record of a liquidity pool. Reserves are not part
// of it; they are the custody account's ledger balances.
type Pool struct {
	ID             PoolID              `json:"id"`
	CustodyAccount sdk.AccAddress      `json:"custody_account"`
	AssetX         assetstypes.AssetID `json:"asset_x"`
	AssetY         assetstypes.AssetID `json:"asset_y"`
	LPAsset        assetstypes.AssetID `json:"lp_asset"`
	KAtCreation    math.Int            `json:"k_at_creation"`
}

// NewPool builds the record for a freshly allocated id.
func NewPool(id PoolID, assetX, assetY assetstypes.AssetID, kAtCreation math.Int) Pool {
	return Pool{
		ID:             id,
		CustodyAccount: CustodyAddress(id),
		AssetX:         assetX,
		AssetY:         assetY,
		LPAsset:        LPAssetID(id),
		KAtCreation:    kAtCreation,
	}
}

// HasAsset reports whether asset is one side of the pool.
func (p Pool) HasAsset(asset assetstypes.AssetID) bool {
	return asset == p.AssetX || asset == p.AssetY
}

// Validate performs stateless checks.
func (p Pool) Validate() error {
	if p.ID < FirstPoolID || p.ID > MaxPoolID {
		return fmt.Errorf("pool id %d out of range", p.ID)
	}
	if p.AssetX == p.AssetY {
		return ErrDuplicateAssetID.Wrapf("pool %d pairs asset %d with itself", p.ID, p.AssetX)
	}
	if !p.CustodyAccount.Equals(CustodyAddress(p.ID)) {
		return fmt.Errorf("pool %d custody account %s is not derived from its id", p.ID, p.CustodyAccount)
	}
	if p.LPAsset != LPAssetID(p.ID) {
		return fmt.Errorf("pool %d lp asset %d is not derived from its id", p.ID, p.LPAsset)
	}
	if p.KAtCreation.IsNil() || p.KAtCreation.IsNegative() {
		return fmt.Errorf("pool %d has negative k", p.ID)
	}
	return nil
}

// Marshal encodes the record as id | x | y | lp | custody len | custody | k.
func (p Pool) Marshal() ([]byte, error) {
	if len(p.CustodyAccount) > address.MaxAddrLen {
		return nil, fmt.Errorf("pool %d custody address too long: %d bytes", p.ID, len(p.CustodyAccount))
	}
	k := p.KAtCreation
	if k.IsNil() {
		k = math.ZeroInt()
	}
	kBz, err := k.Marshal()
	if err != nil {
		return nil, err
	}
	bz := make([]byte, 0, 17+len(p.CustodyAccount)+len(kBz))
	bz = binary.BigEndian.AppendUint32(bz, uint32(p.ID))
	bz = binary.BigEndian.AppendUint32(bz, uint32(p.AssetX))
	bz = binary.BigEndian.AppendUint32(bz, uint32(p.AssetY))
	bz = binary.BigEndian.AppendUint32(bz, uint32(p.LPAsset))
	bz = append(bz, byte(len(p.CustodyAccount)))
	bz = append(bz, p.CustodyAccount...)
	return append(bz, kBz...), nil
}

// Unmarshal decodes a record written by Marshal.
func (p *Pool) Unmarshal(bz []byte) error {
	if len(bz) < 17 {
		return fmt.Errorf("pool record too short: %d bytes", len(bz))
	}
	p.ID = PoolID(binary.BigEndian.Uint32(bz[0:4]))
	p.AssetX = assetstypes.AssetID(binary.BigEndian.Uint32(bz[4:8]))
	p.AssetY = assetstypes.AssetID(binary.BigEndian.Uint32(bz[8:12]))
	p.LPAsset = assetstypes.AssetID(binary.BigEndian.Uint32(bz[12:16]))
	n := int(bz[16])
	if len(bz) < 17+n {
		return fmt.Errorf("pool record custody account truncated")
	}
	p.CustodyAccount = sdk.AccAddress(append([]byte{}, bz[17:17+n]...))
	p.KAtCreation = math.ZeroInt()
	return p.KAtCreation.Unmarshal(bz[17+n:])
}
