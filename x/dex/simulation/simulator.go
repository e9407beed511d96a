package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/types"
)

// Funder credits accounts with native coins.
type Funder interface {
	Mint(ctx context.Context, to sdk.AccAddress, amount math.Int) error
}

// SetupState registers numAssets random assets owned by the first account
// and funds every account with each of them and with native coins. It
// returns the tradable asset ids, native included.
func SetupState(
	r *rand.Rand,
	ctx sdk.Context,
	ak types.AssetKeeper,
	funder Funder,
	accs []simtypes.Account,
	numAssets int,
) ([]assetstypes.AssetID, error) {
	if len(accs) == 0 {
		return nil, fmt.Errorf("no simulation accounts")
	}
	owner := accs[0].Address

	assets := []assetstypes.AssetID{assetstypes.NativeAssetID}
	for i := 1; i <= numAssets; i++ {
		id := assetstypes.AssetID(i)
		if err := ak.CreateAsset(ctx, id, owner, 0, math.OneInt()); err != nil {
			return nil, err
		}
		symbol := simtypes.RandStringOfLength(r, 4)
		decimals := uint8(simtypes.RandIntBetween(r, 0, 13))
		if err := ak.SetMetadata(ctx, owner, id, "sim "+symbol, symbol, decimals); err != nil {
			return nil, err
		}
		assets = append(assets, id)
	}

	for _, acc := range accs {
		for _, id := range assets[1:] {
			amount := math.NewInt(int64(simtypes.RandIntBetween(r, 1_000_000, 1_000_000_000)))
			if err := ak.Mint(ctx, owner, id, acc.Address, amount); err != nil {
				return nil, err
			}
		}
		native := math.NewInt(int64(simtypes.RandIntBetween(r, 1_000_000, 1_000_000_000)))
		if err := funder.Mint(ctx, acc.Address, native); err != nil {
			return nil, err
		}
	}
	return assets, nil
}

// Stats counts simulated operations by name.
type Stats struct {
	OK      map[string]int
	Skipped map[string]int
}

// NewStats returns empty counters.
func NewStats() Stats {
	return Stats{OK: map[string]int{}, Skipped: map[string]int{}}
}

// Record counts msg.
func (s Stats) Record(msg OperationMsg) {
	if msg.OK {
		s.OK[msg.Name]++
	} else {
		s.Skipped[msg.Name]++
	}
}

// Total returns the number of recorded operations.
func (s Stats) Total() int {
	n := 0
	for _, c := range s.OK {
		n += c
	}
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Names returns every recorded operation name, sorted.
func (s Stats) Names() []string {
	seen := map[string]bool{}
	for name := range s.OK {
		seen[name] = true
	}
	for name := range s.Skipped {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunOperations picks n operations by weight and runs them in order.
func RunOperations(r *rand.Rand, ctx sdk.Context, ops []WeightedOperation, accs []simtypes.Account, n int, stats Stats) {
	total := 0
	for _, op := range ops {
		total += op.Weight
	}
	if total == 0 {
		return
	}

	for i := 0; i < n; i++ {
		pick := r.Intn(total)
		for _, op := range ops {
			if pick < op.Weight {
				stats.Record(op.Op(r, ctx, accs))
				break
			}
			pick -= op.Weight
		}
	}
}
