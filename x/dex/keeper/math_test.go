package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/subgame-network/subgame/x/dex/keeper"
	"github.com/subgame-network/subgame/x/dex/types"
)

func TestInitialLiquidity(t *testing.T) {
	tests := []struct {
		name       string
		x, y       math.Int
		decX, decY uint8
		want       math.Int
	}{
		{"usdt against native", math.NewInt(1_000_000), math.NewInt(110_000_000_000), 6, 10, math.NewInt(3_316_624)},
		{"equal decimals one to one", math.NewInt(1_000_000), math.NewInt(1_000_000), 6, 6, math.NewInt(1_000_000)},
		{"four to one", math.NewInt(4_000_000), math.NewInt(1_000_000), 6, 6, math.NewInt(2_000_000)},
		{"dust floors to zero", math.OneInt(), math.OneInt(), 10, 10, math.ZeroInt()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := keeper.InitialLiquidity(tc.x, tc.y, tc.decX, tc.decY)
			require.NoError(t, err)
			require.Equal(t, tc.want.String(), got.String())
		})
	}
}

func TestLiquidityToMint(t *testing.T) {
	x := math.NewInt(1_000_000)
	y := math.NewInt(110_000_000_000)
	s := math.NewInt(3_316_624)

	tests := []struct {
		name    string
		dx, dy  math.Int
		x, y, s math.Int
		want    math.Int
		err     error
	}{
		{"exact double", math.NewInt(2_000_000), math.NewInt(220_000_000_000), x, y, s, math.NewInt(6_633_248), nil},
		{"excess on y side", x, y.AddRaw(5), x, y, s, s, nil},
		{"x side decides", math.NewInt(13_449_169_291), math.NewInt(1_000_000), math.NewInt(338_520_327_881_663), math.NewInt(25_170_352_201), math.NewInt(145_856_159_058_418), math.NewInt(5_794_760_354), nil},
		{"y side decides", math.NewInt(1_000_000), math.NewInt(110_866_153_481), math.NewInt(267_148_620), math.NewInt(29_617_744_175_575), math.NewInt(925_091_992), math.NewInt(3_462_835), nil},
		{"x off by one", x.AddRaw(1), y, x, y, s, math.Int{}, types.ErrLiquidityRatioMismatch},
		{"dust", math.OneInt(), math.OneInt(), x, y, s, math.Int{}, types.ErrLiquidityRatioMismatch},
		{"empty supply averages", math.NewInt(10), math.NewInt(31), x, y, math.ZeroInt(), math.NewInt(20), nil},
		{"supply without reserves", x, y, math.ZeroInt(), y, s, math.Int{}, types.ErrNotEnoughLiquidity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := keeper.LiquidityToMint(tc.dx, tc.dy, tc.x, tc.y, tc.s)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want.String(), got.String())
		})
	}
}

func TestRedeemAmounts(t *testing.T) {
	dx, dy, err := keeper.RedeemAmounts(math.NewInt(1_658_312), math.NewInt(1_000_000), math.NewInt(110_000_000_000), math.NewInt(3_316_624))
	require.NoError(t, err)
	require.Equal(t, "500000", dx.String())
	require.Equal(t, "55000000000", dy.String())

	dx, _, err = keeper.RedeemAmounts(math.OneInt(), math.NewInt(1_000_000), math.NewInt(110_000_000_000), math.NewInt(3_316_624))
	require.NoError(t, err)
	require.True(t, dx.IsZero())

	_, _, err = keeper.RedeemAmounts(math.OneInt(), math.OneInt(), math.OneInt(), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrNotEnoughLiquidity)
}

func TestSwapOutput(t *testing.T) {
	tests := []struct {
		name          string
		in, rIn, rOut math.Int
		want          math.Int
		err           error
	}{
		{"usdt into native", math.NewInt(1_000_000), math.NewInt(1_000_000), math.NewInt(110_000_000_000), math.NewInt(54_917_376_064), nil},
		{"native into usdt", math.NewInt(10_000_000_000), math.NewInt(110_000_000_000), math.NewInt(1_000_000), math.NewInt(83_104), nil},
		{"fee eats a single unit", math.OneInt(), math.NewInt(1_000), math.NewInt(1_000), math.ZeroInt(), nil},
		{"empty input reserve", math.OneInt(), math.ZeroInt(), math.NewInt(1_000), math.Int{}, types.ErrNotEnoughLiquidity},
		{"empty output reserve", math.OneInt(), math.NewInt(1_000), math.ZeroInt(), math.Int{}, types.ErrNotEnoughLiquidity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := keeper.SwapOutput(tc.in, tc.rIn, tc.rOut)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want.String(), got.String())
		})
	}
}

func TestWithinSlippage(t *testing.T) {
	actual := math.NewInt(54_917_376_064)

	require.True(t, keeper.WithinSlippage(math.NewInt(55_000_000_000), actual, 1))
	require.False(t, keeper.WithinSlippage(math.NewInt(60_000_000_000), actual, 5))
	require.True(t, keeper.WithinSlippage(math.NewInt(60_000_000_000), actual, 10))
	require.True(t, keeper.WithinSlippage(math.NewInt(100), math.NewInt(100), 1))
	require.True(t, keeper.WithinSlippage(math.OneInt(), actual, 0))
	// Overshooting the quote counts as deviation too.
	require.False(t, keeper.WithinSlippage(math.NewInt(100), math.NewInt(102), 1))
}

func TestSafeMulOverflow(t *testing.T) {
	big200 := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 200))

	_, err := keeper.SafeMul(big200, big200)
	require.ErrorIs(t, err, types.ErrAmountOverflow)

	got, err := keeper.SafeMul(math.NewInt(3), math.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, int64(21), got.Int64())

	_, err = keeper.SafeMulDiv(math.OneInt(), math.OneInt(), math.ZeroInt())
	require.Error(t, err)
}

func TestProductNotDecreased(t *testing.T) {
	require.True(t, keeper.ProductNotDecreased(math.NewInt(1_000_000), math.NewInt(110_000_000_000), math.NewInt(1_000_000), math.NewInt(54_917_376_064)))
	// Taking the fee-free output would break the product.
	require.False(t, keeper.ProductNotDecreased(math.NewInt(1_000), math.NewInt(1_000), math.NewInt(1_000), math.NewInt(501)))
}
