package keeper

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"

	"github.com/subgame-network/subgame/x/dex/types"
)

// Integer pool math. Every quotient is floored and every product is taken
// before the division it feeds.

var maxInt256 = new(big.Int).Lsh(big.NewInt(1), 256)

func toInt(v *big.Int) (math.Int, error) {
	if v.Sign() < 0 || v.Cmp(maxInt256) >= 0 {
		return math.Int{}, types.ErrAmountOverflow.Wrapf("result %s out of range", v)
	}
	return math.NewIntFromBigInt(v), nil
}

// SafeMul multiplies two math.Int values with overflow checking
func SafeMul(a, b math.Int) (math.Int, error) {
	return toInt(new(big.Int).Mul(a.BigInt(), b.BigInt()))
}

// SafeMulDiv returns floor(a * b / c).
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero")
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return toInt(product.Quo(product, c.BigInt()))
}

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// InitialLiquidity returns floor(sqrt(normX * normY) * LPScale) where norm is
// the raw amount over its decimal scale, computed exactly as
// isqrt(amountX * amountY * LPScale^2 / (10^decX * 10^decY)).
func InitialLiquidity(amountX, amountY math.Int, decX, decY uint8) (math.Int, error) {
	scale := pow10(types.LPDecimals)
	num := new(big.Int).Mul(amountX.BigInt(), amountY.BigInt())
	num.Mul(num, scale)
	num.Mul(num, scale)
	den := new(big.Int).Mul(pow10(decX), pow10(decY))
	num.Quo(num, den)
	return toInt(num.Sqrt(num))
}

// LiquidityToMint returns the LP amount owed for depositing dx and dy into a
// pool with reserves x, y and LP supply s. The deposit must match the pool
// ratio on at least one side after flooring; the x side wins a tie.
func LiquidityToMint(dx, dy, x, y, s math.Int) (math.Int, error) {
	if s.IsZero() {
		return dx.Add(dy).QuoRaw(2), nil
	}
	if x.IsZero() || y.IsZero() {
		return math.Int{}, types.ErrNotEnoughLiquidity.Wrap("pool has lp supply but an empty reserve")
	}

	mintFromX, err := SafeMulDiv(dx, s, x)
	if err != nil {
		return math.Int{}, err
	}
	mintFromY, err := SafeMulDiv(dy, s, y)
	if err != nil {
		return math.Int{}, err
	}
	wantDY, err := SafeMulDiv(mintFromX, y, s)
	if err != nil {
		return math.Int{}, err
	}
	wantDX, err := SafeMulDiv(mintFromY, x, s)
	if err != nil {
		return math.Int{}, err
	}

	switch {
	case wantDX.Equal(dx):
		return mintFromX, nil
	case wantDY.Equal(dy):
		return mintFromY, nil
	default:
		return math.Int{}, types.ErrLiquidityRatioMismatch.Wrapf(
			"deposit %s/%s against reserves %s/%s; matching deposits are %s/%s or %s/%s",
			dx, dy, x, y, dx, wantDY, wantDX, dy,
		)
	}
}

// RedeemAmounts returns floor(lp * x / s) and floor(lp * y / s).
func RedeemAmounts(lp, x, y, s math.Int) (dx, dy math.Int, err error) {
	if s.IsZero() {
		return math.Int{}, math.Int{}, types.ErrNotEnoughLiquidity.Wrap("pool has no lp supply")
	}
	if dx, err = SafeMulDiv(lp, x, s); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if dy, err = SafeMulDiv(lp, y, s); err != nil {
		return math.Int{}, math.Int{}, err
	}
	return dx, dy, nil
}

// SwapOutput returns floor(in * r * y / (x + in * r)) with r = 1 - fee,
// evaluated as in*997*y / (x*1000 + in*997).
func SwapOutput(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return math.Int{}, types.ErrNotEnoughLiquidity.Wrap("empty reserve")
	}
	inWithFee := new(big.Int).Mul(amountIn.BigInt(), big.NewInt(types.FeeDenominator-types.FeeNumerator))
	num := new(big.Int).Mul(inWithFee, reserveOut.BigInt())
	den := new(big.Int).Mul(reserveIn.BigInt(), big.NewInt(types.FeeDenominator))
	den.Add(den, inWithFee)
	return toInt(num.Quo(num, den))
}

// WithinSlippage reports whether actual deviates from expected by at most
// maxPercent percent. A zero maxPercent disables the check.
func WithinSlippage(expected, actual math.Int, maxPercent uint64) bool {
	if maxPercent == 0 {
		return true
	}
	diff := new(big.Int).Sub(expected.BigInt(), actual.BigInt())
	diff.Abs(diff)
	diff.Mul(diff, big.NewInt(100))
	limit := new(big.Int).Mul(expected.BigInt(), new(big.Int).SetUint64(maxPercent))
	return diff.Cmp(limit) <= 0
}

// ProductNotDecreased checks (x + in) * (y - out) >= x * y.
func ProductNotDecreased(x, y, in, out math.Int) bool {
	before := new(big.Int).Mul(x.BigInt(), y.BigInt())
	after := new(big.Int).Mul(new(big.Int).Add(x.BigInt(), in.BigInt()), new(big.Int).Sub(y.BigInt(), out.BigInt()))
	return after.Cmp(before) >= 0
}
