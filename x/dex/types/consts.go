package types

// Trading fee is FeeNumerator / FeeDenominator of the input amount.
const (
	FeeNumerator   = 3
	FeeDenominator = 1000
)

// LP share tokens carry LPDecimals decimals.
const LPDecimals uint8 = 6

// LPMinBalance is the minimum non-zero LP balance an account may hold.
const LPMinBalance = 1

// LPMaxHolders caps LP holders; zero leaves them unbounded.
const LPMaxHolders uint32 = 0
