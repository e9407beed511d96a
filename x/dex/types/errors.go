package types

import (
	"cosmossdk.io/errors"
)

// DEX module sentinel errors
var (
	ErrDuplicateAssetID       = errors.Register(ModuleName, 2, "assets of a pair must differ")
	ErrPoolAlreadyExists      = errors.Register(ModuleName, 3, "pool already exists")
	ErrZeroBalance            = errors.Register(ModuleName, 4, "amount cannot be zero")
	ErrInsufficientBalance    = errors.Register(ModuleName, 5, "insufficient balance")
	ErrUnknownAsset           = errors.Register(ModuleName, 6, "unknown asset")
	ErrPoolIDOverflow         = errors.Register(ModuleName, 7, "pool id overflow")
	ErrNoSwapExists           = errors.Register(ModuleName, 8, "pool does not exist")
	ErrLiquidityRatioMismatch = errors.Register(ModuleName, 9, "deposit does not match pool ratio")
	ErrNotEnoughLPToken       = errors.Register(ModuleName, 10, "not enough lp tokens")
	ErrTooManyLPToken         = errors.Register(ModuleName, 11, "cannot redeem the entire lp supply")
	ErrNotEnoughLiquidity     = errors.Register(ModuleName, 12, "not enough liquidity")
	ErrAssetNotInPool         = errors.Register(ModuleName, 13, "asset not in pool")
	ErrZeroExpectedAmount     = errors.Register(ModuleName, 14, "expected output cannot be zero")
	ErrSlippageExceeded       = errors.Register(ModuleName, 15, "slippage exceeded maximum")
	ErrDeadlineExceeded       = errors.Register(ModuleName, 16, "deadline exceeded")
	ErrInvariantViolation     = errors.Register(ModuleName, 17, "constant product invariant violated")
	ErrInvalidGenesis         = errors.Register(ModuleName, 18, "invalid dex genesis")
	ErrAmountOverflow         = errors.Register(ModuleName, 19, "amount overflow")
)
