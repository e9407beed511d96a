package types

import (
	"cosmossdk.io/errors"
)

// Asset ledger sentinel errors
var (
	ErrAssetExists        = errors.Register(ModuleName, 2, "asset already exists")
	ErrAssetNotFound      = errors.Register(ModuleName, 3, "asset not found")
	ErrUnauthorized       = errors.Register(ModuleName, 4, "caller is not the asset owner")
	ErrInsufficientFunds  = errors.Register(ModuleName, 5, "insufficient asset balance")
	ErrBelowMinBalance    = errors.Register(ModuleName, 6, "balance would fall below asset minimum")
	ErrTooManyHolders     = errors.Register(ModuleName, 7, "asset holder limit reached")
	ErrInvalidAmount      = errors.Register(ModuleName, 8, "invalid amount")
	ErrInvalidMetadata    = errors.Register(ModuleName, 9, "invalid asset metadata")
	ErrMetadataNotFound   = errors.Register(ModuleName, 10, "asset metadata not found")
	ErrReservedAssetID    = errors.Register(ModuleName, 11, "asset id is reserved")
	ErrKeepAlive          = errors.Register(ModuleName, 12, "transfer would reap the sender account")
	ErrInvalidGenesis     = errors.Register(ModuleName, 13, "invalid asset genesis")
	ErrNativeNotSupported = errors.Register(ModuleName, 14, "operation not supported for the native asset")
)
