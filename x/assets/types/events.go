package types

// Asset ledger event types
const (
	EventTypeAssetCreated  = "asset_created"
	EventTypeMetadataSet   = "asset_metadata_set"
	EventTypeAssetMinted   = "asset_minted"
	EventTypeAssetBurned   = "asset_burned"
	EventTypeAssetTransfer = "asset_transfer"
)

// Attribute keys
const (
	AttributeKeyAssetID    = "asset_id"
	AttributeKeyOwner      = "owner"
	AttributeKeyFrom       = "from"
	AttributeKeyTo         = "to"
	AttributeKeyAmount     = "amount"
	AttributeKeyName       = "name"
	AttributeKeySymbol     = "symbol"
	AttributeKeyDecimals   = "decimals"
	AttributeKeyMaxHolders = "max_holders"
	AttributeKeyMinBalance = "min_balance"
)
