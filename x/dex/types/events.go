package types

// Event types for the DEX module
const (
	EventTypeCreatePool      = "create_pool"
	EventTypeAddLiquidity    = "add_liquidity"
	EventTypeRemoveLiquidity = "remove_liquidity"
	EventTypeSwap            = "swap"
)

// Attribute keys
const (
	AttributeKeyPoolID         = "pool_id"
	AttributeKeyCreator        = "creator"
	AttributeKeyProvider       = "provider"
	AttributeKeyTrader         = "trader"
	AttributeKeyAssetX         = "asset_x"
	AttributeKeyAssetY         = "asset_y"
	AttributeKeyAmountX        = "amount_x"
	AttributeKeyAmountY        = "amount_y"
	AttributeKeyCustodyAccount = "custody_account"
	AttributeKeyLPAsset        = "lp_asset"
	AttributeKeyLPMinted       = "lp_minted"
	AttributeKeyLPAmount       = "lp_amount"
	AttributeKeyInputAsset     = "input_asset"
	AttributeKeyInputAmount    = "input_amount"
	AttributeKeyOutputAsset    = "output_asset"
	AttributeKeyOutputAmount   = "output_amount"

	AttributeValueCategory = ModuleName
)
