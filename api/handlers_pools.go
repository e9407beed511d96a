package api

import (
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/subgame-network/subgame/app"
	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	dexkeeper "github.com/subgame-network/subgame/x/dex/keeper"
	dextypes "github.com/subgame-network/subgame/x/dex/types"
)

// handleStatus returns the committed height
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Height: s.app.Height(), Version: Version})
}

// handleGetPools returns all liquidity pools
func (s *Server) handleGetPools(c *gin.Context) {
	var pools []dexkeeper.PoolInfo
	err := s.app.QueryDex(func(ctx sdk.Context, k dexkeeper.Keeper) error {
		pools = k.PoolInfos(ctx)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PoolsResponse{Pools: pools, Count: len(pools)})
}

// handleGetPool returns a specific pool
func (s *Server) handleGetPool(c *gin.Context) {
	poolID, ok := pathUint32(c, "pool_id")
	if !ok {
		return
	}

	var info dexkeeper.PoolInfo
	err := s.app.QueryDex(func(ctx sdk.Context, k dexkeeper.Keeper) (err error) {
		info, err = k.PoolInfo(ctx, dextypes.PoolID(poolID))
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// handleGetPoolByPair returns the pool trading two assets, in either order
func (s *Server) handleGetPoolByPair(c *gin.Context) {
	a, ok := pathUint32(c, "asset_a")
	if !ok {
		return
	}
	b, ok := pathUint32(c, "asset_b")
	if !ok {
		return
	}

	var info dexkeeper.PoolInfo
	err := s.app.QueryDex(func(ctx sdk.Context, k dexkeeper.Keeper) error {
		pool, err := k.PoolForPair(ctx, assetstypes.AssetID(a), assetstypes.AssetID(b))
		if err != nil {
			return err
		}
		info, err = k.PoolInfo(ctx, pool.ID)
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// handleGetBalance returns an account's balance of one asset, native included
func (s *Server) handleGetBalance(c *gin.Context) {
	id, ok := pathUint32(c, "asset_id")
	if !ok {
		return
	}
	addr, err := app.ResolveAddress(c.Param("account"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid account", Code: "INVALID_ACCOUNT", Details: err.Error()})
		return
	}

	asset := assetstypes.AssetID(id)
	var balance string
	err = s.app.View(func(ctx sdk.Context) error {
		if asset.IsNative() {
			balance = s.app.AssetKeeper.Native().FreeBalance(ctx, addr).String()
			return nil
		}
		if _, found := s.app.AssetKeeper.GetAsset(ctx, asset); !found {
			return assetstypes.ErrAssetNotFound.Wrapf("asset %d", asset)
		}
		balance = s.app.AssetKeeper.Balance(ctx, asset, addr).String()
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Account: addr.String(), Asset: id, Balance: balance})
}

func pathUint32(c *gin.Context, name string) (uint32, bool) {
	v, err := cast.ToUint32E(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name, Code: "INVALID_PARAMETER", Details: err.Error()})
		return 0, false
	}
	return v, true
}

// writeError maps registered module errors onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	switch {
	case errors.Is(err, dextypes.ErrNoSwapExists), errors.Is(err, assetstypes.ErrAssetNotFound),
		errors.Is(err, assetstypes.ErrMetadataNotFound), errors.Is(err, dextypes.ErrUnknownAsset):
		status, code = http.StatusNotFound, "NOT_FOUND"
	default:
		var sdkErr *errorsmod.Error
		if errors.As(err, &sdkErr) {
			status, code = http.StatusUnprocessableEntity, sdkErr.Codespace()+"/"+cast.ToString(sdkErr.ABCICode())
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
