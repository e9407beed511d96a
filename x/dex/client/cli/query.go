package cli

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/keeper"
	"github.com/subgame-network/subgame/x/dex/types"
)

// State gives query commands read access to committed dex state.
type State interface {
	QueryDex(fn func(ctx sdk.Context, k keeper.Keeper) error) error
	Close() error
}

// StateOpener opens the state a command reads. Commands close it when done.
type StateOpener func(cmd *cobra.Command) (State, error)

// GetQueryCmd returns the cli query commands for the dex module
func GetQueryCmd(open StateOpener) *cobra.Command {
	dexQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the dex module",
		SuggestionsMinimumDistance: 2,
	}

	dexQueryCmd.AddCommand(
		GetCmdQueryPool(open),
		GetCmdQueryPools(open),
		GetCmdQueryPoolByAssets(open),
		GetCmdQuerySimulateSwap(open),
	)
	dexQueryCmd.PersistentFlags().String(FlagOutput, OutputJSON, "Output format (json|text)")

	return dexQueryCmd
}

// GetCmdQueryPool returns the command to query a pool by ID
func GetCmdQueryPool(open StateOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query liquidity pool by ID",
		Long: `Query a liquidity pool with its reserves and LP supply.

Example:
  $ dexd query dex pool 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}

			var res keeper.PoolInfo
			err = query(cmd, open, func(ctx sdk.Context, k keeper.Keeper) (err error) {
				res, err = k.PoolInfo(ctx, poolID)
				return err
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, res)
		},
	}
}

// GetCmdQueryPools returns the command to query all pools
func GetCmdQueryPools(open StateOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "Query all liquidity pools",
		Long: `Query every liquidity pool in id order.

Example:
  $ dexd query dex pools`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var res []keeper.PoolInfo
			err := query(cmd, open, func(ctx sdk.Context, k keeper.Keeper) error {
				res = k.PoolInfos(ctx)
				return nil
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, res)
		},
	}
}

// GetCmdQueryPoolByAssets returns the command to query a pool by its asset pair
func GetCmdQueryPoolByAssets(open StateOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "pair [asset-a] [asset-b]",
		Short: "Query the pool trading an asset pair",
		Long: `Query the pool trading two assets. The order of the assets does not matter.

Example:
  $ dexd query dex pair 0 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			b, err := parseAssetID(args[1])
			if err != nil {
				return err
			}

			var res keeper.PoolInfo
			err = query(cmd, open, func(ctx sdk.Context, k keeper.Keeper) error {
				pool, err := k.PoolForPair(ctx, a, b)
				if err != nil {
					return err
				}
				res, err = k.PoolInfo(ctx, pool.ID)
				return err
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, res)
		},
	}
}

// GetCmdQuerySimulateSwap returns the command to quote a swap
func GetCmdQuerySimulateSwap(open StateOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate-swap [pool-id] [input-asset] [amount] [output-asset]",
		Short: "Quote a swap against the current reserves",
		Long: `Quote a swap without moving funds. With --expected and --slippage the
quote is also checked against the caller's tolerance.

Example:
  $ dexd query dex simulate-swap 1 7 1000000 0
  $ dexd query dex simulate-swap 1 7 1000000 0 --expected 55000000000 --slippage 1`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			input, err := parseAssetID(args[1])
			if err != nil {
				return err
			}
			amount, ok := math.NewIntFromString(args[2])
			if !ok {
				return fmt.Errorf("invalid amount %q", args[2])
			}
			output, err := parseAssetID(args[3])
			if err != nil {
				return err
			}

			expectedStr, _ := cmd.Flags().GetString(FlagExpected)
			expected := math.OneInt()
			if expectedStr != "" {
				if expected, ok = math.NewIntFromString(expectedStr); !ok {
					return fmt.Errorf("invalid expected output %q", expectedStr)
				}
			}
			slippage, _ := cmd.Flags().GetUint64(FlagSlippage)
			deadline, _ := cmd.Flags().GetUint64(FlagDeadline)

			req := types.SwapRequest{
				PoolID:             poolID,
				InputAsset:         input,
				InputAmount:        amount,
				OutputAsset:        output,
				ExpectedOutput:     expected,
				MaxSlippagePercent: slippage,
				Deadline:           deadline,
			}

			var res types.SwapResult
			err = query(cmd, open, func(ctx sdk.Context, k keeper.Keeper) (err error) {
				res, err = k.SimulateSwap(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			return printOutput(cmd, res)
		},
	}

	cmd.Flags().String(FlagExpected, "", "Expected output amount to check slippage against")
	cmd.Flags().Uint64(FlagSlippage, 0, "Maximum slippage in percent (0 disables the check)")
	cmd.Flags().Uint64(FlagDeadline, 0, "Last block height the swap may execute at (0 disables the check)")
	return cmd
}

func query(cmd *cobra.Command, open StateOpener, fn func(ctx sdk.Context, k keeper.Keeper) error) error {
	state, err := open(cmd)
	if err != nil {
		return err
	}
	defer state.Close()
	return state.QueryDex(fn)
}

func parsePoolID(s string) (types.PoolID, error) {
	id, err := cast.ToUint32E(s)
	if err != nil {
		return 0, fmt.Errorf("invalid pool ID: %w", err)
	}
	return types.PoolID(id), nil
}

func parseAssetID(s string) (assetstypes.AssetID, error) {
	id, err := cast.ToUint32E(s)
	if err != nil {
		return 0, fmt.Errorf("invalid asset ID: %w", err)
	}
	return assetstypes.AssetID(id), nil
}

// printOutput writes v as indented JSON, or as YAML for --output text.
func printOutput(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString(FlagOutput)
	if format != OutputText {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(bz, &generic); err != nil {
		return err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
