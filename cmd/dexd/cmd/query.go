package cmd

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/subgame-network/subgame/app"
	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/client/cli"
)

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		cli.GetQueryCmd(openState),
		balanceCmd(),
		heightCmd(),
	)

	return cmd
}

func openState(cmd *cobra.Command) (cli.State, error) {
	return openApp(cmd)
}

// BalanceOutput is an account's balance of one asset.
type BalanceOutput struct {
	Account string `json:"account"`
	Asset   uint32 `json:"asset"`
	Balance string `json:"balance"`
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [asset-id] [account]",
		Short: "Query an account's balance of an asset",
		Long: `Query the free balance of an account. Asset 0 is the native currency.
The account is a bech32 address or a name.

Example:
  $ dexd query balance 7 alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cast.ToUint32E(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset id %q: %w", args[0], err)
			}
			addr, err := app.ResolveAddress(args[1])
			if err != nil {
				return err
			}

			host, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer host.Close()

			asset := assetstypes.AssetID(id)
			out := BalanceOutput{Account: addr.String(), Asset: id}
			err = host.View(func(ctx sdk.Context) error {
				if asset.IsNative() {
					out.Balance = host.AssetKeeper.Native().FreeBalance(ctx, addr).String()
					return nil
				}
				if _, found := host.AssetKeeper.GetAsset(ctx, asset); !found {
					return assetstypes.ErrAssetNotFound.Wrapf("asset %d", asset)
				}
				out.Balance = host.AssetKeeper.Balance(ctx, asset, addr).String()
				return nil
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func heightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "height",
		Short: "Query the last committed block height",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer host.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), host.Height())
			return err
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
