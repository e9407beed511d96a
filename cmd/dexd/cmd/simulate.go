package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"

	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/subgame-network/subgame/app"
	assetstypes "github.com/subgame-network/subgame/x/assets/types"
	"github.com/subgame-network/subgame/x/dex/client/cli"
	"github.com/subgame-network/subgame/x/dex/simulation"
)

const (
	flagBlocks   = "blocks"
	flagOps      = "ops"
	flagSeed     = "seed"
	flagAccounts = "accounts"
	flagAssets   = "assets"
)

// OperationCount tallies one simulated operation.
type OperationCount struct {
	OK      int `json:"ok" yaml:"ok"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// SimulationSummary reports a finished simulation.
type SimulationSummary struct {
	Seed       int64                     `json:"seed" yaml:"seed"`
	Height     int64                     `json:"height" yaml:"height"`
	Pools      int                       `json:"pools" yaml:"pools"`
	Operations map[string]OperationCount `json:"operations" yaml:"operations"`
}

// SimulateCmd returns the command that runs a random workload on a fresh
// in-memory chain, checking invariants after every block.
func SimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run random DEX operations on a throwaway in-memory chain",
		Long: `Register random assets, fund random accounts and run weighted pool
operations for the requested number of blocks. The run fails on the first
block that breaks an invariant. The node's own store is not touched.

Example:
  $ dexd simulate --blocks 100 --ops 50 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := GetNodeContext(cmd)
			if err != nil {
				return err
			}
			blocks, _ := cmd.Flags().GetInt(flagBlocks)
			opsPerBlock, _ := cmd.Flags().GetInt(flagOps)
			seed, _ := cmd.Flags().GetInt64(flagSeed)
			numAccounts, _ := cmd.Flags().GetInt(flagAccounts)
			numAssets, _ := cmd.Flags().GetInt(flagAssets)
			if numAccounts < 1 {
				return fmt.Errorf("--%s must be positive", flagAccounts)
			}

			cfg := nc.Config
			cfg.Store.Backend = app.BackendMemDB
			cfg.CheckInvariants = true
			host, err := app.New(nc.Logger, dbm.NewMemDB(), cfg)
			if err != nil {
				return err
			}
			defer host.Close()

			r := rand.New(rand.NewSource(seed))
			accs := simtypes.RandomAccounts(r, numAccounts)

			var assets []assetstypes.AssetID
			_, err = host.ExecuteBlockFunc(cmd.Context(), func(ctx sdk.Context) (int, error) {
				var err error
				assets, err = simulation.SetupState(r, ctx, host.AssetKeeper, host.AssetKeeper.Native(), accs, numAssets)
				return len(accs), err
			})
			if err != nil {
				return fmt.Errorf("failed to set up simulation: %w", err)
			}

			ops := simulation.WeightedOperations(
				simtypes.AppParams{}, host.DexKeeper, host.AssetKeeper, host.AssetKeeper.Native(), assets,
			)
			stats := simulation.NewStats()
			for i := 0; i < blocks; i++ {
				height, err := host.ExecuteBlockFunc(cmd.Context(), func(ctx sdk.Context) (int, error) {
					simulation.RunOperations(r, ctx, ops, accs, opsPerBlock, stats)
					return opsPerBlock, nil
				})
				if err != nil {
					return fmt.Errorf("height %d: %w", height, err)
				}
			}

			pools, err := host.PoolCount()
			if err != nil {
				return err
			}
			summary := SimulationSummary{
				Seed:       seed,
				Height:     host.Height(),
				Pools:      pools,
				Operations: make(map[string]OperationCount),
			}
			for _, name := range stats.Names() {
				summary.Operations[name] = OperationCount{OK: stats.OK[name], Skipped: stats.Skipped[name]}
			}
			nc.Logger.Info("simulation finished", "seed", seed, "height", summary.Height, "pools", pools)

			var bz []byte
			if output, _ := cmd.Flags().GetString(cli.FlagOutput); output == cli.OutputJSON {
				bz, err = json.MarshalIndent(summary, "", "  ")
			} else {
				bz, err = yaml.Marshal(summary)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.Flags().Int(flagBlocks, 50, "number of blocks to simulate")
	cmd.Flags().Int(flagOps, 25, "operations per block")
	cmd.Flags().Int64(flagSeed, 42, "random seed")
	cmd.Flags().Int(flagAccounts, 10, "number of random accounts")
	cmd.Flags().Int(flagAssets, 3, "number of user assets besides the native currency")
	cmd.Flags().String(cli.FlagOutput, cli.OutputText, "Output format (json|text)")

	return cmd
}
