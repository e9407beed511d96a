package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/subgame-network/subgame/app"
	"github.com/subgame-network/subgame/x/dex/client/cli"
)

// Script is an operation script: each block is executed and committed in order.
type Script struct {
	Blocks []ScriptBlock `yaml:"blocks"`
}

// ScriptBlock lists the operations of one block.
type ScriptBlock struct {
	Operations []app.Operation `yaml:"operations"`
}

// ReadScript parses a YAML operation script.
func ReadScript(path string) (Script, error) {
	var script Script
	bz, err := os.ReadFile(path)
	if err != nil {
		return script, err
	}
	if err := yaml.Unmarshal(bz, &script); err != nil {
		return script, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(script.Blocks) == 0 {
		return script, fmt.Errorf("%s has no blocks", path)
	}
	return script, nil
}

// ApplyCmd returns the command that executes an operation script.
func ApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [script.yaml]",
		Short: "Execute an operation script, one committed block per entry",
		Long: `Execute every block of a YAML operation script against the node's store.
A failing operation is reported and skipped; the rest of its block still
applies.

Example:
  $ dexd apply scenario.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := ReadScript(args[0])
			if err != nil {
				return err
			}

			host, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer host.Close()

			results := make([]app.BlockResult, 0, len(script.Blocks))
			for i, block := range script.Blocks {
				res, err := host.ExecuteBlock(cmd.Context(), block.Operations)
				if err != nil {
					return fmt.Errorf("block %d: %w", i+1, err)
				}
				results = append(results, res)
			}

			output, _ := cmd.Flags().GetString(cli.FlagOutput)
			if output == cli.OutputJSON {
				bz, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return err
			}

			out := cmd.OutOrStdout()
			for _, res := range results {
				fmt.Fprintf(out, "height %d: %d operations, %d failed\n", res.Height, len(res.Operations), res.Failed())
				for i, op := range res.Operations {
					if op.Error != "" {
						fmt.Fprintf(out, "  #%d %s: %s\n", i, op.Kind, op.Error)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().String(cli.FlagOutput, cli.OutputText, "Output format (json|text)")

	return cmd
}
