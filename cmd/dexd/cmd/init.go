package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/subgame-network/subgame/app"
)

const (
	flagOverwrite = "overwrite"
	flagBackend   = "store-backend"
)

// InitCmd returns a command that writes app.toml and a default genesis.json.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the application configuration and genesis files",
		Long: `Initialize the node's configuration files.

Example:
  dexd init --home ~/.dexd
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := GetNodeContext(cmd)
			if err != nil {
				return err
			}

			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)
			cfgFile, genFile := ConfigFile(nc.Home), GenesisFile(nc.Home)
			if !overwrite && fileExists(genFile) {
				return fmt.Errorf("genesis.json file already exists: %v", genFile)
			}

			cfg := nc.Config
			if backend, _ := cmd.Flags().GetString(flagBackend); backend != "" {
				cfg.Store.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := WriteConfigFile(cfgFile, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			genesis := app.NewDefaultGenesisState()
			if err := genesis.Validate(); err != nil {
				return err
			}
			bz, err := json.MarshalIndent(genesis, "", " ")
			if err != nil {
				return fmt.Errorf("failed to marshal default genesis state: %w", err)
			}
			if err := os.WriteFile(genFile, bz, 0o600); err != nil {
				return fmt.Errorf("failed to write genesis: %w", err)
			}

			nc.Logger.Info("initialised home", "home", nc.Home, "backend", cfg.Store.Backend)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nwrote %s\n", cfgFile, genFile)
			return err
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "overwrite the existing genesis.json and app.toml")
	cmd.Flags().String(flagBackend, "", "store backend to record in app.toml (goleveldb|memdb)")

	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
