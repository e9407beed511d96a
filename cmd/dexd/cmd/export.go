package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const flagOutputDocument = "output-document"

// ExportCmd returns the command that dumps committed state as genesis JSON.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export committed state to genesis JSON",
		Long: `Export the committed state of every module. The document can seed a new
home through its config/genesis.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer host.Close()

			genesis, err := host.ExportGenesis()
			if err != nil {
				return fmt.Errorf("failed to export state: %w", err)
			}
			bz, err := json.MarshalIndent(genesis, "", " ")
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString(flagOutputDocument)
			if path == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
				return err
			}
			return os.WriteFile(path, bz, 0o600)
		},
	}

	cmd.Flags().String(flagOutputDocument, "", "write the exported document to this file instead of stdout")

	return cmd
}
