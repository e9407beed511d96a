package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/subgame-network/subgame/app"
)

// openApp opens the node's store. A chain that has never committed a block
// is initialised from genesis.json when one exists.
func openApp(cmd *cobra.Command) (*app.App, error) {
	nc, err := GetNodeContext(cmd)
	if err != nil {
		return nil, err
	}

	db, err := app.OpenDB(nc.Config, nc.Home)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	host, err := app.New(nc.Logger, db, nc.Config)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if host.Height() > 0 {
		return host, nil
	}

	genesis, err := readGenesis(GenesisFile(nc.Home))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return host, nil
	case err != nil:
		_ = host.Close()
		return nil, err
	}
	if err := host.InitChain(cmd.Context(), genesis); err != nil {
		_ = host.Close()
		return nil, fmt.Errorf("failed to initialise chain: %w", err)
	}
	return host, nil
}

func readGenesis(path string) (app.GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var genesis app.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return genesis, genesis.Validate()
}
