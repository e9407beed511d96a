package main

import (
	"os"

	"github.com/subgame-network/subgame/cmd/dexd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
