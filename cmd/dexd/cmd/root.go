package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subgame-network/subgame/app"
)

const (
	flagHome      = "home"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// NodeContext carries what every command needs from the home directory.
type NodeContext struct {
	Home   string
	Config app.Config
	Logger log.Logger
	Viper  *viper.Viper
}

type nodeContextKey struct{}

// GetNodeContext returns the context installed by the root command.
func GetNodeContext(cmd *cobra.Command) (*NodeContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if nc, ok := ctx.Value(nodeContextKey{}).(*NodeContext); ok {
			return nc, nil
		}
	}
	return nil, errors.New("node context not initialised")
}

// NewRootCmd creates a new root command for dexd. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	app.SetConfig()

	rootCmd := &cobra.Command{
		Use:   "dexd",
		Short: "Constant product DEX daemon",
		Long: `dexd runs a constant product liquidity pool engine over a multi-asset ledger.
Operation scripts are applied block by block, committed state is queried
locally or over HTTP, and random workloads can be simulated.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			nc, err := newNodeContext(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, nodeContextKey{}, nc))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, app.DefaultNodeHome, "directory for config and data")
	rootCmd.PersistentFlags().String(flagLogLevel, "", "log level (trace|debug|info|warn|error); overrides app.toml")
	rootCmd.PersistentFlags().String(flagLogFormat, "", "log format (plain|json); overrides app.toml")

	rootCmd.AddCommand(
		InitCmd(),
		ApplyCmd(),
		queryCommand(),
		ExportCmd(),
		SimulateCmd(),
		ServeCmd(),
	)

	return rootCmd
}

func newNodeContext(cmd *cobra.Command) (*NodeContext, error) {
	v := viper.New()
	if err := v.BindPFlag(flagHome, cmd.Flags().Lookup(flagHome)); err != nil {
		return nil, err
	}
	if err := v.BindEnv(flagHome, EnvPrefix+"_HOME"); err != nil {
		return nil, err
	}
	home := v.GetString(flagHome)

	cfg, err := LoadConfig(v, home)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString(flagLogLevel); level != "" {
		cfg.LogLevel = level
	}
	if format, _ := cmd.Flags().GetString(flagLogFormat); format != "" {
		cfg.LogFormat = format
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return &NodeContext{Home: home, Config: cfg, Logger: logger, Viper: v}, nil
}

// NewLogger builds the process logger.
func NewLogger(out io.Writer, level, format string) (log.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	opts := []log.Option{log.LevelOption(lvl)}
	if format == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(out, opts...), nil
}
