package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/subgame-network/subgame/api"
	"github.com/subgame-network/subgame/app"
)

const flagAddress = "address"

// ServeCmd returns the command that serves the HTTP API until interrupted.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve committed state and block submission over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nc, err := GetNodeContext(cmd)
			if err != nil {
				return err
			}
			cfg := nc.Config
			if addr, _ := cmd.Flags().GetString(flagAddress); addr != "" {
				cfg.API.Address = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tel, err := app.InitTelemetry(cfg.Telemetry)
			if err != nil {
				return fmt.Errorf("failed to initialise telemetry: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tel.Shutdown(shutdownCtx); err != nil {
					nc.Logger.Error("telemetry shutdown failed", "err", err)
				}
			}()

			host, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer host.Close()

			if cfg.Telemetry.Enabled && cfg.Telemetry.PrometheusEnabled && cfg.Telemetry.MetricsPort > 0 {
				startPrometheusServer(ctx, cfg.Telemetry.MetricsPort, nc.Logger)
			}

			server, err := api.NewServer(host, api.ConfigFromApp(cfg), nc.Logger)
			if err != nil {
				return err
			}
			if cfg.API.AuthSecret == "" {
				nc.Logger.Info("block submission disabled; set api.auth-secret to enable it")
			}
			return server.Start(ctx)
		},
	}

	cmd.Flags().String(flagAddress, "", "listen address; overrides api.address in app.toml")

	return cmd
}

// startPrometheusServer serves /metrics on its own port until ctx is done.
func startPrometheusServer(ctx context.Context, port int, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("prometheus server error", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
}
