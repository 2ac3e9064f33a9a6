package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/swagftw/minichain/pkg/api"
	"github.com/swagftw/minichain/utl/config"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a chain over HTTP",
		Long: `serve keeps one chain in memory and exposes it over an HTTP API. Mining is
protected by a bearer token when --jwt-secret is set.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServerConfigFromCLI()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid server configuration: %w", err)
			}

			slog.Debug("Command-line arguments", "addr", cfg.Addr, "journal", cfg.JournalDir,
				"auth", cfg.JWTSecret != "", "maxAttempts", cfg.MaxAttempts, "metrics", cfg.EnableMetrics)

			return api.Start(cfg)
		},
	}

	cmd.Flags().StringP("addr", "a", ":8080", "address to listen on")
	cmd.Flags().StringP("journal", "j", "", "badger directory to journal the chain into")
	cmd.Flags().String("jwt-secret", "", "HS256 secret guarding POST /v1/chain/mine")
	cmd.Flags().Duration("token-ttl", 24*time.Hour, "lifetime of issued tokens")
	cmd.Flags().Uint64("max-attempts", 0, "nonces tried per block before giving up, 0 for no limit")
	cmd.Flags().Bool("enable-metrics", false, "expose Prometheus metrics on /metrics")

	return cmd
}
