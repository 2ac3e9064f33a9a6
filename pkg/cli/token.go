package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swagftw/minichain/utl/config"
	"github.com/swagftw/minichain/utl/jwt"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the mining endpoint",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadAuthConfigFromCLI()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid auth configuration: %w", err)
			}

			tokens, err := jwt.New(cfg.JWTSecret, cfg.TokenTTL)
			if err != nil {
				return err
			}

			subject, err := cmd.Flags().GetString("subject")
			if err != nil {
				return err
			}

			token, err := tokens.GenerateAccessToken(subject)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().StringP("subject", "s", "miner", "subject the token is issued to")
	cmd.Flags().String("jwt-secret", "", "HS256 secret shared with serve")
	cmd.Flags().Duration("token-ttl", 24*time.Hour, "token lifetime")

	return cmd
}
