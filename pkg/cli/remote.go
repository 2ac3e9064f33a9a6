package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/swagftw/minichain/pkg/client"
	"github.com/swagftw/minichain/types"
	"github.com/swagftw/minichain/utl/config"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to a running serve instance",
	}

	cmd.PersistentFlags().String("server", "http://localhost:8080", "base URL of the node")
	cmd.PersistentFlags().String("token", "", "bearer token for mining, see the token command")
	cmd.PersistentFlags().Duration("timeout", 30*time.Second, "request timeout")

	chainCmd := &cobra.Command{
		Use:   "chain",
		Short: "Print the remote chain",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, c *client.Client) error {
			chain, err := c.Chain(cmd.Context())
			if err != nil {
				return err
			}

			if err = renderBlocks(cmd.OutOrStdout(), chain.Blocks); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Is chain valid? %t\n", chain.Valid)

			return nil
		}),
	}

	validCmd := &cobra.Command{
		Use:   "valid",
		Short: "Verify the remote chain",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, c *client.Client) error {
			validity, err := c.Validity(cmd.Context())
			if err != nil {
				return err
			}

			renderValidity(cmd.OutOrStdout(), validity)

			return nil
		}),
	}

	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine a block on the remote chain",
		Args:  cobra.NoArgs,
		RunE: withClient(func(cmd *cobra.Command, c *client.Client) error {
			rawTxs, err := cmd.Flags().GetStringArray("tx")
			if err != nil {
				return err
			}

			txs, err := parseTransactions(rawTxs)
			if err != nil {
				return err
			}

			s := startSpinner(cmd.ErrOrStderr(), "Waiting for the node to mine")
			block, err := c.Mine(cmd.Context(), txs)
			s.stop(err)

			if err != nil {
				return err
			}

			return renderBlocks(cmd.OutOrStdout(), []*types.Block{block})
		}),
	}
	mineCmd.Flags().StringArrayP("tx", "t", nil, "transaction as sender:receiver:amount, repeatable")

	cmd.AddCommand(chainCmd, validCmd, mineCmd)

	return cmd
}

func withClient(run func(cmd *cobra.Command, c *client.Client) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}

		cfg := config.LoadRemoteConfigFromCLI()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid remote configuration: %w", err)
		}

		return run(cmd, client.New(cfg.Server, client.WithToken(cfg.Token), client.WithTimeout(cfg.Timeout)))
	}
}
