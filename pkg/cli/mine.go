package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/swagftw/minichain/pkg/blockchain"
	"github.com/swagftw/minichain/pkg/journal"
	"github.com/swagftw/minichain/pkg/ledger"
	"github.com/swagftw/minichain/utl/config"
)

func newMineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine blocks on a fresh in-process chain",
		Long: `mine starts a fresh chain, mines --count blocks each carrying the given
transactions and prints the resulting chain. With --journal every block is
also written to a badger journal that can later be checked with audit.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd)
		},
		RunE: runMine,
	}

	cmd.Flags().StringArrayP("tx", "t", nil, "transaction as sender:receiver:amount, repeatable")
	cmd.Flags().UintP("count", "n", 1, "number of blocks to mine")
	cmd.Flags().Uint64("max-attempts", 0, "nonces tried per block before giving up, 0 for no limit")
	cmd.Flags().StringP("journal", "j", "", "badger directory to journal the chain into")

	return cmd
}

func runMine(cmd *cobra.Command, args []string) error {
	cfg := config.LoadMiningConfigFromCLI()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid mining configuration: %w", err)
	}

	slog.Debug("Command-line arguments", "miningConfig", cfg)

	rawTxs, err := cmd.Flags().GetStringArray("tx")
	if err != nil {
		return err
	}

	txs, err := parseTransactions(rawTxs)
	if err != nil {
		return err
	}

	opts := []ledger.Option{ledger.WithChainOptions(blockchain.WithMiningLimit(cfg.MaxAttempts))}

	if cfg.JournalDir != "" {
		j, err := journal.Create(cfg.JournalDir)
		if err != nil {
			return err
		}
		defer closeJournal(j)

		opts = append(opts, ledger.WithJournal(j))
	}

	svc, err := ledger.New(opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	for i := uint(1); i <= cfg.Count; i++ {
		s := startSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Mining block %d of %d", i, cfg.Count))
		_, err = svc.Mine(ctx, txs)
		s.stop(err)

		if err != nil {
			return err
		}
	}

	chain, err := svc.GetBlockchain(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err = renderBlocks(out, chain.Blocks); err != nil {
		return err
	}

	validity, err := svc.Validate(ctx)
	if err != nil {
		return err
	}

	renderValidity(out, validity)

	return nil
}

func closeJournal(j *journal.Journal) {
	if err := j.Close(); err != nil {
		slog.Error("Failed to close journal", "error", err)
	}
}
