package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/swagftw/minichain/pkg/blockchain"
	"github.com/swagftw/minichain/pkg/journal"
)

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit [journal-dir]",
		Short: "Verify a chain journal",
		Long: `audit reads every block from a badger journal written by mine or serve and
verifies linkage and hashes. The journal is only read, never resumed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if _, err := os.Stat(dir); err != nil {
				return errors.Wrap(err, "journal not found")
			}

			j, err := journal.Open(dir)
			if err != nil {
				return err
			}
			defer closeJournal(j)

			blocks, err := j.Blocks()
			if err != nil {
				return err
			}

			chain, err := blockchain.FromBlocks(blocks)
			if err != nil {
				return errors.Wrap(err, dir)
			}

			out := cmd.OutOrStdout()
			pterm.Info.WithWriter(out).Printfln("Journal %s holds %d blocks", dir, chain.Len())

			err = chain.Verify()
			fmt.Fprintf(out, "Is chain valid? %t\n", err == nil)

			return errors.Wrap(err, "journaled chain is invalid")
		},
	}
}
