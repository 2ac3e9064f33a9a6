package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/swagftw/minichain/pkg/blockchain"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Mine a block and check two sample chains",
		Long: `demo mines a block of two transactions onto a fresh chain, then builds a
second chain that links against a stale last hash, and prints both chains
with their validity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain := blockchain.NewBlockchain()

			block, err := chain.MineBlock([]blockchain.Transaction{
				blockchain.NewTransaction("Alice", "Bob", 1.0),
				blockchain.NewTransaction("Bob", "Charlie", 2.0),
			})
			if err != nil {
				return err
			}

			chain.AddBlock(block)

			other := blockchain.NewBlockchain()
			other.AddBlock(blockchain.NewBlock(0, 0, nil, blockchain.GenesisHash, 0))
			other.AddBlock(blockchain.NewBlock(1, 0, []blockchain.Transaction{
				blockchain.NewTransaction("Alice", "Bob", 1.0),
			}, other.LastHash(), 0))

			out := cmd.OutOrStdout()
			printChain(out, "Blockchain:", chain)
			printChain(out, "Other blockchain:", other)

			return nil
		},
	}
}

func printChain(w io.Writer, title string, chain *blockchain.Blockchain) {
	fmt.Fprintln(w, title)

	iter := chain.Iterator()
	for block := iter.Next(); block != nil; block = iter.Next() {
		fmt.Fprintln(w, block)
	}

	err := chain.Verify()
	if err != nil {
		slog.Debug("Chain rejected", "chain", title, "error", err)
	}

	fmt.Fprintf(w, "Is chain valid? %t\n", err == nil)
}
