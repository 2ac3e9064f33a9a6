package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/swagftw/minichain/types"
)

var ErrInvalidTransaction = errors.New("invalid transaction, expected sender:receiver:amount")

// parseTransactions reads sender:receiver:amount triples. The receiver may
// not contain a colon; the sender may.
func parseTransactions(raw []string) ([]types.Transaction, error) {
	txs := make([]types.Transaction, 0, len(raw))

	for _, r := range raw {
		amountAt := strings.LastIndex(r, ":")
		if amountAt < 0 {
			return nil, errors.Wrap(ErrInvalidTransaction, r)
		}

		receiverAt := strings.LastIndex(r[:amountAt], ":")
		if receiverAt < 0 {
			return nil, errors.Wrap(ErrInvalidTransaction, r)
		}

		amount, err := strconv.ParseFloat(r[amountAt+1:], 32)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTransaction, "%s: %v", r, err)
		}

		txs = append(txs, types.Transaction{
			Sender:   r[:receiverAt],
			Receiver: r[receiverAt+1 : amountAt],
			Amount:   float32(amount),
		})
	}

	return txs, nil
}

func renderBlocks(w io.Writer, blocks []*types.Block) error {
	data := pterm.TableData{{"Index", "Timestamp", "Txs", "Nonce", "Hash", "Prev. Hash"}}

	for _, block := range blocks {
		data = append(data, []string{
			strconv.FormatUint(block.Index, 10),
			strconv.FormatUint(block.Timestamp, 10),
			strconv.Itoa(len(block.Transactions)),
			strconv.FormatUint(block.Nonce, 10),
			block.Hash,
			block.PrevHash,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

func renderValidity(w io.Writer, validity *types.Validity) {
	fmt.Fprintf(w, "Is chain valid? %t\n", validity.Valid)

	if !validity.Valid {
		pterm.Warning.WithWriter(w).Printfln("Block at position %d: %s", validity.Position, validity.Reason)
	}
}

type spinner struct {
	printer *pterm.SpinnerPrinter
}

// startSpinner animates only when writing to a real file; buffers get nothing.
func startSpinner(w io.Writer, text string) spinner {
	if _, ok := w.(*os.File); !ok {
		return spinner{}
	}

	printer, err := pterm.DefaultSpinner.WithWriter(w).WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return spinner{}
	}

	return spinner{printer: printer}
}

func (s spinner) stop(err error) {
	if s.printer == nil {
		return
	}

	if err != nil {
		s.printer.Fail(err.Error())

		return
	}

	_ = s.printer.Stop()
}
