package blockchain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Transaction is the opaque payload carried by a block.
// It is never interpreted, only hashed.
type Transaction struct {
	Sender   string
	Receiver string
	Amount   float32
}

// NewTransaction builds a transaction value.
func NewTransaction(sender, receiver string, amount float32) Transaction {
	return Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}
}

// String returns the canonical text of the transaction. The exact bytes feed
// the block digest, so the format must not change.
func (tx Transaction) String() string {
	var b strings.Builder
	tx.writeTo(&b)

	return b.String()
}

func (tx Transaction) writeTo(b *strings.Builder) {
	b.WriteString("Transaction { sender: ")
	writeQuoted(b, tx.Sender)
	b.WriteString(", receiver: ")
	writeQuoted(b, tx.Receiver)
	b.WriteString(", amount: ")
	b.WriteString(formatAmount(tx.Amount))
	b.WriteString(" }")
}

// FormatTransactions renders the ordered transaction list, e.g.
// [Transaction { sender: "Alice", receiver: "Bob", amount: 1.0 }].
func FormatTransactions(txs []Transaction) string {
	var b strings.Builder

	b.WriteByte('[')

	for i, tx := range txs {
		if i > 0 {
			b.WriteString(", ")
		}

		tx.writeTo(&b)
	}

	b.WriteByte(']')

	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if printable(r) {
				b.WriteRune(r)
			} else {
				fmt.Fprintf(b, `\u{%x}`, r)
			}
		}
	}

	b.WriteByte('"')
}

// printable reports whether r is written raw inside a quoted string.
// Grapheme extenders are escaped, as is every space other than U+0020.
func printable(r rune) bool {
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Other_Grapheme_Extend) {
		return false
	}

	if unicode.Is(unicode.Zs, r) && r != ' ' {
		return false
	}

	return unicode.IsGraphic(r)
}

var (
	expLowerBound = float32(1e-4)
	expUpperBound = float32(1e16)
)

// formatAmount prints the shortest digits that round-trip a float32. Integral
// values keep a trailing ".0" and very small or very large magnitudes switch to
// exponent form without padding, e.g. 1e16 and 1.5e-5.
func formatAmount(f float32) string {
	x := float64(f)

	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}

	abs := f
	if abs < 0 {
		abs = -abs
	}

	if abs != 0 && (abs < expLowerBound || abs >= expUpperBound) {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(x, 'e', -1, 32), "e")

		sign := ""
		if exp[0] == '-' {
			sign = "-"
		}

		return mantissa + "e" + sign + strings.TrimLeft(exp[1:], "0")
	}

	s := strconv.FormatFloat(x, 'f', -1, 32)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
