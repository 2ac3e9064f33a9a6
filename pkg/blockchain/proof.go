package blockchain

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// TargetPrefix is the fixed difficulty: a mined digest must start with it.
const TargetPrefix = "00"

// ErrNoSolution is returned when a bounded search runs out of attempts.
var ErrNoSolution = errors.New("no proof-of-work solution found")

// ProofOfWork searches for a nonce that makes the block digest meet
// TargetPrefix by brute force over the nonce.
type ProofOfWork struct {
	Block *Block
	// MaxAttempts bounds the number of digests tested. Zero means unbounded.
	MaxAttempts uint64

	attempts uint64
}

// ProofOption configures a ProofOfWork.
type ProofOption func(*ProofOfWork)

// WithMaxAttempts bounds the search. Zero keeps it unbounded.
func WithMaxAttempts(n uint64) ProofOption {
	return func(pow *ProofOfWork) {
		pow.MaxAttempts = n
	}
}

// NewProof creates a new proof of work for the candidate block.
func NewProof(b *Block, opts ...ProofOption) *ProofOfWork {
	pow := &ProofOfWork{Block: b}
	for _, opt := range opts {
		opt(pow)
	}

	return pow
}

// Run mutates the candidate block until its hash meets the target.
// The block's starting nonce is tested first, then the nonce is incremented
// and the hash recomputed for every further attempt.
func (pow *ProofOfWork) Run() (uint64, string, error) {
	pow.Block.DeriveHash()
	pow.attempts = 1

	for !MeetsTarget(pow.Block.Hash) {
		if pow.MaxAttempts > 0 && pow.attempts >= pow.MaxAttempts {
			slog.Debug("Proof-of-work gave up", "index", pow.Block.Index, "attempts", pow.attempts)

			return pow.Block.Nonce, pow.Block.Hash, errors.Wrapf(ErrNoSolution, "after %d attempts", pow.attempts)
		}

		pow.Block.Nonce++
		pow.Block.DeriveHash()
		pow.attempts++
	}

	slog.Debug("Proof-of-work found", "index", pow.Block.Index, "nonce", pow.Block.Nonce, "attempts", pow.attempts)

	return pow.Block.Nonce, pow.Block.Hash, nil
}

// Attempts returns how many digests the last Run tested.
func (pow *ProofOfWork) Attempts() uint64 {
	return pow.attempts
}

// Validate validates the proof of work.
func (pow *ProofOfWork) Validate() bool {
	return pow.Block.HasValidHash() && MeetsTarget(pow.Block.Hash)
}

// MeetsTarget reports whether a hex digest satisfies the difficulty prefix.
func MeetsTarget(hash string) bool {
	return strings.HasPrefix(hash, TargetPrefix)
}
