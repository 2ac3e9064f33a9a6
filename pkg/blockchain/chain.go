package blockchain

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrBrokenLink    = errors.New("previous hash does not match the preceding block")
	ErrHashMismatch  = errors.New("stored hash does not match block contents")
	ErrBlockNotFound = errors.New("block not found")
	ErrEmptyChain    = errors.New("chain has no blocks")
)

// ValidationError reports the first block that failed verification.
type ValidationError struct {
	Position int
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block at position %d: %v", e.Position, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Blockchain is an ordered, in-memory series of blocks starting at genesis.
// It holds no lock: callers serialize access.
type Blockchain struct {
	blocks      []*Block
	now         func() time.Time
	maxAttempts uint64
}

// Option configures a Blockchain.
type Option func(*Blockchain)

// WithClock replaces the wall clock used to timestamp mined blocks.
func WithClock(now func() time.Time) Option {
	return func(bc *Blockchain) {
		bc.now = now
	}
}

// WithMiningLimit bounds every mining search. Zero keeps mining unbounded.
func WithMiningLimit(maxAttempts uint64) Option {
	return func(bc *Blockchain) {
		bc.maxAttempts = maxAttempts
	}
}

// NewBlockchain creates a chain holding only the genesis block.
func NewBlockchain(opts ...Option) *Blockchain {
	bc := &Blockchain{
		blocks: []*Block{Genesis()},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(bc)
	}

	return bc
}

// FromBlocks wraps already existing blocks, e.g. read back from a journal,
// into a chain value. Nothing is validated; call Verify for that.
func FromBlocks(blocks []*Block, opts ...Option) (*Blockchain, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyChain
	}

	bc := &Blockchain{
		blocks: append([]*Block(nil), blocks...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(bc)
	}

	return bc, nil
}

// AddBlock appends the block as the new tip. Validity is checked on demand by
// IsValid, not here.
func (bc *Blockchain) AddBlock(block *Block) {
	bc.blocks = append(bc.blocks, block)
}

// LastHash recomputes the digest of the current tip from its fields.
func (bc *Blockchain) LastHash() string {
	return bc.Last().CalculateHash()
}

// MineBlock searches for the next block carrying the given transactions.
// The block is returned, not appended. An error is only possible when a
// mining limit is configured.
func (bc *Blockchain) MineBlock(transactions []Transaction) (*Block, error) {
	index := uint64(len(bc.blocks))
	prevHash := bc.LastHash()
	timestamp := uint64(bc.now().Unix())

	candidate := NewBlock(index, timestamp, transactions, prevHash, 0)

	pow := NewProof(candidate, WithMaxAttempts(bc.maxAttempts))
	if _, _, err := pow.Run(); err != nil {
		return nil, errors.Wrapf(err, "mining block %d", index)
	}

	return candidate, nil
}

// IsValid reports whether every block links to its predecessor and every
// stored hash matches its contents.
func (bc *Blockchain) IsValid() bool {
	return bc.Verify() == nil
}

// Verify walks the chain from genesis and returns a *ValidationError for the
// first block that breaks linkage or content integrity.
func (bc *Blockchain) Verify() error {
	for i, block := range bc.blocks {
		if i > 0 && block.PrevHash != bc.blocks[i-1].Hash {
			return &ValidationError{Position: i, Err: ErrBrokenLink}
		}

		if !block.HasValidHash() {
			return &ValidationError{Position: i, Err: ErrHashMismatch}
		}
	}

	return nil
}

// Len returns the number of blocks including genesis.
func (bc *Blockchain) Len() int {
	return len(bc.blocks)
}

// Last returns the current tip.
func (bc *Blockchain) Last() *Block {
	return bc.blocks[len(bc.blocks)-1]
}

// Block returns the block at the given position.
func (bc *Blockchain) Block(position int) (*Block, error) {
	if position < 0 || position >= len(bc.blocks) {
		return nil, errors.Wrapf(ErrBlockNotFound, "position %d", position)
	}

	return bc.blocks[position], nil
}

// Blocks returns the blocks in chain order. The slice is a copy; the blocks
// are shared.
func (bc *Blockchain) Blocks() []*Block {
	return append([]*Block(nil), bc.blocks...)
}
