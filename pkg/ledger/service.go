package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/swagftw/minichain/pkg/blockchain"
	"github.com/swagftw/minichain/types"
	"github.com/swagftw/minichain/utl/metrics"
)

// ErrInvalidRange is returned by GetBlocks for an empty or out-of-bounds range.
var ErrInvalidRange = errors.New("invalid block range")

// Journal records every block appended to the chain.
type Journal interface {
	Append(block *blockchain.Block) error
}

// Service owns one in-memory chain and serializes every call into it. Reading
// the last hash, mining and appending happen under a single lock, so a mined
// block always links to the tip it was mined against.
type Service struct {
	mu    sync.Mutex
	chain *blockchain.Blockchain

	journal   Journal
	metrics   *metrics.Metrics
	chainOpts []blockchain.Option
}

var _ types.ChainService = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithJournal records the genesis block and every mined block in j.
func WithJournal(j Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithMetrics reports mining and validation to m. Nil disables metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithChainOptions passes options to the underlying blockchain, e.g. a mining
// limit or a fixed clock.
func WithChainOptions(opts ...blockchain.Option) Option {
	return func(s *Service) {
		s.chainOpts = append(s.chainOpts, opts...)
	}
}

// New creates a service around a fresh chain. The genesis block is journaled
// when a journal is configured.
func New(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}

	s.chain = blockchain.NewBlockchain(s.chainOpts...)

	if s.journal != nil {
		if err := s.journal.Append(s.chain.Last()); err != nil {
			return nil, errors.Wrap(err, "failed to journal genesis block")
		}
	}

	s.metrics.SetChainLength(s.chain.Len())

	return s, nil
}

// Mine mines a block carrying the transactions and appends it. Mining is not
// interruptible; ctx is only checked before the search starts.
func (s *Service) Mine(ctx context.Context, transactions []types.Transaction) (*types.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var txs []blockchain.Transaction
	if err := copier.Copy(&txs, &transactions); err != nil {
		return nil, errors.Wrap(types.ErrCopy, err.Error())
	}

	block, err := s.MineBlock(txs)
	if err != nil {
		return nil, err
	}

	return toBlockDTO(block)
}

// MineBlock is Mine for callers holding engine transactions.
func (s *Service) MineBlock(txs []blockchain.Transaction) (*blockchain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.chain.MineBlock(txs)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveMined(block.Nonce + 1)

	if s.journal != nil {
		if err = s.journal.Append(block); err != nil {
			return nil, errors.Wrapf(err, "failed to journal block %d", block.Index)
		}
	}

	s.chain.AddBlock(block)
	s.metrics.ObserveAppended(s.chain.Len())

	slog.Info("Block mined", "index", block.Index, "hash", block.Hash, "nonce", block.Nonce)

	return block, nil
}

// GetBlocks returns blocks in [start, end). An end of zero or past the tip
// means up to the tip.
func (s *Service) GetBlocks(_ context.Context, start, end int) ([]*types.Block, error) {
	s.mu.Lock()
	blocks := s.chain.Blocks()
	s.mu.Unlock()

	if end <= 0 || end > len(blocks) {
		end = len(blocks)
	}

	if start < 0 || start >= end {
		return nil, errors.Wrapf(ErrInvalidRange, "start %d, end %d, length %d", start, end, len(blocks))
	}

	return toBlockDTOs(blocks[start:end])
}

func (s *Service) GetBlock(_ context.Context, index int) (*types.Block, error) {
	s.mu.Lock()
	block, err := s.chain.Block(index)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return toBlockDTO(block)
}

func (s *Service) GetBlockchain(_ context.Context) (*types.Blockchain, error) {
	s.mu.Lock()
	blocks := s.chain.Blocks()
	valid := s.chain.IsValid()
	s.mu.Unlock()

	dtos, err := toBlockDTOs(blocks)
	if err != nil {
		return nil, err
	}

	return &types.Blockchain{Blocks: dtos, Length: len(dtos), Valid: valid}, nil
}

func (s *Service) LastHash(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.LastHash(), nil
}

// Validate verifies the whole chain and reports the first failing block.
func (s *Service) Validate(_ context.Context) (*types.Validity, error) {
	s.mu.Lock()
	err := s.chain.Verify()
	s.mu.Unlock()

	s.metrics.ObserveValidation(err == nil)

	if err == nil {
		return &types.Validity{Valid: true, Position: -1}, nil
	}

	var validationErr *blockchain.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, err
	}

	slog.Warn("Chain validation failed", "position", validationErr.Position, "reason", validationErr.Err)

	return &types.Validity{Valid: false, Reason: validationErr.Err.Error(), Position: validationErr.Position}, nil
}

func toBlockDTO(block *blockchain.Block) (*types.Block, error) {
	dto := new(types.Block)
	if err := copier.Copy(dto, block); err != nil {
		return nil, errors.Wrap(types.ErrCopy, err.Error())
	}

	if dto.Transactions == nil {
		dto.Transactions = []types.Transaction{}
	}

	dto.PoW = blockchain.NewProof(block).Validate()

	return dto, nil
}

func toBlockDTOs(blocks []*blockchain.Block) ([]*types.Block, error) {
	dtos := make([]*types.Block, 0, len(blocks))

	for _, block := range blocks {
		dto, err := toBlockDTO(block)
		if err != nil {
			return nil, err
		}

		dtos = append(dtos, dto)
	}

	return dtos, nil
}
