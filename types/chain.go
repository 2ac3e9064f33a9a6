package types

import "context"

// ChainService provides serialized access to the in-memory blockchain.
type ChainService interface {
	GetBlocks(ctx context.Context, start, end int) ([]*Block, error)
	GetBlock(ctx context.Context, index int) (*Block, error)
	GetBlockchain(ctx context.Context) (*Blockchain, error)
	LastHash(ctx context.Context) (string, error)
	Mine(ctx context.Context, transactions []Transaction) (*Block, error)
	Validate(ctx context.Context) (*Validity, error)
}
