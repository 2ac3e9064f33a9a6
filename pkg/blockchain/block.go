package blockchain

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// GenesisHash is the previous hash carried by the genesis block, which has no
// real predecessor.
const GenesisHash = "0"

// Block represents each 'item' in the blockchain.
type Block struct {
	Index        uint64
	Timestamp    uint64
	Transactions []Transaction
	PrevHash     string
	Hash         string
	Nonce        uint64
}

// NewBlock creates a block and derives its hash from the other fields.
// The transaction slice is copied so the block owns its payload.
func NewBlock(index, timestamp uint64, transactions []Transaction, prevHash string, nonce uint64) *Block {
	txs := make([]Transaction, len(transactions))
	copy(txs, transactions)

	block := &Block{
		Index:        index,
		Timestamp:    timestamp,
		Transactions: txs,
		PrevHash:     prevHash,
		Nonce:        nonce,
	}
	block.DeriveHash()

	return block
}

// Genesis creates the first block in the blockchain
// which is called as the 'genesis block'.
func Genesis() *Block {
	return NewBlock(0, 0, nil, GenesisHash, 0)
}

// ComputeHash returns the lowercase hex SHA-256 digest of the block fields.
// Fields are concatenated in a fixed order with no separators.
func ComputeHash(index, timestamp uint64, transactions []Transaction, prevHash string, nonce uint64) string {
	var buf bytes.Buffer

	buf.WriteString(strconv.FormatUint(index, 10))
	buf.WriteString(strconv.FormatUint(timestamp, 10))
	buf.WriteString(FormatTransactions(transactions))
	buf.WriteString(prevHash)
	buf.WriteString(strconv.FormatUint(nonce, 10))

	sum := sha256.Sum256(buf.Bytes())

	return hex.EncodeToString(sum[:])
}

// CalculateHash recomputes the digest from the current fields. The stored
// Hash is never read.
func (b *Block) CalculateHash() string {
	return ComputeHash(b.Index, b.Timestamp, b.Transactions, b.PrevHash, b.Nonce)
}

// DeriveHash stores the recomputed digest in Hash.
func (b *Block) DeriveHash() {
	b.Hash = b.CalculateHash()
}

// HasValidHash reports whether the stored hash matches the block contents.
func (b *Block) HasValidHash() bool {
	return b.Hash == b.CalculateHash()
}

func (b *Block) String() string {
	return fmt.Sprintf("Block #%d [Hash: %s, Prev. Hash: %s, Nonce: %d]", b.Index, b.Hash, b.PrevHash, b.Nonce)
}

// Serialize serializes the block into a byte array.
func (b *Block) Serialize() ([]byte, error) {
	var result bytes.Buffer

	if err := gob.NewEncoder(&result).Encode(b); err != nil {
		return nil, errors.Wrap(err, "failed to encode block")
	}

	return result.Bytes(), nil
}

// Deserialize deserializes the block from a byte array.
func Deserialize(data []byte) (*Block, error) {
	block := new(Block)

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(block); err != nil {
		return nil, errors.Wrap(err, "failed to decode block")
	}

	return block, nil
}
