package blockchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swagftw/minichain/pkg/blockchain"
)

const (
	genesisDigest = "67e2d1cc783d76216088a467bd13ca99a316c7892d8ee169ccc0894e2de19953"
	fixtureTime   = 1700000000
	// digest of the fixture block at nonce 0, and the first mined solution
	fixtureDigest = "5098b36da4c7f539d49abe48b45759c3de7392284d9bd76136cc05beb98c6ad6"
	minedNonce    = 74
	minedDigest   = "0029a6c557d2509bcabbe488bf9a605fb811c1727166d4be6668fa5cc8b38b15"
)

func fixtureTransactions() []blockchain.Transaction {
	return []blockchain.Transaction{
		blockchain.NewTransaction("Alice", "Bob", 1.0),
		blockchain.NewTransaction("Bob", "Charlie", 2.0),
	}
}

func TestComputeHash(t *testing.T) {
	t.Run("Genesis", func(t *testing.T) {
		assert.Equal(t, genesisDigest, blockchain.ComputeHash(0, 0, nil, blockchain.GenesisHash, 0))
	})

	t.Run("Fixture", func(t *testing.T) {
		got := blockchain.ComputeHash(1, fixtureTime, fixtureTransactions(), genesisDigest, 0)
		assert.Equal(t, fixtureDigest, got)
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := blockchain.ComputeHash(3, 42, fixtureTransactions(), "abc", 9)
		second := blockchain.ComputeHash(3, 42, fixtureTransactions(), "abc", 9)
		assert.Equal(t, first, second)
		assert.Len(t, first, 64)
	})
}

func TestComputeHashSensitivity(t *testing.T) {
	base := blockchain.ComputeHash(1, fixtureTime, fixtureTransactions(), genesisDigest, 0)

	mutate := func(f func(txs []blockchain.Transaction)) []blockchain.Transaction {
		txs := fixtureTransactions()
		f(txs)

		return txs
	}

	tests := map[string]string{
		"Index":     blockchain.ComputeHash(2, fixtureTime, fixtureTransactions(), genesisDigest, 0),
		"Timestamp": blockchain.ComputeHash(1, fixtureTime+1, fixtureTransactions(), genesisDigest, 0),
		"PrevHash":  blockchain.ComputeHash(1, fixtureTime, fixtureTransactions(), "0", 0),
		"Nonce":     blockchain.ComputeHash(1, fixtureTime, fixtureTransactions(), genesisDigest, 1),
		"Sender": blockchain.ComputeHash(1, fixtureTime, mutate(func(txs []blockchain.Transaction) {
			txs[0].Sender = "Mallory"
		}), genesisDigest, 0),
		"Receiver": blockchain.ComputeHash(1, fixtureTime, mutate(func(txs []blockchain.Transaction) {
			txs[1].Receiver = "Mallory"
		}), genesisDigest, 0),
		"Amount": blockchain.ComputeHash(1, fixtureTime, mutate(func(txs []blockchain.Transaction) {
			txs[0].Amount = 1.5
		}), genesisDigest, 0),
		"Order": blockchain.ComputeHash(1, fixtureTime, mutate(func(txs []blockchain.Transaction) {
			txs[0], txs[1] = txs[1], txs[0]
		}), genesisDigest, 0),
		"Dropped": blockchain.ComputeHash(1, fixtureTime, fixtureTransactions()[:1], genesisDigest, 0),
	}

	seen := map[string]string{"Base": base}
	for field, digest := range tests {
		assert.NotEqual(t, base, digest, field)

		for other, otherDigest := range seen {
			assert.NotEqual(t, otherDigest, digest, "%s collides with %s", field, other)
		}

		seen[field] = digest
	}
}

func TestNewBlock(t *testing.T) {
	txs := fixtureTransactions()
	block := blockchain.NewBlock(1, fixtureTime, txs, genesisDigest, 0)

	assert.Equal(t, fixtureDigest, block.Hash)
	assert.True(t, block.HasValidHash())

	// the block owns a copy of its payload
	txs[0].Amount = 100
	assert.Equal(t, float32(1.0), block.Transactions[0].Amount)
	assert.True(t, block.HasValidHash())
}

func TestGenesis(t *testing.T) {
	genesis := blockchain.Genesis()

	assert.Equal(t, uint64(0), genesis.Index)
	assert.Equal(t, uint64(0), genesis.Timestamp)
	assert.Empty(t, genesis.Transactions)
	assert.Equal(t, "0", genesis.PrevHash)
	assert.Equal(t, uint64(0), genesis.Nonce)
	assert.Equal(t, genesisDigest, genesis.Hash)
}

func TestBlockHashTracksFields(t *testing.T) {
	block := blockchain.NewBlock(1, fixtureTime, fixtureTransactions(), genesisDigest, 0)

	block.Nonce = 1
	assert.False(t, block.HasValidHash())
	assert.Equal(t, fixtureDigest, block.Hash, "stored hash is not recomputed implicitly")

	block.DeriveHash()
	assert.True(t, block.HasValidHash())
	assert.Equal(t, blockchain.ComputeHash(1, fixtureTime, fixtureTransactions(), genesisDigest, 1), block.Hash)
}

func TestBlockString(t *testing.T) {
	block := blockchain.NewBlock(1, fixtureTime, fixtureTransactions(), genesisDigest, 0)

	assert.Equal(t,
		"Block #1 [Hash: "+fixtureDigest+", Prev. Hash: "+genesisDigest+", Nonce: 0]",
		block.String())
	assert.Equal(t,
		"Block #0 [Hash: "+genesisDigest+", Prev. Hash: 0, Nonce: 0]",
		blockchain.Genesis().String())
}

func TestSerialize(t *testing.T) {
	block := blockchain.NewBlock(1, fixtureTime, fixtureTransactions(), genesisDigest, 7)

	data, err := block.Serialize()
	require.NoError(t, err)

	decoded, err := blockchain.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, block, decoded)
	assert.True(t, decoded.HasValidHash())

	_, err = blockchain.Deserialize([]byte("not a block"))
	assert.Error(t, err)
}
