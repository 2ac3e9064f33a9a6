package blockchain

// Iterator walks a chain from genesis to the tip.
type Iterator struct {
	blocks   []*Block
	position int
}

// Iterator returns an iterator over a snapshot of the blockchain.
func (bc *Blockchain) Iterator() *Iterator {
	return &Iterator{blocks: bc.Blocks()}
}

// Next returns the next block in the blockchain, or nil once the tip has been
// returned.
func (iter *Iterator) Next() *Block {
	if iter.position >= len(iter.blocks) {
		return nil
	}

	block := iter.blocks[iter.position]
	iter.position++

	return block
}
