package types

import "errors"

type Transaction struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float32 `json:"amount"`
}

type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    uint64        `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	PrevHash     string        `json:"prevHash"`
	Hash         string        `json:"hash"`
	Nonce        uint64        `json:"nonce"`
	PoW          bool          `json:"pow"`
}

type Blockchain struct {
	Blocks []*Block `json:"blocks"`
	Length int      `json:"length"`
	Valid  bool     `json:"valid"`
}

type Validity struct {
	Valid bool `json:"valid"`
	// Reason is empty for a valid chain.
	Reason string `json:"reason,omitempty"`
	// Position of the first failing block, -1 for a valid chain.
	Position int `json:"position"`
}

type MineRequest struct {
	Transactions []Transaction `json:"transactions"`
}

type LastHash struct {
	Hash string `json:"hash"`
}

var ErrCopy = errors.New("error copying struct")
