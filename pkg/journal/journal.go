package journal

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/swagftw/minichain/pkg/blockchain"
)

var (
	ErrJournalExists = errors.New("journal already contains blocks")
	ErrEmptyJournal  = errors.New("journal is empty")
	ErrJournalLocked = errors.New("journal is locked by another process")
)

var (
	blockPrefix = []byte("b/")
	lastHashKey = []byte("lh")
	lengthKey   = []byte("len")
)

// Journal is an append-only badger log of the blocks appended to a chain.
// Entries are keyed by append position, so blocks sharing an index never
// overwrite each other.
type Journal struct {
	db *badger.DB
}

// Open opens the journal in dir, creating it when missing.
func Open(dir string) (*Journal, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = badgerLogger{}

	db, err := openDB(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open journal %s", dir)
	}

	return &Journal{db: db}, nil
}

// Create opens a journal that must not hold blocks yet.
func Create(dir string) (*Journal, error) {
	j, err := Open(dir)
	if err != nil {
		return nil, err
	}

	n, err := j.Len()
	if err != nil {
		_ = j.Close()

		return nil, err
	}

	if n > 0 {
		_ = j.Close()

		return nil, errors.Wrapf(ErrJournalExists, "%s holds %d blocks", dir, n)
	}

	return j, nil
}

// Append stores the block after the last journaled one.
func (j *Journal) Append(block *blockchain.Block) error {
	data, err := block.Serialize()
	if err != nil {
		return err
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		n, err := readLength(txn)
		if err != nil {
			return err
		}

		if err = txn.Set(blockKey(n), data); err != nil {
			return err
		}

		if err = txn.Set(lastHashKey, []byte(block.Hash)); err != nil {
			return err
		}

		return txn.Set(lengthKey, encodeUint(n+1))
	})

	return errors.Wrap(err, "failed to append block to journal")
}

// Blocks returns every journaled block in append order.
func (j *Journal) Blocks() ([]*blockchain.Block, error) {
	var blocks []*blockchain.Block

	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(blockPrefix); it.ValidForPrefix(blockPrefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			block, err := blockchain.Deserialize(val)
			if err != nil {
				return err
			}

			blocks = append(blocks, block)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read journal")
	}

	return blocks, nil
}

// Len returns the number of journaled blocks.
func (j *Journal) Len() (uint64, error) {
	var n uint64

	err := j.db.View(func(txn *badger.Txn) error {
		var err error
		n, err = readLength(txn)

		return err
	})

	return n, errors.Wrap(err, "failed to read journal length")
}

// LastHash returns the stored hash of the last journaled block.
func (j *Journal) LastHash() (string, error) {
	var lastHash string

	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(lastHashKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEmptyJournal
		}

		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			lastHash = string(val)

			return nil
		})
	})

	return lastHash, err
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func readLength(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get(lengthKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	var n uint64

	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt length entry of %d bytes", len(val))
		}

		n = binary.BigEndian.Uint64(val)

		return nil
	})

	return n, err
}

func blockKey(position uint64) []byte {
	return append(append([]byte(nil), blockPrefix...), encodeUint(position)...)
}

func encodeUint(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)

	return buf
}

// openDB opens the badger store. A directory held by another process is
// reported as ErrJournalLocked; its LOCK file is never removed.
func openDB(dir string, opts badger.Options) (*badger.DB, error) {
	db, err := badger.Open(opts)
	if err == nil {
		return db, nil
	}

	if strings.Contains(err.Error(), "directory lock") {
		slog.Warn("Journal is in use by another process", "dir", dir)

		return nil, errors.Wrap(ErrJournalLocked, err.Error())
	}

	return nil, err
}

// badgerLogger routes badger's own logging through slog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	slog.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
