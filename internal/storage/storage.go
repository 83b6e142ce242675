package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesseval/internal/eval"
)

// Key prefixes
const (
	prefixResult = "eval:"
	keyMeta      = "meta"
)

// ErrNotFound is returned when no stored result exists for a signature.
var ErrNotFound = errors.New("storage: result not found")

// Meta describes the store contents so a weights change can invalidate
// stale neural results.
type Meta struct {
	WeightsPath string `json:"weights_path"`
	Results     int    `json:"results"`
}

// Store wraps BadgerDB for persistent evaluation results keyed by
// position signature.
type Store struct {
	db *badger.DB
}

// Open opens the store in the default database directory.
func Open() (*Store, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the store in the given directory, creating it if needed.
func OpenAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func resultKey(signature uint64) []byte {
	key := make([]byte, len(prefixResult)+8)
	copy(key, prefixResult)
	binary.BigEndian.PutUint64(key[len(prefixResult):], signature)
	return key
}

// PutResult stores an evaluation result under the position signature,
// overwriting any previous entry.
func (s *Store) PutResult(signature uint64, result eval.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(signature), data)
	})
}

// GetResult loads the stored result for a signature. Returns
// ErrNotFound when the position has never been stored.
func (s *Store) GetResult(signature uint64) (eval.Result, error) {
	var result eval.Result

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(signature))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})

	return result, err
}

// SaveMeta persists the store metadata.
func (s *Store) SaveMeta(meta *Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyMeta), data)
	})
}

// LoadMeta loads the store metadata, returning an empty Meta for a
// fresh store.
func (s *Store) LoadMeta() (*Meta, error) {
	meta := &Meta{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyMeta))
		if err == badger.ErrKeyNotFound {
			return nil // Fresh store
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, meta)
		})
	})

	return meta, err
}

// CountResults walks the result keyspace and returns the number of
// stored evaluations.
func (s *Store) CountResults() (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixResult)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}
