package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/chesscore/internal/board"
)

// ErrNotFound is returned when no magic is stored for a square.
var ErrNotFound = errors.New("magic not stored")

const keyPrefix = "magic/"

// MagicRecord is a stored magic search result.
type MagicRecord struct {
	Kind     string    `json:"kind"`
	Square   string    `json:"square"`
	Magic    uint64    `json:"magic"`
	Bits     int       `json:"bits"`
	Attempts int       `json:"attempts"`
	Seed     uint64    `json:"seed"`
	FoundAt  time.Time `json:"found_at"`
}

// NewRecord builds a record from a search result.
func NewRecord(res board.MagicResult, seed uint64) MagicRecord {
	return MagicRecord{
		Kind:     res.Kind.String(),
		Square:   res.Square.String(),
		Magic:    res.Magic,
		Bits:     board.SlidingMask(res.Kind, res.Square).PopCount(),
		Attempts: res.Attempts,
		Seed:     seed,
		FoundAt:  time.Now(),
	}
}

// MagicStore wraps BadgerDB for magic search results.
type MagicStore struct {
	db *badger.DB
}

// Open opens (creating if needed) a store in dir. An empty dir selects the
// platform data directory.
func Open(dir string) (*MagicStore, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open magic store %s: %w", dir, err)
	}
	return &MagicStore{db: db}, nil
}

// Close closes the database
func (s *MagicStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func magicKey(kind board.SlidingKind, sq board.Square) []byte {
	return []byte(keyPrefix + kind.String() + "/" + sq.String())
}

// Save stores a record, replacing any earlier one for the same square.
func (s *MagicStore) Save(rec MagicRecord) error {
	kind, ok := board.ParseSlidingKind(rec.Kind)
	if !ok {
		return fmt.Errorf("save magic: unknown kind %q", rec.Kind)
	}
	sq, err := board.ParseSquare(rec.Square)
	if err != nil {
		return fmt.Errorf("save magic: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(magicKey(kind, sq), data)
	})
}

// Load returns the stored record for a square.
func (s *MagicStore) Load(kind board.SlidingKind, sq board.Square) (MagicRecord, error) {
	var rec MagicRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(magicKey(kind, sq))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%s %s: %w", kind, sq, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

// LoadAll returns every stored record of a slider family, keyed by square.
func (s *MagicStore) LoadAll(kind board.SlidingKind) (map[board.Square]MagicRecord, error) {
	out := make(map[board.Square]MagicRecord)
	prefix := []byte(keyPrefix + kind.String() + "/")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), string(prefix))
			sq, err := board.ParseSquare(name)
			if err != nil {
				return fmt.Errorf("corrupt key %q: %w", item.Key(), err)
			}
			var rec MagicRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out[sq] = rec
		}
		return nil
	})

	return out, err
}
