// Package local implements the durable key-value fallback used when the
// remote store cannot be reached. Values are JSON documents in badger.
package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"moodjournal/internal/id"
)

// Key prefixes.
const (
	recordPrefix     = "rec:"   // rec:<scope>:<date> -> record JSON
	recordIDPrefix   = "recid:" // recid:<id> -> record key
	categoryPrefix   = "cat:"   // cat:<scope>:<name> -> category JSON
	categoryIDPrefix = "catid:" // catid:<id> -> category key
)

const maxTxnRetries = 3

// Options configures where the cache lives.
type Options struct {
	Path     string
	InMemory bool
}

// Cache is the local fallback store for records and custom categories.
type Cache struct {
	db     *badger.DB
	logger *zap.Logger
	now    func() time.Time
}

func Open(opts Options, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		bopts = badger.DefaultOptions(opts.Path)
		bopts.SyncWrites = true
		bopts.CompactL0OnClose = true
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	logger.Info("local cache opened", zap.String("path", opts.Path), zap.Bool("in_memory", opts.InMemory))
	return &Cache{db: db, logger: logger, now: time.Now}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Name identifies the cache in fallback logs.
func (c *Cache) Name() string { return "local" }

// Owns reports whether id was minted here.
func (c *Cache) Owns(v string) bool { return id.IsLocal(v) }

// update runs fn in a read-write transaction, retrying on write conflicts.
func (c *Cache) update(fn func(txn *badger.Txn) error) error {
	var err error
	for range maxTxnRetries {
		err = c.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// getJSON loads key into dest. It reports false when the key is absent.
func getJSON(txn *badger.Txn, key string, dest any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func setJSON(txn *badger.Txn, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return txn.Set([]byte(key), data)
}

// getString loads a key holding a plain string, such as an id index entry.
func getString(txn *badger.Txn, key string) (string, bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

// scanPrefix decodes every value under prefix with decode.
func (c *Cache) scanPrefix(prefix string, decode func(val []byte) error) error {
	return c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := it.Item().Value(decode); err != nil {
				return err
			}
		}
		return nil
	})
}
