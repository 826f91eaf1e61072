// Package cache provides the TTL key-value store backing sessions.
//
// The store is an embedded Badger database: entries written with a TTL are
// evicted automatically, so an expired session simply stops resolving.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

var ErrKeyNotFound = errors.New("key not found")

type Cache struct {
	db *badger.DB
}

// New opens the cache at path. An empty path opens an in-memory store,
// which tests use.
func New(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	slog.Info("cache opened", "path", path, "in_memory", path == "")

	return &Cache{db: db}, nil
}

// Get returns the value stored under key, or ErrKeyNotFound if the key is
// absent or its TTL has elapsed.
func (c *Cache) Get(key string) (string, error) {
	var value string

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	return value, nil
}

// SetWithTTL stores key -> value; the entry is evicted after ttl.
func (c *Cache) SetWithTTL(key, value string, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte(value)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Ping reports whether the store is usable by running an empty read
// transaction.
func (c *Cache) Ping() bool {
	if c.db.IsClosed() {
		return false
	}
	err := c.db.View(func(txn *badger.Txn) error { return nil })
	return err == nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
