// Package cache stores translation results on disk with a TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTTL is how long a cached translation stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// Entry is one cached translation.
type Entry struct {
	Text      string    `json:"text"`
	Engine    string    `json:"engine"`
	CreatedAt time.Time `json:"created_at"`
}

// Cache is a badger-backed key/value store of translation entries.
type Cache struct {
	db *badger.DB
}

// New opens (or creates) a cache at path.
func New(path string) (*Cache, error) {
	return open(badger.DefaultOptions(path))
}

// NewInMemory creates a cache that lives only as long as the process.
func NewInMemory() (*Cache, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Cache, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Cache{db: db}, nil
}

// GenerateKey derives a fixed-length key from the given parts.
func GenerateKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get returns the entry stored under key, if present and not expired.
func (c *Cache) Get(key string) (*Entry, bool) {
	var entry Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, false
	}
	return &entry, true
}

// Set stores entry under key for ttl. A non-positive ttl stores without expiry.
func (c *Cache) Set(key string, entry *Entry, ttl time.Duration) error {
	if entry == nil {
		return errors.New("cache: nil entry")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Close flushes and closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
