package cart

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const (
	cartBucket = "carts"
	// defaultCartKey is the fixed identifier the single-cart session persists
	// under. Concurrent browsing contexts sharing the same store file get
	// last-write-wins semantics; no merge is attempted.
	defaultCartKey = "cart"
)

// Store persists the serialized line list: read on startup, written after
// every successful mutation.
type Store interface {
	Load() ([]Item, error)
	Save(items []Item) error
}

// BoltStore is a bbolt-backed Store keyed by a fixed cart identifier.
type BoltStore struct {
	db  *bolt.DB
	key []byte
}

// OpenBoltStore opens (or creates) the cart database file.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cart store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cartBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cart bucket: %w", err)
	}
	return &BoltStore{db: db, key: []byte(defaultCartKey)}, nil
}

// Close closes the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Load reads the persisted line list. A missing key yields an empty cart.
func (s *BoltStore) Load() ([]Item, error) {
	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(cartBucket)).Get(s.key)
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &items)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// Save overwrites the persisted line list.
func (s *BoltStore) Save(items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cartBucket)).Put(s.key, raw)
	})
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
