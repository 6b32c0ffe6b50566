package bolt

import (
	"bytes"
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"trade-checker-go/internal/storage"
)

var bucket = []byte("slots")

// Store implements storage.SlotStore on a single bolt file.
type Store struct {
	db *bolt.DB
}

// New opens the bolt file at path. It will be created if it doesn't exist.
func New(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: couldn't open bolt db %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt: couldn't create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(_ context.Context, name string) ([]byte, error) {
	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(name))
		if v != nil {
			// Values are only valid inside the transaction.
			data = bytes.Clone(v)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("bolt: couldn't get %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) Save(_ context.Context, name string, data []byte) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		if data == nil {
			data = []byte{}
		}
		return tx.Bucket(bucket).Put([]byte(name), data)
	}); err != nil {
		return fmt.Errorf("bolt: couldn't put %s: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.SlotStore = (*Store)(nil)
