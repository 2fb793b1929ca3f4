package storage

import (
	"errors"
	"fmt"

	"github.com/xltrail/git-xl/internal/config"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotImplemented = errors.New("not implemented")
)

// Key names a value. Keys are hex strings of at least two digits.
type Key string

type Value []byte

type Store interface {
	Get(Key) (Value, error)
	Put(Key, Value) error
	// Delete removes the value for a key. Deleting a missing key succeeds.
	Delete(Key) error
}

type Enumerable interface {
	Store
	Contains(Key) (bool, error)
	ForEach(func(Key) error) error
}

// NewStore returns the store backing the cache described by c.
func NewStore(c *config.C) (Store, error) {
	s, err := newStore(c)
	if err != nil || len(c.EncryptionKeyBytes()) == 0 {
		return s, err
	}
	return NewEncrypted(s, c.EncryptionKeyBytes())
}

func newStore(c *config.C) (Store, error) {
	switch c.Cache.Storage {
	case config.StorageDisk:
		return NewDiskStore(c.CacheDirectoryPath()), nil
	case config.StorageMemory:
		return &InMemory{}, nil
	case config.StorageNull:
		return NullStore{}, nil
	case config.StorageS3:
		return newS3Store(c.Cache)
	default:
		return nil, fmt.Errorf("%q: %w", c.Cache.Storage, ErrNotImplemented)
	}
}

// Clear deletes every value in s and returns how many it deleted.
func Clear(s Store) (int, error) {
	e, ok := s.(Enumerable)
	if !ok {
		return 0, fmt.Errorf("clear %T: %w", s, ErrNotImplemented)
	}
	n := 0
	err := e.ForEach(func(k Key) error {
		if err := e.Delete(k); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
