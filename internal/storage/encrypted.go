package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// Encrypted seals values with AES-GCM before handing them to the
// underlying store. Keys are stored as they are.
type Encrypted struct {
	store Store
	aead  cipher.AEAD
}

var _ Enumerable = (*Encrypted)(nil)

// NewEncrypted wraps store. The key must be 16, 24 or 32 bytes long.
func NewEncrypted(store Store, key []byte) (*Encrypted, error) {
	const method = "NewEncrypted"
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errorf(method, "%w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errorf(method, "%w", err)
	}
	return &Encrypted{store: store, aead: aead}, nil
}

func (s *Encrypted) Get(k Key) (Value, error) {
	sealed, err := s.store.Get(k)
	if err != nil {
		return nil, err
	}
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, errorf("Encrypted.Get", "%q: value too short", k)
	}
	// The key is authenticated too, so values cannot be swapped.
	v, err := s.aead.Open(nil, sealed[:n], sealed[n:], []byte(k))
	if err != nil {
		return nil, errorf("Encrypted.Get", "%q: %w", k, err)
	}
	return v, nil
}

func (s *Encrypted) Put(k Key, v Value) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(v)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return errorf("Encrypted.Put", "could not read random bytes for nonce: %w", err)
	}
	return s.store.Put(k, s.aead.Seal(nonce, nonce, v, []byte(k)))
}

func (s *Encrypted) Delete(k Key) error {
	return s.store.Delete(k)
}

func (s *Encrypted) Contains(k Key) (bool, error) {
	e, ok := s.store.(Enumerable)
	if !ok {
		return false, fmt.Errorf("contains %T: %w", s.store, ErrNotImplemented)
	}
	return e.Contains(k)
}

func (s *Encrypted) ForEach(f func(Key) error) error {
	e, ok := s.store.(Enumerable)
	if !ok {
		return fmt.Errorf("enumerate %T: %w", s.store, ErrNotImplemented)
	}
	return e.ForEach(f)
}
