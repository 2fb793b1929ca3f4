package storage

import (
	"fmt"
	"sort"
	"sync"
)

// InMemory is an Enumerable store that lives as long as the process. The
// zero value is ready to use. Values are copied in and out, so callers may
// reuse their buffers.
type InMemory struct {
	mu     sync.RWMutex
	values map[Key]Value
}

var _ Enumerable = (*InMemory)(nil)

func (s *InMemory) Get(k Key) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[k]
	if !ok {
		return nil, fmt.Errorf("%q: %w", k, ErrNotFound)
	}
	return append(Value(nil), v...), nil
}

func (s *InMemory) Put(k Key, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[Key]Value)
	}
	s.values[k] = append(Value(nil), v...)
	return nil
}

func (s *InMemory) Delete(k Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, k)
	return nil
}

func (s *InMemory) Contains(k Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[k]
	return ok, nil
}

// ForEach calls f on the stored keys in increasing order. The store may
// be modified from f.
func (s *InMemory) ForEach(f func(Key) error) error {
	s.mu.RLock()
	keys := make([]Key, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		if err := f(k); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored values.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
