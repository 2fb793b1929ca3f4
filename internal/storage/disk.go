package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps each value in its own file, in a subdirectory named
// after the first two digits of the key.
type DiskStore struct {
	dir string
}

var _ Enumerable = (*DiskStore)(nil)

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Get(k Key) (Value, error) {
	b, err := os.ReadFile(s.pathFor(k))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", k, ErrNotFound)
	}
	return b, err
}

// Put writes the value to a temporary file first and renames it, so that
// concurrent readers never see a partial value.
func (s *DiskStore) Put(k Key, v Value) error {
	const method = "DiskStore.Put"
	p := s.pathFor(k)
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return errorf(method, "%w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(p), string(k)+".*.new")
	if err != nil {
		return errorf(method, "%w", err)
	}
	if _, err := f.Write(v); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return errorf(method, "%q: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return errorf(method, "%q: %w", f.Name(), err)
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return errorf(method, "%w", err)
	}
	return nil
}

func (s *DiskStore) Delete(k Key) error {
	err := os.Remove(s.pathFor(k))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *DiskStore) ForEach(cb func(Key) error) error {
	var kk []Key
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) && p == s.dir {
			return filepath.SkipDir
		}
		if err != nil {
			return err
		}
		if !d.IsDir() && !strings.HasSuffix(p, ".new") {
			kk = append(kk, Key(filepath.Base(p)))
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range kk {
		if err := cb(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *DiskStore) Contains(k Key) (bool, error) {
	_, err := os.Stat(s.pathFor(k))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *DiskStore) pathFor(key Key) string {
	k := string(key)
	return filepath.Join(s.dir, k[:2], k)
}
