package vba

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/xltrail/git-xl/internal/storage"
)

// cacheFormat is part of every key, so that changing how modules are
// parsed or encoded invalidates old entries.
const cacheFormat = "git-xl/vba/1\n"

// CachingExtractor remembers the modules of workbooks by content. Git
// runs the drivers on temporary copies of blobs it has seen before, so
// the same workbook content is extracted again and again otherwise.
// Cache failures are logged and otherwise ignored.
type CachingExtractor struct {
	Next  Extractor
	Store storage.Store
}

var _ Extractor = (*CachingExtractor)(nil)

// Extract implements Extractor.
func (e *CachingExtractor) Extract(ctx context.Context, path string) (*Workbook, error) {
	if IsAbsent(path) {
		return e.Next.Extract(ctx, path)
	}
	key, err := contentKey(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	logger := log.WithFields(log.Fields{
		"path": path,
		"key":  key,
	})
	if value, err := e.Store.Get(key); err == nil {
		wb, err := decodeWorkbook(value)
		if err == nil {
			logger.Debug("Cache hit")
			return wb, nil
		}
		logger.WithField("cause", err).Warning("Discarding malformed cache entry")
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.WithField("cause", err).Warning("Could not read cache")
	}
	wb, err := e.Next.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(wb)
	if err != nil {
		logger.WithField("cause", err).Warning("Could not encode cache entry")
		return wb, nil
	}
	if err := e.Store.Put(key, value); err != nil {
		logger.WithField("cause", err).Warning("Could not write cache")
	}
	return wb, nil
}

// decodeWorkbook recomputes digests instead of trusting the stored ones,
// since they key the module comparisons.
func decodeWorkbook(value []byte) (*Workbook, error) {
	var decoded Workbook
	if err := json.Unmarshal(value, &decoded); err != nil {
		return nil, err
	}
	modules := make([]*Module, 0, len(decoded.Modules))
	for _, m := range decoded.Modules {
		if m == nil {
			return nil, errors.New("null module")
		}
		modules = append(modules, NewModule(m.Name, m.Type, m.Code))
	}
	return NewWorkbook(modules), nil
}

func contentKey(path string) (storage.Key, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		// Ignore error closing file opened only for reading.
		_ = f.Close()
	}()
	h := sha256.New()
	_, _ = io.WriteString(h, cacheFormat)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return storage.Key(hex.EncodeToString(h.Sum(nil))), nil
}
