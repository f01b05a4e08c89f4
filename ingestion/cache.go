// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/jovianatlas/moonatlas/core"
)

const cacheKeyPrefix = "embcache"

// Cache is a local embedding cache keyed by chunk id and model name.
// Chunk ids are content-derived, so a hit means the exact text was already
// embedded with the same model and the provider call can be skipped on
// re-ingestion.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// cacheEntry is the stored value for one cached embedding.
type cacheEntry struct {
	Model  string    `json:"model"`
	Vector []float32 `json:"vector"`
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenCache opens a BadgerDB-backed embedding cache at the specified path.
// Creates the directory if it doesn't exist.
func OpenCache(path string) (*Cache, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(path)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{
		db:     db,
		logger: slog.Default().With("component", "embedding-cache"),
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached vector for a chunk id and model, if present.
func (c *Cache) Get(id core.ID, model string) ([]float32, bool, error) {
	var entry cacheEntry
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(id, model))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(value, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return entry.Vector, true, nil
}

// Put stores a vector for a chunk id and model, replacing any prior value.
func (c *Cache) Put(id core.ID, model string, vector []float32) error {
	value, err := json.Marshal(cacheEntry{Model: model, Vector: vector})
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(id, model), value)
	})
}

func cacheKey(id core.ID, model string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", cacheKeyPrefix, model, id.String()))
}
