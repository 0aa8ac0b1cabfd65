// Package localstore provides the viewer's device-scoped key-value store.
// Every backend is last-writer-wins and safe for concurrent use; none offers
// transactions across keys.
package localstore

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/summon-ai/agentdir/pkg/db"
	"github.com/summon-ai/agentdir/pkg/vote"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Entry is a single stored key and value.
type Entry struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// Store is a vote.Store that can also be listed and pruned.
type Store interface {
	vote.Store
	List(ctx context.Context, prefix string) ([]Entry, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and locates a backend.
type Config struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// Open returns the backend described by cfg. An empty backend means sqlite and
// an empty path means the backend's default location under the agentdir base
// directory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = db.DefaultDBPath(); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(ctx, path)
	case BackendFile:
		path := cfg.Path
		if path == "" {
			base, err := db.BaseDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(base, "local_storage.json")
		}
		return NewFile(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func filterSorted(values map[string]string, prefix string) []Entry {
	entries := make([]Entry, 0, len(values))
	for k, v := range values {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, Entry{Key: k, Value: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}
