package localstore

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// File keeps all values in one JSON object on disk. The file is locked for
// every read and rewrite so several processes can share it.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a store backed by the JSON file at path. The file is created
// on first write.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create local store directory")
	}
	return &File{path: path}, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	return f.transform(func(values map[string]string) {
		values[key] = value
	})
}

func (f *File) List(_ context.Context, prefix string) ([]Entry, error) {
	values, err := f.read()
	if err != nil {
		return nil, err
	}
	return filterSorted(values, prefix), nil
}

func (f *File) Delete(_ context.Context, key string) error {
	return f.transform(func(values map[string]string) {
		delete(values, key)
	})
}

func (f *File) Close() error {
	return nil
}

func (f *File) read() (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := lockedfile.Read(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read local store")
	}
	return decodeValues(data)
}

func (f *File) transform(mutate func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := lockedfile.Transform(f.path, func(data []byte) ([]byte, error) {
		values, err := decodeValues(data)
		if err != nil {
			return nil, err
		}
		mutate(values)
		return json.MarshalIndent(values, "", "  ")
	})
	return errors.Wrap(err, "failed to write local store")
}

func decodeValues(data []byte) (map[string]string, error) {
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "local store file is corrupt")
	}
	return values, nil
}
