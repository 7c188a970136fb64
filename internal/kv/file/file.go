// Package file provides a kv.Backing that keeps one JSON document per key in
// a data directory. It is the stand-alone deployment's default persistence.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Backing struct {
	dir string
}

// New creates the data directory if needed and returns a backing over it.
func New(dir string) (*Backing, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Backing{dir: dir}, nil
}

func (b *Backing) path(key string) string {
	// Keys are fixed collection names, but refuse anything path-like.
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(b.dir, key+".json")
}

func (b *Backing) ReadRaw(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// WriteRaw replaces the document atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated collection behind.
func (b *Backing) WriteRaw(_ context.Context, key string, data []byte) error {
	target := b.path(key)
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}
