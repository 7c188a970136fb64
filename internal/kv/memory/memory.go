// Package memory provides an in-process kv.Backing, used as the default
// backend and by tests.
package memory

import (
	"context"
	"errors"
	"sync"
)

var ErrWriteFailed = errors.New("memory backing: write failed")

type Backing struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailWrites makes every WriteRaw return ErrWriteFailed. Tests use it to
	// exercise the store's swallow-and-log persistence policy.
	FailWrites bool
}

func New() *Backing {
	return &Backing{data: make(map[string][]byte)}
}

func (b *Backing) ReadRaw(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	out := append([]byte(nil), data...)
	return out, true, nil
}

func (b *Backing) WriteRaw(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites {
		return ErrWriteFailed
	}
	b.data[key] = append([]byte(nil), data...)
	return nil
}

// Seed stores raw bytes under key without going through WriteRaw, letting
// tests plant malformed documents.
func (b *Backing) Seed(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), data...)
}
