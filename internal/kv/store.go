// Package kv implements the key-scoped JSON store the application keeps its
// collections in. A Store fronts a Backing with an in-memory cache so reads
// are cheap and the session stays consistent even when the backing fails.
package kv

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Event signals that the value under Key was replaced.
type Event struct {
	Key string
}

// Store caches one serialized document per key and writes through to the
// backing. Writes update the cache first; a failing backing is logged and
// swallowed so the caller's view never diverges from what it just wrote.
type Store struct {
	mu       sync.RWMutex
	backing  Backing
	cache    map[string][]byte
	loaded   map[string]bool
	watchers map[string]map[int]chan Event
	nextID   int
}

func NewStore(backing Backing) *Store {
	return &Store{
		backing:  backing,
		cache:    make(map[string][]byte),
		loaded:   make(map[string]bool),
		watchers: make(map[string]map[int]chan Event),
	}
}

// raw returns the serialized document under key, reading through to the
// backing on first access. ok is false when the key has no value.
func (s *Store) raw(ctx context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	if s.loaded[key] {
		data, ok := s.cache[key]
		s.mu.RUnlock()
		return data, ok
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[key] {
		data, ok := s.cache[key]
		return data, ok
	}

	data, ok, err := s.backing.ReadRaw(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read key from backing",
			"key", key, "error", err)
		// Treat as absent; do not mark loaded so a later read can retry.
		return nil, false
	}
	s.loaded[key] = true
	if ok {
		s.cache[key] = data
	}
	return data, ok
}

// put replaces the document under key. The cache is updated before the
// backing write, and watchers are notified either way. Sends happen under
// the mutex so cancel can close a watcher channel without racing a send;
// they never block because the channels are buffered and sends are
// non-blocking.
func (s *Store) put(ctx context.Context, key string, data []byte) {
	s.mu.Lock()
	s.cache[key] = data
	s.loaded[key] = true
	for _, ch := range s.watchers[key] {
		select {
		case ch <- Event{Key: key}:
		default: // watcher is behind, it will observe the latest state anyway
		}
	}
	s.mu.Unlock()

	if err := s.backing.WriteRaw(ctx, key, data); err != nil {
		slog.ErrorContext(ctx, "Failed to persist key, keeping in-memory value",
			"key", key, "error", err)
	}
}

// Watch returns a channel that receives an Event after every write to key.
// Events coalesce when the consumer lags. The returned cancel func releases
// the watcher and closes the channel, so a `for range` consumer terminates.
// cancel is safe to call more than once.
func (s *Store) Watch(key string) (<-chan Event, func()) {
	ch := make(chan Event, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[int]chan Event)
	}
	s.watchers[key][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[key][id]; ok {
			delete(s.watchers[key], id)
			close(ch)
		}
	}
	return ch, cancel
}

// Load reads the value under key, returning def when the key is absent or
// holds data that does not parse. It never returns an error.
func Load[T any](ctx context.Context, s *Store, key string, def T) T {
	data, ok := s.raw(ctx, key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.WarnContext(ctx, "Stored value does not parse, using default",
			"key", key, "error", err)
		return def
	}
	return v
}

// Save serializes v and replaces the value under key. Serialization failures
// and backing failures are logged, never propagated.
func Save[T any](ctx context.Context, s *Store, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to serialize value for key",
			"key", key, "error", err)
		return
	}
	s.put(ctx, key, data)
}
