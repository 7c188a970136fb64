// Package worker exports collection snapshots in response to change events.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"cantiere/internal/amqp"
	"cantiere/internal/kv"
)

// ChangeConsumer is the event source the worker drains. Satisfied by
// amqp.Client.
type ChangeConsumer interface {
	ConsumeChanges(ctx context.Context, handler func(*amqp.ChangeMessage) error) error
}

// SnapshotWorker mirrors collection documents to JSON files in a backup
// directory. It reacts to change events and additionally re-exports
// everything on a timer to cover lost messages.
type SnapshotWorker struct {
	backing kv.Backing
	dir     string
}

func NewSnapshotWorker(backing kv.Backing, dir string) (*SnapshotWorker, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &SnapshotWorker{backing: backing, dir: dir}, nil
}

// HandleChangeMessage snapshots the collection a change message points at.
func (w *SnapshotWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"key", msg.Key,
		"op", msg.Op,
		"entity_id", msg.EntityID)

	if !kv.KnownKey(msg.Key) {
		// Unknown keys are acked and dropped so a schema drift between
		// producer and worker cannot wedge the queue.
		slog.WarnContext(ctx, "Ignoring change for unknown collection", "key", msg.Key)
		return nil
	}

	if err := w.Snapshot(ctx, msg.Key); err != nil {
		return fmt.Errorf("snapshot %s: %w", msg.Key, err)
	}
	return nil
}

// Snapshot exports one collection document to <dir>/<key>.json.
// Absent collections export as an empty array.
func (w *SnapshotWorker) Snapshot(ctx context.Context, key string) error {
	data, ok, err := w.backing.ReadRaw(ctx, key)
	if err != nil {
		return fmt.Errorf("read collection %s: %w", key, err)
	}
	if !ok {
		data = []byte("[]")
	}

	path := filepath.Join(w.dir, key+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize snapshot %s: %w", key, err)
	}

	slog.DebugContext(ctx, "Snapshot written", "key", key, "bytes", len(data))
	return nil
}

// SnapshotAll exports every collection. Individual failures are logged and
// the remaining collections still export; only the last error is returned.
func (w *SnapshotWorker) SnapshotAll(ctx context.Context) error {
	var lastErr error
	for _, key := range kv.Keys() {
		if err := w.Snapshot(ctx, key); err != nil {
			slog.ErrorContext(ctx, "Snapshot failed", "key", key, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

// Run drives the worker until ctx is cancelled: one goroutine drains change
// events, another re-exports all collections every interval as a catch-up
// for messages lost while the worker was down.
func (w *SnapshotWorker) Run(ctx context.Context, consumer ChangeConsumer, interval time.Duration) error {
	// Full export up front so the backup directory is complete even if no
	// change ever arrives.
	if err := w.SnapshotAll(ctx); err != nil {
		slog.WarnContext(ctx, "Startup snapshot incomplete", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
				return w.HandleChangeMessage(ctx, msg)
			})
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.SnapshotAll(ctx); err != nil {
					slog.WarnContext(ctx, "Periodic snapshot incomplete", "error", err)
				}
			}
		}
	})

	return g.Wait()
}
