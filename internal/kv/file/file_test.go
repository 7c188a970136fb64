package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestReadAbsentKey(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, ok, err := b.ReadRaw(context.Background(), "projects")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ok {
		t.Fatalf("expected absent key")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	b, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	payload := []byte(`[{"id":"p1"}]`)
	if err := b.WriteRaw(ctx, "projects", payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, ok, err := b.ReadRaw(ctx, "projects")
	if err != nil || !ok {
		t.Fatalf("read: ok=%v err=%v", ok, err)
	}
	if string(data) != string(payload) {
		t.Fatalf("got %s, want %s", data, payload)
	}

	// The document lands in a single file named after the key.
	if _, err := os.Stat(filepath.Join(dir, "projects.json")); err != nil {
		t.Fatalf("expected projects.json: %v", err)
	}
}

func TestWriteOverwritesEntirely(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := b.WriteRaw(ctx, "expenses", []byte(`[1,2,3]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := b.WriteRaw(ctx, "expenses", []byte(`[]`)); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	data, _, _ := b.ReadRaw(ctx, "expenses")
	if string(data) != `[]` {
		t.Fatalf("expected full overwrite, got %s", data)
	}
}

func TestPathLikeKeysAreFlattened(t *testing.T) {
	dir := t.TempDir()
	b, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := b.WriteRaw(context.Background(), "a/b", []byte(`1`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_b.json")); err != nil {
		t.Fatalf("expected flattened file name: %v", err)
	}
}
