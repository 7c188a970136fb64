package backend

import (
	"cantiere/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the backing instance and optional cleanup function
type Result struct {
	Backing kv.Backing
	Cleanup CleanupFunc
}

// Config holds configuration for backing creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// File backing specific
	DataDirectory string
}

// Type represents the kind of persistence backing
type Type string

const (
	MemoryBacking Type = "memory"
	FileBacking   Type = "file"
	SQLiteBacking Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backing type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBacking, FileBacking, SQLiteBacking:
		return true
	default:
		return false
	}
}

// Types returns all valid backing types
func Types() []Type {
	return []Type{MemoryBacking, FileBacking, SQLiteBacking}
}
