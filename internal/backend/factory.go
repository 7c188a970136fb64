package backend

import (
	"fmt"
	"log/slog"

	"cantiere/internal/kv/file"
	"cantiere/internal/kv/memory"
	"cantiere/internal/storage"
)

// Factory creates persistence backings based on configuration
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backing factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBacking builds the backing named by the config
func (f *Factory) CreateBacking(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backing type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBacking:
		return f.createSQLite(cfg)
	case FileBacking:
		return f.createFile(cfg)
	case MemoryBacking:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backing type: %s", cfg.Type)
	}
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	backing, err := storage.NewSQLiteBacking(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sqlite backing: %w", err)
	}

	f.logger.Info("Initialized sqlite backing", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Backing: backing,
		Cleanup: backing.Close,
	}, nil
}

func (f *Factory) createFile(cfg Config) (*Result, error) {
	dataDir := cfg.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	backing, err := file.New(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file backing: %w", err)
	}

	f.logger.Info("Initialized file backing", "data_directory", dataDir)

	return &Result{
		Backing: backing,
		Cleanup: nil,
	}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	f.logger.Info("Initialized memory backing")

	return &Result{
		Backing: memory.New(),
		Cleanup: nil,
	}, nil
}
