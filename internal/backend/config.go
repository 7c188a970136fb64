package backend

import (
	"fmt"

	"cantiere/internal/config"
)

// FromAppConfig converts the application config to backing config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backingType := Type(appConfig.DataBackend)
	if !backingType.IsValid() {
		return Config{}, fmt.Errorf("invalid backing type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:          backingType,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		DataDirectory: appConfig.DataDir,
	}, nil
}

// Validate validates the backing configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backing type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBacking:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backing")
		}
	case FileBacking, MemoryBacking:
		// DataDirectory defaults to "data" for the file backing.
	}

	return nil
}
