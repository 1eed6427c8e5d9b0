// Package factory wires configuration to concrete infrastructure.
package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PeytonLeFleur/lamp-and-light/internal/config"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store/postgres"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store/sqlite"
)

// NewStore selects the correct store driver based on cfg.DBDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			dir, err := DataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "lamplight.db")
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		if err := sqlite.EnsureSchema(db); err != nil {
			return nil, err
		}
		return sqlite.New(db), nil
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(db); err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

const (
	envHome = "LAMPLIGHT_HOME" // override for tests
	dirName = ".lamplight"     // default under $HOME
)

// DataDir returns the directory where local state is stored (~/.lamplight).
// It creates the directory with 0700 permissions if it does not exist.
func DataDir() (string, error) {
	if custom := os.Getenv(envHome); custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// CacheDir resolves the disk cache directory: the configured value, or
// <data dir>/aicache.
func CacheDir(cfg *config.Config) (string, error) {
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "aicache"), nil
}
