// Package config handles lock directory discovery and configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	mooringErrors "github.com/cameronsjo/mooring/internal/errors"
)

// EnvLockDir overrides the lock directory when set.
const EnvLockDir = "MOORING_LOCK_DIR"

// Config holds the mooring configuration.
type Config struct {
	// LockDir is the directory holding all named lock files.
	LockDir string `yaml:"lock_dir"`
}

// configFile returns the path of the user configuration file.
func configFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "mooring", "config.yaml"), nil
}

// defaultLockDir is used when neither the environment nor the config
// file names a lock directory.
func defaultLockDir() string {
	return filepath.Join(os.TempDir(), "mooring")
}

// Load resolves the configuration. Precedence: MOORING_LOCK_DIR, then
// the user config file, then the default under the temp directory.
// A missing config file is not an error.
func Load() (*Config, error) {
	cfg := &Config{}

	path, err := configFile()
	if err == nil {
		data, readErr := os.ReadFile(path)
		switch {
		case readErr == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(readErr):
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	if env := os.Getenv(EnvLockDir); env != "" {
		cfg.LockDir = env
	}
	if cfg.LockDir == "" {
		cfg.LockDir = defaultLockDir()
	}

	return cfg, nil
}

// EnsureLockDir creates the lock directory if it does not exist.
func (c *Config) EnsureLockDir() error {
	if err := os.MkdirAll(c.LockDir, 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	return nil
}

// PathFor maps a lock name to its file path inside the lock
// directory. Names are single path elements; anything containing a
// separator or relative traversal is rejected.
func (c *Config) PathFor(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", mooringErrors.Wrapf(mooringErrors.ErrBadLockName, "%q", name)
	}
	return filepath.Join(c.LockDir, name+".lock"), nil
}

// NameFor is the inverse of PathFor for files inside the lock
// directory; ok is false for files that are not mooring lock files.
func (c *Config) NameFor(path string) (string, bool) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ".lock")
	if name == base || name == "" {
		return "", false
	}
	return name, true
}
