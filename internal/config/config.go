package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/stbl/stbl/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	Stbl     *Stbl `yaml:"stbl"`
	backends *Backends
	mx       sync.RWMutex
}

// NewConfig creates a new Config with the given backend profiles.
func NewConfig(backends *Backends) *Config {
	if backends == nil {
		backends = NewBackends()
	}
	return &Config{
		Stbl:     NewStbl(),
		backends: backends,
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.Stbl == nil {
		c.Stbl = NewStbl()
	}
	c.Stbl.Validate()

	return nil
}

// Save saves the configuration to the given path.
// If force is false, only saves if the file already exists.
func (c *Config) Save(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}
	if _, err := os.Stat(path); err != nil && !force {
		return nil
	}

	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags and picks the table to show.
// This implements the configuration precedence logic:
// - Table: CLI --table > config defaultTable > built-in products table
// - Backend: CLI --backend > table backend > config defaultBackend > "default"
func (c *Config) Refine(flags *data.Flags, tables *data.Dir) (*TableDef, *Backend, error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Stbl == nil {
		return nil, nil, fmt.Errorf("config.Stbl is nil")
	}
	c.Stbl.Override(flags)

	def := DefaultTable()
	if name := c.Stbl.DefaultTable; name != "" {
		path, err := tables.Resolve(name)
		if err != nil {
			return nil, nil, err
		}
		if def, err = LoadTable(path); err != nil {
			return nil, nil, err
		}
	}
	def.Override(flags)
	if err := def.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid table %q: %w", def.Name, err)
	}
	be, err := c.backendLocked(def)
	if err != nil {
		return nil, nil, err
	}

	return def, be, nil
}

// Table loads a saved table definition by name or path.
func (c *Config) Table(nameOrPath string, tables *data.Dir) (*TableDef, *Backend, error) {
	path, err := tables.Resolve(nameOrPath)
	if err != nil {
		return nil, nil, err
	}
	def, err := LoadTable(path)
	if err != nil {
		return nil, nil, err
	}

	c.mx.RLock()
	defer c.mx.RUnlock()
	be, err := c.backendLocked(def)
	if err != nil {
		return nil, nil, err
	}

	return def, be, nil
}

// backendLocked picks the backend serving def. Rows files and absolute
// urls need none.
func (c *Config) backendLocked(def *TableDef) (*Backend, error) {
	if def.RowsFile != "" {
		return nil, nil
	}
	name := def.Backend
	if name == "" && c.Stbl != nil {
		name = c.Stbl.DefaultBackend
	}
	be, err := c.backends.Get(name)
	if err != nil {
		if name == "" && isAbsURL(def.URL) {
			return nil, nil
		}
		return nil, fmt.Errorf("no backend for table %q: %w", def.Name, err)
	}

	return be, nil
}

// Backends returns the backend profiles.
func (c *Config) Backends() *Backends {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.backends
}
