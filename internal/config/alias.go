package config

import (
	"maps"
	"os"
	"sync"

	"github.com/stbl/stbl/internal/config/data"
)

// Aliases maps short names to table definitions.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex
}

// NewAliases creates an empty alias set.
func NewAliases() *Aliases {
	return &Aliases{
		Alias: make(map[string]string),
	}
}

// Load loads aliases from the default config file.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom loads aliases from a specific file path.
// Loaded aliases take precedence over existing ones.
func (a *Aliases) LoadFrom(path string) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := NewAliases()
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}
	maps.Copy(a.Alias, loaded.Alias)

	return nil
}

// SaveTo saves aliases to a specific file path.
func (a *Aliases) SaveTo(path string) error {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return data.SaveYAML(path, a)
}

// Get returns the table for an alias, or the original if not found.
func (a *Aliases) Get(alias string) string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if table, ok := a.Alias[alias]; ok {
		return table
	}
	return alias
}

// Set sets an alias.
func (a *Aliases) Set(alias, table string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.Alias[alias] = table
}

// Delete removes an alias.
func (a *Aliases) Delete(alias string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	delete(a.Alias, alias)
}

// All returns a copy of all aliases.
func (a *Aliases) All() map[string]string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return maps.Clone(a.Alias)
}
