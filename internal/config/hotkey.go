package config

import (
	"os"
	"sort"
	"sync"

	"github.com/stbl/stbl/internal/config/data"
)

// HotKey binds a key to a table command, e.g. Shift-P to "sort price:desc".
type HotKey struct {
	ShortCut    string `yaml:"shortCut"`
	Description string `yaml:"description"`
	Command     string `yaml:"command"`
}

// HotKeys represents the hotkeys configuration.
type HotKeys struct {
	HotKey map[string]HotKey `yaml:"hotKeys"`
	mx     sync.RWMutex
}

// NewHotKeys creates an empty HotKeys configuration.
func NewHotKeys() *HotKeys {
	return &HotKeys{
		HotKey: make(map[string]HotKey),
	}
}

// Load loads hotkeys from the default config file.
func (h *HotKeys) Load() error {
	return h.LoadFrom(AppHotkeysFile)
}

// LoadFrom loads hotkeys from a specific file path.
// Returns an empty HotKeys if the file doesn't exist.
func (h *HotKeys) LoadFrom(path string) error {
	h.mx.Lock()
	defer h.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		h.HotKey = make(map[string]HotKey)
		return nil
	}

	if err := data.LoadYAML(path, h); err != nil {
		return err
	}
	if h.HotKey == nil {
		h.HotKey = make(map[string]HotKey)
	}

	return nil
}

// SaveTo saves hotkeys to a specific file path.
func (h *HotKeys) SaveTo(path string) error {
	h.mx.RLock()
	defer h.mx.RUnlock()

	return data.SaveYAML(path, h)
}

// Get returns a hotkey by name, or nil if not found.
func (h *HotKeys) Get(name string) *HotKey {
	h.mx.RLock()
	defer h.mx.RUnlock()

	hk, ok := h.HotKey[name]
	if !ok {
		return nil
	}

	return &hk
}

// Set sets a hotkey by name.
func (h *HotKeys) Set(name string, hk HotKey) {
	h.mx.Lock()
	defer h.mx.Unlock()

	h.HotKey[name] = hk
}

// Names returns all hotkey names.
func (h *HotKeys) Names() []string {
	h.mx.RLock()
	defer h.mx.RUnlock()

	names := make([]string, 0, len(h.HotKey))
	for name := range h.HotKey {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
