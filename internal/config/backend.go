package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"sync"
	"time"

	"gopkg.in/ini.v1"
)

// DefaultBackendName is the section used when no backend is named.
const DefaultBackendName = "default"

// Backend represents a data backend profile.
type Backend struct {
	Name     string
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Backends holds the backend profiles read from backends.ini.
//
//	[DEFAULT]
//	timeout = 10s
//
//	[shop]
//	url      = https://shop.example.com
//	cacheTTL = 2s
type Backends struct {
	backends map[string]*Backend
	mx       sync.RWMutex
}

// NewBackends returns an empty profile set.
func NewBackends() *Backends {
	return &Backends{backends: make(map[string]*Backend)}
}

// LoadBackends reads backend profiles from path. A missing file yields no
// profiles.
func LoadBackends(path string) (*Backends, error) {
	b := NewBackends()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return b, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to access backends file: %w", err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load backends file: %w", err)
	}
	if err := b.load(f); err != nil {
		return nil, fmt.Errorf("failed to read backends file %s: %w", path, err)
	}

	return b, nil
}

func (b *Backends) load(f *ini.File) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	defaults := f.Section(ini.DefaultSection)
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		be := Backend{Name: section.Name()}
		be.URL = lookup(section, defaults, "url").String()
		if be.URL == "" {
			return fmt.Errorf("backend %q: missing url", be.Name)
		}

		var err error
		if k := lookup(section, defaults, "timeout"); k.String() != "" {
			if be.Timeout, err = k.Duration(); err != nil {
				return fmt.Errorf("backend %q: invalid timeout: %w", be.Name, err)
			}
		}
		if k := lookup(section, defaults, "cacheTTL"); k.String() != "" {
			if be.CacheTTL, err = k.Duration(); err != nil {
				return fmt.Errorf("backend %q: invalid cacheTTL: %w", be.Name, err)
			}
		}
		b.backends[be.Name] = &be
	}

	return nil
}

// lookup returns the key from section, falling back to the defaults section.
func lookup(section, defaults *ini.Section, key string) *ini.Key {
	if section.HasKey(key) {
		return section.Key(key)
	}
	return defaults.Key(key)
}

// Add registers a backend.
func (b *Backends) Add(be Backend) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.backends[be.Name] = &be
}

// Get returns the named backend. An empty name picks the default one.
func (b *Backends) Get(name string) (*Backend, error) {
	if name == "" {
		name = DefaultBackendName
	}

	b.mx.RLock()
	defer b.mx.RUnlock()

	be, ok := b.backends[name]
	if !ok {
		return nil, fmt.Errorf("backend %q not found", name)
	}
	cp := *be

	return &cp, nil
}

// Names returns the sorted backend names.
func (b *Backends) Names() []string {
	b.mx.RLock()
	defer b.mx.RUnlock()

	names := make([]string, 0, len(b.backends))
	for n := range b.backends {
		names = append(names, n)
	}
	slices.Sort(names)

	return names
}

// Save writes the profiles to path.
func (b *Backends) Save(path string) error {
	b.mx.RLock()
	defer b.mx.RUnlock()

	f := ini.Empty()
	names := make([]string, 0, len(b.backends))
	for n := range b.backends {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, n := range names {
		be := b.backends[n]
		section, err := f.NewSection(n)
		if err != nil {
			return fmt.Errorf("failed to add backend %q: %w", n, err)
		}
		section.Key("url").SetValue(be.URL)
		if be.Timeout > 0 {
			section.Key("timeout").SetValue(be.Timeout.String())
		}
		if be.CacheTTL > 0 {
			section.Key("cacheTTL").SetValue(be.CacheTTL.String())
		}
	}

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save backends file: %w", err)
	}

	return nil
}

func isAbsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}
