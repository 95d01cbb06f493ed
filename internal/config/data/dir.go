package data

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// TableExt is the extension of table definition files.
const TableExt = ".yaml"

// Dir manages the table definitions directory.
type Dir struct {
	root string
	mx   sync.RWMutex
}

// NewDir creates a new Dir at the specified root path.
func NewDir(root string) *Dir {
	return &Dir{
		root: root,
	}
}

// Root returns the directory path.
func (d *Dir) Root() string {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.root
}

// TablePath returns the definition file path for a table name.
// Returns: {root}/{name}.yaml
func (d *Dir) TablePath(name string) string {
	return filepath.Join(d.Root(), SanitizeFileName(name)+TableExt)
}

// Resolve maps a table name or file path to a definition file.
// Paths are used as is, names are looked up in the directory.
func (d *Dir) Resolve(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", fmt.Errorf("no table given")
	}
	if strings.ContainsRune(nameOrPath, os.PathSeparator) || filepath.Ext(nameOrPath) != "" {
		if _, err := os.Stat(nameOrPath); err != nil {
			return "", fmt.Errorf("table file %q: %w", nameOrPath, err)
		}
		return nameOrPath, nil
	}

	path := d.TablePath(nameOrPath)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("table %q not found in %s: %w", nameOrPath, d.Root(), err)
	}

	return path, nil
}

// ListTables returns the names of all saved table definitions.
func (d *Dir) ListTables() ([]string, error) {
	entries, err := os.ReadDir(d.Root())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tables directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != TableExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), TableExt))
	}
	slices.Sort(names)

	return names, nil
}
