package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stbl/stbl/internal/config/data"
)

func TestConfigLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stbl.yaml", `
stbl:
  defaultBackend: shop
  batchSize: 0
  apiTimeout: 5s
  ui:
    emptyText: Nothing here
  logger:
    level: debug
`)

	cfg := NewConfig(nil)
	if err := cfg.Load(path, true); err != nil {
		t.Fatal(err)
	}

	s := cfg.Stbl
	if s.DefaultBackend != "shop" || s.BatchSize != 30 || s.UI.EmptyText != "Nothing here" {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.Logger.Level != "debug" || s.Logger.Format != data.DefaultLogFormat {
		t.Fatalf("unexpected logger %+v", s.Logger)
	}
	if d, err := s.GetAPITimeout(); err != nil || d != 5*time.Second {
		t.Fatalf("expected 5s but got %v (%v)", d, err)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yaml")
	cfg := NewConfig(nil)

	if err := cfg.Load(path, false); err != nil {
		t.Fatalf("expected a missing file to be ignored: %v", err)
	}
	if err := cfg.Load(path, true); err == nil {
		t.Fatal("expected an error when forced")
	}
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stbl.yaml")
	cfg := NewConfig(nil)
	cfg.Stbl.DefaultTable = "orders"

	if err := cfg.Save(path, true); err != nil {
		t.Fatal(err)
	}
	loaded := NewConfig(nil)
	if err := loaded.Load(path, true); err != nil {
		t.Fatal(err)
	}
	if loaded.Stbl.DefaultTable != "orders" {
		t.Fatalf("expected orders but got %q", loaded.Stbl.DefaultTable)
	}
}

func TestConfigRefine(t *testing.T) {
	tables := t.TempDir()
	writeFile(t, tables, "products.yaml", productsYAML)
	writeFile(t, tables, "remote.yaml", "url: https://api.example.com/rows\ncolumns:\n  - id: id\n")

	bb := NewBackends()
	bb.Add(Backend{Name: "shop", URL: "http://shop"})
	bb.Add(Backend{Name: "other", URL: "http://other"})

	uu := map[string]struct {
		flags   func(*data.Flags)
		table   string
		backend string
		err     bool
	}{
		"builtin": {
			flags: func(f *data.Flags) { *f.Backend = "other" },
			table: "products", backend: "other",
		},
		"fromDir": {
			flags: func(f *data.Flags) { *f.Table = "products" },
			table: "products", backend: "shop",
		},
		"override": {
			flags: func(f *data.Flags) { *f.Table = "products"; *f.Backend = "other" },
			table: "products", backend: "other",
		},
		"absolute": {
			flags: func(f *data.Flags) { *f.Table = "remote" },
			table: "remote",
		},
		"noBackend": {
			flags: func(*data.Flags) {},
			err:   true,
		},
		"unknownTable": {
			flags: func(f *data.Flags) { *f.Table = "nope" },
			err:   true,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			f := NewFlags()
			u.flags(f)

			def, be, err := NewConfig(bb).Refine(f, data.NewDir(tables))
			if u.err {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if def.Name != u.table {
				t.Errorf("expected table %q but got %q", u.table, def.Name)
			}
			switch {
			case u.backend == "" && be != nil:
				t.Errorf("expected no backend but got %q", be.Name)
			case u.backend != "" && (be == nil || be.Name != u.backend):
				t.Errorf("expected backend %q but got %v", u.backend, be)
			}
		})
	}
}

func TestConfigTable(t *testing.T) {
	tables := t.TempDir()
	writeFile(t, tables, "products.yaml", productsYAML)
	rows := writeFile(t, tables, "rows.json", `[{"id":"1"}]`)
	writeFile(t, tables, "offline.yaml", "local: true\nrowsFile: "+rows+"\ncolumns:\n  - id: id\n    sortable: true\n")

	bb := NewBackends()
	bb.Add(Backend{Name: "shop", URL: "http://shop"})
	cfg := NewConfig(bb)
	dir := data.NewDir(tables)

	def, be, err := cfg.Table("products", dir)
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != "products" || be == nil || be.Name != "shop" {
		t.Fatalf("unexpected table %q on %v", def.Name, be)
	}

	def, be, err = cfg.Table("offline", dir)
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != "offline" || be != nil {
		t.Fatalf("expected offline without a backend but got %q on %v", def.Name, be)
	}

	if _, _, err := cfg.Table("missing", dir); err == nil {
		t.Fatal("expected an error for an unknown table")
	}
}

func TestStblOverride(t *testing.T) {
	s := NewStbl()
	f := NewFlags()
	*f.Headless = true
	*f.BatchSize = 10
	*f.LogLevel = "warn"

	s.Override(f)
	if !s.IsHeadless() || s.BatchSize != 10 || s.Logger.Level != "warn" {
		t.Fatalf("flags not applied: %+v", s)
	}
}

func TestInitLocs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	if err := InitLocs(); err != nil {
		t.Fatal(err)
	}
	uu := []struct{ got, e string }{
		{got: AppConfigFile, e: filepath.Join(dir, "config", "stbl", "stbl.yaml")},
		{got: AppBackendsFile, e: filepath.Join(dir, "config", "stbl", "backends.ini")},
		{got: AppLogFile, e: filepath.Join(dir, "state", "stbl", "stbl.log")},
		{got: TablesDir().Root(), e: filepath.Join(dir, "config", "stbl", "tables")},
	}
	for _, u := range uu {
		if u.got != u.e {
			t.Errorf("expected %q but got %q", u.e, u.got)
		}
	}
}

func TestAliasesAndHotKeys(t *testing.T) {
	dir := t.TempDir()
	aliasPath := writeFile(t, dir, "aliases.yaml", "aliases:\n  p: products\n")
	hotPath := writeFile(t, dir, "hotkeys.yaml", `
hotKeys:
  priciest:
    shortCut: Shift-P
    description: Priciest first
    command: sort price:desc
`)

	aa := NewAliases()
	if err := aa.LoadFrom(aliasPath); err != nil {
		t.Fatal(err)
	}
	if aa.Get("p") != "products" || aa.Get("orders") != "orders" {
		t.Fatalf("unexpected aliases %v", aa.All())
	}

	hh := NewHotKeys()
	if err := hh.LoadFrom(hotPath); err != nil {
		t.Fatal(err)
	}
	hk := hh.Get("priciest")
	if hk == nil || hk.ShortCut != "Shift-P" || hk.Command != "sort price:desc" {
		t.Fatalf("unexpected hotkey %+v", hk)
	}
	if err := hh.LoadFrom(filepath.Join(dir, "none.yaml")); err != nil || len(hh.Names()) != 0 {
		t.Fatal("expected a missing file to reset hotkeys")
	}
}
