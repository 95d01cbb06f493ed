package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/derailed/tview"

	"github.com/stbl/stbl/internal/config/data"
	"github.com/stbl/stbl/internal/dao"
	"github.com/stbl/stbl/internal/model"
	"github.com/stbl/stbl/internal/model1"
	"github.com/stbl/stbl/internal/render"
)

// ColumnDef describes a table column in a table definition file.
type ColumnDef struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title,omitempty"`
	Sortable  bool   `yaml:"sortable,omitempty"`
	SortType  string `yaml:"sortType,omitempty"`
	Align     string `yaml:"align,omitempty"`
	Decorator string `yaml:"decorator,omitempty"`
}

// TableDef represents a table definition file.
//
//	name: products
//	url: api/rest/products
//	backend: shop
//	linkPrefix: /products
//	sort: title:asc
//	columns:
//	  - id: title
//	    title: Name
//	    sortable: true
//	    sortType: string
type TableDef struct {
	Name       string      `yaml:"name"`
	URL        string      `yaml:"url,omitempty"`
	Backend    string      `yaml:"backend,omitempty"`
	Local      bool        `yaml:"local,omitempty"`
	RowsFile   string      `yaml:"rowsFile,omitempty"`
	LinkPrefix string      `yaml:"linkPrefix,omitempty"`
	BatchSize  int         `yaml:"batchSize,omitempty"`
	Sort       string      `yaml:"sort,omitempty"`
	From       string      `yaml:"from,omitempty"`
	To         string      `yaml:"to,omitempty"`
	EmptyText  string      `yaml:"emptyText,omitempty"`
	Columns    []ColumnDef `yaml:"columns"`
}

// DefaultTable is the table shown when no definition is given.
func DefaultTable() *TableDef {
	return &TableDef{
		Name:       "products",
		URL:        "api/rest/products",
		LinkPrefix: "/products",
		Sort:       "title:asc",
		Columns: []ColumnDef{
			{ID: "id", Title: "ID"},
			{ID: "title", Title: "Name", Sortable: true, SortType: string(model1.SortString)},
			{ID: "quantity", Title: "Quantity", Sortable: true, SortType: string(model1.SortNumber), Align: "right"},
			{ID: "price", Title: "Price", Sortable: true, SortType: string(model1.SortNumber), Align: "right"},
			{ID: "sales", Title: "Sales", Sortable: true, SortType: string(model1.SortNumber), Align: "right"},
		},
	}
}

// LoadTable reads a table definition from path.
func LoadTable(path string) (*TableDef, error) {
	var t TableDef
	if err := data.MustLoadYAML(path, &t); err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), data.TableExt)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table %s: %w", path, err)
	}

	return &t, nil
}

// Save writes the definition to path.
func (t *TableDef) Save(path string) error {
	return data.SaveYAML(path, t)
}

// Validate checks the definition is usable.
func (t *TableDef) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("no columns defined")
	}
	if t.URL == "" && t.RowsFile == "" {
		return fmt.Errorf("either url or rowsFile is required")
	}
	if _, err := t.Header(); err != nil {
		return err
	}
	if _, err := t.InitialSort(); err != nil {
		return err
	}
	if _, err := t.DateRange(); err != nil {
		return err
	}

	return nil
}

// Override applies CLI flag overrides to the definition.
func (t *TableDef) Override(flags *data.Flags) {
	if flags == nil {
		return
	}
	if IsStringSet(flags.URL) {
		t.URL = *flags.URL
	}
	if IsStringSet(flags.Backend) {
		t.Backend = *flags.Backend
	}
	if IsBoolSet(flags.Local) {
		t.Local = true
	}
	if IsStringSet(flags.Sort) {
		t.Sort = *flags.Sort
	}
	if IsStringSet(flags.From) {
		t.From = *flags.From
	}
	if IsStringSet(flags.To) {
		t.To = *flags.To
	}
	if IsIntSet(flags.BatchSize) {
		t.BatchSize = *flags.BatchSize
	}
}

// Header builds the table columns.
func (t *TableDef) Header() (model1.Header, error) {
	h := make(model1.Header, 0, len(t.Columns))
	for _, c := range t.Columns {
		col := model1.Column{
			ID:       c.ID,
			Title:    c.Title,
			Sortable: c.Sortable,
			SortType: model1.SortType(strings.ToLower(c.SortType)),
		}
		if col.Sortable && col.SortType == "" {
			col.SortType = model1.SortString
		}
		align, err := parseAlign(c.Align)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.ID, err)
		}
		col.Align = align
		if col.Decorator, err = render.Decorator(c.Decorator); err != nil {
			return nil, fmt.Errorf("column %q: %w", c.ID, err)
		}
		h = append(h, col)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

// InitialSort returns the configured starting sort, if any.
func (t *TableDef) InitialSort() (*model1.SortState, error) {
	if t.Sort == "" {
		return nil, nil
	}
	s, err := model1.ParseSortState(t.Sort)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// DateRange returns the configured date filter, if any.
func (t *TableDef) DateRange() (*dao.DateRange, error) {
	if t.From == "" && t.To == "" {
		return nil, nil
	}
	from, err := ParseDate(t.From)
	if err != nil {
		return nil, fmt.Errorf("invalid from: %w", err)
	}
	to, err := ParseDate(t.To)
	if err != nil {
		return nil, fmt.Errorf("invalid to: %w", err)
	}

	return &dao.DateRange{From: from, To: to}, nil
}

// Options resolves the definition into engine options. be may be nil for
// tables served from a rows file.
func (t *TableDef) Options(s *Stbl, be *Backend, log *slog.Logger) (model.Options, error) {
	sort, err := t.InitialSort()
	if err != nil {
		return model.Options{}, err
	}
	dr, err := t.DateRange()
	if err != nil {
		return model.Options{}, err
	}

	opts := model.Options{
		URL:         t.URL,
		LocalMode:   t.Local,
		InitialSort: sort,
		DateRange:   dr,
		BatchSize:   t.BatchSize,
		LinkPrefix:  t.LinkPrefix,
		Logger:      log,
	}
	if s != nil {
		if opts.BatchSize <= 0 {
			opts.BatchSize = s.BatchSize
		}
		if opts.Timeout, err = s.GetAPITimeout(); err != nil {
			return model.Options{}, err
		}
		if opts.CacheTTL, err = s.GetCacheTTL(); err != nil {
			return model.Options{}, err
		}
	}
	if be != nil {
		opts.BaseURL = be.URL
		if be.Timeout > 0 {
			opts.Timeout = be.Timeout
		}
		if be.CacheTTL > 0 {
			opts.CacheTTL = be.CacheTTL
		}
	}

	if t.RowsFile != "" {
		src, err := dao.NewFileSource(t.RowsFile)
		if err != nil {
			return model.Options{}, err
		}
		header, err := t.Header()
		if err != nil {
			return model.Options{}, err
		}
		src.SetHeader(header)
		opts.URL = ""
		if t.Local {
			opts.Rows, err = src.FetchWindow(context.Background(), dao.FetchRequest{Window: model1.Window{End: src.Len()}})
			if err != nil {
				return model.Options{}, err
			}
		} else {
			opts.Fetcher = src
		}
	}

	return opts, nil
}

// ParseDate reads an RFC 3339 timestamp or a plain 2006-01-02 date.
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(render.DateFmt, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s or RFC 3339 but got %q", render.DateFmt, s)
	}

	return t, nil
}

func parseAlign(s string) (int, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return tview.AlignLeft, nil
	case "center":
		return tview.AlignCenter, nil
	case "right":
		return tview.AlignRight, nil
	default:
		return 0, fmt.Errorf("invalid align %q", s)
	}
}
