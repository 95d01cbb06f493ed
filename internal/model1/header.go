package model1

import (
	"fmt"
	"reflect"
)

// Column describes a table column. Columns are immutable once a table is built.
type Column struct {
	ID        string
	Title     string
	Sortable  bool
	SortType  SortType
	Align     int // tview alignment
	Decorator DecoratorFunc
}

func (c Column) String() string {
	return fmt.Sprintf("%s [%s::%t::%s]", c.ID, c.Title, c.Sortable, c.SortType)
}

// Display renders a field value for this column.
func (c Column) Display(v any) string {
	if c.Decorator != nil {
		return c.Decorator(v)
	}
	return FieldString(v)
}

// Header represents the ordered set of table columns.
type Header []Column

func (h Header) Clone() Header {
	he := make(Header, len(h))
	copy(he, h)
	return he
}

func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	for i := range h {
		if h[i].ID != header[i].ID || h[i].Sortable != header[i].Sortable || h[i].SortType != header[i].SortType {
			return true
		}
		if reflect.ValueOf(h[i].Decorator).Pointer() != reflect.ValueOf(header[i].Decorator).Pointer() {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the column with the given id.
func (h Header) IndexOf(id string) (int, bool) {
	for i, c := range h {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Column returns the column with the given id.
func (h Header) Column(id string) (Column, bool) {
	i, ok := h.IndexOf(id)
	if !ok {
		return Column{}, false
	}
	return h[i], true
}

// IsSortable returns true if id names a sortable column.
func (h Header) IsSortable(id string) bool {
	c, ok := h.Column(id)
	return ok && c.Sortable
}

// FirstSortable returns the first sortable column.
func (h Header) FirstSortable() (Column, bool) {
	for _, c := range h {
		if c.Sortable {
			return c, true
		}
	}
	return Column{}, false
}

// SortableIDs lists the ids of all sortable columns in header order.
func (h Header) SortableIDs() []string {
	ids := make([]string, 0, len(h))
	for _, c := range h {
		if c.Sortable {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Validate checks ids are present and unique.
func (h Header) Validate() error {
	if len(h) == 0 {
		return fmt.Errorf("no columns defined")
	}
	seen := make(map[string]struct{}, len(h))
	for i, c := range h {
		if c.ID == "" {
			return fmt.Errorf("column %d has no id", i)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("duplicate column id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
