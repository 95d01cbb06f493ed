package model1

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// IDField is the record field used for row identity.
const IDField = "id"

// Row represents a single record keyed by column id.
type Row struct {
	ID     string
	Fields map[string]any
}

// NewRow builds a row from a field map, deriving its identity from IDField.
func NewRow(fields map[string]any) Row {
	if fields == nil {
		fields = make(map[string]any)
	}
	return Row{
		ID:     FieldString(fields[IDField]),
		Fields: fields,
	}
}

// Get returns the raw value for a column.
func (r Row) Get(id string) any {
	return r.Fields[id]
}

// Link builds the row link from a path prefix, e.g. /products/ + ID.
func (r Row) Link(prefix string) string {
	if r.ID == "" {
		return ""
	}
	return strings.TrimSuffix(prefix, "/") + "/" + r.ID
}

func (r Row) Clone() Row {
	return Row{
		ID:     r.ID,
		Fields: maps.Clone(r.Fields),
	}
}

// Rows represents a collection of rows.
type Rows []Row

func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	for i, row := range r {
		out[i] = row.Clone()
	}
	return out
}

// IDs returns the row identities in order.
func (r Rows) IDs() []string {
	ids := make([]string, len(r))
	for i, row := range r {
		ids[i] = row.ID
	}
	return ids
}

// FieldString renders a raw field value as text.
func FieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
