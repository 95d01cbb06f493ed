package dao

import (
	"context"
	"fmt"
	"os"

	"github.com/stbl/stbl/internal/model1"
)

// FileSource serves row windows from a JSON array held in memory.
// Windows follow the requested sort once the source knows the columns.
type FileSource struct {
	path   string
	rows   model1.Rows
	header model1.Header
}

// NewFileSource loads rows from a JSON file.
func NewFileSource(path string) (*FileSource, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows file %q: %w", path, err)
	}
	rows, err := ParseRows(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rows file %q: %w", path, err)
	}
	return &FileSource{path: path, rows: rows}, nil
}

// NewMemorySource serves the given rows.
func NewMemorySource(rows model1.Rows) *FileSource {
	return &FileSource{path: "memory", rows: rows}
}

// SetHeader tells the source how to order the columns it serves.
func (s *FileSource) SetHeader(h model1.Header) {
	s.header = h.Clone()
}

// FetchWindow returns the rows falling inside the requested window.
func (s *FileSource) FetchWindow(ctx context.Context, req FetchRequest) (model1.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{URL: s.path, Err: err}
	}
	start, end := req.Window.Start, req.Window.End
	if start < 0 || end < start {
		return nil, &FetchError{URL: s.path, Err: fmt.Errorf("invalid window %s", req.Window)}
	}

	rows := s.rows
	if col, ok := s.header.Column(req.Sort.ColumnID); ok && col.Sortable {
		rows = s.rows.Clone()
		model1.SortRows(rows, col, req.Sort.Direction)
	}
	start, end = min(start, len(rows)), min(end, len(rows))
	out := make(model1.Rows, end-start)
	copy(out, rows[start:end])

	return out, nil
}

// Len returns the number of rows held.
func (s *FileSource) Len() int {
	return len(s.rows)
}
