package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/olekukonko/tablewriter"

	"github.com/stbl/stbl/internal/model"
	"github.com/stbl/stbl/internal/model1"
)

const (
	ascMarker  = " ^"
	descMarker = " v"
)

// Text renders a table as plain text, for use without a terminal UI.
// Rows accumulate in memory until Flush writes them out.
type Text struct {
	out       io.Writer
	header    model1.Header
	sort      model1.SortState
	prefix    string
	rows      model1.Rows
	loading   bool
	empty     bool
	err       error
	mounted   bool
	emptyText string
	withLinks bool
	mx        sync.RWMutex
}

var (
	_ model.Renderer      = (*Text)(nil)
	_ model.ErrorRenderer = (*Text)(nil)
)

// NewText returns a text renderer writing to out.
func NewText(out io.Writer, emptyText string) *Text {
	return &Text{
		out:       out,
		emptyText: emptyText,
	}
}

// ShowLinks appends a row link column.
func (t *Text) ShowLinks(b bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.withLinks = b
}

// Mount implements model.Renderer.
func (t *Text) Mount(s model.MountState) model.Handle {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.header = s.Header.Clone()
	t.sort = s.Sort
	t.prefix = s.LinkPrefix
	t.rows, t.err = nil, nil
	t.loading, t.empty = false, false
	t.mounted = true

	return t
}

// SetRows implements model.Renderer.
func (t *Text) SetRows(_ model.Handle, rows model1.Rows) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.rows = rows
}

// SetLoadingIndicator implements model.Renderer.
func (t *Text) SetLoadingIndicator(_ model.Handle, b bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.loading = b
}

// SetEmptyIndicator implements model.Renderer.
func (t *Text) SetEmptyIndicator(_ model.Handle, b bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.empty = b
}

// SetSortIndicator implements model.Renderer.
func (t *Text) SetSortIndicator(_ model.Handle, col string, dir model1.Direction) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.sort = model1.SortState{ColumnID: col, Direction: dir}
}

// SetErrorIndicator implements model.ErrorRenderer.
func (t *Text) SetErrorIndicator(_ model.Handle, err error) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.err = err
}

// Unmount implements model.Renderer.
func (t *Text) Unmount(model.Handle) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.mounted = false
}

// Rows returns the rows currently held.
func (t *Text) Rows() model1.Rows {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.rows
}

// Flush writes the current table to the output.
func (t *Text) Flush() error {
	t.mx.RLock()
	header, sort, rows, prefix := t.header, t.sort, t.rows, t.prefix
	empty, loadErr, links := t.empty, t.err, t.withLinks
	t.mx.RUnlock()

	if len(header) == 0 {
		return fmt.Errorf("nothing to render: table not mounted")
	}

	tw := tablewriter.NewWriter(t.out)
	tw.Header(t.titles(header, sort, links)...)
	for _, r := range rows {
		cells := Cells(header, r)
		if links {
			cells = append(cells, Missing(r.Link(prefix)))
		}
		if err := tw.Append(cells); err != nil {
			return fmt.Errorf("failed to render row %q: %w", r.ID, err)
		}
	}
	if err := tw.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	switch {
	case loadErr != nil:
		_, e := fmt.Fprintf(t.out, "error: %v\n", loadErr)
		return e
	case empty:
		_, e := fmt.Fprintln(t.out, t.emptyText)
		return e
	}

	return nil
}

func (t *Text) titles(header model1.Header, sort model1.SortState, links bool) []any {
	tt := make([]any, 0, len(header)+1)
	for _, c := range header {
		title := c.Title
		if title == "" {
			title = c.ID
		}
		if c.ID == sort.ColumnID {
			if sort.Direction == model1.Desc {
				title += descMarker
			} else {
				title += ascMarker
			}
		}
		tt = append(tt, title)
	}
	if links {
		tt = append(tt, "Link")
	}

	return tt
}
