// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import (
	"fmt"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/stbl/stbl/internal/model"
	"github.com/stbl/stbl/internal/model1"
)

const (
	// TitleFmt formats the table title with name, row count and state.
	TitleFmt = " <%s>[%d][%s] "

	// DefaultEmptyText is shown when no rows match.
	DefaultEmptyText = "No rows satisfy your filter criteria"

	ascIndicator  = " ▲"
	descIndicator = " ▼"
)

// Drawer schedules a redraw on the UI thread.
type Drawer interface {
	QueueUpdateDraw(func())
}

// Table renders a sortable table's rows.
type Table struct {
	*tview.Table

	name       string
	actions    *KeyActions
	scroll     *ScrollWatcher
	drawer     Drawer
	header     model1.Header
	linkPrefix string
	rows       model1.Rows
	sort       model1.SortState
	loading    bool
	empty      bool
	err        error
	mounted    bool
	emptyText  string
	headerFn   func(columnID string)
	selectFn   func(link string, row model1.Row)
	mx         sync.RWMutex
}

var (
	_ model.Renderer      = (*Table)(nil)
	_ model.ErrorRenderer = (*Table)(nil)
)

// NewTable returns a new table instance.
func NewTable(name string) *Table {
	t := Table{
		Table:     tview.NewTable(),
		name:      name,
		actions:   NewKeyActions(),
		scroll:    NewScrollWatcher(DefaultScrollOffset),
		emptyText: DefaultEmptyText,
	}

	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, false)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorWhite)
	t.SetInputCapture(t.keyboard)
	t.SetSelectionChangedFunc(t.selectionChanged)
	t.bindKeys()
	t.SetTitle(fmt.Sprintf(TitleFmt, name, 0, model1.StateIdle))

	return &t
}

// SetDrawer routes redraws through d. Without one redraws happen inline.
func (t *Table) SetDrawer(d Drawer) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.drawer = d
}

// SetEmptyText sets the placeholder shown when no rows match.
func (t *Table) SetEmptyText(s string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.emptyText = s
}

// SetHeaderFn sets the callback invoked when a column header is activated.
func (t *Table) SetHeaderFn(fn func(columnID string)) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.headerFn = fn
}

// SetSelectFn sets the callback invoked when a row is picked.
func (t *Table) SetSelectFn(fn func(link string, row model1.Row)) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.selectFn = fn
}

// SetScrollOffset sets how close to the last row the selection gets before
// the scroll signal fires. It replaces the signal, so call it before the
// signal is handed out.
func (t *Table) SetScrollOffset(n int) {
	t.scroll = NewScrollWatcher(n)
}

// ScrollSignal returns the signal fired as the selection nears the end.
func (t *Table) ScrollSignal() *ScrollWatcher {
	return t.scroll
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// Mount implements model.Renderer.
func (t *Table) Mount(s model.MountState) model.Handle {
	t.mx.Lock()
	changed := t.header == nil || t.header.Diff(s.Header)
	t.header = s.Header.Clone()
	t.sort = s.Sort
	t.linkPrefix = s.LinkPrefix
	t.rows, t.err = nil, nil
	t.loading, t.empty = false, false
	t.mounted = true
	t.mx.Unlock()

	if changed {
		t.bindHeaderKeys(s.Header)
	}
	t.draw()

	return t
}

// SetRows implements model.Renderer.
func (t *Table) SetRows(h model.Handle, rows model1.Rows) {
	if !t.owns(h) {
		return
	}
	t.mx.Lock()
	t.rows = rows
	t.mx.Unlock()
	t.draw()
}

// SetLoadingIndicator implements model.Renderer.
func (t *Table) SetLoadingIndicator(h model.Handle, b bool) {
	if !t.owns(h) {
		return
	}
	t.mx.Lock()
	t.loading = b
	t.mx.Unlock()
	t.draw()
}

// SetEmptyIndicator implements model.Renderer.
func (t *Table) SetEmptyIndicator(h model.Handle, b bool) {
	if !t.owns(h) {
		return
	}
	t.mx.Lock()
	t.empty = b
	t.mx.Unlock()
	t.draw()
}

// SetSortIndicator implements model.Renderer.
func (t *Table) SetSortIndicator(h model.Handle, col string, dir model1.Direction) {
	if !t.owns(h) {
		return
	}
	t.mx.Lock()
	t.sort = model1.SortState{ColumnID: col, Direction: dir}
	t.mx.Unlock()
	t.draw()
}

// SetErrorIndicator implements model.ErrorRenderer.
func (t *Table) SetErrorIndicator(h model.Handle, err error) {
	if !t.owns(h) {
		return
	}
	t.mx.Lock()
	t.err = err
	t.mx.Unlock()
	t.draw()
}

// Unmount implements model.Renderer.
func (t *Table) Unmount(h model.Handle) {
	if !t.owns(h) {
		return
	}
	t.mx.Lock()
	t.mounted = false
	t.rows = nil
	t.mx.Unlock()
	t.draw()
}

// State returns the state currently displayed.
func (t *Table) State() model1.State {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.stateLocked()
}

// RowCount returns the number of displayed rows.
func (t *Table) RowCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return len(t.rows)
}

// SelectedRow returns the row under the cursor.
func (t *Table) SelectedRow() (model1.Row, bool) {
	r, _ := t.GetSelection()
	t.mx.RLock()
	defer t.mx.RUnlock()
	if r < 1 || r > len(t.rows) {
		return model1.Row{}, false
	}
	return t.rows[r-1], true
}

func (t *Table) owns(h model.Handle) bool {
	tt, ok := h.(*Table)
	return ok && tt == t
}

func (t *Table) stateLocked() model1.State {
	switch {
	case t.loading:
		return model1.StateLoading
	case t.err != nil:
		return model1.StateError
	case t.empty:
		return model1.StateEmpty
	default:
		return model1.StateIdle
	}
}

func (t *Table) draw() {
	t.mx.RLock()
	d := t.drawer
	t.mx.RUnlock()

	if d == nil {
		t.refresh()
		return
	}
	d.QueueUpdateDraw(t.refresh)
}

// refresh rebuilds the cells from the latest state.
func (t *Table) refresh() {
	t.mx.RLock()
	header, rows, sort := t.header, t.rows, t.sort
	prefix, emptyText := t.linkPrefix, t.emptyText
	state, err, mounted := t.stateLocked(), t.err, t.mounted
	t.mx.RUnlock()

	row, _ := t.GetSelection()
	t.Clear()
	if !mounted {
		t.SetTitle(fmt.Sprintf(TitleFmt, t.name, 0, "closed"))
		return
	}

	t.buildHeader(header, sort)
	for i, r := range rows {
		t.buildRow(i+1, r, header, prefix)
	}

	switch {
	case state == model1.StateEmpty:
		t.showNoData(emptyText, model1.EmptyColor.Hex())
	case len(rows) == 0 && state == model1.StateLoading:
		t.showNoData("Loading...", model1.LoadingColor.Hex())
	case len(rows) == 0 && err != nil:
		t.showNoData(err.Error(), model1.ErrColor.Hex())
	}

	title := fmt.Sprintf(TitleFmt, t.name, len(rows), state)
	if err != nil {
		title = fmt.Sprintf(" <%s>[%d][error] %v ", t.name, len(rows), err)
	}
	t.SetTitle(title)
	t.SetBorderColor(tcell.NewHexColor(model1.StateColor(state).Hex()))

	if len(rows) == 0 {
		return
	}
	if row < 1 {
		row = 1
	}
	if row > len(rows) {
		row = len(rows)
	}
	t.Select(row, 0)
}

// showNoData displays a message in place of the rows.
func (t *Table) showNoData(msg string, color int32) {
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(tcell.NewHexColor(color))
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	cell.SetExpansion(1)
	t.SetCell(1, 0, cell)
}

// buildHeader builds the table header row.
func (t *Table) buildHeader(header model1.Header, sort model1.SortState) {
	for col, h := range header {
		title := h.Title
		if title == "" {
			title = h.ID
		}
		if h.Sortable && col < 9 {
			title = fmt.Sprintf("%s(%d)", title, col+1)
		}

		cell := tview.NewTableCell(title)
		cell.SetTextColor(tcell.ColorYellow)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(h.Align)
		cell.SetExpansion(1)
		cell.SetSelectable(false)

		// Mark sorted column
		if h.ID == sort.ColumnID {
			ind := ascIndicator
			if sort.Direction == model1.Desc {
				ind = descIndicator
			}
			cell.SetText(title + ind)
			cell.SetTextColor(tcell.NewHexColor(model1.SortColor.Hex()))
			cell.SetAttributes(tcell.AttrBold)
		}

		t.SetCell(0, col, cell)
	}
}

// buildRow builds a single data row.
func (t *Table) buildRow(rowIdx int, row model1.Row, header model1.Header, prefix string) {
	for col, h := range header {
		cell := tview.NewTableCell(h.Display(row.Get(h.ID)))
		cell.SetTextColor(tcell.NewHexColor(model1.StdColor.Hex()))
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(h.Align)
		cell.SetExpansion(1)

		// Row link lives on the first column
		if col == 0 {
			cell.SetReference(row.Link(prefix))
		}

		t.SetCell(rowIdx, col, cell)
	}
}

// keyboard handles table keyboard input.
func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if action, ok := t.actions.Get(AsKey(evt)); ok {
		return action.Action(evt)
	}

	return evt
}

func (t *Table) selectionChanged(row, _ int) {
	t.mx.RLock()
	n := len(t.rows)
	t.mx.RUnlock()

	if n == 0 {
		return
	}
	t.scroll.Check(row-1, n)
}

// bindKeys sets up common table key bindings.
func (t *Table) bindKeys() {
	t.actions.Bulk(KeyMap{
		tcell.KeyCtrlS: NewKeyAction("Sort Next", t.sortNextCmd, true),
		tcell.KeyEnter: NewKeyAction("Open", t.selectCmd, true),
		KeyShiftG:      NewKeyAction("Bottom", t.bottomCmd, false),
		KeyG:           NewKeyAction("Top", t.topCmd, false),
	})
}

// bindHeaderKeys binds number keys to sortable columns.
func (t *Table) bindHeaderKeys(header model1.Header) {
	t.actions.Delete(Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9)

	for i, c := range header {
		if i >= 9 || !c.Sortable {
			continue
		}
		id := c.ID
		title := c.Title
		if title == "" {
			title = id
		}
		t.actions.Add(Key1+tcell.Key(i), NewKeyAction("Sort "+title, func(*tcell.EventKey) *tcell.EventKey {
			t.activateHeader(id)
			return nil
		}, false))
	}
}

// ActivateHeader acts as if the header at column idx was clicked.
func (t *Table) ActivateHeader(idx int) bool {
	t.mx.RLock()
	header := t.header
	t.mx.RUnlock()

	if idx < 0 || idx >= len(header) || !header[idx].Sortable {
		return false
	}
	t.activateHeader(header[idx].ID)

	return true
}

func (t *Table) activateHeader(id string) {
	t.mx.RLock()
	fn := t.headerFn
	t.mx.RUnlock()

	if fn != nil {
		fn(id)
	}
}

// sortNextCmd sorts on the sortable column after the current one.
func (t *Table) sortNextCmd(*tcell.EventKey) *tcell.EventKey {
	t.mx.RLock()
	ids, current := t.header.SortableIDs(), t.sort.ColumnID
	t.mx.RUnlock()

	if len(ids) == 0 {
		return nil
	}
	next := ids[0]
	for i, id := range ids {
		if id == current {
			next = ids[(i+1)%len(ids)]
			break
		}
	}
	t.activateHeader(next)

	return nil
}

func (t *Table) selectCmd(*tcell.EventKey) *tcell.EventKey {
	r, ok := t.SelectedRow()
	if !ok {
		return nil
	}

	t.mx.RLock()
	fn, prefix := t.selectFn, t.linkPrefix
	t.mx.RUnlock()
	if fn != nil {
		fn(r.Link(prefix), r)
	}

	return nil
}

func (t *Table) topCmd(*tcell.EventKey) *tcell.EventKey {
	if t.RowCount() > 0 {
		t.Select(1, 0)
	}
	return nil
}

func (t *Table) bottomCmd(*tcell.EventKey) *tcell.EventKey {
	if n := t.RowCount(); n > 0 {
		t.Select(n, 0)
	}
	return nil
}
