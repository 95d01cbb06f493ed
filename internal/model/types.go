package model

import (
	"github.com/stbl/stbl/internal/model1"
)

// Handle identifies a mounted table in a Renderer.
type Handle any

// MountState is the initial table configuration handed to a Renderer.
type MountState struct {
	Header     model1.Header
	Sort       model1.SortState
	LinkPrefix string
	LocalMode  bool
}

// Renderer displays a table's rows and indicators.
// Implementations must not call back into the engine synchronously.
type Renderer interface {
	// Mount creates the table display.
	Mount(MountState) Handle

	// SetRows replaces the displayed rows.
	SetRows(Handle, model1.Rows)

	// SetLoadingIndicator toggles the loading indicator.
	SetLoadingIndicator(Handle, bool)

	// SetEmptyIndicator toggles the empty placeholder.
	SetEmptyIndicator(Handle, bool)

	// SetSortIndicator marks the sorted column.
	SetSortIndicator(Handle, string, model1.Direction)

	// Unmount tears the display down.
	Unmount(Handle)
}

// ErrorRenderer is implemented by renderers that show load failures.
type ErrorRenderer interface {
	// SetErrorIndicator shows err, or clears the indicator when err is nil.
	SetErrorIndicator(Handle, error)
}

// ScrollSignal notifies subscribers when the viewport nears the end of content.
type ScrollSignal interface {
	// Subscribe registers fn and returns a func that unregisters it.
	Subscribe(fn func()) (unsubscribe func())
}

// TableListener represents a table model listener.
type TableListener interface {
	// TableNoData notifies listener no data was found.
	TableNoData(Snapshot)

	// TableDataChanged notifies the model data changed.
	TableDataChanged(Snapshot)

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)
}

// Snapshot is a point in time copy of the engine state.
type Snapshot struct {
	Header    model1.Header
	Rows      model1.Rows
	Sort      model1.SortState
	Window    model1.Window
	State     model1.State
	Exhausted bool
	Err       error
}

// Empty returns true if no rows are loaded.
func (s Snapshot) Empty() bool {
	return len(s.Rows) == 0
}

// RowCount returns the number of loaded rows.
func (s Snapshot) RowCount() int {
	return len(s.Rows)
}

type nopRenderer struct{}

func (nopRenderer) Mount(MountState) Handle { return nil }
func (nopRenderer) SetRows(Handle, model1.Rows) {}
func (nopRenderer) SetLoadingIndicator(Handle, bool) {}
func (nopRenderer) SetEmptyIndicator(Handle, bool) {}
func (nopRenderer) SetSortIndicator(Handle, string, model1.Direction) {}
func (nopRenderer) Unmount(Handle) {}
