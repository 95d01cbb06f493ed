package model1

import "fmt"

// Window is a half-open [Start, End) range of rows in the remote dataset.
type Window struct {
	Start int
	End   int
}

// Len returns the window size.
func (w Window) Len() int {
	return w.End - w.Start
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}

// Cursor tracks the next window to request along with the loading token
// and the exhausted flag. Callers serialize access.
type Cursor struct {
	window    Window
	batchSize int
	loading   bool
	exhausted bool
}

// NewCursor returns a cursor positioned on the first window.
func NewCursor(batchSize int) *Cursor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	c := Cursor{batchSize: batchSize}
	c.Reset()
	return &c
}

// Reset rewinds to the first window and clears the exhausted flag.
func (c *Cursor) Reset() {
	c.window = Window{Start: 0, End: c.batchSize}
	c.exhausted = false
}

// Advance moves to the next window. It returns false, leaving the cursor
// untouched, while a load is in flight or once the data is exhausted.
func (c *Cursor) Advance() bool {
	if c.loading || c.exhausted {
		return false
	}
	c.window.Start += c.batchSize
	c.window.End += c.batchSize
	return true
}

// Retreat undoes an Advance so a failed window is requested again.
func (c *Cursor) Retreat() {
	if c.window.Start < c.batchSize {
		return
	}
	c.window.Start -= c.batchSize
	c.window.End -= c.batchSize
}

// MarkLoading takes the loading token.
func (c *Cursor) MarkLoading() {
	c.loading = true
}

// MarkIdle releases the loading token.
func (c *Cursor) MarkIdle() {
	c.loading = false
}

// ObserveBatch flags the data as exhausted when a batch comes back short.
func (c *Cursor) ObserveBatch(count int) {
	if count < c.batchSize {
		c.exhausted = true
	}
}

// Window returns the current window.
func (c *Cursor) Window() Window {
	return c.window
}

// BatchSize returns the fixed batch size.
func (c *Cursor) BatchSize() int {
	return c.batchSize
}

// Loading returns true while a fetch is in flight.
func (c *Cursor) Loading() bool {
	return c.loading
}

// Exhausted returns true once a short batch was observed.
func (c *Cursor) Exhausted() bool {
	return c.exhausted
}
