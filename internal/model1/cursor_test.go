package model1

import "testing"

func TestCursorPagination(t *testing.T) {
	c := NewCursor(30)
	if w := c.Window(); w != (Window{Start: 0, End: 30}) {
		t.Fatalf("unexpected first window %s", w)
	}

	for i, n := range []int{30, 30, 30, 12} {
		if i > 0 && !c.Advance() {
			t.Fatalf("batch %d: advance rejected", i)
		}
		c.MarkLoading()
		if c.Advance() {
			t.Fatalf("batch %d: advance accepted while loading", i)
		}
		c.MarkIdle()
		c.ObserveBatch(n)
		if w := c.Window(); w.Len() != 30 {
			t.Fatalf("batch %d: expected window of 30, got %s", i, w)
		}
	}

	if !c.Exhausted() {
		t.Fatal("expected exhausted after short batch")
	}
	if c.Advance() {
		t.Fatal("advance accepted once exhausted")
	}
	if w := c.Window(); w != (Window{Start: 90, End: 120}) {
		t.Fatalf("unexpected last window %s", w)
	}

	c.Reset()
	if c.Exhausted() || c.Window() != (Window{Start: 0, End: 30}) {
		t.Fatalf("reset did not rewind: %s exhausted=%t", c.Window(), c.Exhausted())
	}
}

func TestCursorRetreat(t *testing.T) {
	c := NewCursor(10)
	c.Retreat()
	if w := c.Window(); w != (Window{Start: 0, End: 10}) {
		t.Fatalf("retreat moved before the first window: %s", w)
	}

	c.Advance()
	c.Retreat()
	if w := c.Window(); w != (Window{Start: 0, End: 10}) {
		t.Fatalf("expected first window, got %s", w)
	}
}

func TestCursorDefaults(t *testing.T) {
	c := NewCursor(0)
	if c.BatchSize() != DefaultBatchSize {
		t.Fatalf("expected default batch size, got %d", c.BatchSize())
	}
	if c.Loading() || c.Exhausted() {
		t.Fatal("new cursor must be idle")
	}
}
