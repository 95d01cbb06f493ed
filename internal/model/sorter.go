package model

import (
	"context"
	"fmt"

	"github.com/stbl/stbl/internal/model1"
)

// RequestSort orders the table by columnID in direction dir.
// Local tables are re-sorted in memory. Remote tables are cleared and
// refetched from the first window; should that fetch fail the new sort is
// kept and the error returned.
func (e *Engine) RequestSort(ctx context.Context, columnID string, dir model1.Direction) error {
	if err := e.validateSort(columnID, dir); err != nil {
		return err
	}
	next := model1.SortState{ColumnID: columnID, Direction: dir}

	if !e.cfg.localMode {
		return e.reload(ctx, func() {
			e.sort = next
		})
	}

	e.mx.Lock()
	if e.destroyed {
		e.mx.Unlock()
		return ErrDestroyed
	}
	e.sort = next
	e.sortLocked()
	fr := e.frameLocked()
	e.mx.Unlock()
	e.emit(fr)

	return nil
}

// OnHeaderActivated sorts by columnID in the background, flipping the
// direction if the column is already active.
func (e *Engine) OnHeaderActivated(columnID string) {
	if !e.cfg.header.IsSortable(columnID) {
		return
	}
	next := NextSort(e.SortState(), columnID)

	e.async("sort", func(ctx context.Context) error {
		return e.RequestSort(ctx, next.ColumnID, next.Direction)
	})
}

// NextSort returns the sort a header activation on columnID leads to.
func NextSort(current model1.SortState, columnID string) model1.SortState {
	if current.ColumnID == columnID {
		return model1.SortState{ColumnID: columnID, Direction: current.Direction.Toggle()}
	}

	return model1.SortState{ColumnID: columnID, Direction: model1.Asc}
}

func (e *Engine) validateSort(columnID string, dir model1.Direction) error {
	if !dir.IsValid() {
		return fmt.Errorf("direction %q: %w", dir, ErrInvalidSort)
	}
	col, ok := e.cfg.header.Column(columnID)
	if !ok {
		return fmt.Errorf("unknown column %q: %w", columnID, ErrInvalidSort)
	}
	if !col.Sortable {
		return fmt.Errorf("column %q is not sortable: %w", columnID, ErrInvalidSort)
	}

	return nil
}
