package model1

import "sync"

// RowStore holds the rows currently loaded for a table, in canonical order.
type RowStore struct {
	rows Rows
	mx   sync.RWMutex
}

// NewRowStore returns a new, empty store.
func NewRowStore(size int) *RowStore {
	return &RowStore{
		rows: make(Rows, 0, size),
	}
}

// Replace discards the current rows and stores rows instead.
func (s *RowStore) Replace(rows Rows) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.rows = append(s.rows[:0:0], rows...)
}

// Append adds rows to the end, preserving existing order.
func (s *RowStore) Append(rows Rows) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.rows = append(s.rows, rows...)
}

// Clear removes all rows.
func (s *RowStore) Clear() {
	s.Replace(nil)
}

// Sort reorders the stored rows in place. Rows appended later are not merged.
func (s *RowStore) Sort(col Column, dir Direction) {
	s.mx.Lock()
	defer s.mx.Unlock()
	SortRows(s.rows, col, dir)
}

// SortedView returns a sorted copy, leaving stored order intact.
func (s *RowStore) SortedView(col Column, dir Direction) Rows {
	out := s.Rows()
	SortRows(out, col, dir)
	return out
}

// Rows returns a snapshot of the stored rows.
func (s *RowStore) Rows() Rows {
	s.mx.RLock()
	defer s.mx.RUnlock()
	out := make(Rows, len(s.rows))
	copy(out, s.rows)
	return out
}

// Len returns the number of rows.
func (s *RowStore) Len() int {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return len(s.rows)
}

// Empty returns true if no rows are loaded.
func (s *RowStore) Empty() bool {
	return s.Len() == 0
}

// Range iterates over the rows until f returns false.
func (s *RowStore) Range(f func(int, Row) bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	for i, r := range s.rows {
		if !f(i, r) {
			return
		}
	}
}
