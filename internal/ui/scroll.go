// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import "sync"

// DefaultScrollOffset is how many rows from the end a selection must be to
// request more rows.
const DefaultScrollOffset = 3

// ScrollWatcher signals subscribers when a table selection nears the last row.
type ScrollWatcher struct {
	offset int
	subs   map[int]func()
	next   int
	mx     sync.RWMutex
}

// NewScrollWatcher returns a watcher firing within offset rows of the end.
func NewScrollWatcher(offset int) *ScrollWatcher {
	if offset < 0 {
		offset = DefaultScrollOffset
	}
	return &ScrollWatcher{
		offset: offset,
		subs:   make(map[int]func()),
	}
}

// Subscribe registers fn and returns a func that unregisters it.
func (s *ScrollWatcher) Subscribe(fn func()) func() {
	s.mx.Lock()
	defer s.mx.Unlock()

	id := s.next
	s.next++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mx.Lock()
			defer s.mx.Unlock()
			delete(s.subs, id)
		})
	}
}

// Check fires the signal if selected is within the offset of the last of
// count rows. It returns true if subscribers were notified.
func (s *ScrollWatcher) Check(selected, count int) bool {
	if count <= 0 || selected < 0 {
		return false
	}
	if count-1-selected > s.offset {
		return false
	}
	s.Notify()

	return true
}

// Notify fires the signal.
func (s *ScrollWatcher) Notify() {
	s.mx.RLock()
	ff := make([]func(), 0, len(s.subs))
	for _, f := range s.subs {
		ff = append(ff, f)
	}
	s.mx.RUnlock()

	for _, f := range ff {
		f()
	}
}

// Len returns the number of subscribers.
func (s *ScrollWatcher) Len() int {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return len(s.subs)
}
