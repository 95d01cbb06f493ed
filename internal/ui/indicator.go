// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/stbl/stbl/internal/model"
	"github.com/stbl/stbl/internal/model1"
)

// StatusIndicator summarizes a table's load state on a single line.
type StatusIndicator struct {
	*tview.TextView

	drawer Drawer
	snap   model.Snapshot
	err    error
	extra  string
	mx     sync.RWMutex
}

var _ model.TableListener = (*StatusIndicator)(nil)

// NewStatusIndicator returns a new status line.
func NewStatusIndicator() *StatusIndicator {
	s := StatusIndicator{TextView: tview.NewTextView()}
	s.SetDynamicColors(true)
	s.SetTextAlign(tview.AlignRight)
	s.SetBackgroundColor(tcell.ColorDefault)
	s.SetTextColor(tcell.ColorWhite)
	s.SetWrap(false)

	return &s
}

// SetDrawer routes redraws through d.
func (s *StatusIndicator) SetDrawer(d Drawer) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.drawer = d
}

// SetExtra appends free text, such as the active date range.
func (s *StatusIndicator) SetExtra(extra string) {
	s.mx.Lock()
	s.extra = extra
	s.mx.Unlock()
	s.draw()
}

// TableNoData implements model.TableListener.
func (s *StatusIndicator) TableNoData(snap model.Snapshot) {
	s.update(snap, nil)
}

// TableDataChanged implements model.TableListener.
func (s *StatusIndicator) TableDataChanged(snap model.Snapshot) {
	s.update(snap, nil)
}

// TableLoadFailed implements model.TableListener.
func (s *StatusIndicator) TableLoadFailed(err error) {
	s.mx.Lock()
	s.err = err
	s.snap.State = model1.StateError
	s.mx.Unlock()
	s.draw()
}

// Status returns the current status line without color tags.
func (s *StatusIndicator) Status() string {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.formatLocked(false)
}

func (s *StatusIndicator) update(snap model.Snapshot, err error) {
	s.mx.Lock()
	s.snap, s.err = snap, err
	s.mx.Unlock()
	s.draw()
}

func (s *StatusIndicator) draw() {
	s.mx.RLock()
	d := s.drawer
	s.mx.RUnlock()

	if d == nil {
		s.refresh()
		return
	}
	d.QueueUpdateDraw(s.refresh)
}

func (s *StatusIndicator) refresh() {
	s.mx.RLock()
	txt := s.formatLocked(true)
	s.mx.RUnlock()

	s.TextView.SetText(txt)
}

func (s *StatusIndicator) formatLocked(color bool) string {
	state := s.snap.State
	if state == model1.StateIdle && s.snap.Exhausted {
		state = model1.StateExhausted
	}

	stateText := state.String()
	if color {
		stateText = fmt.Sprintf("[#%06x::b]%s[-::-]", model1.StateColor(state).Hex(), stateText)
	}

	parts := []string{
		stateText,
		fmt.Sprintf("rows:%d", len(s.snap.Rows)),
	}
	if s.snap.Window.Len() > 0 {
		parts = append(parts, "window:"+s.snap.Window.String())
	}
	if s.snap.Sort.IsSet() {
		parts = append(parts, "sort:"+s.snap.Sort.String())
	}
	if s.extra != "" {
		parts = append(parts, s.extra)
	}
	if s.err != nil {
		msg := s.err.Error()
		if color {
			msg = tview.Escape(msg)
		}
		parts = append(parts, "err:"+msg)
	}

	return strings.Join(parts, " | ")
}
