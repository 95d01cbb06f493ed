// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import (
	"testing"

	"github.com/derailed/tcell/v2"
)

func TestAsKey(t *testing.T) {
	uu := map[string]struct {
		evt *tcell.EventKey
		e   tcell.Key
	}{
		"digit": {evt: keyEvent('2'), e: Key2},
		"rune":  {evt: keyEvent('G'), e: KeyShiftG},
		"enter": {evt: tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), e: tcell.KeyEnter},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			if got := AsKey(u.evt); got != u.e {
				t.Fatalf("expected %v but got %v", u.e, got)
			}
		})
	}
}

func TestKeyName(t *testing.T) {
	uu := map[tcell.Key]string{
		Key3:           "3",
		KeyColon:       ":",
		tcell.KeyEnter: "Enter",
		tcell.KeyCtrlS: "Ctrl-S",
	}

	for k, e := range uu {
		if got := KeyName(k); got != e {
			t.Errorf("key %d: expected %q but got %q", k, e, got)
		}
	}
}

func TestKeyActionsHints(t *testing.T) {
	nop := func(evt *tcell.EventKey) *tcell.EventKey { return evt }
	aa := NewKeyActions()
	aa.Bulk(KeyMap{
		KeyQ: NewKeyAction("Quit", nop, true),
		Key2: NewKeyAction("Sort Name", nop, false),
		KeyR: NewKeyAction("Retry", nop, true),
		KeyG: NewKeyAction("Top", nop, false),
		Key9: NewKeyAction("Gone", nop, true),
	})
	aa.Delete(Key9)

	if got := aa.Len(); got != 4 {
		t.Fatalf("expected 4 actions but got %d", got)
	}

	hh := aa.Hints()
	e := []string{"2", "g", "q", "r"}
	for i, h := range hh {
		if h.Mnemonic != e[i] {
			t.Fatalf("hint %d: expected %q but got %q", i, e[i], h.Mnemonic)
		}
	}
	if !hh[3].Visible || hh[3].Description != "Retry" {
		t.Fatalf("unexpected retry hint %+v", hh[3])
	}
}

func TestKeyFromName(t *testing.T) {
	uu := map[string]struct {
		name string
		e    tcell.Key
		ok   bool
	}{
		"ctrl":    {name: "Ctrl-R", e: tcell.KeyCtrlR, ok: true},
		"fold":    {name: "ctrl-r", e: tcell.KeyCtrlR, ok: true},
		"shift":   {name: "Shift-P", e: tcell.Key('P'), ok: true},
		"shiftLc": {name: "shift-p", e: tcell.Key('P'), ok: true},
		"rune":    {name: "x", e: tcell.Key('x'), ok: true},
		"digit":   {name: " 4 ", e: Key4, ok: true},
		"unknown": {name: "Hyper-Q"},
		"blank":   {name: ""},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			got, ok := KeyFromName(u.name)
			if ok != u.ok {
				t.Fatalf("expected ok %t but got %t", u.ok, ok)
			}
			if ok && got != u.e {
				t.Fatalf("expected %v but got %v", u.e, got)
			}
		})
	}
}
