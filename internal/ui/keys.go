// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/derailed/tcell/v2"
)

// Rune keys, expressed as tcell keys so they can share a KeyMap with
// special keys.
const (
	Key0 tcell.Key = iota + 48
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

const (
	KeySlash    tcell.Key = '/'
	KeyColon    tcell.Key = ':'
	KeyQuestion tcell.Key = '?'
	KeyG        tcell.Key = 'g'
	KeyShiftG   tcell.Key = 'G'
	KeyJ        tcell.Key = 'j'
	KeyK        tcell.Key = 'k'
	KeyQ        tcell.Key = 'q'
	KeyR        tcell.Key = 'r'
)

// ActionHandler handles a keyboard event.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// KeyAction represents a keyboard action.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Visible     bool
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: display}
}

// KeyActions tracks the actions bound to a component.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty action set.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// Get returns the action bound to key.
func (a *KeyActions) Get(key tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()
	v, ok := a.actions[key]
	return v, ok
}

// Add binds an action.
func (a *KeyActions) Add(k tcell.Key, action KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.actions[k] = action
}

// Bulk binds several actions at once.
func (a *KeyActions) Bulk(km KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range km {
		a.actions[k] = v
	}
}

// Delete unbinds keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Len returns the number of bound keys.
func (a *KeyActions) Len() int {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return len(a.actions)
}

// Hints returns menu hints for the visible actions.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	kk := make([]tcell.Key, 0, len(a.actions))
	for k := range a.actions {
		kk = append(kk, k)
	}
	sort.Slice(kk, func(i, j int) bool { return kk[i] < kk[j] })

	hh := make(MenuHints, 0, len(kk))
	for _, k := range kk {
		hh = append(hh, MenuHint{
			Mnemonic:    KeyName(k),
			Description: a.actions[k].Description,
			Visible:     a.actions[k].Visible,
		})
	}
	return hh
}

// AsKey maps a keyboard event to the key used in a KeyMap.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}

// KeyName returns a display name for a key.
func KeyName(k tcell.Key) string {
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	if k > 31 && k < 127 {
		return string(rune(k))
	}
	return "?"
}

// KeyFromName parses a key name as KeyName prints it, e.g. Ctrl-R or Enter.
// Shift-P names the upper case rune.
func KeyFromName(name string) (tcell.Key, bool) {
	name = strings.TrimSpace(name)
	if rr := []rune(name); len(rr) == 1 {
		return tcell.Key(rr[0]), true
	}
	if len(name) > 6 && strings.EqualFold(name[:6], "shift-") {
		if rr := []rune(name[6:]); len(rr) == 1 {
			return tcell.Key(unicode.ToUpper(rr[0])), true
		}
	}
	for k, n := range tcell.KeyNames {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}

	return 0, false
}
