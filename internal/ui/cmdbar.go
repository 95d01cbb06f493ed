// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// IndicatorMode represents the current input mode.
type IndicatorMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal IndicatorMode = iota
	// ModeCommand is for entering commands (: prefix).
	ModeCommand
)

const (
	promptNormal  = ">"
	promptCommand = ":"
)

// DefaultCommands lists the table commands offered for completion.
var DefaultCommands = []string{
	"columns",
	"help",
	"more",
	"quit",
	"range",
	"reload",
	"retry",
	"sort",
}

// CmdBar is a bordered command input bar with ghost-text completion.
type CmdBar struct {
	*tview.TextView

	mode              IndicatorMode
	cmdFn             func(string)
	activeFn          func(bool)
	isActive          bool
	text              []rune
	suggestions       []string
	suggestionIdx     int
	currentSuggestion string
	commands          []string
	mx                sync.RWMutex
}

// NewCmdBar creates a new command bar.
func NewCmdBar() *CmdBar {
	c := &CmdBar{
		TextView:      tview.NewTextView(),
		mode:          ModeNormal,
		commands:      slices.Clone(DefaultCommands),
		suggestionIdx: -1,
	}

	c.SetBorder(true)
	c.SetBorderColor(tcell.ColorDarkCyan)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextColor(tcell.ColorWhite)
	c.SetDynamicColors(true)
	c.SetWrap(false)
	c.SetInputCapture(c.keyboard)
	c.render()

	return c
}

// HandleKey processes a key while the bar is active.
func (c *CmdBar) HandleKey(evt *tcell.EventKey) *tcell.EventKey {
	return c.keyboard(evt)
}

func (c *CmdBar) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if !c.IsActive() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		c.mx.Lock()
		if len(c.text) > 0 {
			c.text = c.text[:len(c.text)-1]
		}
		c.mx.Unlock()
		c.updateSuggestions()
		c.render()
		return nil

	case tcell.KeyEnter:
		c.execute()
		return nil

	case tcell.KeyEsc:
		c.Deactivate()
		return nil

	case tcell.KeyTab, tcell.KeyRight:
		c.mx.Lock()
		if c.currentSuggestion != "" {
			c.text = []rune(c.currentSuggestion)
		}
		c.mx.Unlock()
		c.clearSuggestions()
		c.render()
		return nil

	case tcell.KeyUp:
		c.cycle(-1)
		return nil

	case tcell.KeyDown:
		c.cycle(1)
		return nil

	case tcell.KeyCtrlU, tcell.KeyCtrlW:
		c.mx.Lock()
		c.text = c.text[:0]
		c.mx.Unlock()
		c.clearSuggestions()
		c.render()
		return nil

	case tcell.KeyRune:
		c.mx.Lock()
		c.text = append(c.text, evt.Rune())
		c.mx.Unlock()
		c.updateSuggestions()
		c.render()
		return nil
	}

	return evt
}

func (c *CmdBar) cycle(step int) {
	c.mx.Lock()
	if n := len(c.suggestions); n > 0 {
		c.suggestionIdx = (c.suggestionIdx + step + n) % n
		c.currentSuggestion = c.suggestions[c.suggestionIdx]
	}
	c.mx.Unlock()
	c.render()
}

// render updates the display with current text and ghost suggestion.
func (c *CmdBar) render() {
	c.mx.RLock()
	text := string(c.text)
	suggestion := c.currentSuggestion
	mode := c.mode
	c.mx.RUnlock()

	prefix := promptNormal
	if mode == ModeCommand {
		prefix = promptCommand
	}

	c.Clear()
	if suggestion != "" && strings.HasPrefix(suggestion, text) && len(suggestion) > len(text) {
		ghost := suggestion[len(text):]
		fmt.Fprintf(c.TextView, "%s [::b]%s[gray::]%s[-::]", prefix, tview.Escape(text), ghost)
		return
	}
	fmt.Fprintf(c.TextView, "%s [::b]%s", prefix, tview.Escape(text))
}

// Suggest returns the commands starting with the first word of text.
func (c *CmdBar) Suggest(text string) []string {
	if text == "" || strings.ContainsRune(text, ' ') {
		return nil
	}

	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.suggestLocked(text)
}

func (c *CmdBar) suggestLocked(text string) []string {
	text = strings.ToLower(text)
	var matches []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, text) {
			matches = append(matches, cmd)
		}
	}
	sort.Strings(matches)

	return matches
}

func (c *CmdBar) updateSuggestions() {
	c.mx.Lock()
	defer c.mx.Unlock()

	text := string(c.text)
	if c.mode != ModeCommand || text == "" || strings.ContainsRune(text, ' ') {
		c.suggestions, c.suggestionIdx, c.currentSuggestion = nil, -1, ""
		return
	}

	c.suggestions = c.suggestLocked(text)
	c.suggestionIdx, c.currentSuggestion = 0, ""
	if len(c.suggestions) > 0 {
		c.currentSuggestion = c.suggestions[0]
	}
}

func (c *CmdBar) clearSuggestions() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.suggestions, c.suggestionIdx, c.currentSuggestion = nil, -1, ""
}

// AddCommands adds commands to the completion list.
func (c *CmdBar) AddCommands(cmds ...string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	for _, cmd := range cmds {
		if !slices.Contains(c.commands, cmd) {
			c.commands = append(c.commands, cmd)
		}
	}
	sort.Strings(c.commands)
}

// GetText returns the current input text.
func (c *CmdBar) GetText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return string(c.text)
}

// SetText sets the input text.
func (c *CmdBar) SetText(s string) {
	c.mx.Lock()
	c.text = []rune(s)
	c.mx.Unlock()
	c.updateSuggestions()
	c.render()
}

// Activate enters command mode.
func (c *CmdBar) Activate() {
	c.mx.Lock()
	c.mode = ModeCommand
	c.isActive = true
	c.text = c.text[:0]
	fn := c.activeFn
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if fn != nil {
		fn(true)
	}
}

// Deactivate exits input mode and returns to normal.
func (c *CmdBar) Deactivate() {
	c.mx.Lock()
	c.isActive = false
	c.mode = ModeNormal
	c.text = c.text[:0]
	fn := c.activeFn
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if fn != nil {
		fn(false)
	}
}

func (c *CmdBar) execute() {
	text := strings.TrimSpace(c.GetText())

	c.mx.RLock()
	fn := c.cmdFn
	c.mx.RUnlock()

	c.Deactivate()
	if fn != nil && text != "" {
		fn(text)
	}
}

// IsActive returns whether the command bar is accepting input.
func (c *CmdBar) IsActive() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.isActive
}

// Mode returns the current mode.
func (c *CmdBar) Mode() IndicatorMode {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.mode
}

// SetCommandFn sets the callback for command execution.
func (c *CmdBar) SetCommandFn(fn func(string)) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.cmdFn = fn
}

// SetActiveFn sets the callback for when active state changes.
func (c *CmdBar) SetActiveFn(fn func(bool)) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.activeFn = fn
}
