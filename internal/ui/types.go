package ui

import (
	"strconv"

	"github.com/derailed/tview"
)

// MenuHint represents a keyboard mnemonic.
type MenuHint struct {
	Mnemonic    string
	Description string
	Visible     bool
}

// IsBlank checks if menu hint is a placeholder.
func (m MenuHint) IsBlank() bool {
	return m.Mnemonic == "" && m.Description == "" && !m.Visible
}

// MenuHints orders numeric mnemonics (column sorts) first, then the rest by
// description.
type MenuHints []MenuHint

func (h MenuHints) Len() int      { return len(h) }
func (h MenuHints) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h MenuHints) Less(i, j int) bool {
	n, err1 := strconv.Atoi(h[i].Mnemonic)
	m, err2 := strconv.Atoi(h[j].Mnemonic)
	switch {
	case err1 == nil && err2 == nil:
		return n < m
	case err1 == nil:
		return true
	case err2 == nil:
		return false
	default:
		return h[i].Description < h[j].Description
	}
}

// Hinter provides menu hints.
type Hinter interface {
	Hints() MenuHints
}

// Page is a named screen hosted by Pages that contributes menu hints.
type Page interface {
	tview.Primitive
	Hinter

	Name() string
}
