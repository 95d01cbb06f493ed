// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	menuIndexFmt = " [yellow::b]<%d>[white::-] %s "
	menuPlainFmt = " [yellow::b]<%s>[white::-] %s "
	maxRows      = 2
)

// Menu presents menu options.
type Menu struct {
	*tview.Table
}

// NewMenu returns a new menu.
func NewMenu() *Menu {
	m := &Menu{
		Table: tview.NewTable(),
	}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return m
}

// HydrateMenu populates the menu from several hint sets, in order.
func (m *Menu) HydrateMenu(sets ...MenuHints) {
	m.Clear()

	var hh MenuHints
	for _, s := range sets {
		for _, h := range s {
			if h.Visible && !h.IsBlank() {
				hh = append(hh, h)
			}
		}
	}
	sort.Stable(hh)

	for i, h := range hh {
		c := tview.NewTableCell(formatMenu(h))
		c.SetBackgroundColor(tcell.ColorDefault)
		m.SetCell(i%maxRows, i/maxRows, c)
	}
}

// Hydrate populates the menu from hinters.
func (m *Menu) Hydrate(hh ...Hinter) {
	sets := make([]MenuHints, 0, len(hh))
	for _, h := range hh {
		if h != nil {
			sets = append(sets, h.Hints())
		}
	}
	m.HydrateMenu(sets...)
}

func formatMenu(h MenuHint) string {
	if h.Mnemonic == "" || h.Description == "" {
		return ""
	}

	i, err := strconv.Atoi(h.Mnemonic)
	if err == nil {
		return fmt.Sprintf(menuIndexFmt, i, h.Description)
	}

	return fmt.Sprintf(menuPlainFmt, h.Mnemonic, h.Description)
}
