// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package view

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/stbl/stbl/internal/ui"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

var (
	generalBinds = []HelpBind{
		{"<:>", "Command"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<ctrl-r>", "Reload"},
		{"<q>", "Quit"},
	}

	navigationBinds = []HelpBind{
		{"<j>", "Down"},
		{"<k>", "Up"},
		{"<g>", "Top"},
		{"<G>", "Bottom"},
		{"<enter>", "Open"},
		{"<1-9>", "Sort Column"},
		{"<ctrl-s>", "Sort Next"},
	}

	commandBinds = []HelpBind{
		{":sort", "col[:dir]"},
		{":range", "from to"},
		{":more", "Next Rows"},
		{":retry", "Retry Load"},
		{":reload", "Reload"},
		{":columns", "Columns"},
		{":table", "Open Table"},
	}
)

// Help displays the key bindings in columns.
type Help struct {
	*tview.Table

	closeFn func()
}

// NewHelp creates a new help view.
func NewHelp() *Help {
	h := &Help{
		Table: tview.NewTable(),
	}
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)
	h.SetInputCapture(h.keyboard)
	h.Update(nil)

	return h
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

// Update lays out the stock bindings followed by the table's own.
func (h *Help) Update(hh ui.MenuHints) {
	h.Clear()

	table := make([]HelpBind, 0, len(hh))
	for _, hint := range hh {
		if !hint.Visible || hint.IsBlank() {
			continue
		}
		table = append(table, HelpBind{Key: "<" + hint.Mnemonic + ">", Desc: hint.Description})
	}

	h.layout(
		[]string{"GENERAL", "NAVIGATION", "COMMANDS", "TABLE"},
		[][]HelpBind{generalBinds, navigationBinds, commandBinds, table},
	)
}

func (h *Help) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch {
	case evt.Key() == tcell.KeyEsc, evt.Key() == tcell.KeyEnter:
	case evt.Key() == tcell.KeyRune && (evt.Rune() == '?' || evt.Rune() == 'q'):
	default:
		return evt
	}
	if h.closeFn != nil {
		h.closeFn()
	}

	return nil
}

// layout writes each logical column as key, description and spacer cells.
func (h *Help) layout(headers []string, columns [][]HelpBind) {
	maxRows := 0
	for _, col := range columns {
		maxRows = max(maxRows, len(col))
	}

	const colWidth = 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth

		h.SetCell(0, baseCol, tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for rowIdx, bind := range col {
			h.SetCell(rowIdx+1, baseCol, tview.NewTableCell(bind.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(rowIdx+1, baseCol+1, tview.NewTableCell(bind.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if colIdx == len(columns)-1 {
			continue
		}
		for row := 0; row <= maxRows; row++ {
			h.SetCell(row, baseCol+2, tview.NewTableCell("").
				SetSelectable(false).
				SetExpansion(1))
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
