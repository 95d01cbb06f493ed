// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Page names of the stock dialogs.
const (
	ErrorDialogID = "error-dialog"
	InfoDialogID  = "info-dialog"
)

// Dialog represents a modal dialog with buttons.
type Dialog struct {
	*tview.Modal

	pages   *Pages
	pageID  string
	buttons []func()
	onDone  func()
}

// NewDialog creates a new dialog.
func NewDialog(pages *Pages, pageID, msg string) *Dialog {
	d := &Dialog{
		Modal:  tview.NewModal(),
		pages:  pages,
		pageID: pageID,
	}
	d.SetText(msg)
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(tcell.ColorWhite)
	d.SetDoneFunc(func(i int, _ string) {
		d.Dismiss()
		if i >= 0 && i < len(d.buttons) && d.buttons[i] != nil {
			d.buttons[i]()
		}
	})

	return d
}

// AddButton appends a button running fn once the dialog is dismissed.
func (d *Dialog) AddButton(label string, fn func()) *Dialog {
	d.AddButtons([]string{label})
	d.buttons = append(d.buttons, fn)
	return d
}

// SetDoneCallback sets the callback for when dialog closes.
func (d *Dialog) SetDoneCallback(fn func()) *Dialog {
	d.onDone = fn
	return d
}

// SetColors configures dialog colors.
func (d *Dialog) SetColors(text, btnBg, btnText tcell.Color) *Dialog {
	d.SetTextColor(text)
	d.SetButtonBackgroundColor(btnBg)
	d.SetButtonTextColor(btnText)
	return d
}

// Show displays the dialog as a modal overlay.
func (d *Dialog) Show() {
	if d.pages != nil {
		d.pages.Overlay(d.pageID, d)
	}
}

// Dismiss removes the dialog from display.
func (d *Dialog) Dismiss() {
	if d.pages != nil {
		d.pages.Remove(d.pageID)
	}
	if d.onDone != nil {
		d.onDone()
	}
}

// PageID returns the dialog's page identifier.
func (d *Dialog) PageID() string {
	return d.pageID
}

// InfoDialog creates a simple info dialog with OK button.
func InfoDialog(pages *Pages, message string) *Dialog {
	return NewDialog(pages, InfoDialogID, message).
		AddButton("OK", nil)
}

// RetryDialog reports a load failure and offers to retry it.
func RetryDialog(pages *Pages, err error, retry func()) *Dialog {
	return NewDialog(pages, ErrorDialogID, err.Error()).
		AddButton("Retry", retry).
		AddButton("Dismiss", nil).
		SetColors(tcell.ColorRed, tcell.ColorRed, tcell.ColorWhite)
}
