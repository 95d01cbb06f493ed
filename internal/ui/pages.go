package ui

import (
	"slices"

	"github.com/derailed/tview"
)

// Pages stacks full screen views and modal overlays.
type Pages struct {
	*tview.Pages

	stack []string
}

// NewPages returns a new pages manager.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
		stack: make([]string, 0, 3),
	}
}

// Push shows page on top of the stack, replacing any page of the same name.
func (p *Pages) Push(name string, page tview.Primitive) {
	p.Remove(name)
	p.stack = append(p.stack, name)
	p.AddPage(name, page, true, true)
	p.SwitchToPage(name)
}

// PushPage pushes a page under its own name.
func (p *Pages) PushPage(page Page) {
	p.Push(page.Name(), page)
}

// Overlay shows a modal on top of the current page.
func (p *Pages) Overlay(name string, page tview.Primitive) {
	p.Remove(name)
	p.stack = append(p.stack, name)
	p.AddPage(name, page, true, true)
}

// Pop removes the top page and returns the new top.
func (p *Pages) Pop() (string, bool) {
	if len(p.stack) == 0 {
		return "", false
	}
	p.Remove(p.stack[len(p.stack)-1])

	return p.Current(), true
}

// Remove drops a page wherever it is in the stack.
func (p *Pages) Remove(name string) {
	i := slices.Index(p.stack, name)
	if i < 0 {
		return
	}
	p.stack = slices.Delete(p.stack, i, i+1)
	p.RemovePage(name)
}

// Has returns true if name is on the stack.
func (p *Pages) Has(name string) bool {
	return slices.Contains(p.stack, name)
}

// Current returns the top page name.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// StackSize returns the stack depth.
func (p *Pages) StackSize() int {
	return len(p.stack)
}
