// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stbl/stbl/internal/config"
	"github.com/stbl/stbl/internal/model1"
	"github.com/stbl/stbl/internal/ui"
)

// openBound marks an open date range bound, e.g. "range 2024-01-01 -".
const openBound = "-"

var errNoTable = errors.New("no table is open")

// Command handles user command interpretation and execution.
type Command struct {
	app *App
}

// NewCommand creates a new command interpreter.
func NewCommand(app *App) *Command {
	return &Command{app: app}
}

// Init registers the known commands and table names for suggestions.
func (c *Command) Init() error {
	c.app.cmdBar.AddCommands("table")
	c.app.cmdBar.AddCommands(c.tableNames()...)

	return nil
}

// Run parses and executes a command.
func (c *Command) Run(cmd string) error {
	cmd = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cmd), ":"))
	if cmd == "" {
		return c.defaultCmd()
	}

	name, args := parseCommand(cmd)
	switch name {
	case "sort":
		return c.sortCmd(args)
	case "range":
		return c.rangeCmd(args)
	case "more":
		return c.onTable(func(t *Table) { t.More() })
	case "retry":
		return c.onTable(func(t *Table) { t.Retry() })
	case "reload":
		return c.onTable(func(t *Table) { t.Reload() })
	case "columns", "cols":
		return c.columnsCmd()
	case "table":
		if len(args) != 1 {
			return fmt.Errorf("usage: table <name|path>")
		}
		return c.tableCmd(args[0])
	case "help", "?":
		c.app.showHelp()
		return nil
	case "quit", "q", "q!":
		c.app.Stop()
		return nil
	default:
		if len(args) > 0 {
			return fmt.Errorf("unknown command: %s", name)
		}
		if err := c.tableCmd(name); err != nil {
			return fmt.Errorf("unknown command or table %q: %w", name, err)
		}
		return nil
	}
}

// defaultCmd shows the startup table.
func (c *Command) defaultCmd() error {
	c.app.mx.RLock()
	def, be := c.app.def, c.app.backend
	c.app.mx.RUnlock()

	return c.app.ShowTable(def, be)
}

// tableCmd opens a saved table by alias, name or path.
func (c *Command) tableCmd(name string) error {
	c.app.mx.RLock()
	aliases, tables := c.app.aliases, c.app.tables
	c.app.mx.RUnlock()

	def, be, err := c.app.Config().Table(aliases.Get(name), tables)
	if err != nil {
		return err
	}
	if err := c.app.ShowTable(def, be); err != nil {
		return err
	}
	c.app.Flash().Infof("Viewing %s...", def.Name)

	return nil
}

func (c *Command) sortCmd(args []string) error {
	s, err := parseSort(args)
	if err != nil {
		return err
	}

	return c.onTable(func(t *Table) { t.Sort(s.ColumnID, s.Direction) })
}

func (c *Command) rangeCmd(args []string) error {
	from, to, err := parseRange(args)
	if err != nil {
		return err
	}

	return c.onTable(func(t *Table) { t.SetRange(from, to) })
}

// columnsCmd lists the columns of the current table.
func (c *Command) columnsCmd() error {
	t := c.app.CurrentTable()
	if t == nil {
		return errNoTable
	}

	c.app.showDialog(ui.InfoDialog(c.app.Content, describeColumns(t.Engine().Header())))

	return nil
}

func (c *Command) onTable(f func(*Table)) error {
	t := c.app.CurrentTable()
	if t == nil {
		return errNoTable
	}
	f(t)

	return nil
}

func (c *Command) tableNames() []string {
	c.app.mx.RLock()
	aliases, tables := c.app.aliases, c.app.tables
	c.app.mx.RUnlock()

	var nn []string
	if tables != nil {
		if names, err := tables.ListTables(); err == nil {
			nn = append(nn, names...)
		}
	}
	for alias := range aliases.All() {
		nn = append(nn, alias)
	}

	return nn
}

// parseCommand splits a command into its name and arguments.
func parseCommand(cmd string) (string, []string) {
	ff := strings.Fields(cmd)
	if len(ff) == 0 {
		return "", nil
	}

	return strings.ToLower(ff[0]), ff[1:]
}

// parseSort reads "col[:dir]" or "col dir".
func parseSort(args []string) (model1.SortState, error) {
	switch len(args) {
	case 1:
		return model1.ParseSortState(args[0])
	case 2:
		return model1.ParseSortState(args[0] + ":" + args[1])
	default:
		return model1.SortState{}, fmt.Errorf("usage: sort <column>[:asc|desc]")
	}
}

// parseRange reads up to two dates. No argument clears the range and "-"
// leaves a bound open.
func parseRange(args []string) (time.Time, time.Time, error) {
	if len(args) > 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("usage: range [from|-] [to|-]")
	}

	var tt [2]time.Time
	for i, a := range args {
		if a == openBound {
			continue
		}
		d, err := config.ParseDate(a)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		tt[i] = d
	}
	if !tt[0].IsZero() && !tt[1].IsZero() && tt[1].Before(tt[0]) {
		return time.Time{}, time.Time{}, fmt.Errorf("range ends before it starts")
	}

	return tt[0], tt[1], nil
}

func describeColumns(h model1.Header) string {
	var b strings.Builder
	for i, col := range h {
		if i > 0 {
			b.WriteString("\n")
		}
		title := col.Title
		if title == "" {
			title = col.ID
		}
		fmt.Fprintf(&b, "%s (%s)", title, col.ID)
		if col.Sortable {
			fmt.Fprintf(&b, " sortable:%s", col.SortType)
		}
	}

	return b.String()
}
