// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package view

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stbl/stbl/internal/config"
	"github.com/stbl/stbl/internal/config/data"
	"github.com/stbl/stbl/internal/model1"
	"github.com/stbl/stbl/internal/ui"
)

const itemsJSON = `[
  {"id": "1", "name": "bolt", "price": 3},
  {"id": "2", "name": "nut", "price": 1},
  {"id": "3", "name": "gear", "price": 12},
  {"id": "4", "name": "axle", "price": 7},
  {"id": "5", "name": "cog", "price": 5}
]`

const itemsColumns = `columns:
  - id: id
  - id: name
    title: Name
    sortable: true
  - id: price
    title: Price
    sortable: true
    sortType: number
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// testApp returns an app whose tables directory holds a local items table
// aliased as "it".
func testApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	rows := writeFile(t, dir, "items.json", itemsJSON)
	writeFile(t, dir, "items.yaml", "local: true\nlinkPrefix: /items\nsort: name\nrowsFile: "+rows+"\n"+itemsColumns)

	app := NewApp(config.NewConfig(nil), "test")
	app.SetTablesDir(data.NewDir(dir))
	aa := config.NewAliases()
	aa.Set("it", "items")
	app.SetAliases(aa)
	if err := app.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(app.Stop)

	return app
}

func currentTable(t *testing.T, app *App) *Table {
	t.Helper()
	tv := app.CurrentTable()
	if tv == nil {
		t.Fatal("expected a table to be open")
	}
	tv.Wait()
	return tv
}

func TestParseCommand(t *testing.T) {
	uu := map[string]struct {
		cmd  string
		name string
		args []string
	}{
		"blank":  {cmd: "  "},
		"bare":   {cmd: "retry", name: "retry", args: []string{}},
		"args":   {cmd: "sort  price:desc", name: "sort", args: []string{"price:desc"}},
		"folded": {cmd: "RANGE 2024-01-01 -", name: "range", args: []string{"2024-01-01", "-"}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			name, args := parseCommand(u.cmd)
			if name != u.name {
				t.Fatalf("expected %q but got %q", u.name, name)
			}
			if strings.Join(args, ",") != strings.Join(u.args, ",") {
				t.Fatalf("expected %v but got %v", u.args, args)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	uu := map[string]struct {
		args []string
		e    model1.SortState
		err  bool
	}{
		"column":  {args: []string{"price"}, e: model1.SortState{ColumnID: "price", Direction: model1.Asc}},
		"colon":   {args: []string{"price:desc"}, e: model1.SortState{ColumnID: "price", Direction: model1.Desc}},
		"split":   {args: []string{"price", "DESC"}, e: model1.SortState{ColumnID: "price", Direction: model1.Desc}},
		"badDir":  {args: []string{"price:up"}, err: true},
		"missing": {err: true},
		"extra":   {args: []string{"a", "b", "c"}, err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			s, err := parseSort(u.args)
			if u.err {
				if err == nil {
					t.Fatalf("expected an error but got %v", s)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s != u.e {
				t.Fatalf("expected %v but got %v", u.e, s)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	uu := map[string]struct {
		args     []string
		from, to time.Time
		err      bool
	}{
		"clear":    {},
		"both":     {args: []string{"2024-01-01", "2024-02-01"}, from: jan, to: feb},
		"openFrom": {args: []string{"-", "2024-02-01"}, to: feb},
		"openTo":   {args: []string{"2024-01-01T00:00:00Z"}, from: jan},
		"reversed": {args: []string{"2024-02-01", "2024-01-01"}, err: true},
		"bad":      {args: []string{"yesterday"}, err: true},
		"extra":    {args: []string{"-", "-", "-"}, err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			from, to, err := parseRange(u.args)
			if u.err {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !from.Equal(u.from) || !to.Equal(u.to) {
				t.Fatalf("expected [%v, %v] but got [%v, %v]", u.from, u.to, from, to)
			}
		})
	}
}

func TestCommandOpenTable(t *testing.T) {
	app := testApp(t)

	if err := app.command.Run(":it"); err != nil {
		t.Fatal(err)
	}
	tv := currentTable(t, app)
	if tv.Name() != "items" {
		t.Fatalf("expected items but got %q", tv.Name())
	}
	if got := tv.Engine().Rows().IDs(); strings.Join(got, ",") != "4,1,5,3,2" {
		t.Fatalf("expected rows sorted by name but got %v", got)
	}
	if n := tv.RowCount(); n != 5 {
		t.Fatalf("expected 5 rows displayed but got %d", n)
	}
	if !strings.Contains(app.Status().Status(), "items") {
		t.Fatalf("expected the status to name the table but got %q", app.Status().Status())
	}

	if err := app.command.Run("table items"); err != nil {
		t.Fatal(err)
	}
	if app.CurrentTable() == tv {
		t.Fatal("expected a fresh view")
	}
	if app.Content.StackSize() != 1 {
		t.Fatalf("expected the old view to be replaced, stack %d", app.Content.StackSize())
	}
}

func TestCommandSort(t *testing.T) {
	app := testApp(t)
	if err := app.command.Run("items"); err != nil {
		t.Fatal(err)
	}
	tv := currentTable(t, app)

	if err := app.command.Run("sort price:desc"); err != nil {
		t.Fatal(err)
	}
	tv.Wait()
	if s := tv.Engine().SortState(); s.ColumnID != "price" || s.Direction != model1.Desc {
		t.Fatalf("expected price:desc but got %v", s)
	}
	if got := tv.Engine().Rows().IDs(); strings.Join(got, ",") != "3,4,5,1,2" {
		t.Fatalf("expected rows by price desc but got %v", got)
	}

	if err := app.command.Run("sort id"); err != nil {
		t.Fatal(err)
	}
	tv.Wait()
	if msg := app.Flash().Message(); !strings.Contains(msg, "[ERROR]") {
		t.Fatalf("expected an unsortable column to be flashed but got %q", msg)
	}
	if s := tv.Engine().SortState(); s.ColumnID != "price" {
		t.Fatalf("expected the sort to be kept but got %v", s)
	}
}

func TestCommandLocalRange(t *testing.T) {
	app := testApp(t)
	if err := app.command.Run("items"); err != nil {
		t.Fatal(err)
	}
	tv := currentTable(t, app)

	if err := app.command.Run("range 2024-01-01 -"); err != nil {
		t.Fatal(err)
	}
	tv.Wait()
	if msg := app.Flash().Message(); !strings.Contains(msg, "[WARN]") {
		t.Fatalf("expected a warning for a local table but got %q", msg)
	}
}

func TestCommandErrors(t *testing.T) {
	app := testApp(t)

	uu := map[string]string{
		"noTable":     "sort price",
		"unknown":     "nope",
		"unknownArgs": "nope now",
		"tableUsage":  "table",
		"sortUsage":   "sort",
		"rangeUsage":  "range 2024-01-01 2023-01-01",
	}

	for k, cmd := range uu {
		t.Run(k, func(t *testing.T) {
			if err := app.command.Run(cmd); err == nil {
				t.Fatalf("expected %q to fail", cmd)
			}
		})
	}
}

func TestCommandColumns(t *testing.T) {
	app := testApp(t)
	if err := app.command.Run("columns"); err == nil {
		t.Fatal("expected an error without a table")
	}

	if err := app.command.Run("it"); err != nil {
		t.Fatal(err)
	}
	currentTable(t, app)
	if err := app.command.Run("cols"); err != nil {
		t.Fatal(err)
	}
	if !app.Content.Has(ui.InfoDialogID) {
		t.Fatal("expected the columns dialog")
	}
}

func TestDescribeColumns(t *testing.T) {
	h := model1.Header{
		{ID: "id"},
		{ID: "price", Title: "Price", Sortable: true, SortType: model1.SortNumber},
	}

	e := "id (id)\nPrice (price) sortable:number"
	if got := describeColumns(h); got != e {
		t.Fatalf("expected %q but got %q", e, got)
	}
}

func TestTableLoadFailedRetry(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(itemsJSON))
	}))
	defer srv.Close()

	app := testApp(t)
	def := &config.TableDef{
		Name: "remote",
		URL:  srv.URL + "/items",
		Columns: []config.ColumnDef{
			{ID: "id"},
			{ID: "price", Sortable: true, SortType: "number"},
		},
	}
	app.SetStartup(def, nil)

	if err := app.command.Run(""); err != nil {
		t.Fatal(err)
	}
	tv := currentTable(t, app)
	if s := tv.Engine().State(); s != model1.StateError {
		t.Fatalf("expected an error state but got %v", s)
	}
	if !app.Content.Has(ui.ErrorDialogID) {
		t.Fatal("expected the retry dialog")
	}
	if msg := app.Flash().Message(); !strings.Contains(msg, "500") {
		t.Fatalf("expected the failure to be flashed but got %q", msg)
	}

	healthy.Store(true)
	if err := app.command.Run("retry"); err != nil {
		t.Fatal(err)
	}
	tv.Wait()
	if n := len(tv.Engine().Rows()); n != 5 {
		t.Fatalf("expected 5 rows after retry but got %d", n)
	}
	if s := tv.Engine().State(); s != model1.StateExhausted {
		t.Fatalf("expected the table to be exhausted but got %v", s)
	}
}
