package model

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stbl/stbl/internal/model1"
)

func scenarioRows() model1.Rows {
	return model1.Rows{
		model1.NewRow(map[string]any{"id": "b", "name": "b", "price": 2.0}),
		model1.NewRow(map[string]any{"id": "a", "name": "a", "price": 1.0}),
	}
}

func scenarioHeader() model1.Header {
	return model1.Header{
		{ID: "name", Sortable: true, SortType: model1.SortString},
		{ID: "price", Sortable: true, SortType: model1.SortNumber},
	}
}

func TestEngineScenarioA(t *testing.T) {
	r := newRecorder()
	e, err := NewEngine(scenarioHeader(), Options{
		LocalMode:   true,
		Rows:        scenarioRows(),
		InitialSort: &model1.SortState{ColumnID: "price", Direction: model1.Desc},
		Renderer:    r,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Destroy()

	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ids := e.Rows().IDs(); !slices.Equal(ids, []string{"b", "a"}) {
		t.Fatalf("expected initial desc order, got %v", ids)
	}
	window := e.Window()

	if err := e.RequestSort(context.Background(), "price", model1.Asc); err != nil {
		t.Fatal(err)
	}
	rows := e.Rows()
	if ids := rows.IDs(); !slices.Equal(ids, []string{"a", "b"}) {
		t.Fatalf("expected [a b], got %v", ids)
	}
	if rows[0].Get("price") != 1.0 || rows[1].Get("name") != "b" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if ids := r.shown().IDs(); !slices.Equal(ids, []string{"a", "b"}) {
		t.Fatalf("renderer shows %v", ids)
	}
	if e.Window() != window || e.Exhausted() {
		t.Fatal("local sort touched the pagination cursor")
	}
	if col, dir := r.sortIndicator(); col != "price" || dir != model1.Asc {
		t.Fatalf("unexpected sort indicator %s %s", col, dir)
	}
}

func TestEngineLocalNeverFetches(t *testing.T) {
	f := newFetcher(batch(0, 12))
	var l listener
	e := newRemote(t, f, func(o *Options) { o.LocalMode = true })
	e.AddListener(&l)

	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.count() != 1 {
		t.Fatalf("expected one initial fetch, got %d", f.count())
	}

	for _, s := range []model1.SortState{
		{ColumnID: "price", Direction: model1.Desc},
		{ColumnID: "name", Direction: model1.Asc},
		{ColumnID: "price", Direction: model1.Asc},
	} {
		if err := e.RequestSort(context.Background(), s.ColumnID, s.Direction); err != nil {
			t.Fatal(err)
		}
		rows := e.Rows()
		if len(rows) != 12 {
			t.Fatalf("rows added or removed: %d", len(rows))
		}
		col, _ := testHeader().Column(s.ColumnID)
		if !slices.IsSortedFunc(rows, func(a, b model1.Row) int {
			return model1.Compare(col.SortType, col.ID, a, b, s.Direction)
		}) {
			t.Fatalf("rows not sorted by %s: %v", s, rows.IDs())
		}
	}

	if err := e.LoadMore(context.Background()); !errors.Is(err, ErrLocalMode) {
		t.Fatalf("expected local mode, got %v", err)
	}
	if err := e.SetDateRange(context.Background(), time.Now(), time.Time{}); !errors.Is(err, ErrLocalMode) {
		t.Fatalf("expected local mode, got %v", err)
	}
	e.OnNearViewportEnd()
	e.OnHeaderActivated("price")
	e.Wait()

	if f.count() != 1 {
		t.Fatalf("local table fetched again: %d fetches", f.count())
	}
	if s := e.SortState(); s.Direction != model1.Desc {
		t.Fatalf("expected header toggle to desc, got %s", s)
	}
	if l.dataChanged() == 0 {
		t.Fatal("listener not notified")
	}
}

func TestEngineLocalSortAfterAppend(t *testing.T) {
	e, err := NewEngine(scenarioHeader(), Options{
		LocalMode: true,
		Rows:      scenarioRows(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Destroy()

	// Initial sort defaults to the first sortable column.
	if s := e.SortState(); s != (model1.SortState{ColumnID: "name", Direction: model1.Asc}) {
		t.Fatalf("unexpected default sort %s", s)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ids := e.Rows().IDs(); !slices.Equal(ids, []string{"a", "b"}) {
		t.Fatalf("expected name order, got %v", ids)
	}
	assertState(t, e, model1.StateIdle)
}

func TestEngineLocalNoRows(t *testing.T) {
	r, l := newRecorder(), &listener{}
	e, err := NewEngine(scenarioHeader(), Options{
		LocalMode: true,
		Rows:      model1.Rows{},
		Renderer:  r,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Destroy()
	e.AddListener(l)

	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	assertState(t, e, model1.StateEmpty)
	if !r.empty() || len(r.shown()) != 0 {
		t.Fatalf("expected the empty placeholder, shown %v", r.shown())
	}
	if l.noData() != 1 {
		t.Fatalf("expected one no-data notification, got %d", l.noData())
	}
	if err := e.RequestSort(context.Background(), "price", model1.Desc); err != nil {
		t.Fatal(err)
	}
	assertState(t, e, model1.StateEmpty)
}
