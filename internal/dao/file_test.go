package dao

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stbl/stbl/internal/model1"
)

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	if err := os.WriteFile(path, []byte(`[{"id":"a"},{"id":"b"},{"id":"c"}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", s.Len())
	}

	uu := map[string]struct {
		w   model1.Window
		e   []string
		err bool
	}{
		"first":   {w: model1.Window{Start: 0, End: 2}, e: []string{"a", "b"}},
		"partial": {w: model1.Window{Start: 2, End: 4}, e: []string{"c"}},
		"past":    {w: model1.Window{Start: 4, End: 6}, e: []string{}},
		"invalid": {w: model1.Window{Start: 3, End: 1}, err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			rows, err := s.FetchWindow(context.Background(), FetchRequest{Window: u.w})
			if u.err {
				if !IsFetchError(err) {
					t.Fatalf("expected fetch error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			ids := rows.IDs()
			if len(ids) != len(u.e) {
				t.Fatalf("expected %v but got %v", u.e, ids)
			}
			for i := range ids {
				if ids[i] != u.e[i] {
					t.Fatalf("expected %v but got %v", u.e, ids)
				}
			}
		})
	}
}

func TestFileSourceMissing(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileSourceSortedWindows(t *testing.T) {
	s := NewMemorySource(model1.Rows{
		model1.NewRow(map[string]any{"id": "a", "price": 3}),
		model1.NewRow(map[string]any{"id": "b", "price": 1}),
		model1.NewRow(map[string]any{"id": "c", "price": 2}),
		model1.NewRow(map[string]any{"id": "d"}),
	})
	w := model1.Window{Start: 0, End: 2}
	desc := model1.SortState{ColumnID: "price", Direction: model1.Desc}

	rows, err := s.FetchWindow(context.Background(), FetchRequest{Sort: desc, Window: w})
	if err != nil {
		t.Fatal(err)
	}
	if ids := rows.IDs(); !slices.Equal(ids, []string{"a", "b"}) {
		t.Fatalf("expected file order without a header, got %v", ids)
	}

	s.SetHeader(model1.Header{
		{ID: "id"},
		{ID: "price", Sortable: true, SortType: model1.SortNumber},
	})
	uu := map[string]struct {
		sort model1.SortState
		w    model1.Window
		e    []string
	}{
		"desc":       {sort: desc, w: w, e: []string{"d", "a"}},
		"asc":        {sort: model1.SortState{ColumnID: "price", Direction: model1.Asc}, w: w, e: []string{"b", "c"}},
		"ascNext":    {sort: model1.SortState{ColumnID: "price", Direction: model1.Asc}, w: model1.Window{Start: 2, End: 4}, e: []string{"a", "d"}},
		"unsortable": {sort: model1.SortState{ColumnID: "id", Direction: model1.Desc}, w: w, e: []string{"a", "b"}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			rows, err := s.FetchWindow(context.Background(), FetchRequest{Sort: u.sort, Window: u.w})
			if err != nil {
				t.Fatal(err)
			}
			if ids := rows.IDs(); !slices.Equal(ids, u.e) {
				t.Fatalf("expected %v but got %v", u.e, ids)
			}
		})
	}
}
