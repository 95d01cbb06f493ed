package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stbl/stbl/internal/dao"
	"github.com/stbl/stbl/internal/model1"
)

func TestResolve(t *testing.T) {
	f := newFetcher()
	uu := map[string]struct {
		header model1.Header
		opts   Options
		sort   model1.SortState
		batch  int
		err    error
	}{
		"defaults": {
			header: testHeader(),
			opts:   Options{Fetcher: f},
			sort:   model1.SortState{ColumnID: "name", Direction: model1.Asc},
			batch:  model1.DefaultBatchSize,
		},
		"explicit": {
			header: testHeader(),
			opts: Options{
				Fetcher:     f,
				BatchSize:   50,
				InitialSort: &model1.SortState{ColumnID: "price", Direction: model1.Desc},
			},
			sort:  model1.SortState{ColumnID: "price", Direction: model1.Desc},
			batch: 50,
		},
		"sort-no-dir": {
			header: testHeader(),
			opts:   Options{Fetcher: f, InitialSort: &model1.SortState{ColumnID: "price"}},
			sort:   model1.SortState{ColumnID: "price", Direction: model1.Asc},
			batch:  model1.DefaultBatchSize,
		},
		"local-no-rows": {
			header: testHeader(),
			opts:   Options{LocalMode: true, Rows: model1.Rows{}},
			sort:   model1.SortState{ColumnID: "name", Direction: model1.Asc},
			batch:  model1.DefaultBatchSize,
		},
		"local-nil-rows": {
			header: testHeader(),
			opts:   Options{LocalMode: true},
			err:    ErrNoFetcher,
		},
		"unsortable": {
			header: testHeader(),
			opts:   Options{Fetcher: f, InitialSort: &model1.SortState{ColumnID: "id"}},
			err:    ErrInvalidSort,
		},
		"no-sortable": {
			header: model1.Header{{ID: "id"}},
			opts:   Options{Fetcher: f},
			err:    ErrInvalidSort,
		},
		"no-fetcher": {
			header: testHeader(),
			err:    ErrNoFetcher,
		},
		"remote-rows": {
			header: testHeader(),
			opts:   Options{Fetcher: f, Rows: batch(0, 2)},
			err:    ErrRemoteOnlyRows,
		},
		"local-range": {
			header: testHeader(),
			opts: Options{
				Fetcher:   f,
				LocalMode: true,
				DateRange: &dao.DateRange{From: time.Now()},
			},
			err: ErrLocalMode,
		},
		"no-base-url": {
			header: testHeader(),
			opts:   Options{URL: "/products"},
			err:    dao.ErrNoBaseURL,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			cfg, err := Resolve(u.header, u.opts)
			if u.err != nil {
				if !errors.Is(err, u.err) {
					t.Fatalf("expected %v, got %v", u.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.InitialSort() != u.sort {
				t.Fatalf("expected sort %s but got %s", u.sort, cfg.InitialSort())
			}
			if cfg.BatchSize() != u.batch {
				t.Fatalf("expected batch %d but got %d", u.batch, cfg.BatchSize())
			}
		})
	}
}

func TestResolveRemoteSource(t *testing.T) {
	cfg, err := Resolve(testHeader(), Options{
		BaseURL: "http://localhost:3000",
		URL:     "/products",
	})
	if err != nil {
		t.Fatal(err)
	}
	src, ok := cfg.fetcher.(*dao.RemoteSource)
	if !ok {
		t.Fatalf("expected a remote source, got %T", cfg.fetcher)
	}
	if src.Resource() != "http://localhost:3000/products" {
		t.Fatalf("unexpected resource %s", src.Resource())
	}
}

func TestResolveInvalidRange(t *testing.T) {
	now := time.Now()
	_, err := Resolve(testHeader(), Options{
		Fetcher:   newFetcher(),
		DateRange: &dao.DateRange{From: now, To: now.Add(-time.Hour)},
	})
	if err == nil {
		t.Fatal("expected inverted range to be rejected")
	}
}
