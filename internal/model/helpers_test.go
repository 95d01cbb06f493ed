package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stbl/stbl/internal/dao"
	"github.com/stbl/stbl/internal/model1"
)

func testHeader() model1.Header {
	return model1.Header{
		{ID: "id", Title: "ID"},
		{ID: "name", Title: "Name", Sortable: true, SortType: model1.SortString},
		{ID: "price", Title: "Price", Sortable: true, SortType: model1.SortNumber},
	}
}

func batch(start, n int) model1.Rows {
	rows := make(model1.Rows, 0, n)
	for i := start; i < start+n; i++ {
		rows = append(rows, model1.NewRow(map[string]any{
			"id":    fmt.Sprintf("r%d", i),
			"name":  fmt.Sprintf("name-%d", i),
			"price": float64(i),
		}))
	}
	return rows
}

func newRemote(t *testing.T, f dao.WindowFetcher, mutate func(*Options)) *Engine {
	t.Helper()
	opts := Options{Fetcher: f}
	if mutate != nil {
		mutate(&opts)
	}
	e, err := NewEngine(testHeader(), opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Destroy)
	return e
}

func assertState(t *testing.T, e *Engine, s model1.State) {
	t.Helper()
	if got := e.State(); got != s {
		t.Fatalf("expected state %s but got %s", s, got)
	}
}

// fetcher replays scripted batches or errors, one per call.
type fetcher struct {
	responses []any
	reqs      []dao.FetchRequest
	blockAt   int
	blocked   chan struct{}
	gate      chan struct{}
	mx        sync.Mutex
}

func newFetcher(responses ...any) *fetcher {
	return &fetcher{responses: responses, blockAt: -1}
}

// block makes call i wait for release.
func (f *fetcher) block(i int) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.blockAt = i
	f.blocked = make(chan struct{})
	f.gate = make(chan struct{})
}

func (f *fetcher) waitBlocked(t *testing.T) {
	t.Helper()
	f.mx.Lock()
	blocked := f.blocked
	f.mx.Unlock()
	select {
	case <-blocked:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch never started")
	}
}

func (f *fetcher) release() {
	f.mx.Lock()
	defer f.mx.Unlock()
	close(f.gate)
}

func (f *fetcher) FetchWindow(ctx context.Context, req dao.FetchRequest) (model1.Rows, error) {
	f.mx.Lock()
	i := len(f.reqs)
	f.reqs = append(f.reqs, req)
	var resp any = errors.New("no more responses")
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	block, blocked, gate := i == f.blockAt, f.blocked, f.gate
	f.mx.Unlock()

	if block {
		close(blocked)
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	switch r := resp.(type) {
	case error:
		return nil, r
	case model1.Rows:
		return r.Clone(), nil
	default:
		return nil, fmt.Errorf("bad response %T", resp)
	}
}

func (f *fetcher) count() int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return len(f.reqs)
}

func (f *fetcher) requests() []dao.FetchRequest {
	f.mx.Lock()
	defer f.mx.Unlock()
	return append([]dao.FetchRequest(nil), f.reqs...)
}

func (f *fetcher) windows() []model1.Window {
	rr := f.requests()
	ww := make([]model1.Window, 0, len(rr))
	for _, r := range rr {
		ww = append(ww, r.Window)
	}
	return ww
}

// recorder is a renderer keeping the last value of each indicator.
type recorder struct {
	mounts    int
	rows      model1.Rows
	isLoading bool
	isEmpty   bool
	sortCol   string
	sortDir   model1.Direction
	lastErr   error
	unmount   bool
	mx        sync.Mutex
}

func newRecorder() *recorder {
	return &recorder{}
}

func (r *recorder) Mount(MountState) Handle {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.mounts++
	return r.mounts
}

func (r *recorder) SetRows(_ Handle, rows model1.Rows) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.rows = rows
}

func (r *recorder) SetLoadingIndicator(_ Handle, b bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.isLoading = b
}

func (r *recorder) SetEmptyIndicator(_ Handle, b bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.isEmpty = b
}

func (r *recorder) SetSortIndicator(_ Handle, col string, dir model1.Direction) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.sortCol, r.sortDir = col, dir
}

func (r *recorder) SetErrorIndicator(_ Handle, err error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.lastErr = err
}

func (r *recorder) Unmount(Handle) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.unmount = true
}

func (r *recorder) loading() bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.isLoading
}

func (r *recorder) empty() bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.isEmpty
}

func (r *recorder) err() error {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.lastErr
}

func (r *recorder) shown() model1.Rows {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.rows
}

func (r *recorder) sortIndicator() (string, model1.Direction) {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.sortCol, r.sortDir
}

func (r *recorder) unmounted() bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.unmount
}

// signal is a manually fired scroll signal.
type signal struct {
	subs map[int]func()
	next int
	mx   sync.Mutex
}

func newSignal() *signal {
	return &signal{subs: make(map[int]func())}
}

func (s *signal) Subscribe(fn func()) func() {
	s.mx.Lock()
	defer s.mx.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mx.Lock()
		defer s.mx.Unlock()
		delete(s.subs, id)
	}
}

func (s *signal) fire() {
	s.mx.Lock()
	ff := make([]func(), 0, len(s.subs))
	for _, f := range s.subs {
		ff = append(ff, f)
	}
	s.mx.Unlock()
	for _, f := range ff {
		f()
	}
}

func (s *signal) subscribers() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.subs)
}

type listener struct {
	changed, empty, fails int
	mx                    sync.Mutex
}

func (l *listener) TableNoData(Snapshot) {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.empty++
}

func (l *listener) TableDataChanged(Snapshot) {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.changed++
}

func (l *listener) TableLoadFailed(error) {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.fails++
}

func (l *listener) noData() int {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.empty
}

func (l *listener) failed() int {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.fails
}

func (l *listener) dataChanged() int {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.changed
}
