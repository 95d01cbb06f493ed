package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/stbl/stbl/internal/dao"
	"github.com/stbl/stbl/internal/model1"
)

// Engine owns a table's sort, loaded rows and pagination window, and keeps
// at most one fetch in flight.
type Engine struct {
	cfg         Config
	store       *model1.RowStore
	cursor      *model1.Cursor
	sort        model1.SortState
	dateRange   *dao.DateRange
	err         error
	loadedOnce  bool
	generation  uint64
	seq         uint64
	handle      Handle
	unsubscribe func()
	listeners   []TableListener
	started     bool
	destroyed   bool
	ctx         context.Context
	cancelFn    context.CancelFunc
	wg          sync.WaitGroup
	mx          sync.Mutex

	emitMx  sync.Mutex
	emitted uint64
}

// frame is a snapshot along with what is needed to publish it.
type frame struct {
	Snapshot
	seq       uint64
	handle    Handle
	listeners []TableListener
}

// NewEngine resolves opts and returns an engine ready to Start.
func NewEngine(header model1.Header, opts Options) (*Engine, error) {
	cfg, err := Resolve(header, opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := Engine{
		cfg:       cfg,
		store:     model1.NewRowStore(cfg.batchSize),
		cursor:    model1.NewCursor(cfg.batchSize),
		sort:      cfg.initialSort,
		dateRange: cfg.dateRange,
		listeners: make([]TableListener, 0, 2),
		ctx:       ctx,
		cancelFn:  cancel,
	}
	if cfg.preloaded {
		e.store.Replace(cfg.rows)
		e.sortLocked()
		e.loadedOnce = true
	}

	return &e, nil
}

// Config returns the resolved configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Header returns the table columns.
func (e *Engine) Header() model1.Header {
	return e.cfg.header.Clone()
}

// State returns the current load state.
func (e *Engine) State() model1.State {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.stateLocked()
}

// SortState returns the active sort.
func (e *Engine) SortState() model1.SortState {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.sort
}

// DateRange returns the active date filter if any.
func (e *Engine) DateRange() (dao.DateRange, bool) {
	e.mx.Lock()
	defer e.mx.Unlock()
	if e.dateRange == nil {
		return dao.DateRange{}, false
	}
	return *e.dateRange, true
}

// Rows returns the loaded rows in display order.
func (e *Engine) Rows() model1.Rows {
	return e.store.Rows()
}

// Window returns the last requested window.
func (e *Engine) Window() model1.Window {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.cursor.Window()
}

// Exhausted returns true once the source ran out of rows.
func (e *Engine) Exhausted() bool {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.cursor.Exhausted()
}

// Loading returns true while a fetch is in flight.
func (e *Engine) Loading() bool {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.cursor.Loading()
}

// Err returns the last load failure, cleared by the next load.
func (e *Engine) Err() error {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.err
}

// Peek returns a snapshot of the engine state.
func (e *Engine) Peek() Snapshot {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.snapshotLocked()
}

// AddListener registers a table listener.
func (e *Engine) AddListener(l TableListener) {
	e.mx.Lock()
	defer e.mx.Unlock()
	e.listeners = append(e.listeners, l)
}

// RemoveListener unregisters a table listener.
func (e *Engine) RemoveListener(l TableListener) {
	e.mx.Lock()
	defer e.mx.Unlock()

	for i, listener := range e.listeners {
		if listener == l {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Start mounts the table, subscribes to scroll signals and loads the first
// window. Preloaded local tables are displayed without fetching.
func (e *Engine) Start(ctx context.Context) error {
	e.mx.Lock()
	if e.destroyed {
		e.mx.Unlock()
		return ErrDestroyed
	}
	if e.started {
		e.mx.Unlock()
		return nil
	}
	e.started = true
	e.handle = e.cfg.renderer.Mount(MountState{
		Header:     e.cfg.header.Clone(),
		Sort:       e.sort,
		LinkPrefix: e.cfg.linkPrefix,
		LocalMode:  e.cfg.localMode,
	})
	preloaded := e.loadedOnce
	fr := e.frameLocked()
	e.mx.Unlock()

	// Subscribers may fire right away so hold no lock here.
	if e.cfg.scroll != nil {
		unsub := e.cfg.scroll.Subscribe(e.OnNearViewportEnd)
		e.mx.Lock()
		if e.destroyed {
			e.mx.Unlock()
			unsub()
			return ErrDestroyed
		}
		e.unsubscribe = unsub
		e.mx.Unlock()
	}

	if preloaded {
		e.emit(fr)
		return nil
	}

	return e.reload(ctx, nil)
}

// LoadMore fetches the next window and appends it. Before the first window
// has loaded, or after it failed, the first window is loaded instead.
func (e *Engine) LoadMore(ctx context.Context) error {
	e.mx.Lock()
	switch {
	case e.destroyed:
		e.mx.Unlock()
		return ErrDestroyed
	case e.cfg.localMode:
		e.mx.Unlock()
		return ErrLocalMode
	case e.cursor.Loading():
		e.mx.Unlock()
		return ErrBusy
	case !e.loadedOnce:
		e.mx.Unlock()
		return e.reload(ctx, nil)
	}

	if !e.cursor.Advance() {
		e.mx.Unlock()
		return ErrExhausted
	}
	req, gen, fr := e.beginLocked()
	e.mx.Unlock()
	e.emit(fr)

	rows, err := e.fetch(ctx, req)

	return e.settle(gen, req, rows, err, true)
}

// Retry repeats the last failed load. It does nothing if nothing failed.
func (e *Engine) Retry(ctx context.Context) error {
	e.mx.Lock()
	failed := e.err != nil
	e.mx.Unlock()
	if !failed {
		return nil
	}

	return e.LoadMore(ctx)
}

// SetDateRange filters a remote table to [from, to] and reloads it while
// keeping the active sort. Zero bounds are left open.
func (e *Engine) SetDateRange(ctx context.Context, from, to time.Time) error {
	if e.cfg.localMode {
		return ErrLocalMode
	}
	r := dao.DateRange{From: from, To: to}
	if err := validateRange(r); err != nil {
		return err
	}

	return e.reload(ctx, func() {
		if r.IsZero() {
			e.dateRange = nil
			return
		}
		e.dateRange = &r
	})
}

// OnNearViewportEnd requests the next window in the background.
func (e *Engine) OnNearViewportEnd() {
	e.mx.Lock()
	idle := e.started && !e.cfg.localMode && !e.cursor.Loading() && !e.cursor.Exhausted() && e.err == nil
	e.mx.Unlock()
	if !idle {
		return
	}

	e.async("load more", e.LoadMore)
}

// Wait blocks until background work started by intents has settled.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Destroy unmounts the table and detaches it from scroll signals. A fetch
// still in flight is cancelled and its result dropped.
func (e *Engine) Destroy() {
	e.mx.Lock()
	if e.destroyed {
		e.mx.Unlock()
		return
	}
	e.destroyed = true
	e.generation++
	unsub, handle, started := e.unsubscribe, e.handle, e.started
	e.unsubscribe, e.listeners = nil, nil
	e.mx.Unlock()

	if unsub != nil {
		unsub()
	}
	e.cancelFn()

	e.emitMx.Lock()
	defer e.emitMx.Unlock()
	e.emitted = math.MaxUint64
	if started {
		e.cfg.renderer.Unmount(handle)
	}
	e.cfg.log.Debug("table destroyed")
}

// reload resets the window, clears the rows and fetches the first window.
// mutate runs under the lock before the request is built.
func (e *Engine) reload(ctx context.Context, mutate func()) error {
	e.mx.Lock()
	if e.destroyed {
		e.mx.Unlock()
		return ErrDestroyed
	}
	if mutate != nil {
		mutate()
	}
	e.generation++
	e.cursor.Reset()
	e.store.Clear()
	e.loadedOnce = false
	req, gen, fr := e.beginLocked()
	e.mx.Unlock()
	e.emit(fr)

	rows, err := e.fetch(ctx, req)

	return e.settle(gen, req, rows, err, false)
}

// beginLocked takes the loading token and builds the request for the
// current window.
func (e *Engine) beginLocked() (dao.FetchRequest, uint64, frame) {
	e.cursor.MarkLoading()
	e.err = nil
	req := dao.FetchRequest{
		Sort:   e.sort,
		Window: e.cursor.Window(),
	}
	if e.dateRange != nil {
		r := *e.dateRange
		req.Range = &r
	}
	e.cfg.log.Debug("fetching window",
		slog.String("window", req.Window.String()),
		slog.String("sort", req.Sort.String()),
		slog.Uint64("generation", e.generation),
	)

	return req, e.generation, e.frameLocked()
}

func (e *Engine) fetch(ctx context.Context, req dao.FetchRequest) (model1.Rows, error) {
	if e.cfg.fetcher == nil {
		return nil, ErrNoFetcher
	}

	// Destroy cancels fetches started from any context.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.ctx, cancel)
	defer stop()

	return e.cfg.fetcher.FetchWindow(ctx, req)
}

// settle applies a fetch result unless a reset happened since it was issued.
func (e *Engine) settle(gen uint64, req dao.FetchRequest, rows model1.Rows, err error, page bool) error {
	e.mx.Lock()
	if gen != e.generation || e.destroyed {
		e.mx.Unlock()
		e.cfg.log.Debug("discarding stale window",
			slog.String("window", req.Window.String()),
			slog.Uint64("generation", gen),
		)
		return ErrStale
	}

	e.cursor.MarkIdle()
	if err != nil {
		if page {
			e.cursor.Retreat()
		}
		e.err = err
		fr := e.frameLocked()
		e.mx.Unlock()
		e.cfg.log.Warn("window load failed",
			slog.String("window", req.Window.String()),
			slog.Any("error", err),
		)
		e.emit(fr)
		return err
	}

	e.loadedOnce = true
	e.store.Append(rows)
	e.cursor.ObserveBatch(len(rows))
	if e.cfg.localMode {
		e.sortLocked()
	}
	fr := e.frameLocked()
	e.mx.Unlock()
	e.cfg.log.Debug("window loaded",
		slog.String("window", req.Window.String()),
		slog.Int("rows", len(rows)),
		slog.String("state", fr.State.String()),
	)
	e.emit(fr)

	return nil
}

func (e *Engine) sortLocked() {
	col, ok := e.cfg.header.Column(e.sort.ColumnID)
	if !ok {
		return
	}
	e.store.Sort(col, e.sort.Direction)
}

func (e *Engine) stateLocked() model1.State {
	switch {
	case e.cursor.Loading():
		return model1.StateLoading
	case e.err != nil:
		return model1.StateError
	case e.loadedOnce && e.store.Empty():
		return model1.StateEmpty
	case e.cursor.Exhausted():
		return model1.StateExhausted
	default:
		return model1.StateIdle
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Header:    e.cfg.header.Clone(),
		Rows:      e.store.Rows(),
		Sort:      e.sort,
		Window:    e.cursor.Window(),
		State:     e.stateLocked(),
		Exhausted: e.cursor.Exhausted(),
		Err:       e.err,
	}
}

func (e *Engine) frameLocked() frame {
	e.seq++
	ll := make([]TableListener, len(e.listeners))
	copy(ll, e.listeners)

	return frame{
		Snapshot:  e.snapshotLocked(),
		seq:       e.seq,
		handle:    e.handle,
		listeners: ll,
	}
}

// emit publishes fr to the renderer and listeners. Frames older than the
// last published one are dropped.
func (e *Engine) emit(fr frame) {
	e.emitMx.Lock()
	defer e.emitMx.Unlock()
	if fr.seq <= e.emitted {
		return
	}
	e.emitted = fr.seq

	r := e.cfg.renderer
	r.SetSortIndicator(fr.handle, fr.Sort.ColumnID, fr.Sort.Direction)
	r.SetRows(fr.handle, fr.Rows)
	r.SetLoadingIndicator(fr.handle, fr.State == model1.StateLoading)
	r.SetEmptyIndicator(fr.handle, fr.State == model1.StateEmpty)
	if er, ok := r.(ErrorRenderer); ok {
		er.SetErrorIndicator(fr.handle, fr.Err)
	}

	for _, l := range fr.listeners {
		switch fr.State {
		case model1.StateError:
			l.TableLoadFailed(fr.Err)
		case model1.StateEmpty:
			l.TableNoData(fr.Snapshot)
		default:
			l.TableDataChanged(fr.Snapshot)
		}
	}
}

// async runs f on the engine context unless the engine is gone.
func (e *Engine) async(op string, f func(context.Context) error) {
	e.mx.Lock()
	if e.destroyed {
		e.mx.Unlock()
		return
	}
	e.wg.Add(1)
	e.mx.Unlock()

	go func() {
		defer e.wg.Done()
		if err := f(e.ctx); err != nil && !quiet(err) {
			e.cfg.log.Debug(fmt.Sprintf("%s failed", op), slog.Any("error", err))
		}
	}()
}

// quiet reports errors that only mean an intent was not applicable.
func quiet(err error) bool {
	for _, q := range []error{ErrBusy, ErrExhausted, ErrStale, ErrDestroyed, ErrLocalMode} {
		if errors.Is(err, q) {
			return true
		}
	}
	return false
}
