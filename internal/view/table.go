// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"

	"github.com/stbl/stbl/internal/config"
	"github.com/stbl/stbl/internal/logging"
	"github.com/stbl/stbl/internal/model"
	"github.com/stbl/stbl/internal/model1"
	"github.com/stbl/stbl/internal/render"
	"github.com/stbl/stbl/internal/ui"
)

// Table shows a table definition and routes user intents to its engine.
type Table struct {
	*ui.Table

	app     *App
	def     *config.TableDef
	backend *config.Backend
	engine  *model.Engine
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mx      sync.RWMutex
}

var (
	_ ui.Page             = (*Table)(nil)
	_ model.TableListener = (*Table)(nil)
)

// NewTable creates a new table view. be may be nil for tables that need
// no backend.
func NewTable(app *App, def *config.TableDef, be *config.Backend) *Table {
	return &Table{
		Table:   ui.NewTable(def.Name),
		app:     app,
		def:     def,
		backend: be,
	}
}

// Init builds the engine behind the view.
func (t *Table) Init(ctx context.Context) error {
	t.log = logging.WithTable(t.app.Logger(), t.def.Name)
	t.ctx, t.cancel = context.WithCancel(logging.NewContext(ctx, t.log))

	s := t.app.Config().Stbl
	emptyText := t.def.EmptyText
	if emptyText == "" {
		emptyText = s.UI.EmptyText
	}
	if emptyText != "" {
		t.SetEmptyText(emptyText)
	}
	if s.UI.ScrollOffset > 0 {
		t.SetScrollOffset(s.UI.ScrollOffset)
	}
	t.SetDrawer(t.app)

	e, err := t.newEngine()
	if err != nil {
		t.cancel()
		return err
	}
	t.engine = e
	t.SetSelectFn(t.openLink)
	t.bindKeys()

	var backend string
	if t.backend != nil {
		backend = t.backend.Name
	}
	t.app.Status().SetExtra(render.JoinStrings("@", t.def.Name, backend))

	return nil
}

func (t *Table) newEngine() (*model.Engine, error) {
	header, err := t.def.Header()
	if err != nil {
		return nil, err
	}
	opts, err := t.def.Options(t.app.Config().Stbl, t.backend, t.log)
	if err != nil {
		return nil, err
	}
	opts.Renderer = t.Table
	opts.Scroll = t.ScrollSignal()

	e, err := model.NewEngine(header, opts)
	if err != nil {
		return nil, err
	}
	e.AddListener(t)
	e.AddListener(t.app.Status())
	t.SetHeaderFn(e.OnHeaderActivated)

	return e, nil
}

// Start loads the first window in the background.
func (t *Table) Start() {
	e := t.Engine()
	t.run("start", e.Start)
}

// Stop destroys the engine. Fetches in flight are dropped.
func (t *Table) Stop() {
	if e := t.Engine(); e != nil {
		e.Destroy()
	}
	if t.cancel != nil {
		t.cancel()
	}
}

// Wait blocks until every intent issued so far has settled.
func (t *Table) Wait() {
	t.wg.Wait()
	if e := t.Engine(); e != nil {
		e.Wait()
	}
}

// Engine returns the engine backing the view.
func (t *Table) Engine() *model.Engine {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.engine
}

// Definition returns the table definition shown.
func (t *Table) Definition() *config.TableDef {
	return t.def
}

// Sort orders the table by col in direction dir.
func (t *Table) Sort(col string, dir model1.Direction) {
	e := t.Engine()
	t.run("sort", func(ctx context.Context) error {
		return e.RequestSort(ctx, col, dir)
	})
}

// SetRange filters the table to [from, to]. Zero bounds are left open.
func (t *Table) SetRange(from, to time.Time) {
	e := t.Engine()
	t.run("range", func(ctx context.Context) error {
		return e.SetDateRange(ctx, from, to)
	})
}

// More requests the next window.
func (t *Table) More() {
	t.run("more", t.Engine().LoadMore)
}

// Retry refetches the window that failed last.
func (t *Table) Retry() {
	t.run("retry", t.Engine().Retry)
}

// Reload rebuilds the engine and loads the table from scratch.
func (t *Table) Reload() {
	e, err := t.newEngine()
	if err != nil {
		t.app.Flash().Err(err)
		return
	}

	t.mx.Lock()
	old := t.engine
	t.engine = e
	t.mx.Unlock()

	if old != nil {
		old.Destroy()
	}
	t.run("reload", e.Start)
}

// TableNoData implements model.TableListener.
func (t *Table) TableNoData(model.Snapshot) {}

// TableDataChanged implements model.TableListener.
func (t *Table) TableDataChanged(model.Snapshot) {}

// TableLoadFailed implements model.TableListener.
func (t *Table) TableLoadFailed(err error) {
	t.app.Flash().Err(err)
	t.app.QueueUpdateDraw(func() {
		t.app.showDialog(ui.RetryDialog(t.app.Content, err, t.Retry))
	})
}

// run performs an engine intent off the UI thread.
func (t *Table) run(op string, fn func(context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := fn(t.ctx); err != nil {
			t.report(op, err)
		}
	}()
}

// report surfaces intent failures not already shown through the listener.
func (t *Table) report(op string, err error) {
	switch {
	case errors.Is(err, model.ErrDestroyed), errors.Is(err, model.ErrStale), errors.Is(err, context.Canceled):
		return
	case errors.Is(err, model.ErrBusy):
		t.app.Flash().Warn("Rows are loading, try again shortly")
	case errors.Is(err, model.ErrExhausted):
		t.app.Flash().Info("All rows loaded")
	case errors.Is(err, model.ErrLocalMode):
		t.app.Flash().Warnf("%s: table is sorted locally", op)
	default:
		if last := t.Engine().Err(); last != nil && errors.Is(err, last) {
			return
		}
		t.app.Flash().Errf("%s failed: %v", op, err)
	}
	t.log.Debug(fmt.Sprintf("%s not applied", op), slog.Any("error", err))
}

func (t *Table) openLink(link string, row model1.Row) {
	if link == "" {
		t.app.Flash().Warnf("Row %q has no link", row.ID)
		return
	}
	t.log.Info("row selected", slog.String("link", link))
	t.app.Flash().Infof("Open %s", link)
}

// bindKeys adds view key bindings plus the user hotkeys.
func (t *Table) bindKeys() {
	t.Actions().Bulk(ui.KeyMap{
		ui.KeyR:        ui.NewKeyAction("Retry", t.retryCmd, true),
		tcell.KeyCtrlN: ui.NewKeyAction("More", t.moreCmd, true),
	})

	hh := t.app.hotkeys
	for _, name := range hh.Names() {
		hk := hh.Get(name)
		if hk == nil {
			continue
		}
		key, ok := ui.KeyFromName(hk.ShortCut)
		if !ok {
			t.log.Warn("unknown hotkey", slog.String("hotkey", name), slog.String("shortCut", hk.ShortCut))
			continue
		}
		desc, cmd := hk.Description, hk.Command
		if desc == "" {
			desc = name
		}
		t.Actions().Add(key, ui.NewKeyAction(desc, func(*tcell.EventKey) *tcell.EventKey {
			if err := t.app.command.Run(cmd); err != nil {
				t.app.Flash().Err(err)
			}
			return nil
		}, true))
	}
}

func (t *Table) retryCmd(*tcell.EventKey) *tcell.EventKey {
	t.Retry()
	return nil
}

func (t *Table) moreCmd(*tcell.EventKey) *tcell.EventKey {
	t.More()
	return nil
}
