// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of stbl

package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/stbl/stbl/internal/config"
	"github.com/stbl/stbl/internal/config/data"
	"github.com/stbl/stbl/internal/ui"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	helpPage = "help"
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash shows short lived messages below the table.
type Flash struct {
	*tview.TextView

	drawer ui.Drawer
	last   string
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(d ui.Drawer) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		drawer:   d,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Warnf displays a formatted warning message.
func (f *Flash) Warnf(format string, args ...any) {
	f.Warn(fmt.Sprintf(format, args...))
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Message returns the message last shown, prefix included.
func (f *Flash) Message() string {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return f.last
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.last = ""
	f.mx.Unlock()

	f.draw(func() {
		f.TextView.Clear()
	})
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	if msg == "" {
		f.Clear()
		return
	}

	text := flashPrefix(level) + " " + msg
	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.last = text
	f.mx.Unlock()

	f.draw(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		fmt.Fprint(f.TextView, tview.Escape(text))
	})

	go f.autoClear(ctx)
}

func (f *Flash) draw(fn func()) {
	if f.drawer == nil {
		fn()
		return
	}
	f.drawer.QueueUpdateDraw(fn)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "[WARN]"
	case FlashErr:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

// App represents the main application container.
type App struct {
	*tview.Application

	version string
	Main    *tview.Pages
	Content *ui.Pages
	command *Command
	cfg     *config.Config
	tables  *data.Dir
	aliases *config.Aliases
	hotkeys *config.HotKeys
	def     *config.TableDef
	backend *config.Backend
	current *Table
	log     *slog.Logger
	cmdBar  *ui.CmdBar
	menu    *ui.Menu
	status  *ui.StatusIndicator
	flash   *Flash
	help    *Help
	running bool
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, version string) *App {
	if cfg == nil {
		cfg = config.NewConfig(nil)
	}
	app := &App{
		Application: tview.NewApplication(),
		version:     version,
		cfg:         cfg,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		tables:      config.TablesDir(),
		aliases:     config.NewAliases(),
		hotkeys:     config.NewHotKeys(),
		def:         config.DefaultTable(),
		log:         slog.Default(),
	}

	app.flash = NewFlash(app)
	app.menu = ui.NewMenu()
	app.cmdBar = ui.NewCmdBar()
	app.status = ui.NewStatusIndicator()
	app.status.SetDrawer(app)
	app.help = NewHelp()
	app.command = NewCommand(app)

	app.Application.SetInputCapture(app.keyboard)
	app.cmdBar.SetActiveFn(func(active bool) {
		if active {
			app.SetFocus(app.cmdBar)
			return
		}
		app.focusCurrent()
	})
	app.cmdBar.SetCommandFn(func(cmd string) {
		if err := app.command.Run(cmd); err != nil {
			app.flash.Err(err)
		}
	})

	return app
}

// SetStartup sets the table shown first and the backend serving it.
func (a *App) SetStartup(def *config.TableDef, be *config.Backend) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.def, a.backend = def, be
}

// SetTablesDir sets where saved table definitions live.
func (a *App) SetTablesDir(d *data.Dir) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.tables = d
}

// SetAliases sets the table aliases.
func (a *App) SetAliases(aa *config.Aliases) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.aliases = aa
}

// SetHotKeys sets the user key bindings.
func (a *App) SetHotKeys(hh *config.HotKeys) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.hotkeys = hh
}

// SetLogger sets the application logger.
func (a *App) SetLogger(l *slog.Logger) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.log = l
}

// Init builds the application layout.
func (a *App) Init() error {
	if err := a.command.Init(); err != nil {
		return fmt.Errorf("failed to initialize command: %w", err)
	}

	a.Main.AddPage("main", a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)
	a.SetFocus(a.Content)

	return nil
}

// Run shows the startup table and blocks until the application stops.
func (a *App) Run() error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	if err := a.command.Run(""); err != nil {
		a.flash.Errf("Failed to open table: %v", err)
	}

	return a.Application.Run()
}

// Stop tears the current table down and stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	cur, running := a.current, a.running
	a.current, a.running = nil, false
	a.mx.Unlock()

	if cur != nil {
		cur.Stop()
	}
	if running {
		a.Application.Stop()
	}
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Status returns the status line.
func (a *App) Status() *ui.StatusIndicator {
	return a.status
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.log
}

// CurrentTable returns the table on screen, if any.
func (a *App) CurrentTable() *Table {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.current
}

// QueueUpdateDraw runs fn on the UI thread, or inline when the
// application is not running.
func (a *App) QueueUpdateDraw(fn func()) {
	if !a.IsRunning() {
		fn()
		return
	}
	go a.Application.QueueUpdateDraw(fn)
}

// ShowTable replaces the table on screen with def served by be.
func (a *App) ShowTable(def *config.TableDef, be *config.Backend) error {
	t := NewTable(a, def, be)
	if err := t.Init(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize table %q: %w", def.Name, err)
	}

	a.mx.Lock()
	old := a.current
	a.current = t
	a.mx.Unlock()

	if old != nil {
		old.Stop()
		a.Content.Remove(old.Name())
	}
	a.Content.PushPage(t)
	a.SetFocus(t)
	a.menu.Hydrate(t, a)
	t.Start()

	return nil
}

// Hints returns the application wide key hints.
func (a *App) Hints() ui.MenuHints {
	return ui.MenuHints{
		{Mnemonic: ":", Description: "Command", Visible: true},
		{Mnemonic: "?", Description: "Help", Visible: true},
		{Mnemonic: "Ctrl-R", Description: "Reload", Visible: true},
		{Mnemonic: "q", Description: "Quit", Visible: true},
	}
}

// buildLayout stacks the command bar, the table and the status lines.
func (a *App) buildLayout() *tview.Flex {
	bottomBar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.status, 1, 0, false).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, 2, 0, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.cmdBar, 3, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(bottomBar, 4, 0, false)
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a.Content.Current() == helpPage || a.cmdBar.IsActive() {
		return evt
	}
	if a.Content.Has(ui.ErrorDialogID) || a.Content.Has(ui.InfoDialogID) {
		return evt
	}

	if evt.Key() == tcell.KeyRune {
		switch evt.Rune() {
		case ':':
			a.cmdBar.Activate()
			return nil
		case '?':
			a.showHelp()
			return nil
		case 'q':
			a.Stop()
			return nil
		}
	}

	switch evt.Key() {
	case tcell.KeyCtrlC:
		a.Stop()
		return nil
	case tcell.KeyCtrlR:
		if t := a.CurrentTable(); t != nil {
			a.flash.Info("Reloading...")
			t.Reload()
		}
		return nil
	}

	return evt
}

// showHelp displays the key bindings over the table.
func (a *App) showHelp() {
	var hh ui.MenuHints
	if t := a.CurrentTable(); t != nil {
		hh = t.Hints()
	}
	a.help.Update(hh)
	a.help.SetCloseFn(func() {
		a.Content.Remove(helpPage)
		a.focusCurrent()
	})
	a.Content.Push(helpPage, a.help)
	a.SetFocus(a.help)
}

// showDialog overlays d and hands focus back to the table once it closes.
func (a *App) showDialog(d *ui.Dialog) {
	d.SetDoneCallback(a.focusCurrent)
	d.Show()
	a.SetFocus(d)
}

func (a *App) focusCurrent() {
	if t := a.CurrentTable(); t != nil {
		a.SetFocus(t)
		return
	}
	a.SetFocus(a.Content)
}
