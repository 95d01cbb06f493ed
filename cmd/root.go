package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/stbl/stbl/internal/config"
	"github.com/stbl/stbl/internal/config/data"
	"github.com/stbl/stbl/internal/logging"
	"github.com/stbl/stbl/internal/model"
	"github.com/stbl/stbl/internal/render"
	"github.com/stbl/stbl/internal/view"
)

const (
	appName    = "stbl"
	appVersion = "0.1.0"
)

var (
	stblFlags *data.Flags
	rootCmd   = &cobra.Command{
		Use:   appName,
		Short: "A sortable, incrementally loaded table browser",
		Long:  `stbl browses tabular JSON resources page by page, sorting them locally or on the server.`,
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
	tablesCmd = &cobra.Command{
		Use:   "tables",
		Short: "List saved table definitions and aliases",
		RunE:  listTables,
	}
	columnsCmd = &cobra.Command{
		Use:   "columns [table]",
		Short: "Show the columns of a table definition",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listColumns,
	}
)

func init() {
	stblFlags = config.NewFlags()
	initStblFlags()
	rootCmd.AddCommand(versionCmd, tablesCmd, columnsCmd)
}

func initStblFlags() {
	rootCmd.Flags().StringVarP(stblFlags.Table, "table", "t", "", "Table definition name or path")
	rootCmd.Flags().StringVarP(stblFlags.URL, "url", "u", "", "Resource URL, overrides the table definition")
	rootCmd.Flags().StringVarP(stblFlags.Backend, "backend", "b", "", "Backend profile to fetch from")
	rootCmd.Flags().BoolVar(stblFlags.Local, "local", false, "Sort loaded rows in memory")
	rootCmd.Flags().StringVarP(stblFlags.Sort, "sort", "s", "", "Initial sort as column[:asc|desc]")
	rootCmd.Flags().StringVar(stblFlags.From, "from", "", "Only show rows from this date")
	rootCmd.Flags().StringVar(stblFlags.To, "to", "", "Only show rows up to this date")
	rootCmd.Flags().IntVar(stblFlags.BatchSize, "batch", 0, "Rows per window")
	rootCmd.Flags().IntVar(stblFlags.Pages, "pages", config.DefaultPages, "Windows to print in headless mode")
	rootCmd.Flags().BoolVar(stblFlags.Links, "links", false, "Print row links in headless mode")
	rootCmd.Flags().StringVarP(stblFlags.LogLevel, "logLevel", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(stblFlags.LogFile, "logFile", "", "Log file path")
	rootCmd.Flags().StringVar(stblFlags.LogFormat, "logFormat", "", "Log format (text, json)")
	rootCmd.Flags().BoolVar(stblFlags.Headless, "headless", false, "Print the table to stdout instead of starting the UI")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}
	if err := config.InitLogLoc(); err != nil {
		return fmt.Errorf("failed to initialize log location: %w", err)
	}

	backends, err := config.LoadBackends(config.AppBackendsFile)
	if err != nil {
		return fmt.Errorf("failed to load backends: %w", err)
	}
	cfg := config.NewConfig(backends)
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	def, be, err := cfg.Refine(stblFlags, config.TablesDir())
	if err != nil {
		return fmt.Errorf("failed to refine configuration: %w", err)
	}

	logFile := *stblFlags.LogFile
	if logFile == "" {
		logFile = config.AppLogFile
	}
	logger, closer, err := logging.SetupFile(logFile, cfg.Stbl.Logger.Level, cfg.Stbl.Logger.Format)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("starting", slog.String("version", appVersion), slog.String("table", def.Name))

	_ = cfg.Save(config.AppConfigFile, false)

	if cfg.Stbl.IsHeadless() {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runHeadless(ctx, cmd.OutOrStdout(), cfg, def, be, logger)
	}

	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		logger.Warn("failed to load aliases", slog.Any("error", err))
	}
	hotkeys := config.NewHotKeys()
	if err := hotkeys.Load(); err != nil {
		logger.Warn("failed to load hotkeys", slog.Any("error", err))
	}

	app := view.NewApp(cfg, appVersion)
	app.SetStartup(def, be)
	app.SetTablesDir(config.TablesDir())
	app.SetAliases(aliases)
	app.SetHotKeys(hotkeys)
	app.SetLogger(logger)
	app.EnableMouse(cfg.Stbl.UI.EnableMouse)
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run()
}

// runHeadless loads the requested number of windows and prints them.
func runHeadless(ctx context.Context, out io.Writer, cfg *config.Config, def *config.TableDef, be *config.Backend, logger *slog.Logger) error {
	header, err := def.Header()
	if err != nil {
		return err
	}
	opts, err := def.Options(cfg.Stbl, be, logging.WithTable(logger, def.Name))
	if err != nil {
		return err
	}

	emptyText := def.EmptyText
	if emptyText == "" {
		emptyText = cfg.Stbl.UI.EmptyText
	}
	tx := render.NewText(out, emptyText)
	tx.ShowLinks(config.IsBoolSet(stblFlags.Links))
	opts.Renderer = tx

	e, err := model.NewEngine(header, opts)
	if err != nil {
		return err
	}

	loadErr := e.Start(ctx)
	for i := 1; loadErr == nil && i < *stblFlags.Pages; i++ {
		err := e.LoadMore(ctx)
		if errors.Is(err, model.ErrExhausted) || errors.Is(err, model.ErrLocalMode) {
			break
		}
		loadErr = err
	}
	if err := tx.Flush(); err != nil {
		return err
	}
	e.Destroy()

	return loadErr
}

func listTables(cmd *cobra.Command, args []string) error {
	if err := config.InitLocs(); err != nil {
		return err
	}
	names, err := config.TablesDir().ListTables()
	if err != nil {
		return err
	}
	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		return err
	}
	byTable := make(map[string][]string)
	for alias, table := range aliases.All() {
		byTable[table] = append(byTable[table], alias)
	}

	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.Header("Table", "Aliases")
	for _, n := range names {
		if err := tw.Append(n, strings.Join(byTable[n], ",")); err != nil {
			return err
		}
	}

	return tw.Render()
}

func listColumns(cmd *cobra.Command, args []string) error {
	if err := config.InitLocs(); err != nil {
		return err
	}
	def := config.DefaultTable()
	if len(args) == 1 {
		path, err := config.TablesDir().Resolve(config.NewAliases().Get(args[0]))
		if err != nil {
			return err
		}
		if def, err = config.LoadTable(path); err != nil {
			return err
		}
	}

	return printColumns(cmd.OutOrStdout(), def)
}

func printColumns(out io.Writer, def *config.TableDef) error {
	tw := tablewriter.NewWriter(out)
	tw.Header("ID", "Title", "Sortable", "Sort Type", "Align", "Decorator")
	for _, c := range def.Columns {
		if err := tw.Append(c.ID, c.Title, render.BoolToYesNo(c.Sortable), c.SortType, c.Align, c.Decorator); err != nil {
			return err
		}
	}
	if err := tw.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "decorators: %s\n", strings.Join(render.DecoratorNames(), ", "))

	return err
}
