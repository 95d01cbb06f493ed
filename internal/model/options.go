package model

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/stbl/stbl/internal/dao"
	"github.com/stbl/stbl/internal/model1"
)

// Options configures a table engine. Zero values pick defaults.
type Options struct {
	// URL is the resource rows are fetched from, absolute or relative to BaseURL.
	URL string

	// BaseURL is the backend address relative URLs resolve against.
	BaseURL string

	// LocalMode sorts loaded rows in memory instead of refetching them.
	LocalMode bool

	// InitialSort defaults to the first sortable column, ascending.
	InitialSort *model1.SortState

	// DateRange optionally filters remote rows.
	DateRange *dao.DateRange

	// BatchSize is the window size. Defaults to model1.DefaultBatchSize.
	BatchSize int

	// LinkPrefix builds row links, e.g. /products.
	LinkPrefix string

	// Rows preloads a local table. A non-nil empty slice is a table with no rows.
	Rows model1.Rows

	// Timeout and CacheTTL tune the remote source built from URL.
	Timeout  time.Duration
	CacheTTL time.Duration

	// Fetcher overrides the remote source built from URL.
	Fetcher dao.WindowFetcher

	Renderer Renderer
	Scroll   ScrollSignal
	Logger   *slog.Logger
}

// Config is the fully resolved, immutable engine configuration.
type Config struct {
	header      model1.Header
	localMode   bool
	initialSort model1.SortState
	dateRange   *dao.DateRange
	batchSize   int
	linkPrefix  string
	rows        model1.Rows
	preloaded   bool
	fetcher     dao.WindowFetcher
	renderer    Renderer
	scroll      ScrollSignal
	log         *slog.Logger
}

// Header returns the table columns.
func (c Config) Header() model1.Header {
	return c.header
}

// LocalMode returns true if sorting happens in memory.
func (c Config) LocalMode() bool {
	return c.localMode
}

// InitialSort returns the resolved starting sort.
func (c Config) InitialSort() model1.SortState {
	return c.initialSort
}

// BatchSize returns the window size.
func (c Config) BatchSize() int {
	return c.batchSize
}

// LinkPrefix returns the row link prefix.
func (c Config) LinkPrefix() string {
	return c.linkPrefix
}

// Resolve validates opts against header and fills in every default.
func Resolve(header model1.Header, opts Options) (Config, error) {
	if err := header.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid columns: %w", err)
	}

	cfg := Config{
		header:     header.Clone(),
		localMode:  opts.LocalMode,
		batchSize:  opts.BatchSize,
		linkPrefix: opts.LinkPrefix,
		fetcher:    opts.Fetcher,
		renderer:   opts.Renderer,
		scroll:     opts.Scroll,
		log:        opts.Logger,
	}
	if cfg.batchSize <= 0 {
		cfg.batchSize = model1.DefaultBatchSize
	}
	if cfg.renderer == nil {
		cfg.renderer = nopRenderer{}
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}

	switch {
	case opts.InitialSort != nil:
		s := *opts.InitialSort
		if s.Direction == "" {
			s.Direction = model1.Asc
		}
		if !header.IsSortable(s.ColumnID) || !s.Direction.IsValid() {
			return Config{}, fmt.Errorf("initial sort %s: %w", s, ErrInvalidSort)
		}
		cfg.initialSort = s
	default:
		col, ok := header.FirstSortable()
		if !ok {
			return Config{}, fmt.Errorf("no sortable column to sort by: %w", ErrInvalidSort)
		}
		cfg.initialSort = model1.SortState{ColumnID: col.ID, Direction: model1.Asc}
	}

	if opts.DateRange != nil {
		if opts.LocalMode {
			return Config{}, fmt.Errorf("date range filter: %w", ErrLocalMode)
		}
		if err := validateRange(*opts.DateRange); err != nil {
			return Config{}, err
		}
		r := *opts.DateRange
		cfg.dateRange = &r
	}

	// A non-nil empty slice preloads a table with no rows.
	if opts.Rows != nil {
		if !opts.LocalMode {
			return Config{}, fmt.Errorf("preloaded rows: %w", ErrRemoteOnlyRows)
		}
		cfg.rows, cfg.preloaded = opts.Rows.Clone(), true
	}

	if cfg.fetcher == nil && opts.URL != "" {
		src, err := dao.NewRemoteSource(dao.RemoteConfig{
			BaseURL:  opts.BaseURL,
			Path:     opts.URL,
			Timeout:  opts.Timeout,
			CacheTTL: opts.CacheTTL,
			Logger:   cfg.log,
		})
		if err != nil {
			return Config{}, fmt.Errorf("failed to build data source: %w", err)
		}
		cfg.fetcher = src
	}
	if cfg.fetcher == nil && !cfg.preloaded {
		return Config{}, ErrNoFetcher
	}

	return cfg, nil
}

func validateRange(r dao.DateRange) error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return fmt.Errorf("invalid date range %s: end before start", r)
	}
	return nil
}
