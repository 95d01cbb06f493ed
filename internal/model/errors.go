package model

import "errors"

// Common errors returned by the table engine.
var (
	// ErrInvalidSort is returned when a sort names an unknown or unsortable
	// column, or an invalid direction. The engine state is left untouched.
	ErrInvalidSort = errors.New("invalid sort request")

	// ErrDestroyed is returned once the engine has been torn down.
	ErrDestroyed = errors.New("table destroyed")

	// ErrLocalMode is returned for remote-only operations on a local table.
	ErrLocalMode = errors.New("operation requires remote mode")

	// ErrBusy is returned when a window is requested while another is loading.
	ErrBusy = errors.New("a window is already loading")

	// ErrExhausted is returned when no more rows remain.
	ErrExhausted = errors.New("no more rows")

	// ErrStale is returned when a settled fetch no longer matches the table's
	// sort or filter and its rows were discarded.
	ErrStale = errors.New("fetch result discarded")

	// ErrNoFetcher is returned when a remote table has no data source.
	ErrNoFetcher = errors.New("no data source configured")
)

// ErrRemoteOnlyRows is returned when rows are preloaded into a remote table.
var ErrRemoteOnlyRows = errors.New("preloaded rows require local mode")
