package dao

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/stbl/stbl/internal/model1"
)

// Error represents a fetch sentinel error.
type Error string

const (
	ErrNotArray  = Error("response is not a JSON array")
	ErrNotObject = Error("row is not a JSON object")
	ErrBadJSON   = Error("response is not valid JSON")
	ErrNoBaseURL = Error("no backend URL configured")
)

func (e Error) Error() string {
	return string(e)
}

// Query parameter names understood by the remote data source.
const (
	ParamSort  = "_sort"
	ParamOrder = "_order"
	ParamStart = "_start"
	ParamEnd   = "_end"
	ParamFrom  = "from"
	ParamTo    = "to"
)

// ISOFormat renders date range bounds, e.g. 2024-01-31T00:00:00.000Z.
const ISOFormat = "2006-01-02T15:04:05.000Z07:00"

// DateRange is an inclusive date range filter.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero returns true if neither bound is set.
func (d DateRange) IsZero() bool {
	return d.From.IsZero() && d.To.IsZero()
}

func (d DateRange) String() string {
	return fmt.Sprintf("%s..%s", formatTime(d.From), formatTime(d.To))
}

// FetchRequest describes one window request.
type FetchRequest struct {
	Sort   model1.SortState
	Range  *DateRange
	Window model1.Window
}

// Apply writes the request parameters onto q, replacing any previous values.
func (r FetchRequest) Apply(q url.Values) {
	if r.Range != nil {
		if !r.Range.From.IsZero() {
			q.Set(ParamFrom, formatTime(r.Range.From))
		}
		if !r.Range.To.IsZero() {
			q.Set(ParamTo, formatTime(r.Range.To))
		}
	}
	q.Set(ParamSort, r.Sort.ColumnID)
	q.Set(ParamOrder, string(r.Sort.Direction))
	q.Set(ParamStart, strconv.Itoa(r.Window.Start))
	q.Set(ParamEnd, strconv.Itoa(r.Window.End))
}

// WindowFetcher resolves a window request to a row batch.
type WindowFetcher interface {
	FetchWindow(ctx context.Context, req FetchRequest) (model1.Rows, error)
}

// FetchError reports a failed fetch of a resource.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unable to fetch data from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ISOFormat)
}
