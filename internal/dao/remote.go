package dao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/stbl/stbl/internal/model1"
)

// DefaultTimeout bounds a single window request.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps the size of a batch response.
const maxBodySize = 32 << 20

// RemoteConfig configures a RemoteSource.
type RemoteConfig struct {
	// BaseURL is the backend address relative resource paths resolve against.
	BaseURL string
	// Path is the resource, absolute or relative to BaseURL.
	Path     string
	Timeout  time.Duration
	CacheTTL time.Duration
	Client   *http.Client
	Logger   *slog.Logger
}

// RemoteSource fetches row windows from an HTTP JSON endpoint.
type RemoteSource struct {
	resource *url.URL
	client   *http.Client
	cache    *ResponseCache
	timeout  time.Duration
	log      *slog.Logger
}

// NewRemoteSource resolves the resource URL and returns a source for it.
func NewRemoteSource(cfg RemoteConfig) (*RemoteSource, error) {
	resource, err := ResolveURL(cfg.BaseURL, cfg.Path)
	if err != nil {
		return nil, err
	}

	s := RemoteSource{
		resource: resource,
		client:   cfg.Client,
		timeout:  cfg.Timeout,
		log:      cfg.Logger,
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if cfg.CacheTTL > 0 {
		s.cache = NewResponseCache(cfg.CacheTTL)
	}

	return &s, nil
}

// ResolveURL resolves path against base. An absolute path wins over base.
func ResolveURL(base, path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid resource path %q: %w", path, err)
	}
	if ref.IsAbs() {
		return ref, nil
	}
	if base == "" {
		return nil, ErrNoBaseURL
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", base, err)
	}
	if !b.IsAbs() {
		return nil, fmt.Errorf("backend URL %q must be absolute", base)
	}
	return b.ResolveReference(ref), nil
}

// Resource returns the resolved resource URL.
func (s *RemoteSource) Resource() string {
	return s.resource.String()
}

// URL builds the request URL for req. Identical requests yield identical URLs.
func (s *RemoteSource) URL(req FetchRequest) string {
	u := *s.resource
	q := u.Query()
	req.Apply(q)
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchWindow requests one window of rows.
func (s *RemoteSource) FetchWindow(ctx context.Context, req FetchRequest) (model1.Rows, error) {
	u := s.URL(req)

	if s.cache != nil {
		if rows, ok := s.cache.Get(u); ok {
			s.log.Debug("window served from cache", "url", u, "rows", len(rows))
			return rows, nil
		}
	}

	body, err := s.GetJSON(ctx, u)
	if err != nil {
		return nil, err
	}

	rows, err := ParseRows(body)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	s.log.Debug("window fetched", "url", u, "rows", len(rows))

	if s.cache != nil {
		s.cache.Set(u, rows)
	}

	return rows, nil
}

// GetJSON performs a GET and returns the body if it is valid JSON.
func (s *RemoteSource) GetJSON(ctx context.Context, u string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: u, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: u, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if !gjson.ValidBytes(body) {
		return nil, &FetchError{URL: u, Err: ErrBadJSON}
	}

	return body, nil
}

// ParseRows decodes a JSON array of row objects.
func ParseRows(body []byte) (model1.Rows, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrBadJSON
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, ErrNotArray
	}

	var (
		rows model1.Rows
		err  error
	)
	res.ForEach(func(_, v gjson.Result) bool {
		fields, ok := v.Value().(map[string]interface{})
		if !v.IsObject() || !ok {
			err = fmt.Errorf("row %d: %w", len(rows), ErrNotObject)
			return false
		}
		rows = append(rows, model1.NewRow(fields))
		return true
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = model1.Rows{}
	}

	return rows, nil
}

// IsFetchError returns true if err wraps a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
