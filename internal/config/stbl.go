package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/stbl/stbl/internal/config/data"
	"github.com/stbl/stbl/internal/dao"
	"github.com/stbl/stbl/internal/model1"
)

// DefaultEmptyText is shown when a table has no rows.
const DefaultEmptyText = "No rows satisfy your filter criteria"

// DefaultScrollOffset is how close to the last row the selection gets
// before more rows are requested.
const DefaultScrollOffset = 3

// Stbl represents the stbl global configuration.
type Stbl struct {
	DefaultTable   string      `yaml:"defaultTable"`
	DefaultBackend string      `yaml:"defaultBackend"`
	BatchSize      int         `yaml:"batchSize"`
	APITimeout     string      `yaml:"apiTimeout"`
	CacheTTL       string      `yaml:"cacheTTL"`
	UI             data.UI     `yaml:"ui"`
	Logger         data.Logger `yaml:"logger"`

	mx sync.RWMutex
}

// NewStbl creates a Stbl with default settings.
func NewStbl() *Stbl {
	return &Stbl{
		BatchSize:  model1.DefaultBatchSize,
		APITimeout: dao.DefaultTimeout.String(),
		CacheTTL:   dao.DefaultCacheTTL.String(),
		UI: data.UI{
			EmptyText:    DefaultEmptyText,
			ScrollOffset: DefaultScrollOffset,
		},
		Logger: data.Logger{
			Level:  data.DefaultLogLevel,
			Format: data.DefaultLogFormat,
		},
	}
}

// Validate ensures Stbl has valid settings.
func (s *Stbl) Validate() {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.BatchSize <= 0 {
		s.BatchSize = model1.DefaultBatchSize
	}
	if s.APITimeout == "" {
		s.APITimeout = dao.DefaultTimeout.String()
	}
	if s.CacheTTL == "" {
		s.CacheTTL = dao.DefaultCacheTTL.String()
	}
	if s.UI.EmptyText == "" {
		s.UI.EmptyText = DefaultEmptyText
	}
	if s.UI.ScrollOffset < 0 {
		s.UI.ScrollOffset = DefaultScrollOffset
	}
	if s.Logger.Level == "" {
		s.Logger.Level = data.DefaultLogLevel
	}
	if s.Logger.Format == "" {
		s.Logger.Format = data.DefaultLogFormat
	}
}

// Override applies CLI flag overrides to the configuration.
func (s *Stbl) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	if IsStringSet(flags.Table) {
		s.DefaultTable = *flags.Table
	}
	if IsStringSet(flags.Backend) {
		s.DefaultBackend = *flags.Backend
	}
	if IsIntSet(flags.BatchSize) {
		s.BatchSize = *flags.BatchSize
	}
	if IsBoolSet(flags.Headless) {
		s.UI.Headless = true
	}
	if IsStringSet(flags.LogLevel) {
		s.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFormat) {
		s.Logger.Format = *flags.LogFormat
	}
}

// GetAPITimeout returns the parsed API timeout duration.
func (s *Stbl) GetAPITimeout() (time.Duration, error) {
	s.mx.RLock()
	timeoutStr := s.APITimeout
	s.mx.RUnlock()

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid API timeout %q: %w", timeoutStr, err)
	}

	return timeout, nil
}

// GetCacheTTL returns the parsed response cache TTL.
func (s *Stbl) GetCacheTTL() (time.Duration, error) {
	s.mx.RLock()
	ttlStr := s.CacheTTL
	s.mx.RUnlock()

	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid cache TTL %q: %w", ttlStr, err)
	}

	return ttl, nil
}

// IsHeadless returns true if the TUI is disabled.
func (s *Stbl) IsHeadless() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.UI.Headless
}
