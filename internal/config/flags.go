package config

import (
	"github.com/stbl/stbl/internal/config/data"
)

// DefaultPages is the number of windows printed in headless mode.
const DefaultPages = 1

// NewFlags creates a new Flags instance with default values set.
func NewFlags() *data.Flags {
	f := data.NewFlags()
	*f.Pages = DefaultPages
	*f.LogLevel = data.DefaultLogLevel
	*f.LogFormat = data.DefaultLogFormat
	*f.LogFile = AppLogFile

	return f
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}

// IsIntSet returns true if an int pointer is non-nil and positive.
func IsIntSet(i *int) bool {
	return i != nil && *i > 0
}
