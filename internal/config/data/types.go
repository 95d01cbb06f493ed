// Package data provides configuration data types and interfaces for the stbl application.
package data

// Flags represents CLI command-line flags for the stbl application.
type Flags struct {
	Table     *string // Table definition name or path
	URL       *string // Resource URL, overrides the table definition
	Backend   *string // Backend profile name
	Local     *bool   // Sort loaded rows in memory
	Sort      *string // Initial sort as column[:dir]
	From      *string // Date range start
	To        *string // Date range end
	BatchSize *int    // Rows per window
	Pages     *int    // Windows to load in headless mode
	Links     *bool   // Print row links in headless mode
	LogLevel  *string // Log level (e.g., debug, info, warn, error)
	LogFile   *string // Path to log file
	LogFormat *string // Log format, text or json
	Headless  *bool   // Run in headless mode (no TUI)
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse  bool   `yaml:"enableMouse"`
	Headless     bool   `yaml:"headless"`
	EmptyText    string `yaml:"emptyText"`
	ScrollOffset int    `yaml:"scrollOffset"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Logger configuration constants.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// NewFlags creates a new Flags instance with all pointer fields initialized.
// All pointers are allocated but their values are not set.
func NewFlags() *Flags {
	return &Flags{
		Table:     new(string),
		URL:       new(string),
		Backend:   new(string),
		Local:     new(bool),
		Sort:      new(string),
		From:      new(string),
		To:        new(string),
		BatchSize: new(int),
		Pages:     new(int),
		Links:     new(bool),
		LogLevel:  new(string),
		LogFile:   new(string),
		LogFormat: new(string),
		Headless:  new(bool),
	}
}
