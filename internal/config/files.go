package config

import (
	"os"
	"path/filepath"

	"github.com/stbl/stbl/internal/config/data"
)

const AppName = "stbl"

var (
	// AppConfigDir is ~/.config/stbl
	AppConfigDir string

	// AppStateDir is ~/.local/state/stbl
	AppStateDir string

	// AppConfigFile is ~/.config/stbl/stbl.yaml
	AppConfigFile string

	// AppBackendsFile is ~/.config/stbl/backends.ini
	AppBackendsFile string

	// AppHotkeysFile is ~/.config/stbl/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/stbl/aliases.yaml
	AppAliasesFile string

	// AppTablesDir is ~/.config/stbl/tables
	AppTablesDir string

	// AppLogFile is ~/.local/state/stbl/stbl.log
	AppLogFile string
)

// InitLocs initializes all application directory paths.
// It respects XDG environment variables if set.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, "stbl.yaml")
	AppBackendsFile = filepath.Join(AppConfigDir, "backends.ini")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")
	AppTablesDir = filepath.Join(AppConfigDir, "tables")
	AppLogFile = filepath.Join(AppStateDir, "stbl.log")

	for _, dir := range []string{AppConfigDir, AppStateDir, AppTablesDir} {
		if _, err := data.EnsureDirPath(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists
func InitLogLoc() error {
	return data.EnsureFullPath(AppLogFile, 0700)
}

// TablesDir returns the table definitions directory.
func TablesDir() *data.Dir {
	return data.NewDir(AppTablesDir)
}
