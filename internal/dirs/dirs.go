package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "sniprange"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// ConfigDir returns the app's configuration directory.
// - Linux: $XDG_CONFIG_HOME/sniprange or ~/.config/sniprange
// - macOS: ~/Library/Application Support/sniprange
// - Windows: %AppData%/sniprange
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", []string{".config"}, os.UserConfigDir)
}

// StateDir returns the app's state directory, where the TUI writes its log.
// - Linux: $XDG_STATE_HOME/sniprange or ~/.local/state/sniprange
// - macOS: ~/Library/Application Support/sniprange/state
// - Windows: %LocalAppData%/sniprange/state
func StateDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return resolve("XDG_STATE_HOME", []string{".local", "state"}, nil)
	case "windows":
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			return filepath.Join(la, AppName(), "state"), nil
		}
	}
	cfg, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "state"), nil
}

// LogFile returns the default log path used while the TUI owns the terminal.
func LogFile() (string, error) {
	d, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, AppName()+".log"), nil
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// resolve picks the Linux XDG location (env var, else a path under $HOME) and
// defers to fallback on other systems.
func resolve(xdgEnv string, homeRel []string, fallback func() (string, error)) (string, error) {
	if runtime.GOOS == "linux" || fallback == nil {
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			return filepath.Join(xdg, AppName()), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, homeRel...), AppName())...), nil
	}
	base, err := fallback()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName()), nil
}
