package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName        = "task-cli"
	configFileName = "task-cli.toml"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{configFileName, "." + configFileName} {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.task-cli/task-cli.toml first, then falls back to the OS-specific
// config directory.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, "."+appName, configFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		p := filepath.Join(cfgDir, appName, configFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// ConfigFile returns the config file with the highest precedence that was
// read, or an empty string when none was.
func (cws *ConfigWithSources) ConfigFile() string {
	if cws.ProjectFile != "" {
		return cws.ProjectFile
	}
	return cws.UserFile
}
