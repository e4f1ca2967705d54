package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file, following
// os.UserConfigDir (XDG_CONFIG_HOME on Linux):
// - Linux: ~/.config/pkginit/config.yml
// - macOS: ~/Library/Application Support/pkginit/config.yml
// - Windows: %APPDATA%\pkginit\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pkginit", "config.yml"), nil
}

// ProjectConfigPath returns the project config file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ".pkginit.yml")
}

// ProjectJSONConfigPath returns the JSON form of the project config file in dir.
func ProjectJSONConfigPath(dir string) string {
	return filepath.Join(dir, ".pkginit.json")
}
