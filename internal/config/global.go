package config

import (
	"os"
	"path/filepath"
)

// Flags are the options shared by every command.
type Flags struct {
	// ServicePath is the service definition file or the directory holding it.
	ServicePath  string
	SettingsFile string
	Stage        string
	Region       string
	Profile      string

	Verbose     bool
	Plain       bool
	TracePasses bool
}

// Global holds the values of the persistent flags.
var Global = Flags{ServicePath: "."}

// DefaultSettingsFile returns the per-user settings file, if it exists.
func DefaultSettingsFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(homeDir, ".serverless-datadog", "settings.yml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
