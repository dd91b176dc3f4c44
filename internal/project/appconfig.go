// Package project persists quotes, job files and application data as
// JSON and YAML files under the user's home directory.
package project

import (
	"path/filepath"

	"github.com/piwi3910/PrintQuote/internal/model"
)

// DefaultConfigPath returns ~/.printquote/config.json.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes the preferences to path.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads the preferences at path. A missing file yields
// DefaultAppConfig, and fields missing from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if _, err := readJSON(path, &config); err != nil {
		return model.AppConfig{}, err
	}
	if config.RecentQuotes == nil {
		config.RecentQuotes = []string{}
	}
	return config, nil
}
