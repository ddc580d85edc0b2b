// Package config provides configuration file parsing, environment overrides
// and XDG path helpers.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
	Log  LogConfig  `toml:"log"`
}

// TestConfig maps typing-test settings.
type TestConfig struct {
	Duration   *int     `toml:"duration"`
	Words      *int     `toml:"words"`
	CapsPct    *float64 `toml:"caps"`
	NumbersPct *float64 `toml:"numbers"`
	WordList   *string  `toml:"wordlist"`
	LineWidth  *int     `toml:"line-width"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
