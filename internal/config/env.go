package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvDuration = "WPMTEST_DURATION"
	EnvWordList = "WPMTEST_WORDLIST"
	EnvLogLevel = "WPMTEST_LOG_LEVEL"
)

// LoadDotEnv loads variables from a .env file at path into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment overrides onto cfg.
func ApplyEnv(cfg FileConfig) (FileConfig, error) {
	if v := strings.TrimSpace(os.Getenv(EnvDuration)); v != "" {
		sec, err := strconv.Atoi(strings.TrimSuffix(v, "s"))
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvDuration, v, err)
		}
		cfg.Test.Duration = &sec
	}
	if v := strings.TrimSpace(os.Getenv(EnvWordList)); v != "" {
		cfg.Test.WordList = &v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = &v
	}
	return cfg, nil
}
