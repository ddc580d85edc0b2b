package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Test.Duration)

	_, err = LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	raw := `
[test]
duration = 30
caps = 0.25
wordlist = "/tmp/words.txt"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Test.Duration)
	assert.Equal(t, 30, *cfg.Test.Duration)
	assert.Equal(t, 0.25, *cfg.Test.CapsPct)
	assert.Equal(t, "/tmp/words.txt", *cfg.Test.WordList)
	assert.Nil(t, cfg.Test.Words)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[test]\nduraton = 30\n"), 0o644))
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "duraton")
}

func TestApplyEnvOverridesFile(t *testing.T) {
	fileDuration := 120
	cfg := FileConfig{Test: TestConfig{Duration: &fileDuration}}

	t.Setenv(EnvDuration, "15s")
	t.Setenv(EnvWordList, "/data/words.txt")
	t.Setenv(EnvLogLevel, "")

	got, err := ApplyEnv(cfg)
	require.NoError(t, err)
	assert.Equal(t, 15, *got.Test.Duration)
	assert.Equal(t, "/data/words.txt", *got.Test.WordList)
	assert.Nil(t, got.Log.Level)

	t.Setenv(EnvDuration, "soon")
	_, err = ApplyEnv(cfg)
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WPMTEST_WORDLIST=/from/dotenv\n"), 0o644))
	t.Setenv(EnvWordList, "")
	require.NoError(t, os.Unsetenv(EnvWordList))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "/from/dotenv", os.Getenv(EnvWordList))
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	assert.Equal(t, filepath.Join(dir, "cfg", "wpmtest", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "wpmtest", "wpmtest.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join(dir, "state", "wpmtest", "wpmtest.log"), DefaultLogPath())
}
