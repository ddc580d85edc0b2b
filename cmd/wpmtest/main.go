// Package main provides the CLI entrypoint for wpmtest.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/wpmtest/internal/config"
	"github.com/verte-zerg/wpmtest/internal/generator"
	"github.com/verte-zerg/wpmtest/internal/logging"
	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/session"
	"github.com/verte-zerg/wpmtest/internal/stats"
	"github.com/verte-zerg/wpmtest/internal/store"
	"github.com/verte-zerg/wpmtest/internal/tui"
	"github.com/verte-zerg/wpmtest/internal/wordlist"
)

const (
	defaultCaps        = 0.0
	defaultNumbers     = 0.0
	defaultWeakTop     = 8
	defaultCurveWindow = 10
	defaultLogLevel    = "info"
	dotEnvPath         = ".env"
)

var (
	testDuration  int
	testWords     int
	testCaps      float64
	testNumbers   float64
	testWordList  string
	testLineWidth int

	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wpmtest",
		Short:         "Timed typing-speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().IntVar(&testDuration, "duration", model.DefaultDuration, "test length in seconds (15, 30, 60 or 120)")
	rootCmd.Flags().IntVar(&testWords, "words", generator.DefaultWords, "words per text")
	rootCmd.Flags().Float64Var(&testCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&testNumbers, "numbers", defaultNumbers, "probability a word is replaced by a number (0-1)")
	rootCmd.Flags().StringVar(&testWordList, "wordlist", "", "word list file (default: builtin list)")
	rootCmd.Flags().IntVar(&testLineWidth, "line-width", session.DefaultLineWidth, "characters per text line")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// loadFileConfig reads the config file and applies .env and environment overrides.
func loadFileConfig() (config.FileConfig, error) {
	if err := config.LoadDotEnv(dotEnvPath); err != nil {
		return config.FileConfig{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return config.ApplyEnv(fileCfg)
}

// resolveConfig merges flags over file values. Flags set explicitly win.
func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyIntConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	applyIntConfig(cmd, "words", &testWords, fileCfg.Test.Words)
	applyFloatConfig(cmd, "caps", &testCaps, fileCfg.Test.CapsPct)
	applyFloatConfig(cmd, "numbers", &testNumbers, fileCfg.Test.NumbersPct)
	applyStringConfig(cmd, "wordlist", &testWordList, fileCfg.Test.WordList)
	applyIntConfig(cmd, "line-width", &testLineWidth, fileCfg.Test.LineWidth)

	return model.Config{
		DurationSec:  testDuration,
		Words:        testWords,
		CapsPct:      testCaps,
		NumbersPct:   testNumbers,
		WordListPath: testWordList,
		LineWidth:    testLineWidth,
	}
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg := resolveConfig(cmd, fileCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("wpmtest needs an interactive terminal")
	}

	words, err := wordlist.Load(cfg.WordListPath)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("word list %s has no words", cfg.WordListLabel())
	}

	logger, err := newLogger(fileCfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", zap.Error(cerr))
		}
	}()

	m, err := tui.NewModel(cfg, st, generator.New(), words, logger)
	if err != nil {
		return err
	}
	logger.Info("starting",
		zap.Int("duration_sec", cfg.DurationSec),
		zap.Int("words", cfg.Words),
		zap.String("wordlist", cfg.WordListLabel()),
	)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	path := config.DefaultLogPath()
	if cfg.Path != nil {
		path = *cfg.Path
	}
	level := defaultLogLevel
	if cfg.Level != nil {
		level = *cfg.Level
	}
	logger, err := logging.New(path, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented config template unless path exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show results of past tests",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		_ = st.Close()
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout(), defaultWeakTop); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func statsConfig(since string, last, curveWindow int) (model.StatsConfig, error) {
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if curveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	cfg := model.StatsConfig{Last: last, CurveWindow: curveWindow}
	if since != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wpmtest configuration
# Uncomment a value to enable it. CLI flags and %s/%s override config values.

[test]
# duration = %d           # Test length in seconds: 15, 30, 60 or 120
# words = %d             # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# numbers = %.2f          # Probability a word is replaced by a number (0-1)
# wordlist = ""           # Word list file, empty for the builtin list
# line-width = %d         # Characters per text line

[log]
# level = %q          # debug, info, warn or error
# path = %q
`,
		config.EnvDuration,
		config.EnvWordList,
		model.DefaultDuration,
		generator.DefaultWords,
		defaultCaps,
		defaultNumbers,
		session.DefaultLineWidth,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if !model.ValidDuration(cfg.DurationSec) {
		return fmt.Errorf("--duration must be one of %v", model.Durations)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.NumbersPct < 0 || cfg.NumbersPct > 1 {
		return fmt.Errorf("--numbers must be between 0 and 1")
	}
	if cfg.LineWidth < 10 {
		return fmt.Errorf("--line-width must be >= 10")
	}
	return nil
}
