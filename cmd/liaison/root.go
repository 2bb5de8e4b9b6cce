package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	app "github.com/kestrelops/liaison"
	"github.com/kestrelops/liaison/internal/config"
	"github.com/kestrelops/liaison/pkg/log"
)

var (
	cfgFile  string
	logLevel string
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

var rootCmd = &cobra.Command{
	Use:   "liaison",
	Short: "Collaboration workflow orchestrator",
	Long: `Liaison coordinates multi-platform collaboration workflows:
scheduling code reviews, launching projects, and responding to
incidents across source control, chat, documents, and calendars.

Run "liaison serve" to start the HTTP API, or "liaison run" to execute
a single workflow against the built-in loopback platform.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers defaults, the optional config file, and environment
// variables, in that order
func loadConfig() (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if cfgFile != "" {
		if err := cfg.LoadFromFile(cfgFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)
}
