package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "docoutline",
	Short: "Infer document titles and heading outlines from layout",
	Long: `docoutline reads PDF, DOCX, HTML, Markdown and plain-text documents and
infers a title plus an H1-H4 heading outline from font sizes, styles and
spacing alone.

It runs as a one-shot batch tool (extract), a directory watcher (watch)
or an HTTP service (serve).`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./docoutline.yaml or ~/.docoutline/docoutline.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)",
	)

	rootCmd.AddCommand(serveCmd, extractCmd, watchCmd, initCmd, versionCmd)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
