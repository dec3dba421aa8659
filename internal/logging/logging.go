// Package logging configures the process-wide charmbracelet logger.
// Other packages log through the package-level functions of
// github.com/charmbracelet/log once Init has run.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type Config struct {
	Level        string // "debug", "info", "warn", "error"
	TimeFormat   string
	ReportCaller bool
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		TimeFormat: "15:04:05",
	}
}

// Init replaces the default logger with one writing to stderr.
func Init(cfg Config) {
	InitWriter(os.Stderr, cfg)
}

func InitWriter(w io.Writer, cfg Config) {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = DefaultConfig().TimeFormat
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		ReportCaller:    cfg.ReportCaller,
		Prefix:          "echoscribe",
	})
	logger.SetLevel(ParseLevel(cfg.Level))
	log.SetDefault(logger)
}

// SetLevel adjusts the default logger in place, used on config reload.
func SetLevel(level string) {
	log.SetLevel(ParseLevel(level))
}

// ParseLevel maps a config string to a log level, falling back to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// IsValidLevel reports whether level names a known level. Empty means the
// default.
func IsValidLevel(level string) bool {
	if strings.TrimSpace(level) == "" {
		return true
	}
	_, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	return err == nil
}
