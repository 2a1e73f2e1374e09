// Package logging provides structured logging for zpak.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/zpak-project/zpak/pkg/config"
)

// New creates a logger writing to w with the given level and format.
// Unknown levels fall back to info; any format other than "json" means text.
func New(w io.Writer, level, format string) *log.Logger {
	lv, err := log.ParseLevel(level)
	if err != nil {
		lv = log.InfoLevel
	}

	formatter := log.TextFormatter
	if format == "json" {
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lv,
		Formatter:       formatter,
	})
}

// Setup builds a stderr logger from configuration and installs it as the
// process default.
func Setup(cfg config.LoggingConfig) *log.Logger {
	logger := New(os.Stderr, cfg.Level, cfg.Format)
	log.SetDefault(logger)
	return logger
}
