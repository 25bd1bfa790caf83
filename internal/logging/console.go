// Package logging provides the console logger and the mutation history log.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ConsoleOptions holds configuration for console logging.
type ConsoleOptions struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultConsoleOptions returns default options for console logging.
func DefaultConsoleOptions() ConsoleOptions {
	return ConsoleOptions{
		Level:     log.WarnLevel,
		Formatter: log.TextFormatter,
		Prefix:    "task-cli",
	}
}

// NewConsole creates a leveled logger writing to w.
func NewConsole(w io.Writer, opts ConsoleOptions) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.WarnLevel, fmt.Errorf("unknown log level %q (want debug, info, warn, error)", level)
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("unknown log format %q (want text, json, logfmt)", format)
}

// ConsoleOptionsFromConfig builds ConsoleOptions from string configuration
// values as loaded from TOML, environment variables or flags.
func ConsoleOptionsFromConfig(level, format string, timestamps, caller bool) (ConsoleOptions, error) {
	opts := DefaultConsoleOptions()

	lvl, err := ParseLevel(level)
	if err != nil {
		return opts, err
	}
	formatter, err := ParseFormatter(format)
	if err != nil {
		return opts, err
	}

	opts.Level = lvl
	opts.Formatter = formatter
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return opts, nil
}
