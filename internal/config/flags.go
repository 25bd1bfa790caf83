package config

import (
	"flag"
)

// parseFlags defines the config flags on fs, parses args and applies only the
// flags that were explicitly set, updating source tracking.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("task-cli", flag.ContinueOnError)
	}

	var (
		tasksFile, schemaFile, historyFile string
		history                            bool
		searchLimit                        int
		logLevel, logFormat                string
		logTimestamps, logCaller           bool
	)

	// Path flags
	fs.StringVar(&tasksFile, "file", cfg.TasksFile, "Path to the task file")
	fs.StringVar(&schemaFile, "schema", cfg.SchemaFile, "Path to a JSON Schema for doctor (default: embedded)")
	fs.StringVar(&historyFile, "history-file", cfg.HistoryFile, "Path to the mutation history log")
	fs.BoolVar(&history, "history", cfg.History, "Record mutations to the history log")

	// Search
	fs.IntVar(&searchLimit, "search-limit", cfg.SearchLimit, "Maximum search results")

	// Logging
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names and apply values
	apply := map[string]struct {
		field string
		set   func()
	}{
		"file":           {"tasks_file", func() { cfg.TasksFile = tasksFile }},
		"schema":         {"schema_file", func() { cfg.SchemaFile = schemaFile }},
		"history-file":   {"history_file", func() { cfg.HistoryFile = historyFile }},
		"history":        {"history", func() { cfg.History = history }},
		"search-limit":   {"search_limit", func() { cfg.SearchLimit = searchLimit }},
		"log-level":      {"log_level", func() { cfg.LogLevel = logLevel }},
		"log-format":     {"log_format", func() { cfg.LogFormat = logFormat }},
		"log-timestamps": {"log_timestamps", func() { cfg.LogTimestamps = logTimestamps }},
		"log-caller":     {"log_caller", func() { cfg.LogCaller = logCaller }},
	}

	fs.Visit(func(f *flag.Flag) {
		b, ok := apply[f.Name]
		if !ok {
			return
		}
		b.set()
		sources[b.field] = SourceFlag
	})

	return nil
}
