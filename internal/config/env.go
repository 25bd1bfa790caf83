package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/task-cli/internal/utils"
)

// Environment variable names.
const (
	EnvTasksFile     = "TASK_CLI_FILE"
	EnvSchemaFile    = "TASK_CLI_SCHEMA"
	EnvHistoryFile   = "TASK_CLI_HISTORY_FILE"
	EnvHistory       = "TASK_CLI_HISTORY"
	EnvSearchLimit   = "TASK_CLI_SEARCH_LIMIT"
	EnvLogLevel      = "TASK_CLI_LOG_LEVEL"
	EnvLogFormat     = "TASK_CLI_LOG_FORMAT"
	EnvLogTimestamps = "TASK_CLI_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASK_CLI_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables and updates
// source tracking. Empty variables are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setString := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	setBool := func(name, field string, target *bool) {
		if v := os.Getenv(name); v != "" {
			*target = utils.BoolFromString(v)
			sources[field] = SourceEnv
		}
	}

	setString(EnvTasksFile, "tasks_file", &cfg.TasksFile)
	setString(EnvSchemaFile, "schema_file", &cfg.SchemaFile)
	setString(EnvHistoryFile, "history_file", &cfg.HistoryFile)
	setBool(EnvHistory, "history", &cfg.History)

	if v := os.Getenv(EnvSearchLimit); v != "" {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvSearchLimit, v)
		}
		cfg.SearchLimit = i
		sources["search_limit"] = SourceEnv
	}

	// Logging configuration
	setString(EnvLogLevel, "log_level", &cfg.LogLevel)
	setString(EnvLogFormat, "log_format", &cfg.LogFormat)
	setBool(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	setBool(EnvLogCaller, "log_caller", &cfg.LogCaller)

	return nil
}
