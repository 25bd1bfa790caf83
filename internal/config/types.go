package config

import (
	"strconv"

	"github.com/nibzard/task-cli/internal/tasks"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// UserFile and ProjectFile are the config files that were read, if any.
	UserFile    string
	ProjectFile string

	// Unknown lists keys found in config files that no field decodes.
	Unknown []string
}

// Default values.
const (
	DefaultTasksFile   = tasks.DefaultFile
	DefaultHistoryFile = "~/.task-cli/history.jsonl"
	DefaultHistory     = true
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultSearchLimit = 10
)

// Config holds the full configuration for task-cli.
type Config struct {
	// Paths
	TasksFile   string `toml:"tasks_file"`
	SchemaFile  string `toml:"schema_file"`
	HistoryFile string `toml:"history_file"`

	// History records every successful mutation to HistoryFile.
	History bool `toml:"history"`

	// Maximum results printed by search
	SearchLimit int `toml:"search_limit"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TasksFile = DefaultTasksFile
	cfg.SchemaFile = ""
	cfg.HistoryFile = DefaultHistoryFile
	cfg.History = DefaultHistory
	cfg.SearchLimit = DefaultSearchLimit
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return []string{
		"tasks_file",
		"schema_file",
		"history_file",
		"history",
		"search_limit",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// FieldValue returns the effective value of a configurable key as text.
// Unknown keys return an empty string.
func (c *Config) FieldValue(field string) string {
	switch field {
	case "tasks_file":
		return c.TasksFile
	case "schema_file":
		return c.SchemaFile
	case "history_file":
		return c.HistoryFile
	case "history":
		return strconv.FormatBool(c.History)
	case "search_limit":
		return strconv.Itoa(c.SearchLimit)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	}
	return ""
}
