package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# task-cli configuration file
# Values can be overridden by TASK_CLI_* environment variables or CLI flags

# Task file (relative to the working directory)
tasks_file = "Tasks.json"

# JSON Schema used by "task-cli doctor" (empty: built-in schema)
# schema_file = "tasks.schema.json"

# Mutation history log (supports ~ and $VAR expansion)
history_file = "~/.task-cli/history.jsonl"
history = true

# Maximum results printed by "task-cli search"
search_limit = 10

# Logging (stderr)
log_level = "warn"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
