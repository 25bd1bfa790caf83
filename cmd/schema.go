package cmd

import (
	"github.com/nibzard/task-cli/internal/tasks"
)

// schemaCommand prints the built-in JSON Schema for the task file, a starting
// point for a custom schema_file.
func (a *app) schemaCommand() error {
	_, err := a.stdout.Write(tasks.SchemaJSON())
	return err
}
