package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/task-cli/internal/config"
)

// configCommand prints the effective configuration and where each value came
// from, or an example config file with -example.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("task-cli config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return &UsageError{Usage: "Usage: task-cli config [-example]", Err: err}
	}
	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	configFile := a.sources.ConfigFile()
	if configFile == "" {
		configFile = "(none)"
	}
	fmt.Fprintf(a.stdout, "Config file: %s\n\n", configFile)

	for _, field := range config.Fields() {
		value := a.cfg.FieldValue(field)
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(a.stdout, "%-15s = %s (%s)\n", field, value, a.sources.Sources[field])
	}
	return nil
}
