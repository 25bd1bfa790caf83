package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/task-cli/internal/logging"
)

const historyUsage = "Usage: task-cli history [-n <count>]"

// historyCommand prints the most recent entries of the history log.
func (a *app) historyCommand(args []string) error {
	fs := flag.NewFlagSet("task-cli history", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	n := fs.Int("n", 20, "Number of entries to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return &UsageError{Usage: historyUsage, Err: err}
	}
	if *n < 0 {
		return &UsageError{Usage: historyUsage, Err: fmt.Errorf("invalid count %d: must not be negative", *n)}
	}

	entries, err := logging.ReadHistory(a.cfg.HistoryFile, *n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "No history found")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(a.stdout, e.String())
	}
	return nil
}
