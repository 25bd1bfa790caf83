package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nibzard/task-cli/internal/ui"
)

const tuiUsage = "Usage: task-cli tui [-interval <duration>]"

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task-cli tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	interval := fs.Duration("interval", time.Second, "How often the task file is re-read")

	if err := fs.Parse(args); err != nil {
		return &UsageError{Usage: tuiUsage, Err: err}
	}
	if fs.NArg() > 0 {
		return &UsageError{Usage: tuiUsage, Err: fmt.Errorf("unexpected arguments: %v", fs.Args())}
	}
	if *interval <= 0 {
		return &UsageError{Usage: tuiUsage, Err: fmt.Errorf("invalid interval %s: must be positive", *interval)}
	}
	return ui.RunTUI(ctx, a.store, a.stdout, ui.WithTickInterval(*interval))
}
