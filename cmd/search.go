package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/nibzard/task-cli/internal/search"
	"github.com/nibzard/task-cli/internal/tasks"
)

const searchUsage = "Usage: task-cli search [-status <status>] [-n <limit>] <query>"

// searchCommand prints tasks whose description matches the query, best match
// first.
func (a *app) searchCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task-cli search", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	status := fs.String("status", "", "Only match tasks with this status")
	limit := fs.Int("n", a.cfg.SearchLimit, "Maximum results")

	if err := fs.Parse(args); err != nil {
		return &UsageError{Usage: searchUsage, Err: err}
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return &UsageError{Usage: searchUsage}
	}

	all, err := a.store.List("")
	if err != nil {
		return err
	}
	found, err := search.Tasks(ctx, all, query, search.Options{
		Limit:  *limit,
		Status: tasks.Status(*status),
	})
	if err != nil {
		return err
	}
	a.logger.Debug("search finished", "query", query, "hits", len(found))

	printTasks(a, found)
	return nil
}
