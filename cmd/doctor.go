package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/nibzard/task-cli/internal/logging"
	"github.com/nibzard/task-cli/internal/tasks"
)

// doctorCommand checks config, the task file, the schema and the history log.
// It never creates or modifies files.
func (a *app) doctorCommand(args []string) error {
	// Parse doctor-specific flags
	flags := flag.NewFlagSet("task-cli doctor", flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	verbose := flags.Bool("v", false, "Verbose output")

	if err := flags.Parse(args); err != nil {
		return &UsageError{Usage: "Usage: task-cli doctor [-v]", Err: err}
	}

	w := a.stdout
	cfg := a.cfg

	fmt.Fprintln(w, "task-cli Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Check working directory
	fmt.Fprintf(w, "Working directory: %s\n", cfg.WorkDir)
	if _, err := os.Stat(cfg.WorkDir); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Check config
	fmt.Fprintln(w, "Config:")
	if f := a.sources.ConfigFile(); f != "" {
		fmt.Fprintf(w, "  ✅ Config file: %s\n", f)
	} else {
		fmt.Fprintln(w, "  ✅ Config file: none (using defaults)")
	}
	for _, key := range a.sources.Unknown {
		fmt.Fprintf(w, "  ⚠️  Unknown key: %s\n", key)
	}
	fmt.Fprintf(w, "  ✅ Log level: %s\n", cfg.LogLevel)
	if *verbose {
		fmt.Fprintf(w, "  Search limit: %d\n", cfg.SearchLimit)
	}
	fmt.Fprintln(w)

	// Check schema file
	if cfg.SchemaFile == "" {
		fmt.Fprintf(w, "Schema file: %s\n", tasks.EmbeddedSchema)
		fmt.Fprintln(w, "  ✅ OK")
	} else {
		fmt.Fprintf(w, "Schema file: %s\n", cfg.SchemaFile)
		if !checkFile(w, cfg.SchemaFile, "  ❌ Not found (embedded schema will be used)") {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	// Check task file
	fmt.Fprintf(w, "Task file: %s\n", cfg.TasksFile)
	info, err := os.Stat(cfg.TasksFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		fmt.Fprintln(w, "  ✅ OK")
		if !a.checkTaskFile(*verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	// Check history log
	if !cfg.History {
		fmt.Fprintln(w, "History: disabled")
	} else {
		fmt.Fprintf(w, "History: %s\n", cfg.HistoryFile)
		if _, err := os.Stat(cfg.HistoryFile); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
		} else if entries, err := logging.ReadHistory(cfg.HistoryFile, 0); err != nil {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
			if *verbose {
				fmt.Fprintf(w, "  Entries: %d\n", len(entries))
			}
		}
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. task-cli may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkTaskFile validates the task file contents against the schema.
func (a *app) checkTaskFile(verbose bool) bool {
	w := a.stdout
	result, err := tasks.ValidateFile(a.cfg.TasksFile, tasks.ValidationOptions{SchemaPath: a.cfg.SchemaFile})
	if err != nil {
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (schema: %s)\n", result.Schema)

	if verbose {
		fmt.Fprintf(w, "  Tasks: %d\n", result.Tasks)
		if list, err := a.store.Read(); err == nil {
			counts := tasks.CountByStatus(list)
			for _, status := range tasks.Statuses() {
				fmt.Fprintf(w, "    - %s: %d\n", status, counts[status])
			}
		}
	}
	return true
}

// checkFile reports whether path exists and is a regular file.
func checkFile(w io.Writer, path, missing string) bool {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, missing)
		return false
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")
	return true
}
