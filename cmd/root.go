// Package cmd implements the CLI command structure for task-cli.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-cli/internal/config"
	"github.com/nibzard/task-cli/internal/logging"
	"github.com/nibzard/task-cli/internal/tasks"
)

// Version is set via ldflags at build time.
var Version = "dev"

// now is the clock used for task timestamps.
var now = time.Now

// app carries the state shared by every command of one invocation.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	store   *tasks.Store
	logger  *log.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// Run executes the task-cli CLI. Command output goes to stdout and log output
// to stderr. Global flag errors are returned rather than printed.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("task-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		// An undefined flag in command position is reported like any other
		// unknown command.
		if undefinedFlag(fs, args) {
			fmt.Fprintf(stdout, "Unknown command: %s\n", args[0])
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	a, err := newApp(cws, stdout, stderr)
	if err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fmt.Fprintln(stdout, "Usage: task-cli <command> [options]")
		return nil
	}
	command, cmdArgs := remaining[0], remaining[1:]
	a.logger.Debug("running command", "command", command, "args", len(cmdArgs))

	err = a.dispatch(ctx, fs, command, cmdArgs)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}

	// Missing arguments print the command's usage line and succeed.
	var usageErr *UsageError
	if errors.As(err, &usageErr) && usageErr.Err == nil {
		fmt.Fprintln(stdout, usageErr.Usage)
		return nil
	}
	return err
}

func (a *app) dispatch(ctx context.Context, fs *flag.FlagSet, command string, args []string) error {
	switch command {
	case "add":
		return a.addCommand(args)
	case "update":
		return a.updateCommand(args)
	case "delete":
		return a.deleteCommand(args)
	case "mark-in-progress":
		return a.markCommand(args, command, tasks.StatusInProgress)
	case "mark-done":
		return a.markCommand(args, command, tasks.StatusDone)
	case "list":
		return a.listCommand(args)
	case "search":
		return a.searchCommand(ctx, args)
	case "doctor":
		return a.doctorCommand(args)
	case "history":
		return a.historyCommand(args)
	case "tui":
		return a.tuiCommand(ctx, args)
	case "config":
		return a.configCommand(args)
	case "schema":
		return a.schemaCommand()
	case "version":
		return versionCommand(a.stdout)
	case "help":
		printUsage(fs, a.stdout)
		return nil
	default:
		fmt.Fprintf(a.stdout, "Unknown command: %s\n", command)
		return nil
	}
}

// newApp wires the console logger, the history recorder and the task store
// from the loaded configuration.
func newApp(cws *config.ConfigWithSources, stdout, stderr io.Writer) (*app, error) {
	cfg := cws.Config

	opts, err := logging.ConsoleOptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		return nil, fmt.Errorf("configuring logging: %w", err)
	}
	logger := logging.NewConsole(stderr, opts)

	for _, key := range cws.Unknown {
		logger.Warn("unknown config key", "key", key)
	}

	storeOpts := []tasks.Option{
		tasks.WithClock(now),
		tasks.WithLogger(logger),
	}
	if cfg.History {
		history, err := logging.NewHistory(cfg.HistoryFile)
		if err != nil {
			logger.Warn("history disabled", "err", err)
		} else {
			storeOpts = append(storeOpts, tasks.WithRecorder(history))
		}
	}

	return &app{
		cfg:     cfg,
		sources: cws,
		store:   tasks.NewStore(cfg.TasksFile, storeOpts...),
		logger:  logger,
		stdout:  stdout,
		stderr:  stderr,
	}, nil
}

// undefinedFlag reports whether args starts with a flag fs does not define.
// It is only meaningful after fs has parsed args.
func undefinedFlag(fs *flag.FlagSet, args []string) bool {
	if len(args) == 0 || !fs.Parsed() {
		return false
	}
	name := strings.TrimLeft(args[0], "-")
	if name == args[0] || name == "" {
		return false
	}
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return fs.Lookup(name) == nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "task-cli version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "task-cli - track tasks in a local JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  task-cli [options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>             Add a task")
	fmt.Fprintln(w, "  update <id> <description>     Change a task's description")
	fmt.Fprintln(w, "  delete <id>                   Delete a task")
	fmt.Fprintln(w, "  mark-in-progress <id>         Mark a task as in-progress")
	fmt.Fprintln(w, "  mark-done <id>                Mark a task as done")
	fmt.Fprintln(w, "  list [status]                 List tasks, optionally by status")
	fmt.Fprintln(w, "  search [-status s] <query>    Full-text search of descriptions")
	fmt.Fprintln(w, "  history [-n N]                Show recent changes")
	fmt.Fprintln(w, "  doctor [-v]                   Check config and task file validity")
	fmt.Fprintln(w, "  tui [-interval d]             Launch terminal UI")
	fmt.Fprintln(w, "  config [-example]             Show effective configuration")
	fmt.Fprintln(w, "  schema                        Print the task file JSON Schema")
	fmt.Fprintln(w, "  version                       Show version information")
	fmt.Fprintln(w, "  help                          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
