package cmd

import (
	"errors"
	"fmt"

	"github.com/nibzard/task-cli/internal/tasks"
)

const (
	addUsage    = "Usage: task-cli add <description>"
	updateUsage = "Usage: task-cli update <id> <description>"
	deleteUsage = "Usage: task-cli delete <id>"
)

// addCommand adds a task. Arguments past the ones a command reads are
// ignored here and in the other task commands.
func (a *app) addCommand(args []string) error {
	if len(args) < 1 {
		return &UsageError{Usage: addUsage}
	}
	task, err := a.store.Add(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task added successfully (ID: %d)\n", task.ID)
	return nil
}

func (a *app) updateCommand(args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: updateUsage}
	}
	id, err := parseID(args[0], updateUsage)
	if err != nil {
		return err
	}
	if _, err := a.store.Update(id, args[1]); err != nil {
		return a.notFound(err, id)
	}
	fmt.Fprintln(a.stdout, "Task updated successfully")
	return nil
}

func (a *app) deleteCommand(args []string) error {
	if len(args) < 1 {
		return &UsageError{Usage: deleteUsage}
	}
	id, err := parseID(args[0], deleteUsage)
	if err != nil {
		return err
	}
	if _, err := a.store.Delete(id); err != nil {
		return a.notFound(err, id)
	}
	fmt.Fprintln(a.stdout, "Task deleted successfully")
	return nil
}

// markCommand handles mark-in-progress and mark-done.
func (a *app) markCommand(args []string, command string, status tasks.Status) error {
	usage := fmt.Sprintf("Usage: task-cli %s <id>", command)
	if len(args) < 1 {
		return &UsageError{Usage: usage}
	}
	id, err := parseID(args[0], usage)
	if err != nil {
		return err
	}
	if _, err := a.store.Mark(id, status); err != nil {
		return a.notFound(err, id)
	}
	fmt.Fprintf(a.stdout, "Task marked as %s\n", status)
	return nil
}

func (a *app) listCommand(args []string) error {
	var filter tasks.Status
	if len(args) > 0 {
		filter = tasks.Status(args[0])
	}
	list, err := a.store.List(filter)
	if err != nil {
		return err
	}
	printTasks(a, list)
	return nil
}

// notFound prints the not-found line for a missing task and swallows the
// error. Other errors are returned unchanged.
func (a *app) notFound(err error, id int) error {
	if errors.Is(err, tasks.ErrNotFound) {
		fmt.Fprintf(a.stdout, "No task found with ID: %d\n", id)
		return nil
	}
	return err
}

func printTasks(a *app, list []tasks.Task) {
	if len(list) == 0 {
		fmt.Fprintln(a.stdout, "No tasks found")
		return
	}
	for _, t := range list {
		fmt.Fprintln(a.stdout, t.String())
	}
}
