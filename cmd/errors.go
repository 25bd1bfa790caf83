package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// UsageError reports missing or malformed command arguments. With a nil Err
// the arguments were missing and Usage is printed as the command's output.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Usage
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// parseID parses a task ID argument.
func parseID(s, usage string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &UsageError{
			Usage: usage,
			Err:   fmt.Errorf("invalid task ID %q: must be an integer", s),
		}
	}
	return id, nil
}
