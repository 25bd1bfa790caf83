package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/task-cli/internal/tasks"
)

// Entry is one line of the history log.
type Entry struct {
	ID          string          `json:"id"`
	Time        tasks.Timestamp `json:"time"`
	Op          tasks.Op        `json:"op"`
	TaskID      int             `json:"task_id"`
	Description string          `json:"description"`
	Status      tasks.Status    `json:"status"`
}

// String renders the entry for the history command.
func (e Entry) String() string {
	return fmt.Sprintf("%s %-6s [%d] %s (%s)", e.Time, e.Op, e.TaskID, e.Description, e.Status)
}

// History appends task mutations to a JSONL file. It implements
// tasks.Recorder.
type History struct {
	path  string
	now   func() time.Time
	newID func() string
}

// NewHistory returns a history log backed by the file at path. The file and
// its directory are created on first write.
func NewHistory(path string) (*History, error) {
	if path == "" {
		return nil, fmt.Errorf("history file path is empty")
	}
	return &History{
		path:  path,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// Path returns the history file path.
func (h *History) Path() string {
	return h.path
}

// Record appends one entry describing op applied to task.
func (h *History) Record(op tasks.Op, task tasks.Task) error {
	entry := Entry{
		ID:          h.newID(),
		Time:        tasks.NewTimestamp(h.now()),
		Op:          op,
		TaskID:      task.ID,
		Description: task.Description,
		Status:      task.Status,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write history file: %w", err)
	}
	return f.Close()
}

// ReadHistory returns the last n entries of the history file at path, oldest
// first. n <= 0 returns every entry. A missing file yields no entries.
// Lines that do not decode are skipped.
func ReadHistory(path string, n int) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
		if n > 0 && len(entries) > n {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return entries, nil
}
