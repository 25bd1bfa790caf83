package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultFile is the task file name used when none is configured.
const DefaultFile = "Tasks.json"

// Store reads and writes the task file at a fixed path.
type Store struct {
	path     string
	now      func() time.Time
	logger   *log.Logger
	recorder Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for debug and warning output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets a recorder notified after each successful mutation.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// NewStore returns a store backed by the file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all tasks. A missing file is created as an empty array first.
func (s *Store) Load() ([]Task, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("task file not found, initializing", "path", s.path)
		if err := s.Save(nil); err != nil {
			return nil, err
		}
	}
	return s.Read()
}

// Read reads all tasks without creating the file. A missing file reads as
// no tasks.
func (s *Store) Read() ([]Task, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Task{}, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}

	tasks, err := decode(data)
	if err != nil {
		return nil, &StorageError{Op: "load", Path: s.path, Err: err}
	}
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save replaces the task file with tasks. The write goes to a temp file in
// the same directory which is then renamed over the target.
func (s *Store) Save(tasks []Task) error {
	data, err := encode(tasks)
	if err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	if err := writeFileAtomic(s.path, data, 0644); err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

// Add appends a new todo task and returns it. The ID is len(tasks)+1.
func (s *Store) Add(description string) (Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return Task{}, err
	}

	now := NewTimestamp(s.now())
	task := Task{
		ID:          len(tasks) + 1,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tasks = append(tasks, task)

	if err := s.Save(tasks); err != nil {
		return Task{}, err
	}
	s.record(OpAdd, task)
	return task, nil
}

// Update replaces the description of the task with the given ID.
func (s *Store) Update(id int, description string) (Task, error) {
	return s.mutate(OpUpdate, id, func(t *Task) {
		t.Description = description
	})
}

// Mark sets the status of the task with the given ID. The status is stored
// as given.
func (s *Store) Mark(id int, status Status) (Task, error) {
	return s.mutate(OpMark, id, func(t *Task) {
		t.Status = status
	})
}

// Delete removes every task with the given ID and returns the first one.
func (s *Store) Delete(id int) (Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return Task{}, err
	}

	kept := make([]Task, 0, len(tasks))
	var removed *Task
	for i := range tasks {
		if tasks[i].ID == id {
			if removed == nil {
				removed = &tasks[i]
			}
			continue
		}
		kept = append(kept, tasks[i])
	}
	if removed == nil {
		return Task{}, &NotFoundError{ID: id}
	}

	if err := s.Save(kept); err != nil {
		return Task{}, err
	}
	s.record(OpDelete, *removed)
	return *removed, nil
}

// List returns all tasks, or only those whose status equals filter when
// filter is non-empty. Tasks stay in file order.
func (s *Store) List(filter Status) ([]Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return nil, err
	}
	return FilterByStatus(tasks, filter), nil
}

// mutate applies fn to the first task with the given ID, refreshes its
// updatedAt, and saves.
func (s *Store) mutate(op Op, id int, fn func(*Task)) (Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return Task{}, err
	}

	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		fn(&tasks[i])
		tasks[i].UpdatedAt = NewTimestamp(s.now())
		if err := s.Save(tasks); err != nil {
			return Task{}, err
		}
		s.record(op, tasks[i])
		return tasks[i], nil
	}
	return Task{}, &NotFoundError{ID: id}
}

func (s *Store) record(op Op, task Task) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(op, task); err != nil {
		s.logger.Warn("recording history failed", "op", op, "id", task.ID, "err", err)
	}
}

func decode(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// encode renders tasks with 4-space indentation and a trailing newline.
func encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic replaces path with data through a temp file and a rename.
// A symlinked path is written through to its target, and an existing file
// keeps its permission bits; perm applies to new files.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
	}
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}
