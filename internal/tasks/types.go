package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses returns the canonical status values in lifecycle order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// IsCanonical reports whether s is one of todo, in-progress, or done.
func (s Status) IsCanonical() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TimeLayout is the layout used when writing timestamps.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// naiveLayout matches ISO-8601 values without a zone offset. Fractional
// seconds are accepted when parsing even though the layout omits them.
const naiveLayout = "2006-01-02T15:04:05"

// Timestamp is a point in time persisted as an ISO-8601 string. A decoded
// timestamp keeps the JSON text it was read from and is written back unchanged.
type Timestamp struct {
	time.Time
	raw json.RawMessage
}

// NewTimestamp returns t in UTC truncated to the precision of TimeLayout.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

// ParseTimestamp parses an RFC 3339 value or a zone-less ISO-8601 value.
// Zone-less values are interpreted in the local time zone.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t}, nil
	}
	t, err := time.ParseInLocation(naiveLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return Timestamp{Time: t}, nil
}

// String formats the timestamp with TimeLayout in UTC. A decoded value that
// is not a valid timestamp is returned as read.
func (t Timestamp) String() string {
	if t.IsZero() && t.raw != nil {
		var s string
		if json.Unmarshal(t.raw, &s) == nil {
			return s
		}
		return string(t.raw)
	}
	return t.UTC().Format(TimeLayout)
}

// MarshalJSON writes the text the timestamp was decoded from, or a
// TimeLayout string for timestamps created by this package.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return t.raw, nil
	}
	return json.Marshal(t.UTC().Format(TimeLayout))
}

// UnmarshalJSON keeps data verbatim and sets Time when data is a string
// ParseTimestamp accepts. Anything else leaves Time zero.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{raw: append(json.RawMessage(nil), data...)}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if parsed, err := ParseTimestamp(s); err == nil {
		t.Time = parsed.Time
	}
	return nil
}

// Task represents a single tracked task.
//
// A task decoded from the task file remembers the object it came from.
// Encoding it writes that object back with only the changed fields replaced,
// so keys this package does not know and fields that were absent survive a
// save.
type Task struct {
	ID          int
	Description string
	Status      Status
	CreatedAt   Timestamp
	UpdatedAt   Timestamp

	raw  json.RawMessage
	orig *taskFields
}

// taskFields is the on-disk shape of a task.
type taskFields struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

var taskFieldNames = []string{"id", "description", "status", "createdAt", "updatedAt"}

func (t *Task) fields() taskFields {
	return taskFields{
		ID:          t.ID,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// UnmarshalJSON decodes a task object and remembers it for MarshalJSON.
func (t *Task) UnmarshalJSON(data []byte) error {
	var f taskFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*t = Task{
		ID:          f.ID,
		Description: f.Description,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		t.raw = append(json.RawMessage(nil), trimmed...)
		t.orig = &f
	}
	return nil
}

// MarshalJSON encodes the task. A decoded task keeps the key order and values
// it was read with; only fields whose value changed since decoding are
// rewritten.
func (t Task) MarshalJSON() ([]byte, error) {
	cur, err := fieldValues(t.fields())
	if err != nil {
		return nil, err
	}
	if t.raw == nil || t.orig == nil {
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, name := range taskFieldNames {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeMember(&buf, name, cur[name])
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}

	orig, err := fieldValues(*t.orig)
	if err != nil {
		return nil, err
	}
	changed := func(name string) bool {
		return !bytes.Equal(cur[name], orig[name])
	}

	dec := json.NewDecoder(bytes.NewReader(t.raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]bool, len(taskFieldNames))
	first := true
	member := func(key string, value []byte) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeMember(&buf, key, value)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if _, known := cur[key]; known {
			seen[key] = true
			if changed(key) {
				value = cur[key]
			}
		}
		member(key, value)
	}
	for _, name := range taskFieldNames {
		if !seen[name] && changed(name) {
			member(name, cur[name])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fieldValues encodes each known field of f without HTML escaping.
func fieldValues(f taskFields) (map[string][]byte, error) {
	values := make(map[string][]byte, len(taskFieldNames))
	for name, v := range map[string]any{
		"id":          f.ID,
		"description": f.Description,
		"status":      f.Status,
		"createdAt":   f.CreatedAt,
		"updatedAt":   f.UpdatedAt,
	} {
		data, err := marshalNoEscape(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		values[name] = data
	}
	return values, nil
}

func writeMember(buf *bytes.Buffer, key string, value []byte) {
	k, _ := marshalNoEscape(key)
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(value)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// String renders the task the way list prints it.
func (t Task) String() string {
	return fmt.Sprintf("[%d] %s (%s)", t.ID, t.Description, t.Status)
}

// Op names a mutating store operation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpMark   Op = "mark"
)

// Recorder receives every successful mutation after it has been saved.
type Recorder interface {
	Record(op Op, task Task) error
}

// FilterByStatus returns the tasks whose status equals status, preserving
// order. An empty status returns tasks unchanged.
func FilterByStatus(tasks []Task, status Status) []Task {
	if status == "" {
		return tasks
	}
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// CountByStatus counts tasks per status, including non-canonical values.
func CountByStatus(tasks []Task) map[Status]int {
	counts := map[Status]int{
		StatusTodo:       0,
		StatusInProgress: 0,
		StatusDone:       0,
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}
