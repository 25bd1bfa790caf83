package tasks

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "utc with microseconds",
			in:   "2026-10-19T08:30:00.123456Z",
			want: time.Date(2026, 10, 19, 8, 30, 0, 123456000, time.UTC),
		},
		{
			name: "offset",
			in:   "2026-10-19T10:30:00+02:00",
			want: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC),
		},
		{
			name: "naive is local",
			in:   "2026-10-19T08:30:00",
			want: time.Date(2026, 10, 19, 8, 30, 0, 0, time.Local),
		},
		{
			name: "naive with fraction",
			in:   "2026-10-19T08:30:00.654321",
			want: time.Date(2026, 10, 19, 8, 30, 0, 654321000, time.Local),
		},
		{name: "date only", in: "2026-10-19", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got.Time, tt.want)
			}
		})
	}
}

func TestTimestampJSON(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := NewTimestamp(time.Date(2026, 10, 19, 10, 30, 0, 123456789, loc))

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `"2026-10-19T08:30:00.123456Z"`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(ts.Time) {
		t.Errorf("Unmarshal = %v, want %v", back.Time, ts.Time)
	}

	for _, raw := range []string{`12345`, `"yesterday"`, `null`} {
		var kept Timestamp
		if err := json.Unmarshal([]byte(raw), &kept); err != nil {
			t.Errorf("Unmarshal(%s): %v", raw, err)
			continue
		}
		if !kept.IsZero() {
			t.Errorf("Unmarshal(%s) = %v, want zero time", raw, kept.Time)
		}
		data, err := json.Marshal(kept)
		if err != nil || string(data) != raw {
			t.Errorf("Marshal after Unmarshal(%s) = %s, %v", raw, data, err)
		}
	}
}

func TestTaskJSON(t *testing.T) {
	created := NewTimestamp(time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC))
	task := Task{ID: 3, Description: "a & <b>", Status: StatusTodo, CreatedAt: created, UpdatedAt: created}

	data, err := marshalNoEscape(task)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":3,"description":"a & <b>","status":"todo","createdAt":"2026-10-19T08:30:00.000000Z","updatedAt":"2026-10-19T08:30:00.000000Z"}`
	if string(data) != want {
		t.Errorf("Marshal = %s\nwant      %s", data, want)
	}

	tests := []struct {
		name string
		in   string
		edit func(*Task)
		want string
	}{
		{
			name: "unchanged keeps key order and extra keys",
			in:   `{"status":"todo","id":1,"tags":["x"],"description":"d"}`,
			edit: func(*Task) {},
			want: `{"status":"todo","id":1,"tags":["x"],"description":"d"}`,
		},
		{
			name: "changed field replaced in place",
			in:   `{"id":1,"description":"d","status":"todo","extra":true}`,
			edit: func(t *Task) { t.Status = StatusDone },
			want: `{"id":1,"description":"d","status":"done","extra":true}`,
		},
		{
			name: "field set after decoding is appended",
			in:   `{"id":1,"description":"d"}`,
			edit: func(t *Task) { t.Status = StatusInProgress },
			want: `{"id":1,"description":"d","status":"in-progress"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			if err := json.Unmarshal([]byte(tt.in), &task); err != nil {
				t.Fatal(err)
			}
			tt.edit(&task)
			data, err := marshalNoEscape(task)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestStatusIsCanonical(t *testing.T) {
	for _, s := range Statuses() {
		if !s.IsCanonical() {
			t.Errorf("%q should be canonical", s)
		}
	}
	for _, s := range []Status{"", "Done", "in_progress", "blocked"} {
		if s.IsCanonical() {
			t.Errorf("%q should not be canonical", s)
		}
	}
}

func TestTaskString(t *testing.T) {
	task := Task{ID: 7, Description: "Walk the dog", Status: StatusInProgress}
	if got, want := task.String(), "[7] Walk the dog (in-progress)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCountByStatus(t *testing.T) {
	tasks := []Task{
		{ID: 1, Status: StatusTodo},
		{ID: 2, Status: StatusDone},
		{ID: 3, Status: StatusDone},
		{ID: 4, Status: "blocked"},
	}
	counts := CountByStatus(tasks)

	want := map[Status]int{
		StatusTodo:       1,
		StatusInProgress: 0,
		StatusDone:       2,
		"blocked":        1,
	}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("counts[%q] = %d, want %d", status, counts[status], n)
		}
	}
}

func TestFilterByStatusEmptyReturnsAll(t *testing.T) {
	tasks := []Task{{ID: 1}, {ID: 2}}
	if got := FilterByStatus(tasks, ""); len(got) != 2 {
		t.Errorf("FilterByStatus(empty) returned %d tasks, want 2", len(got))
	}
}
