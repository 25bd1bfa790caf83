package search

import (
	"context"
	"testing"

	"github.com/nibzard/task-cli/internal/tasks"
)

func sample() []tasks.Task {
	return []tasks.Task{
		{ID: 1, Description: "Buy milk", Status: tasks.StatusTodo},
		{ID: 2, Description: "Walk the dog", Status: tasks.StatusInProgress},
		{ID: 3, Description: "Buy dog food and milk", Status: tasks.StatusDone},
		{ID: 4, Description: "Write quarterly report", Status: tasks.StatusTodo},
		{ID: 4, Description: "Review report draft", Status: "blocked"},
	}
}

func ids(ts []tasks.Task) []int {
	out := make([]int, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	idx, err := NewIndex(sample())
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer idx.Close()

	tests := []struct {
		name    string
		query   string
		opts    Options
		wantIDs []int
	}{
		{name: "single match", query: "walk", wantIDs: []int{2}},
		{name: "case insensitive", query: "WALK", wantIDs: []int{2}},
		{name: "no match", query: "groceries", wantIDs: []int{}},
		{name: "blank", query: "   ", wantIDs: []int{}},
		{name: "status filter", query: "milk", opts: Options{Status: tasks.StatusDone}, wantIDs: []int{3}},
		{name: "custom status filter", query: "report", opts: Options{Status: "blocked"}, wantIDs: []int{4}},
		{name: "limit", query: "report", opts: Options{Limit: 1}, wantIDs: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Search(context.Background(), tt.query, tt.opts)
			if err != nil {
				t.Fatalf("Search(%q): %v", tt.query, err)
			}
			gotIDs := ids(got)
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, gotIDs, tt.wantIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Errorf("Search(%q) = %v, want %v", tt.query, gotIDs, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestSearchRanksBestMatchFirst(t *testing.T) {
	got, err := Tasks(context.Background(), sample(), "buy milk", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("results: got %v, want two tasks", ids(got))
	}
	// "Buy milk" is the shorter field with both terms, so it scores higher.
	if got[0].Description != "Buy milk" {
		t.Errorf("best match: got %q, want %q", got[0].Description, "Buy milk")
	}
}

func TestSearchDuplicateIDsIndexedSeparately(t *testing.T) {
	got, err := Tasks(context.Background(), sample(), "report", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("results: got %d, want 2", len(got))
	}
	if got[0].Description == got[1].Description {
		t.Errorf("same task returned twice: %v", got)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	got, err := Tasks(context.Background(), nil, "anything", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}
