// Package search provides full-text search over task descriptions using an
// in-memory Bleve index.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/nibzard/task-cli/internal/tasks"
)

// DefaultLimit is used when Options.Limit is not positive.
const DefaultLimit = 10

// Options controls a search.
type Options struct {
	// Limit caps the number of results.
	Limit int
	// Status restricts results to tasks with exactly this status.
	Status tasks.Status
}

// document is what gets indexed for each task.
type document struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Index is an in-memory index over a snapshot of tasks. Documents are keyed
// by position so tasks sharing an ID are still indexed separately.
type Index struct {
	index bleve.Index
	tasks []tasks.Task
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	taskMapping := bleve.NewDocumentMapping()

	// Text field mapping (analyzed for full-text search)
	descMapping := bleve.NewTextFieldMapping()
	descMapping.Analyzer = standard.Name
	descMapping.Store = false

	// Keyword field mapping (not analyzed, exact match)
	statusMapping := bleve.NewKeywordFieldMapping()
	statusMapping.Store = false

	taskMapping.AddFieldMappingsAt("description", descMapping)
	taskMapping.AddFieldMappingsAt("status", statusMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = taskMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// NewIndex indexes the given tasks in memory.
func NewIndex(ts []tasks.Task) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for i, t := range ts {
		doc := document{Description: t.Description, Status: string(t.Status)}
		if err := batch.Index(docID(i), doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("index task %d: %w", t.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("index tasks: %w", err)
	}

	return &Index{index: index, tasks: ts}, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// Search returns tasks whose description matches q, best match first. Equal
// scores keep file order. A blank query matches nothing.
func (i *Index) Search(ctx context.Context, q string, opts Options) ([]tasks.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	match := bleve.NewMatchQuery(q)
	match.SetField("description")

	var searchQuery query.Query = match
	if opts.Status != "" {
		status := bleve.NewTermQuery(string(opts.Status))
		status.SetField("status")
		searchQuery = bleve.NewConjunctionQuery(match, status)
	}

	req := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	result, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	found := make([]tasks.Task, 0, len(result.Hits))
	for _, hit := range result.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(i.tasks) {
			continue
		}
		found = append(found, i.tasks[pos])
	}
	return found, nil
}

// Tasks indexes ts, runs one search and releases the index.
func Tasks(ctx context.Context, ts []tasks.Task, q string, opts Options) ([]tasks.Task, error) {
	idx, err := NewIndex(ts)
	if err != nil {
		return nil, err
	}
	defer idx.Close()
	return idx.Search(ctx, q, opts)
}

func docID(pos int) string {
	return fmt.Sprintf("%08d", pos)
}
