package tasks

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/task-cli/internal/utils"
)

//go:embed schema/tasks.schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "tasks.schema.json"

// EmbeddedSchema is the label reported when the built-in schema was used.
const EmbeddedSchema = "embedded"

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to an external JSON Schema file.
	// If empty, the embedded schema is used.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	Schema   string // schema path, or EmbeddedSchema
	Tasks    int    // number of tasks decoded, when decoding succeeded
}

// SchemaJSON returns the embedded task file schema.
func SchemaJSON() []byte {
	out := make([]byte, len(embeddedSchema))
	copy(out, embeddedSchema)
	return out
}

// ValidateFile reads the task file at path and validates it.
func ValidateFile(path string, opts ValidationOptions) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Op: "validate", Path: path, Err: err}
	}
	return Validate(data, opts), nil
}

// Validate checks raw task file contents against the schema, then decodes
// them and reports duplicate IDs and non-canonical statuses as warnings.
func Validate(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("invalid JSON: %w", err),
		})
		return result
	}

	schema, label, warning := compileSchema(opts.SchemaPath)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	result.Schema = label
	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
			return result
		}
	}

	tasks, err := decode(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: err})
		return result
	}
	result.Tasks = len(tasks)

	seen := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seen[t.ID]; ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("[%d].id: duplicate id %d (first seen at [%d])", i, t.ID, first))
		} else {
			seen[t.ID] = i
		}
		if !t.Status.IsCanonical() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("[%d].status: non-canonical status %q", i, t.Status))
		}
	}

	return result
}

// compileSchema compiles the external schema at path, falling back to the
// embedded schema with a warning when it cannot be used.
func compileSchema(path string) (*jsonschema.Schema, string, string) {
	var warning string
	if path != "" {
		schema, err := compileSchemaFile(path)
		if err == nil {
			return schema, path, ""
		}
		warning = fmt.Sprintf("schema %s unusable, using embedded schema: %v", path, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
		return nil, EmbeddedSchema, fmt.Sprintf("embedded schema unusable: %v", err)
	}
	schema, err := compiler.Compile(embeddedSchemaURL)
	if err != nil {
		return nil, EmbeddedSchema, fmt.Sprintf("embedded schema unusable: %v", err)
	}
	return schema, EmbeddedSchema, warning
}

func compileSchemaFile(path string) (*jsonschema.Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	return compiler.Compile(absPath)
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
