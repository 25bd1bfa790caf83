// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

var envNames = []string{
	EnvTasksFile, EnvSchemaFile, EnvHistoryFile, EnvHistory, EnvSearchLimit,
	EnvLogLevel, EnvLogFormat, EnvLogTimestamps, EnvLogCaller,
}

// isolate points HOME and the config dirs at temp directories, clears
// TASK_CLI_* variables and changes into an empty working directory.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range envNames {
		t.Setenv(name, "")
	}
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func load(t *testing.T, args ...string) (*ConfigWithSources, *flag.FlagSet) {
	t.Helper()
	fs := flag.NewFlagSet("task-cli", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	return cws, fs
}

func sameDir(t *testing.T, a, b string) bool {
	t.Helper()
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		t.Fatal(err)
	}
	return ra == rb
}

func TestDefaults(t *testing.T) {
	home, work := isolate(t)

	cws, _ := load(t)
	cfg := cws.Config

	if !sameDir(t, cfg.WorkDir, work) {
		t.Errorf("WorkDir: got %q, want %q", cfg.WorkDir, work)
	}
	if cfg.TasksFile != filepath.Join(cfg.WorkDir, DefaultTasksFile) {
		t.Errorf("TasksFile: got %q, want %s in working dir", cfg.TasksFile, DefaultTasksFile)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %q, want empty", cfg.SchemaFile)
	}
	if want := filepath.Join(home, ".task-cli", "history.jsonl"); cfg.HistoryFile != want {
		t.Errorf("HistoryFile: got %q, want %q", cfg.HistoryFile, want)
	}
	if !cfg.History {
		t.Error("History: got false, want true")
	}
	if cfg.SearchLimit != DefaultSearchLimit {
		t.Errorf("SearchLimit: got %d, want %d", cfg.SearchLimit, DefaultSearchLimit)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "text" {
		t.Errorf("logging: got level %q format %q", cfg.LogLevel, cfg.LogFormat)
	}
	for _, field := range Fields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if cws.ConfigFile() != "" {
		t.Errorf("ConfigFile: got %q, want none", cws.ConfigFile())
	}
}

func TestPrecedence(t *testing.T) {
	home, _ := isolate(t)

	writeFile(t, filepath.Join(home, ".task-cli", "task-cli.toml"), `
tasks_file = "user.json"
search_limit = 5
log_level = "info"
history = false
`)
	writeFile(t, "task-cli.toml", `
tasks_file = "project.json"
`)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvHistory, "yes")

	cws, _ := load(t, "-search-limit", "3")
	cfg := cws.Config

	tests := []struct {
		field      string
		wantValue  string
		wantSource ConfigSource
	}{
		{"tasks_file", filepath.Join(cfg.WorkDir, "project.json"), SourceProjFile},
		{"search_limit", "3", SourceFlag},
		{"log_level", "debug", SourceEnv},
		{"history", "true", SourceEnv},
		{"log_format", "text", SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := cfg.FieldValue(tt.field); got != tt.wantValue {
				t.Errorf("value: got %q, want %q", got, tt.wantValue)
			}
			if got := cws.Sources[tt.field]; got != tt.wantSource {
				t.Errorf("source: got %q, want %q", got, tt.wantSource)
			}
		})
	}

	if cws.ConfigFile() != "task-cli.toml" {
		t.Errorf("ConfigFile: got %q, want task-cli.toml", cws.ConfigFile())
	}
	if cws.UserFile == "" {
		t.Error("UserFile not recorded")
	}
}

func TestHiddenProjectConfig(t *testing.T) {
	isolate(t)
	writeFile(t, ".task-cli.toml", `search_limit = 42`)

	cws, _ := load(t)
	if cws.Config.SearchLimit != 42 {
		t.Errorf("SearchLimit: got %d, want 42", cws.Config.SearchLimit)
	}
	if cws.Sources["search_limit"] != SourceProjFile {
		t.Errorf("source: got %q, want project file", cws.Sources["search_limit"])
	}
}

func TestXDGUserConfig(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG lookup only applies on Linux/BSD")
	}
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "task-cli", "task-cli.toml"), `log_format = "json"`)

	cws, _ := load(t)
	if cws.Config.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cws.Config.LogFormat)
	}
	if cws.Sources["log_format"] != SourceUserFile {
		t.Errorf("source: got %q, want user file", cws.Sources["log_format"])
	}
}

func TestFlagsStopAtCommand(t *testing.T) {
	isolate(t)

	cws, fs := load(t, "-file", "/tmp/other.json", "-history=false", "add", "-file", "x")
	if cws.Config.TasksFile != "/tmp/other.json" {
		t.Errorf("TasksFile: got %q", cws.Config.TasksFile)
	}
	if cws.Config.History {
		t.Error("History: got true, want false")
	}
	want := []string{"add", "-file", "x"}
	got := fs.Args()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("remaining args: got %v, want %v", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T)
		args    []string
		wantErr string
	}{
		{
			name:    "malformed project toml",
			setup:   func(t *testing.T) { writeFile(t, "task-cli.toml", "tasks_file = ") },
			wantErr: "loading project config file",
		},
		{
			name:    "wrong type in toml",
			setup:   func(t *testing.T) { writeFile(t, "task-cli.toml", `search_limit = "many"`) },
			wantErr: "loading project config file",
		},
		{
			name:    "bad env integer",
			setup:   func(t *testing.T) { t.Setenv(EnvSearchLimit, "lots") },
			wantErr: EnvSearchLimit,
		},
		{
			name:    "non-positive search limit",
			args:    []string{"-search-limit", "0"},
			wantErr: "search_limit must be positive",
		},
		{
			name:    "empty tasks file",
			setup:   func(t *testing.T) { writeFile(t, "task-cli.toml", `tasks_file = ""`) },
			wantErr: "tasks_file must not be empty",
		},
		{
			name:    "unknown flag",
			args:    []string{"-nope"},
			wantErr: "parsing flags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.setup != nil {
				tt.setup(t)
			}
			fs := flag.NewFlagSet("task-cli", flag.ContinueOnError)
			fs.SetOutput(new(strings.Builder))
			_, err := LoadWithSources(fs, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestUnknownKeys(t *testing.T) {
	isolate(t)
	writeFile(t, "task-cli.toml", "tasks_file = \"a.json\"\ncolour = \"blue\"\n")

	cws, _ := load(t)
	if len(cws.Unknown) != 1 || !strings.HasSuffix(cws.Unknown[0], "colour") {
		t.Errorf("Unknown: got %v, want [task-cli.toml: colour]", cws.Unknown)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TASK_CLI_TEST_DIR", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$TASK_CLI_TEST_DIR/tasks.json", "/data/tasks.json"},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			input string
			want  string
		}{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("decode example: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example has unknown keys: %v", md.Undecoded())
	}
	for _, field := range Fields() {
		if field == "schema_file" {
			continue
		}
		if !md.IsDefined(field) {
			t.Errorf("example does not set %s", field)
		}
	}
	if cfg.SearchLimit != DefaultSearchLimit || cfg.TasksFile != DefaultTasksFile {
		t.Errorf("example disagrees with defaults: %+v", cfg)
	}
}

func TestFieldValueCoversFields(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	for _, field := range Fields() {
		if field == "schema_file" {
			continue
		}
		if cfg.FieldValue(field) == "" {
			t.Errorf("FieldValue(%q) is empty", field)
		}
	}
	if cfg.FieldValue("nope") != "" {
		t.Error("FieldValue of unknown key should be empty")
	}
}
