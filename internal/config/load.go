package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadWithSources loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.task-cli/task-cli.toml or OS-specific config dir)
// 3. Project config file (task-cli.toml or .task-cli.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// Flags are registered on fs and parsed from args. Parsing stops at the first
// non-flag argument; the remainder is available from fs.Args(). The result
// maps each field name to the source its value came from.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range Fields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		unknown, err := loadConfigFile(cfg, userConfigFile, cws.Sources, SourceUserFile)
		if err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.UserFile = userConfigFile
		cws.Unknown = append(cws.Unknown, unknown...)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		unknown, err := loadConfigFile(cfg, projectConfigFile, cws.Sources, SourceProjFile)
		if err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.ProjectFile = projectConfigFile
		cws.Unknown = append(cws.Unknown, unknown...)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, cws.Sources); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile decodes the TOML file at path over cfg. Keys present in the
// file are attributed to source. It returns keys the file defines that no
// field decodes.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) ([]string, error) {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	for _, field := range Fields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, fmt.Sprintf("%s: %s", path, key.String()))
	}
	return unknown, nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	if cfg.TasksFile == "" {
		return fmt.Errorf("tasks_file must not be empty")
	}
	if cfg.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive, got %d", cfg.SearchLimit)
	}

	// Expand ~ and $VAR in paths
	cfg.TasksFile = expandPath(cfg.TasksFile)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)
	cfg.HistoryFile = expandPath(cfg.HistoryFile)

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	// Make paths absolute if they're relative
	cfg.TasksFile = resolve(cfg.WorkDir, cfg.TasksFile)
	cfg.SchemaFile = resolve(cfg.WorkDir, cfg.SchemaFile)
	cfg.HistoryFile = resolve(cfg.WorkDir, cfg.HistoryFile)

	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
