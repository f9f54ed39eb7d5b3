package config

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Default limits applied when no config file overrides them.
const (
	DefaultIndexDirName  = ".devscope"
	DefaultMaxFileSize   = 10 * 1024 * 1024
	DefaultMaxResults    = 10
	DefaultSnippetLength = 200
	DefaultDebounceMs    = 250
)

type Config struct {
	Project Project
	Index   Index
	Search  Search
}

type Project struct {
	Root string `toml:"root"`
	Name string `toml:"name"`
}

type Index struct {
	Dir             string   `toml:"dir"`               // index directory name under the root
	PruneDirs       []string `toml:"prune_dirs"`        // directory names pruned at every level
	Include         []string `toml:"include"`           // doublestar globs; empty means include everything
	Exclude         []string `toml:"exclude"`           // doublestar globs matched against root-relative paths
	MaxFileSize     int64    `toml:"max_file_size"`     // files larger than this are skipped
	FollowSymlinks  bool     `toml:"follow_symlinks"`   // resolve symlinked files (directories are never followed)
	Workers         int      `toml:"workers"`           // tokenizer workers; 0 = auto-detect (NumCPU)
	WatchDebounceMs int      `toml:"watch_debounce_ms"` // quiet period before a watch-triggered rebuild
}

type Search struct {
	MaxResults    int `toml:"max_results"`    // result list cap
	SnippetLength int `toml:"snippet_length"` // snippet truncation in characters
}

// Default returns the built-in configuration. The pruned directory set and
// extension handling match the index format; config can add exclusions but
// the index directory itself is always pruned.
func Default() *Config {
	return &Config{
		Index: Index{
			Dir:             DefaultIndexDirName,
			PruneDirs:       []string{".git", "node_modules"},
			Include:         []string{},
			Exclude:         []string{},
			MaxFileSize:     DefaultMaxFileSize,
			FollowSymlinks:  false,
			Workers:         0,
			WatchDebounceMs: DefaultDebounceMs,
		},
		Search: Search{
			MaxResults:    DefaultMaxResults,
			SnippetLength: DefaultSnippetLength,
		},
	}
}

// Validate checks that config values are within usable ranges.
func (c *Config) Validate() error {
	if c.Index.Dir == "" {
		return fmt.Errorf("index dir must not be empty")
	}
	if filepath.IsAbs(c.Index.Dir) || c.Index.Dir != filepath.Base(c.Index.Dir) {
		return fmt.Errorf("index dir must be a bare directory name, got %q", c.Index.Dir)
	}
	if c.Index.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.Index.MaxFileSize)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Index.Workers)
	}
	if c.Index.WatchDebounceMs < 0 {
		return fmt.Errorf("watch_debounce_ms must be >= 0, got %d", c.Index.WatchDebounceMs)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Search.SnippetLength <= 0 {
		return fmt.Errorf("snippet_length must be positive, got %d", c.Search.SnippetLength)
	}
	return nil
}

// IndexDir returns the absolute-or-relative path of the index directory
// under the configured project root.
func (c *Config) IndexDir() string {
	return filepath.Join(c.Project.Root, c.Index.Dir)
}

// EffectiveWorkers resolves the worker count, treating 0 as auto-detect.
func (c *Config) EffectiveWorkers() int {
	if c.Index.Workers > 0 {
		return c.Index.Workers
	}
	return runtime.NumCPU()
}
