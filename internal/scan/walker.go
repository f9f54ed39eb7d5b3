package scan

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/syedafeezu/DevScope/internal/config"
	"github.com/syedafeezu/DevScope/internal/debug"
	"github.com/syedafeezu/DevScope/internal/types"
)

// Entry is one accepted file in walk order.
type Entry struct {
	Path string // path as walked (root-joined)
	Rel  string // root-relative, slash-separated
	Type types.DocType
}

// Walker traverses a project tree in deterministic order, pruning the
// configured directories at every level and applying the include/exclude
// globs to root-relative paths.
type Walker struct {
	cfg  *config.Config
	root string

	pruned map[string]bool
}

// NewWalker creates a walker for the given root. The index directory is
// always pruned regardless of configuration.
func NewWalker(root string, cfg *config.Config) *Walker {
	pruned := make(map[string]bool, len(cfg.Index.PruneDirs)+1)
	for _, d := range cfg.Index.PruneDirs {
		pruned[d] = true
	}
	pruned[cfg.Index.Dir] = true

	return &Walker{cfg: cfg, root: root, pruned: pruned}
}

// Walk visits every accepted file under the root in lexical directory
// order. Unreadable directories are skipped with a debug note rather than
// aborting the walk.
func (w *Walker) Walk(visit func(e Entry) error) error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.root {
				return err
			}
			debug.Logf("walk: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != w.root && w.pruned[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.acceptFile(path, d) {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if !w.matchesGlobs(rel) {
			return nil
		}

		dt, ok := Classify(path)
		if !ok {
			return nil
		}

		return visit(Entry{Path: path, Rel: rel, Type: dt})
	})
}

// acceptFile filters out non-regular files, oversized files, and symlinks
// when symlink following is disabled. Symlinked directories are never
// traversed; WalkDir does not descend through them.
func (w *Walker) acceptFile(path string, d fs.DirEntry) bool {
	info, err := d.Info()
	if err != nil {
		debug.Logf("walk: stat %s: %v", path, err)
		return false
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if !w.cfg.Index.FollowSymlinks {
			return false
		}
		resolved, err := os.Stat(path)
		if err != nil || !resolved.Mode().IsRegular() {
			return false
		}
		info = resolved
	} else if !info.Mode().IsRegular() {
		return false
	}

	if info.Size() > w.cfg.Index.MaxFileSize {
		debug.Logf("walk: %s exceeds max file size (%d bytes)", path, info.Size())
		return false
	}
	return true
}

// matchesGlobs applies the configured include/exclude patterns to a
// root-relative slash path. An empty include list includes everything.
func (w *Walker) matchesGlobs(rel string) bool {
	for _, pattern := range w.cfg.Index.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return false
		}
	}
	if len(w.cfg.Index.Include) == 0 {
		return true
	}
	for _, pattern := range w.cfg.Index.Include {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
