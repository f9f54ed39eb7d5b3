package index

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/syedafeezu/DevScope/internal/config"
	"github.com/syedafeezu/DevScope/internal/debug"
	devserr "github.com/syedafeezu/DevScope/internal/errors"
	"github.com/syedafeezu/DevScope/internal/scan"
	"github.com/syedafeezu/DevScope/internal/tokenizer"
	"github.com/syedafeezu/DevScope/internal/types"
)

// Stats summarizes a completed build.
type Stats struct {
	Documents   int
	CodeDocs    int
	LogDocs     int
	Terms       int
	Postings    int
	Occurrences int64
	Skipped     int
	Elapsed     time.Duration
}

// BuildOptions carries the optional callbacks of a build. Nil callbacks
// are ignored.
type BuildOptions struct {
	// Progress is invoked after each document is committed.
	Progress func(indexed int, path string)
	// Warnf receives recoverable per-file warnings.
	Warnf func(format string, args ...interface{})
}

// fileResult is the tokenizer output for one walked file, committed to the
// table and accumulator strictly in walk order.
type fileResult struct {
	tokens     []tokenizer.Token
	tmin, tmax int64
	err        error
}

// Build indexes the configured project root into its index directory. The
// walk order defines document IDs; tokenization may run on several files
// at once, but documents are committed in walk order so the artifacts are
// identical to a sequential build.
//
// Per-file read failures are reported through opts.Warnf and counted in
// Stats.Skipped; the file contributes no tokens, so a code file gets no
// document while a log file still becomes an empty one. Anything else
// aborts the build.
func Build(cfg *config.Config, opts BuildOptions) (*Stats, error) {
	start := time.Now()
	warnf := opts.Warnf
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}

	dir := cfg.IndexDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	var entries []scan.Entry
	walker := scan.NewWalker(cfg.Project.Root, cfg)
	if err := walker.Walk(func(e scan.Entry) error {
		entries = append(entries, e)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("walk failed: %w", err)
	}
	debug.Logf("build: %d candidate files under %s", len(entries), cfg.Project.Root)

	results := tokenizeAll(entries, cfg.EffectiveWorkers())

	docsTmp := filepath.Join(dir, DocsFile+".tmp")
	table, err := NewDocumentTable(docsTmp)
	if err != nil {
		return nil, err
	}
	defer os.Remove(docsTmp)

	acc := NewAccumulator()
	stats := &Stats{}

	for i, e := range entries {
		res := results[i]
		if res.err != nil {
			warnf("Warning: failed to read %s: %v", e.Path, devserr.NewFileError("read", e.Path, res.err))
			stats.Skipped++
			res = fileResult{}
		}

		// A code file with no tokens is rejected before an ID is
		// assigned; log files become documents even when empty.
		if e.Type == types.DocTypeCode && len(res.tokens) == 0 {
			continue
		}

		id, err := table.Append(types.Document{
			Type: e.Type,
			Path: e.Path,
			TMin: res.tmin,
			TMax: res.tmax,
		})
		if err != nil {
			warnf("Warning: skipping %s: %v", e.Path, err)
			stats.Skipped++
			continue
		}

		for _, tok := range res.tokens {
			acc.Add(tok.Term, id, tok.Line, tok.Meta)
		}
		if opts.Progress != nil {
			opts.Progress(table.Count(), e.Path)
		}
	}

	stats.Documents = table.Count()
	stats.CodeDocs = table.CountByType(types.DocTypeCode)
	stats.LogDocs = table.CountByType(types.DocTypeLog)
	stats.Terms = acc.TermCount()
	stats.Occurrences = acc.Occurrences()

	docsDigest, err := table.Close()
	if err != nil {
		return nil, err
	}
	docsInfo, err := os.Stat(docsTmp)
	if err != nil {
		return nil, fmt.Errorf("failed to stat document table: %w", err)
	}

	postingsTmp := filepath.Join(dir, PostingsFile+".tmp")
	lexiconTmp := filepath.Join(dir, LexiconFile+".tmp")
	defer os.Remove(postingsTmp)
	defer os.Remove(lexiconTmp)

	postingsRes, lexiconRes, total, err := writePostingsAndLexicon(acc, postingsTmp, lexiconTmp)
	if err != nil {
		return nil, err
	}
	stats.Postings = total

	// Rename the finished artifacts into place so a crashed build never
	// leaves a half-written index behind.
	for _, pair := range [][2]string{
		{docsTmp, DocsFile},
		{postingsTmp, PostingsFile},
		{lexiconTmp, LexiconFile},
	} {
		if err := os.Rename(pair[0], filepath.Join(dir, pair[1])); err != nil {
			return nil, fmt.Errorf("failed to finalize %s: %w", pair[1], err)
		}
	}

	manifest := &Manifest{
		Documents: stats.Documents,
		CodeDocs:  stats.CodeDocs,
		LogDocs:   stats.LogDocs,
		Terms:     stats.Terms,
		Postings:  stats.Postings,
		Artifacts: map[string]Artifact{
			DocsFile:     {Size: docsInfo.Size(), XXH64: fmt.Sprintf("%016x", docsDigest)},
			PostingsFile: {Size: postingsRes.size, XXH64: fmt.Sprintf("%016x", postingsRes.digest)},
			LexiconFile:  {Size: lexiconRes.size, XXH64: fmt.Sprintf("%016x", lexiconRes.digest)},
		},
	}
	if err := writeManifest(dir, manifest); err != nil {
		return nil, err
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// tokenizeAll runs the tokenizer over every entry. With more than one
// worker, files are processed concurrently into a slice indexed by walk
// position; per-file read errors land in the result rather than aborting.
func tokenizeAll(entries []scan.Entry, workers int) []fileResult {
	results := make([]fileResult, len(entries))
	if workers <= 1 {
		for i, e := range entries {
			results[i] = tokenizeFile(e.Path, e.Type)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			results[i] = tokenizeFile(e.Path, e.Type)
			return nil
		})
	}
	g.Wait()
	return results
}

// tokenizeFile drains one file. On a read error the partial token stream
// is discarded: the caller sees an empty sequence plus the error, matching
// the all-or-nothing contract of the tokenizer.
func tokenizeFile(path string, dt types.DocType) fileResult {
	tk, err := tokenizer.Open(path, dt)
	if err != nil {
		return fileResult{err: err}
	}
	defer tk.Close()

	var tokens []tokenizer.Token
	for {
		tok, ok := tk.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	if err := tk.Err(); err != nil {
		return fileResult{err: err}
	}

	tmin, tmax := tk.TimeBounds()
	return fileResult{tokens: tokens, tmin: tmin, tmax: tmax}
}
