package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syedafeezu/DevScope/internal/config"
	"github.com/syedafeezu/DevScope/internal/types"
)

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func buildCorpus(t *testing.T, files map[string]string) (*config.Config, *Stats) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		writeCorpusFile(t, root, rel, content)
	}
	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Index.Workers = 1

	stats, err := Build(cfg, BuildOptions{})
	require.NoError(t, err)
	return cfg, stats
}

func TestBuildRoundTrip(t *testing.T) {
	cfg, stats := buildCorpus(t, map[string]string{
		"a.py":    "def foo():\n    foo()\n",
		"err.log": "2025-12-20T10:00:00 ERROR boom\n2025-12-20T10:00:01 WARN soft\n",
	})

	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 1, stats.CodeDocs)
	assert.Equal(t, 1, stats.LogDocs)

	r, err := Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 2, r.TotalDocs())

	// Walk order is lexical: a.py before err.log.
	code, ok := r.Document(1)
	require.True(t, ok)
	assert.Equal(t, types.DocTypeCode, code.Type)
	assert.True(t, strings.HasSuffix(code.Path, "a.py"))
	assert.Zero(t, code.TMin)
	assert.Zero(t, code.TMax)

	log, ok := r.Document(2)
	require.True(t, ok)
	assert.Equal(t, types.DocTypeLog, log.Type)
	assert.Equal(t, time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC).Unix(), log.TMin)
	assert.Equal(t, time.Date(2025, 12, 20, 10, 0, 1, 0, time.UTC).Unix(), log.TMax)

	entry, ok := r.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, uint32(1), entry.DF)

	postings, err := r.FetchPostings(entry)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	p := postings[0]
	assert.Equal(t, types.DocID(1), p.DocID)
	assert.Equal(t, uint32(2), p.Freq)
	assert.Equal(t, []uint32{1, 2}, p.Positions)
	assert.True(t, p.Meta.Has(types.MetaInFuncname))

	entry, ok = r.Lookup("boom")
	require.True(t, ok)
	postings, err = r.FetchPostings(entry)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, types.DocID(2), postings[0].DocID)
	assert.True(t, postings[0].Meta.Has(types.MetaLogError))
	assert.Equal(t, []uint32{1}, postings[0].Positions)
}

func TestBuildInvariants(t *testing.T) {
	cfg, _ := buildCorpus(t, map[string]string{
		"one.go": "package one\nfunc shared() { shared() }\n",
		"two.go": "package two\nvar shared = 1\n",
		"app.py": "shared = True\nclass shared: pass\n",
	})

	r, err := Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	terms := r.Terms()
	for i := 1; i < len(terms); i++ {
		assert.Less(t, terms[i-1], terms[i], "lexicon terms must be strictly ascending")
	}

	for _, term := range terms {
		entry, ok := r.Lookup(term)
		require.True(t, ok)
		postings, err := r.FetchPostings(entry)
		require.NoError(t, err)
		require.Equal(t, int(entry.DF), len(postings), "df must equal record count for %q", term)

		var prev types.DocID
		for _, p := range postings {
			assert.Greater(t, p.DocID, prev, "postings for %q must ascend by doc id", term)
			prev = p.DocID
			assert.Equal(t, int(p.Freq), len(p.Positions), "freq must equal position count")
			for i := 1; i < len(p.Positions); i++ {
				assert.LessOrEqual(t, p.Positions[i-1], p.Positions[i], "positions must be non-decreasing")
			}
		}
	}
}

func TestBuildSkipsEmptyCodeFilesWithoutConsumingID(t *testing.T) {
	cfg, stats := buildCorpus(t, map[string]string{
		"a.go":      "package a\n",
		"empty.txt": "",
		"z.go":      "package z\n",
	})

	// empty.txt produces no tokens and must not consume an ID.
	assert.Equal(t, 2, stats.Documents)

	r, err := Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	doc1, ok := r.Document(1)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(doc1.Path, "a.go"))
	doc2, ok := r.Document(2)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(doc2.Path, "z.go"))
	_, ok = r.Document(3)
	assert.False(t, ok)
}

func TestBuildKeepsEmptyLogFiles(t *testing.T) {
	cfg, stats := buildCorpus(t, map[string]string{
		"empty.log": "",
	})
	assert.Equal(t, 1, stats.Documents)

	r, err := Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	doc, ok := r.Document(1)
	require.True(t, ok)
	assert.Equal(t, types.DocTypeLog, doc.Type)
	assert.Zero(t, doc.TMin)
	assert.Zero(t, doc.TMax)
}

func TestBuildTruncatesLongTermsInLexicon(t *testing.T) {
	long := strings.Repeat("a", 300)
	cfg, _ := buildCorpus(t, map[string]string{
		"long.txt": long + "\n",
	})

	r, err := Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	// The lexicon key is the 255-byte prefix; the full term is absent.
	_, ok := r.Lookup(long)
	assert.False(t, ok)
	entry, ok := r.Lookup(strings.Repeat("a", MaxTermBytes))
	require.True(t, ok)
	assert.Equal(t, uint32(1), entry.DF)
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	files := map[string]string{
		"a.go":    "package a\nfunc Alpha() { beta(); gamma() }\n",
		"b.py":    "def beta():\n    return gamma\n",
		"c.log":   "2025-01-02 03:04:05 ERROR gamma failed\nWARN beta slow\n",
		"d/e.txt": "alpha beta gamma delta\n",
	}

	seqCfg, _ := buildCorpus(t, files)
	parRoot := t.TempDir()
	for rel, content := range files {
		writeCorpusFile(t, parRoot, rel, content)
	}
	parCfg := config.Default()
	parCfg.Project.Root = parRoot
	parCfg.Index.Workers = 4
	_, err := Build(parCfg, BuildOptions{})
	require.NoError(t, err)

	for _, name := range []string{PostingsFile, LexiconFile} {
		seq, err := os.ReadFile(filepath.Join(seqCfg.IndexDir(), name))
		require.NoError(t, err)
		par, err := os.ReadFile(filepath.Join(parCfg.IndexDir(), name))
		require.NoError(t, err)
		assert.Equal(t, seq, par, "%s must not depend on worker count", name)
	}
}

func TestBuildWarnsAndSkipsUnreadableFiles(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeCorpusFile(t, root, "ok.go", "package ok\n")
	writeCorpusFile(t, root, "secret.go", "package secret\n")
	require.NoError(t, os.Chmod(filepath.Join(root, "secret.go"), 0000))

	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Index.Workers = 1

	var warnings []string
	stats, err := Build(cfg, BuildOptions{
		Warnf: func(format string, args ...interface{}) {
			warnings = append(warnings, format)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 1, stats.Skipped)
	assert.NotEmpty(t, warnings)
}

func TestManifestRoundTrip(t *testing.T) {
	cfg, stats := buildCorpus(t, map[string]string{
		"a.go": "package a\n",
	})

	m, err := LoadManifest(cfg.IndexDir())
	require.NoError(t, err)
	assert.Equal(t, stats.Documents, m.Documents)
	assert.Equal(t, stats.Terms, m.Terms)
	assert.Equal(t, stats.Postings, m.Postings)
	require.Len(t, m.Artifacts, 3)

	mismatched, err := VerifyArtifacts(cfg.IndexDir(), m)
	require.NoError(t, err)
	assert.Empty(t, mismatched)

	// Flip a byte and the digest check must notice.
	path := filepath.Join(cfg.IndexDir(), LexiconFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	data[0] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	mismatched, err = VerifyArtifacts(cfg.IndexDir(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{LexiconFile}, mismatched)
}
