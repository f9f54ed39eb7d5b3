// Package display renders search results and index statistics for the
// terminal, in plain text or JSON.
package display

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/syedafeezu/DevScope/internal/index"
	"github.com/syedafeezu/DevScope/internal/search"
)

// PrintResults writes the plain-text result listing: a header with the
// total count, then one block per hit with the score and, when available,
// the first matching line of the file.
func PrintResults(w io.Writer, res *search.Results) {
	fmt.Fprintf(w, "Found %d results.\n\n", res.Total)
	for _, hit := range res.Hits {
		fmt.Fprintf(w, "%s (Score: %.2f)\n", hit.Path, hit.Score)
		if hit.SnippetLine > 0 {
			fmt.Fprintf(w, "  %d: %s\n", hit.SnippetLine, hit.Snippet)
		}
		fmt.Fprintln(w)
	}
}

// WriteResultsJSON writes the result set as indented JSON.
func WriteResultsJSON(w io.Writer, res *search.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// IndexStats pairs a manifest with the verification outcome for display.
type IndexStats struct {
	Dir        string          `json:"dir"`
	Manifest   *index.Manifest `json:"manifest"`
	Mismatched []string        `json:"mismatched_artifacts,omitempty"`
}

// PrintStats writes a plain-text statistics report.
func PrintStats(w io.Writer, st *IndexStats) {
	m := st.Manifest
	fmt.Fprintf(w, "Index: %s\n", st.Dir)
	fmt.Fprintf(w, "  Documents: %d (%d code, %d log)\n", m.Documents, m.CodeDocs, m.LogDocs)
	fmt.Fprintf(w, "  Terms:     %d\n", m.Terms)
	fmt.Fprintf(w, "  Postings:  %d\n", m.Postings)
	for _, name := range []string{index.DocsFile, index.PostingsFile, index.LexiconFile} {
		if a, ok := m.Artifacts[name]; ok {
			fmt.Fprintf(w, "  %-12s %8d bytes  xxh64=%s\n", name, a.Size, a.XXH64)
		}
	}
	if len(st.Mismatched) > 0 {
		fmt.Fprintf(w, "  WARNING: artifacts failed verification: %v\n", st.Mismatched)
	} else {
		fmt.Fprintf(w, "  Artifacts verified.\n")
	}
}

// WriteStatsJSON writes the statistics report as indented JSON.
func WriteStatsJSON(w io.Writer, st *IndexStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

// PrintSuggestions writes suggestion lines for a misspelled query term.
func PrintSuggestions(w io.Writer, input string, suggestions []search.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintf(w, "No suggestions for %q.\n", input)
		return
	}
	fmt.Fprintf(w, "Did you mean (instead of %q):\n", input)
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s (%.0f%%)\n", s.Term, s.Similarity*100)
	}
}
