package search

import (
	"github.com/syedafeezu/DevScope/internal/config"
	"github.com/syedafeezu/DevScope/internal/debug"
	"github.com/syedafeezu/DevScope/internal/index"
)

// Result is one ranked document with its display snippet.
type Result struct {
	Path        string  `json:"path"`
	Score       float64 `json:"score"`
	SnippetLine int     `json:"snippet_line,omitempty"`
	Snippet     string  `json:"snippet,omitempty"`
}

// Results is a complete answer to one query. Total counts every
// qualifying document; Hits carries at most the configured result cap.
type Results struct {
	Query string   `json:"query"`
	Total int      `json:"total"`
	Hits  []Result `json:"hits"`
}

// Run plans and executes a query against the index directory. An empty
// term list yields an empty result set with no error. A missing index
// surfaces as errors.ErrMissingIndex for the caller to report.
func Run(raw string, cfg *config.Config) (*Results, error) {
	q := Parse(raw)
	res := &Results{Query: raw, Hits: []Result{}}
	if q.IsEmpty() {
		return res, nil
	}

	r, err := index.Open(cfg.IndexDir())
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// Rank every qualifying document so Total is exact, then cap.
	hits, err := Score(r, q, 0)
	if err != nil {
		return nil, err
	}
	res.Total = len(hits)
	debug.Logf("search: %q matched %d documents", raw, len(hits))

	if len(hits) > cfg.Search.MaxResults {
		hits = hits[:cfg.Search.MaxResults]
	}
	for _, h := range hits {
		result := Result{Path: h.Path, Score: h.Score}
		if sn := ExtractSnippet(h.Path, q.Terms, cfg.Search.SnippetLength); sn.Line > 0 {
			result.SnippetLine = sn.Line
			result.Snippet = sn.Text
		}
		res.Hits = append(res.Hits, result)
	}
	return res, nil
}
