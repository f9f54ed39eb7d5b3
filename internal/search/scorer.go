package search

import (
	"math"
	"sort"
	"strings"

	"github.com/syedafeezu/DevScope/internal/index"
	"github.com/syedafeezu/DevScope/internal/types"
)

// Additive metadata boosts, applied once per posting.
const (
	filenameBoost = 5.0
	funcnameBoost = 3.0
	logErrorBoost = 2.0
)

// docState accumulates one candidate document across query terms.
type docState struct {
	score   float64
	matches int
}

// Score runs the TF·IDF scorer over the query's terms and returns the
// qualifying documents ranked by descending score, ties broken by
// ascending DocID. AND semantics: a document qualifies only when every
// query term matched it after filters; a term absent from the lexicon
// therefore disqualifies every document.
func Score(r *index.Reader, q Query, limit int) ([]types.RankedHit, error) {
	if q.IsEmpty() {
		return nil, nil
	}

	totalDocs := r.TotalDocs()
	states := make(map[types.DocID]*docState)

	for _, term := range q.Terms {
		entry, ok := r.Lookup(term)
		if !ok {
			continue
		}
		postings, err := r.FetchPostings(entry)
		if err != nil {
			return nil, err
		}
		idf := math.Log10(float64(totalDocs) / float64(entry.DF+1))

		for _, p := range postings {
			doc, ok := r.Document(p.DocID)
			if !ok {
				continue
			}
			if !passesFilters(q, doc, p.Meta) {
				continue
			}

			score := float64(p.Freq) * idf
			if p.Meta.Has(types.MetaInFilename) {
				score += filenameBoost
			}
			if p.Meta.Has(types.MetaInFuncname) {
				score += funcnameBoost
			}
			if p.Meta.Has(types.MetaLogError) {
				score += logErrorBoost
			}

			st, ok := states[p.DocID]
			if !ok {
				st = &docState{}
				states[p.DocID] = st
			}
			st.score += score
			st.matches++
		}
	}

	hits := make([]types.RankedHit, 0, len(states))
	for id, st := range states {
		if st.matches != len(q.Terms) {
			continue
		}
		doc, _ := r.Document(id)
		hits = append(hits, types.RankedHit{DocID: id, Path: doc.Path, Score: st.score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocID < hits[j].DocID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// passesFilters applies the structured filters to one posting. Only the
// ERROR level is defined for matching; any other level value matches
// nothing.
func passesFilters(q Query, doc types.Document, meta types.MetaMask) bool {
	if q.Ext != "" && !strings.HasSuffix(strings.ToLower(doc.Path), q.Ext) {
		return false
	}
	if q.Level != "" {
		if q.Level != "ERROR" {
			return false
		}
		if !meta.Has(types.MetaLogError) {
			return false
		}
	}
	return true
}
