package index

import (
	"sort"

	"github.com/syedafeezu/DevScope/internal/types"
)

// postingBuilder accumulates one (term, document) pair. Freq and positions
// stay in lockstep: every added occurrence appends exactly one position.
type postingBuilder struct {
	freq      uint32
	meta      types.MetaMask
	positions []uint32
}

// Accumulator is the in-memory term → document → posting builder filled
// during a single build pass. Memory is proportional to the total number
// of token occurrences; there is no spill to disk.
type Accumulator struct {
	terms       map[string]map[types.DocID]*postingBuilder
	occurrences int64
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{terms: make(map[string]map[types.DocID]*postingBuilder)}
}

// Add records one occurrence of term at line in doc. The occurrence meta
// is OR-ed into the posting's mask.
func (a *Accumulator) Add(term string, doc types.DocID, line uint32, meta types.MetaMask) {
	docs, ok := a.terms[term]
	if !ok {
		docs = make(map[types.DocID]*postingBuilder)
		a.terms[term] = docs
	}
	pb, ok := docs[doc]
	if !ok {
		pb = &postingBuilder{}
		docs[doc] = pb
	}
	pb.freq++
	pb.positions = append(pb.positions, line)
	pb.meta |= meta
	a.occurrences++
}

// TermCount returns the number of distinct terms accumulated.
func (a *Accumulator) TermCount() int {
	return len(a.terms)
}

// Occurrences returns the total number of token occurrences recorded.
func (a *Accumulator) Occurrences() int64 {
	return a.occurrences
}

// SortedTerms returns all terms in ascending byte order, the serialization
// order of the lexicon.
func (a *Accumulator) SortedTerms() []string {
	terms := make([]string, 0, len(a.terms))
	for t := range a.terms {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Postings returns the posting list for term ordered by ascending DocID.
// Returns nil for an unknown term.
func (a *Accumulator) Postings(term string) []types.Posting {
	docs, ok := a.terms[term]
	if !ok {
		return nil
	}
	ids := make([]types.DocID, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	postings := make([]types.Posting, 0, len(ids))
	for _, id := range ids {
		pb := docs[id]
		postings = append(postings, types.Posting{
			DocID:     id,
			Freq:      pb.freq,
			Meta:      pb.meta,
			Positions: pb.positions,
		})
	}
	return postings
}
