package search

import (
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/syedafeezu/DevScope/internal/index"
)

// Suggestion is a lexicon term ranked by similarity to the user's input.
type Suggestion struct {
	Term       string  `json:"term"`
	Similarity float64 `json:"similarity"`
}

// Suggest ranks lexicon terms by Levenshtein similarity to the input and
// returns the top limit candidates at or above the threshold. Exact matches are
// excluded; there is nothing to suggest for a term that already exists.
func Suggest(r *index.Reader, input string, limit int) []Suggestion {
	const threshold = 0.5

	var out []Suggestion
	for _, term := range r.Terms() {
		if term == input {
			continue
		}
		sim, err := edlib.StringsSimilarity(input, term, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if float64(sim) < threshold {
			continue
		}
		out = append(out, Suggestion{Term: term, Similarity: float64(sim)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Term < out[j].Term
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
