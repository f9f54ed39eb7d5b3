package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syedafeezu/DevScope/internal/index"
)

func TestSuggestRanksSimilarTerms(t *testing.T) {
	cfg, _ := buildAndQuery(t, map[string]string{
		"a.go": "package a\nfunc handler() { handle() }\n",
	})

	r, err := index.Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	suggestions := Suggest(r, "handlr", 5)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "handler", suggestions[0].Term)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Similarity, suggestions[i].Similarity)
	}
}

func TestSuggestExcludesExactMatch(t *testing.T) {
	cfg, _ := buildAndQuery(t, map[string]string{
		"a.go": "package a\nfunc handler() {}\n",
	})

	r, err := index.Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	for _, s := range Suggest(r, "handler", 5) {
		assert.NotEqual(t, "handler", s.Term)
	}
}

func TestSuggestLimit(t *testing.T) {
	cfg, _ := buildAndQuery(t, map[string]string{
		"a.txt": "handle handler handles handled handling\n",
	})

	r, err := index.Open(cfg.IndexDir())
	require.NoError(t, err)
	defer r.Close()

	suggestions := Suggest(r, "handlr", 2)
	assert.Len(t, suggestions, 2)
}
