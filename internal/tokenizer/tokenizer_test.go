package tokenizer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syedafeezu/DevScope/internal/types"
)

func tokenizeString(t *testing.T, content string, dt types.DocType) ([]Token, int64, int64) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tk, err := Open(path, dt)
	require.NoError(t, err)
	defer tk.Close()

	var tokens []Token
	for {
		tok, ok := tk.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	require.NoError(t, tk.Err())
	tmin, tmax := tk.TimeBounds()
	return tokens, tmin, tmax
}

func TestCodeFunctionNameMeta(t *testing.T) {
	tokens, tmin, tmax := tokenizeString(t, "def foo():\n    foo()\n", types.DocTypeCode)

	require.Equal(t, []Token{
		{Term: "def", Line: 1, Meta: 0},
		{Term: "foo", Line: 1, Meta: types.MetaInFuncname},
		{Term: "foo", Line: 2, Meta: 0},
	}, tokens)
	assert.Zero(t, tmin)
	assert.Zero(t, tmax)
}

func TestCodeDefinitionKeywords(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"func Handler(w http.ResponseWriter) {", "Handler"},
		{"function renderPage(ctx) {", "renderPage"},
		{"class Parser:", "Parser"},
		{"struct Node {", "Node"},
		{"def compute_total(items):", "compute_total"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			tokens, _, _ := tokenizeString(t, tt.line+"\n", types.DocTypeCode)
			var marked []string
			for _, tok := range tokens {
				if tok.Meta.Has(types.MetaInFuncname) {
					marked = append(marked, tok.Term)
				}
			}
			assert.Equal(t, []string{tt.want}, marked)
		})
	}
}

func TestCodeFuncnameAppliesToEveryMatchingTokenOnLine(t *testing.T) {
	// The captured name marks every occurrence of that identifier on the
	// same line, not just the one inside the definition.
	tokens, _, _ := tokenizeString(t, "func retry() { retry }\n", types.DocTypeCode)
	var metas []types.MetaMask
	for _, tok := range tokens {
		if tok.Term == "retry" {
			metas = append(metas, tok.Meta)
		}
	}
	require.Len(t, metas, 2)
	assert.True(t, metas[0].Has(types.MetaInFuncname))
	assert.True(t, metas[1].Has(types.MetaInFuncname))
}

func TestLogLevelMeta(t *testing.T) {
	content := "all good here\n" +
		"something ERROR happened\n" +
		"a warning: WARN disk low\n" +
		"error and warn on one line\n"
	tokens, _, _ := tokenizeString(t, content, types.DocTypeLog)

	byLine := map[uint32]types.MetaMask{}
	for _, tok := range tokens {
		byLine[tok.Line] |= tok.Meta
	}

	assert.Equal(t, types.MetaMask(0), byLine[1])
	assert.Equal(t, types.MetaLogError, byLine[2])
	assert.Equal(t, types.MetaLogWarn, byLine[3])
	// ERROR wins when both appear on the same line (case-insensitive).
	assert.Equal(t, types.MetaLogError, byLine[4])
}

func TestLogTimestampBounds(t *testing.T) {
	content := "2025-12-20 10:00:05 ERROR boom\n" +
		"no timestamp here\n" +
		"2025-12-20T10:00:01 WARN soft\n"
	_, tmin, tmax := tokenizeString(t, content, types.DocTypeLog)

	want1 := time.Date(2025, 12, 20, 10, 0, 5, 0, time.UTC).Unix()
	want2 := time.Date(2025, 12, 20, 10, 0, 1, 0, time.UTC).Unix()
	assert.Equal(t, want2, tmin)
	assert.Equal(t, want1, tmax)
}

func TestLogShortLineHasNoTimestamp(t *testing.T) {
	_, tmin, tmax := tokenizeString(t, "short\n", types.DocTypeLog)
	assert.Zero(t, tmin)
	assert.Zero(t, tmax)
}

func TestLogMetaNotAppliedToCode(t *testing.T) {
	tokens, _, _ := tokenizeString(t, "ERROR := errors.New(\"ERROR\")\n", types.DocTypeCode)
	for _, tok := range tokens {
		assert.Equal(t, types.MetaMask(0), tok.Meta&types.MetaLogError)
	}
}

func TestFinalLineWithoutNewline(t *testing.T) {
	tokens, _, _ := tokenizeString(t, "first\nsecond", types.DocTypeCode)
	require.Len(t, tokens, 2)
	assert.Equal(t, uint32(1), tokens[0].Line)
	assert.Equal(t, uint32(2), tokens[1].Line)
	assert.Equal(t, "second", tokens[1].Term)
}

func TestTrailingNewlineDoesNotAddLine(t *testing.T) {
	tokens, _, _ := tokenizeString(t, "only\n", types.DocTypeCode)
	require.Len(t, tokens, 1)
	assert.Equal(t, uint32(1), tokens[0].Line)
}

func TestEmptyFile(t *testing.T) {
	tokens, tmin, tmax := tokenizeString(t, "", types.DocTypeCode)
	assert.Empty(t, tokens)
	assert.Zero(t, tmin)
	assert.Zero(t, tmax)
}

func TestInvalidUTF8BytesAreDropped(t *testing.T) {
	// A stray invalid byte inside an identifier joins the two halves,
	// mirroring lossy decoding that ignores bad bytes.
	tokens, _, _ := tokenizeString(t, "foo\xffbar baz\n", types.DocTypeCode)
	var terms []string
	for _, tok := range tokens {
		terms = append(terms, tok.Term)
	}
	assert.Equal(t, []string{"foobar", "baz"}, terms)
}

func TestCRLFLineEndings(t *testing.T) {
	tokens, _, _ := tokenizeString(t, "alpha\r\nbeta\r\n", types.DocTypeCode)
	require.Len(t, tokens, 2)
	assert.Equal(t, "alpha", tokens[0].Term)
	assert.Equal(t, uint32(2), tokens[1].Line)
}

func TestIdentifiersExcludeLeadingDigits(t *testing.T) {
	tokens, _, _ := tokenizeString(t, "2025 x9 _private 9lives\n", types.DocTypeCode)
	var terms []string
	for _, tok := range tokens {
		terms = append(terms, tok.Term)
	}
	assert.Equal(t, []string{"x9", "_private", "lives"}, terms)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.go"), types.DocTypeCode)
	assert.Error(t, err)
}
