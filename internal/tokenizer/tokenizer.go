// Package tokenizer streams term occurrences out of code and log files.
//
// A Tokenizer is a lazy, finite, non-restartable sequence over one file
// handle: callers drain it once with Next and then read the accumulated
// time bounds and error state. Tokens are emitted in file order, line by
// line and left to right within a line; line numbers are 1-based.
package tokenizer

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/syedafeezu/DevScope/internal/types"
)

var (
	// identPattern matches the terms recorded in the index.
	identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

	// defPattern captures the identifier introduced by a function or type
	// definition; at most the first match per line is used.
	defPattern = regexp.MustCompile(`(func|def|function|class|struct)\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// timestampLayout is the log timestamp format after the date/time
// separator has been normalized to 'T'.
const timestampLayout = "2006-01-02T15:04:05"

// Token is one term occurrence with its line number and context mask.
type Token struct {
	Term string
	Line uint32
	Meta types.MetaMask
}

// Tokenizer scans one file and yields its tokens. Close must be called on
// every open Tokenizer, including after errors.
type Tokenizer struct {
	f       *os.File
	r       *bufio.Reader
	docType types.DocType

	line    uint32
	pending []Token
	next    int

	tmin, tmax int64
	err        error
	done       bool
}

// Open prepares a tokenizer for the file at path.
func Open(path string, docType types.DocType) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{
		f:       f,
		r:       bufio.NewReader(f),
		docType: docType,
	}, nil
}

// Next returns the next token in file order. The second return value is
// false when the sequence is exhausted or a read error occurred; check Err
// to tell the two apart.
func (t *Tokenizer) Next() (Token, bool) {
	for t.next >= len(t.pending) {
		if !t.readLine() {
			return Token{}, false
		}
	}
	tok := t.pending[t.next]
	t.next++
	return tok, true
}

// TimeBounds returns the minimum and maximum log timestamps seen so far,
// in unix seconds. Both are zero when no line carried a parseable
// timestamp. Code files always report zero bounds.
func (t *Tokenizer) TimeBounds() (int64, int64) {
	return t.tmin, t.tmax
}

// Err reports the read error that terminated the sequence, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Close releases the underlying file handle.
func (t *Tokenizer) Close() error {
	return t.f.Close()
}

// readLine pulls the next line from the file and tokenizes it into the
// pending buffer. Returns false when the file is exhausted or errored.
func (t *Tokenizer) readLine() bool {
	if t.done {
		return false
	}
	raw, err := t.r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		t.err = err
		t.done = true
		return false
	}
	if err == io.EOF {
		t.done = true
		if len(raw) == 0 {
			// Trailing newline on the previous line; no extra line.
			return false
		}
	}

	t.line++
	line := sanitizeUTF8(trimLineEnding(raw))
	t.pending = t.pending[:0]
	t.next = 0
	t.scanLine(line)
	return true
}

// scanLine computes the line's context and emits one token per identifier.
func (t *Tokenizer) scanLine(line string) {
	var lineMeta types.MetaMask
	var funcName string

	if t.docType == types.DocTypeLog {
		if ts := parseTimestamp(line); ts > 0 {
			if t.tmin == 0 || ts < t.tmin {
				t.tmin = ts
			}
			if ts > t.tmax {
				t.tmax = ts
			}
		}
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "ERROR") {
			lineMeta |= types.MetaLogError
		} else if strings.Contains(upper, "WARN") {
			lineMeta |= types.MetaLogWarn
		}
	} else {
		if m := defPattern.FindStringSubmatch(line); m != nil {
			funcName = m[2]
		}
	}

	for _, term := range identPattern.FindAllString(line, -1) {
		meta := lineMeta
		if t.docType == types.DocTypeCode && funcName != "" && term == funcName {
			meta |= types.MetaInFuncname
		}
		t.pending = append(t.pending, Token{Term: term, Line: t.line, Meta: meta})
	}
}

// parseTimestamp extracts a unix timestamp from the head of a log line.
// The first 19 bytes are taken with spaces normalized to 'T', then parsed
// as YYYY-MM-DDTHH:MM:SS in UTC. Returns 0 when no timestamp is present.
func parseTimestamp(line string) int64 {
	if len(line) < 19 {
		return 0
	}
	chunk := strings.ReplaceAll(line[:19], " ", "T")
	ts, err := time.Parse(timestampLayout, chunk)
	if err != nil {
		return 0
	}
	return ts.Unix()
}

// trimLineEnding strips the trailing newline and a carriage return left
// over from CRLF line endings.
func trimLineEnding(raw []byte) []byte {
	if n := len(raw); n > 0 && raw[n-1] == '\n' {
		raw = raw[:n-1]
	}
	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
	}
	return raw
}

// sanitizeUTF8 drops invalid UTF-8 bytes, joining the runs around them.
// Dropping rather than replacing keeps an identifier split only by stray
// bytes as a single term.
func sanitizeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		b.Write(raw[i : i+size])
		i += size
	}
	return b.String()
}
