// Package search plans queries against a DevScope index and produces
// ranked results.
package search

import "strings"

// Filter prefixes recognized by the query planner.
const (
	extPrefix   = "ext:"
	levelPrefix = "level:"
)

// Query is a planned query: the conjunctive term list plus the structured
// filters split out of the raw string.
type Query struct {
	Terms []string
	Ext   string // lowercased path suffix filter; empty when unset
	Level string // uppercased log level filter; empty when unset
}

// Parse splits a whitespace-tokenized query string into filters and terms.
// Later filter tokens overwrite earlier ones; everything that is not a
// filter is a term. A query with no terms is valid and matches nothing.
func Parse(raw string) Query {
	var q Query
	for _, part := range strings.Fields(raw) {
		switch {
		case strings.HasPrefix(part, extPrefix):
			q.Ext = strings.ToLower(part[len(extPrefix):])
		case strings.HasPrefix(part, levelPrefix):
			q.Level = strings.ToUpper(part[len(levelPrefix):])
		default:
			q.Terms = append(q.Terms, part)
		}
	}
	return q
}

// IsEmpty reports whether the query has no terms to match.
func (q Query) IsEmpty() bool {
	return len(q.Terms) == 0
}
