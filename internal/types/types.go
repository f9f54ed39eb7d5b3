// Package types holds the core value types shared by the indexing and
// search packages. Everything here is plain data with fixed on-disk widths;
// the binary layouts themselves live in internal/index.
package types

// DocID is a dense, 1-based document identifier assigned in walk order.
// IDs are never reused and never have gaps: a file that produces no
// document does not consume an ID.
type DocID uint32

// DocType classifies an indexed file. It is stored as a single byte.
type DocType uint8

const (
	DocTypeCode DocType = 0
	DocTypeLog  DocType = 1
)

// String returns a human-readable name for the document type.
func (t DocType) String() string {
	switch t {
	case DocTypeCode:
		return "code"
	case DocTypeLog:
		return "log"
	default:
		return "unknown"
	}
}

// MetaMask is a bitmask over a single byte describing the context in which
// a term occurred. The per-posting mask is the OR of all occurrence masks
// for that (term, document) pair.
type MetaMask uint8

const (
	// MetaInFilename is reserved in the on-disk format and never set
	// by the indexer.
	MetaInFilename MetaMask = 1 << 0

	// MetaInFuncname marks an occurrence that equals the identifier
	// captured by a definition pattern on the same line of a code file.
	MetaInFuncname MetaMask = 1 << 1

	// MetaLogError marks an occurrence on a log line whose uppercased
	// form contains "ERROR".
	MetaLogError MetaMask = 1 << 2

	// MetaLogWarn marks an occurrence on a log line whose uppercased
	// form contains "WARN" but not "ERROR".
	MetaLogWarn MetaMask = 1 << 3
)

// Has reports whether all bits of flag are set in the mask.
func (m MetaMask) Has(flag MetaMask) bool {
	return m&flag == flag
}

// Document is the per-file metadata persisted in the document table.
// TMin and TMax are unix seconds; zero means unknown. Code documents
// always carry zero time bounds. Invariant: TMin == 0 or TMin <= TMax.
type Document struct {
	ID   DocID
	Type DocType
	Path string
	TMin int64
	TMax int64
}

// Posting records the occurrences of one term in one document. Positions
// are 1-based line numbers in emission order; Freq always equals
// len(Positions) in a well-formed index.
type Posting struct {
	DocID     DocID
	Freq      uint32
	Meta      MetaMask
	Positions []uint32
}

// LexiconEntry locates a term's posting list in the postings file.
// DF is the number of posting records starting at Offset.
type LexiconEntry struct {
	DF     uint32
	Offset uint64
}

// RankedHit is one scored document in a search result set, ordered by
// descending score with ascending DocID as the tie-break.
type RankedHit struct {
	DocID DocID
	Path  string
	Score float64
}
