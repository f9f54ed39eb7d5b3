// Package index builds, persists, and reads the DevScope inverted index.
//
// An index is three coupled little-endian binary artifacts plus a manifest:
//
//	docs.bin     variable-length document records in DocID order
//	index.bin    concatenated posting lists, located only via the lexicon
//	lexicon.bin  term records carrying df and the posting-list byte offset
//	manifest.json  sizes and xxhash-64 digests of the three artifacts
//
// The artifacts are written once by a single builder and never mutated;
// readers hold immutable snapshots.
package index

// Artifact file names inside the index directory.
const (
	DocsFile     = "docs.bin"
	PostingsFile = "index.bin"
	LexiconFile  = "lexicon.bin"
	ManifestFile = "manifest.json"
)

// Fixed record widths. Postings are 13 header bytes plus 4 bytes per
// position; document records are 7 header bytes, the path, and a 16-byte
// time-bounds tail; lexicon records are the length-prefixed term plus a
// 16-byte tail (df, offset, reserved).
const (
	docHeaderSize     = 7
	docTailSize       = 16
	postingHeaderSize = 13
	lexiconTailSize   = 16

	// MaxTermBytes is the lexicon key limit. Longer terms are truncated
	// to this byte prefix, even when that splits a codepoint; the byte
	// prefix is authoritative for the on-disk format.
	MaxTermBytes = 255

	// MaxPathBytes bounds the document path field (u16 length prefix).
	MaxPathBytes = 65535
)
