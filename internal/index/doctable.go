package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/syedafeezu/DevScope/internal/types"
)

// DocumentTable assigns dense 1-based document IDs and streams the
// document records to disk in assignment order. The caller decides whether
// a file becomes a document; NextID only previews the ID the next accepted
// document will receive.
type DocumentTable struct {
	f      *os.File
	w      *bufio.Writer
	digest *xxhash.Digest

	next   types.DocID
	count  int
	byType map[types.DocType]int
}

// NewDocumentTable creates the table backed by the file at path,
// truncating any previous content.
func NewDocumentTable(path string) (*DocumentTable, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create document table: %w", err)
	}
	return &DocumentTable{
		f:      f,
		w:      bufio.NewWriter(f),
		digest: xxhash.New(),
		next:   1,
		byType: make(map[types.DocType]int),
	}, nil
}

// NextID returns the ID the next appended document will receive.
func (dt *DocumentTable) NextID() types.DocID {
	return dt.next
}

// Count returns the number of documents written so far.
func (dt *DocumentTable) Count() int {
	return dt.count
}

// CountByType returns the number of documents of the given type.
func (dt *DocumentTable) CountByType(t types.DocType) int {
	return dt.byType[t]
}

// Append assigns the next dense ID to doc, writes its record, and returns
// the assigned ID. The document's ID field is ignored on input.
func (dt *DocumentTable) Append(doc types.Document) (types.DocID, error) {
	pathBytes := []byte(doc.Path)
	if len(pathBytes) > MaxPathBytes {
		return 0, fmt.Errorf("document path exceeds %d bytes: %s", MaxPathBytes, doc.Path)
	}

	var header [docHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(dt.next))
	header[4] = byte(doc.Type)
	binary.LittleEndian.PutUint16(header[5:7], uint16(len(pathBytes)))

	var tail [docTailSize]byte
	binary.LittleEndian.PutUint64(tail[0:8], uint64(doc.TMin))
	binary.LittleEndian.PutUint64(tail[8:16], uint64(doc.TMax))

	for _, chunk := range [][]byte{header[:], pathBytes, tail[:]} {
		if _, err := dt.w.Write(chunk); err != nil {
			return 0, fmt.Errorf("failed to write document record: %w", err)
		}
		dt.digest.Write(chunk)
	}

	id := dt.next
	dt.next++
	dt.count++
	dt.byType[doc.Type]++
	return id, nil
}

// Close flushes and closes the table file, returning the xxhash-64 digest
// of everything written.
func (dt *DocumentTable) Close() (uint64, error) {
	if err := dt.w.Flush(); err != nil {
		dt.f.Close()
		return 0, fmt.Errorf("failed to flush document table: %w", err)
	}
	if err := dt.f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close document table: %w", err)
	}
	return dt.digest.Sum64(), nil
}
