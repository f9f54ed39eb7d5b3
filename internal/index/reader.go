package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	devserr "github.com/syedafeezu/DevScope/internal/errors"
	"github.com/syedafeezu/DevScope/internal/types"
)

// Reader holds an immutable snapshot of one index: the full document table
// and lexicon in memory, plus an open handle on the postings file for
// random-access fetches. Close releases the handle.
type Reader struct {
	dir     string
	docs    map[types.DocID]types.Document
	lexicon map[string]types.LexiconEntry

	postings     *os.File
	postingsSize int64
}

// Open loads the document table and lexicon from dir and opens the
// postings file. Returns errors.ErrMissingIndex when the directory or an
// artifact is absent; decoding failures surface as MalformedIndexError.
func Open(dir string) (*Reader, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, devserr.ErrMissingIndex
	}

	docs, err := loadDocuments(filepath.Join(dir, DocsFile))
	if err != nil {
		return nil, err
	}
	lexicon, err := loadLexicon(filepath.Join(dir, LexiconFile))
	if err != nil {
		return nil, err
	}

	pf, err := os.Open(filepath.Join(dir, PostingsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, devserr.ErrMissingIndex
		}
		return nil, fmt.Errorf("failed to open postings file: %w", err)
	}
	info, err := pf.Stat()
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("failed to stat postings file: %w", err)
	}

	return &Reader{
		dir:          dir,
		docs:         docs,
		lexicon:      lexicon,
		postings:     pf,
		postingsSize: info.Size(),
	}, nil
}

// Documents returns the document table keyed by DocID. The map is shared;
// callers must not mutate it.
func (r *Reader) Documents() map[types.DocID]types.Document {
	return r.docs
}

// Document looks up one document by ID.
func (r *Reader) Document(id types.DocID) (types.Document, bool) {
	d, ok := r.docs[id]
	return d, ok
}

// TotalDocs returns the number of documents in the index.
func (r *Reader) TotalDocs() int {
	return len(r.docs)
}

// Lookup returns the lexicon entry for a term.
func (r *Reader) Lookup(term string) (types.LexiconEntry, bool) {
	e, ok := r.lexicon[term]
	return e, ok
}

// TermCount returns the number of lexicon entries.
func (r *Reader) TermCount() int {
	return len(r.lexicon)
}

// Terms returns all lexicon terms in ascending byte order.
func (r *Reader) Terms() []string {
	terms := make([]string, 0, len(r.lexicon))
	for t := range r.lexicon {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// FetchPostings reads the df posting records starting at the entry's
// offset. Positions are fully decoded; the byte stream is advanced exactly
// one record at a time so a malformed record is reported at its offset.
func (r *Reader) FetchPostings(e types.LexiconEntry) ([]types.Posting, error) {
	if int64(e.Offset) > r.postingsSize {
		return nil, devserr.NewMalformedIndexError(PostingsFile, int64(e.Offset), "offset beyond end of file", nil)
	}

	section := io.NewSectionReader(r.postings, int64(e.Offset), r.postingsSize-int64(e.Offset))
	br := bufio.NewReader(section)
	offset := int64(e.Offset)

	postings := make([]types.Posting, 0, e.DF)
	var header [postingHeaderSize]byte
	for i := uint32(0); i < e.DF; i++ {
		if _, err := io.ReadFull(br, header[:]); err != nil {
			return nil, devserr.NewMalformedIndexError(PostingsFile, offset, "truncated posting header", err)
		}
		docID := types.DocID(binary.LittleEndian.Uint32(header[0:4]))
		freq := binary.LittleEndian.Uint32(header[4:8])
		meta := types.MetaMask(header[8])
		posCount := binary.LittleEndian.Uint32(header[9:13])

		if int64(posCount)*4 > r.postingsSize-offset-postingHeaderSize {
			return nil, devserr.NewMalformedIndexError(PostingsFile, offset, fmt.Sprintf("impossible position count %d", posCount), nil)
		}

		positions := make([]uint32, posCount)
		var pos [4]byte
		for j := uint32(0); j < posCount; j++ {
			if _, err := io.ReadFull(br, pos[:]); err != nil {
				return nil, devserr.NewMalformedIndexError(PostingsFile, offset, "truncated posting positions", err)
			}
			positions[j] = binary.LittleEndian.Uint32(pos[:])
		}

		postings = append(postings, types.Posting{
			DocID:     docID,
			Freq:      freq,
			Meta:      meta,
			Positions: positions,
		})
		offset += postingHeaderSize + int64(posCount)*4
	}
	return postings, nil
}

// Close releases the postings file handle.
func (r *Reader) Close() error {
	return r.postings.Close()
}

// loadDocuments streams the document table from byte 0 to EOF.
func loadDocuments(path string) (map[types.DocID]types.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, devserr.ErrMissingIndex
		}
		return nil, fmt.Errorf("failed to open document table: %w", err)
	}
	defer f.Close()

	docs := make(map[types.DocID]types.Document)
	br := bufio.NewReader(f)
	var offset int64

	var header [docHeaderSize]byte
	var tail [docTailSize]byte
	for {
		if _, err := io.ReadFull(br, header[:]); err != nil {
			if err == io.EOF {
				return docs, nil
			}
			return nil, devserr.NewMalformedIndexError(DocsFile, offset, "truncated document header", err)
		}
		id := types.DocID(binary.LittleEndian.Uint32(header[0:4]))
		docType := types.DocType(header[4])
		pathLen := binary.LittleEndian.Uint16(header[5:7])

		pathBytes := make([]byte, pathLen)
		if _, err := io.ReadFull(br, pathBytes); err != nil {
			return nil, devserr.NewMalformedIndexError(DocsFile, offset, "truncated document path", err)
		}
		if _, err := io.ReadFull(br, tail[:]); err != nil {
			return nil, devserr.NewMalformedIndexError(DocsFile, offset, "truncated document time bounds", err)
		}

		docs[id] = types.Document{
			ID:   id,
			Type: docType,
			Path: string(pathBytes),
			TMin: int64(binary.LittleEndian.Uint64(tail[0:8])),
			TMax: int64(binary.LittleEndian.Uint64(tail[8:16])),
		}
		offset += docHeaderSize + int64(pathLen) + docTailSize
	}
}

// loadLexicon streams the lexicon into a term map. The last record wins if
// a term is duplicated; a well-formed writer never produces duplicates.
func loadLexicon(path string) (map[string]types.LexiconEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, devserr.ErrMissingIndex
		}
		return nil, fmt.Errorf("failed to open lexicon: %w", err)
	}
	defer f.Close()

	lexicon := make(map[string]types.LexiconEntry)
	br := bufio.NewReader(f)
	var offset int64

	var tail [lexiconTailSize]byte
	for {
		termLen, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return lexicon, nil
			}
			return nil, devserr.NewMalformedIndexError(LexiconFile, offset, "truncated term length", err)
		}

		termBytes := make([]byte, termLen)
		if _, err := io.ReadFull(br, termBytes); err != nil {
			return nil, devserr.NewMalformedIndexError(LexiconFile, offset, "truncated term", err)
		}
		if _, err := io.ReadFull(br, tail[:]); err != nil {
			return nil, devserr.NewMalformedIndexError(LexiconFile, offset, "truncated lexicon entry", err)
		}

		lexicon[string(termBytes)] = types.LexiconEntry{
			DF:     binary.LittleEndian.Uint32(tail[0:4]),
			Offset: binary.LittleEndian.Uint64(tail[4:12]),
		}
		offset += 1 + int64(termLen) + lexiconTailSize
	}
}
