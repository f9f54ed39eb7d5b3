package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// writeResult carries the measurements of one serialized artifact.
type writeResult struct {
	size   int64
	digest uint64
}

// writePostingsAndLexicon serializes the accumulator into the postings and
// lexicon files. Terms are written in ascending byte order; within a term,
// postings are written in ascending DocID order. The lexicon offset of
// each term is the byte position where its posting list begins, the only
// means of locating it — the postings file has no delimiters.
func writePostingsAndLexicon(acc *Accumulator, postingsPath, lexiconPath string) (postings writeResult, lexicon writeResult, total int, err error) {
	pf, err := os.Create(postingsPath)
	if err != nil {
		return postings, lexicon, 0, fmt.Errorf("failed to create postings file: %w", err)
	}
	defer pf.Close()
	lf, err := os.Create(lexiconPath)
	if err != nil {
		return postings, lexicon, 0, fmt.Errorf("failed to create lexicon file: %w", err)
	}
	defer lf.Close()

	pDigest := xxhash.New()
	lDigest := xxhash.New()
	pw := bufio.NewWriter(io.MultiWriter(pf, pDigest))
	lw := bufio.NewWriter(io.MultiWriter(lf, lDigest))

	var offset uint64
	var buf [postingHeaderSize]byte
	var pos [4]byte

	for _, term := range acc.SortedTerms() {
		list := acc.Postings(term)
		startOffset := offset

		for _, p := range list {
			binary.LittleEndian.PutUint32(buf[0:4], uint32(p.DocID))
			binary.LittleEndian.PutUint32(buf[4:8], p.Freq)
			buf[8] = byte(p.Meta)
			binary.LittleEndian.PutUint32(buf[9:13], uint32(len(p.Positions)))
			if _, err := pw.Write(buf[:]); err != nil {
				return postings, lexicon, 0, fmt.Errorf("failed to write posting: %w", err)
			}
			for _, line := range p.Positions {
				binary.LittleEndian.PutUint32(pos[:], line)
				if _, err := pw.Write(pos[:]); err != nil {
					return postings, lexicon, 0, fmt.Errorf("failed to write posting positions: %w", err)
				}
			}
			offset += postingHeaderSize + 4*uint64(len(p.Positions))
			total++
		}

		termBytes := []byte(term)
		if len(termBytes) > MaxTermBytes {
			termBytes = termBytes[:MaxTermBytes]
		}
		var tail [lexiconTailSize]byte
		binary.LittleEndian.PutUint32(tail[0:4], uint32(len(list)))
		binary.LittleEndian.PutUint64(tail[4:12], startOffset)
		binary.LittleEndian.PutUint32(tail[12:16], 0)

		if err := lw.WriteByte(byte(len(termBytes))); err != nil {
			return postings, lexicon, 0, fmt.Errorf("failed to write lexicon entry: %w", err)
		}
		if _, err := lw.Write(termBytes); err != nil {
			return postings, lexicon, 0, fmt.Errorf("failed to write lexicon entry: %w", err)
		}
		if _, err := lw.Write(tail[:]); err != nil {
			return postings, lexicon, 0, fmt.Errorf("failed to write lexicon entry: %w", err)
		}
	}

	if err := pw.Flush(); err != nil {
		return postings, lexicon, 0, fmt.Errorf("failed to flush postings file: %w", err)
	}
	if err := lw.Flush(); err != nil {
		return postings, lexicon, 0, fmt.Errorf("failed to flush lexicon file: %w", err)
	}
	if err := pf.Close(); err != nil {
		return postings, lexicon, 0, fmt.Errorf("failed to close postings file: %w", err)
	}
	if err := lf.Close(); err != nil {
		return postings, lexicon, 0, fmt.Errorf("failed to close lexicon file: %w", err)
	}

	postings = writeResult{size: int64(offset), digest: pDigest.Sum64()}
	lexInfo, err := os.Stat(lexiconPath)
	if err != nil {
		return postings, lexicon, 0, fmt.Errorf("failed to stat lexicon file: %w", err)
	}
	lexicon = writeResult{size: lexInfo.Size(), digest: lDigest.Sum64()}
	return postings, lexicon, total, nil
}
