package bpe

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/bpekit/bpekit/internal/trainer"
)

// writeMerges serializes merges to w using the 16-byte-header format:
// magic "BPEKIT\0\0", format version (uint32), rule count (uint32), then
// rule count (a, b, c uint32) triples, all little-endian.
func writeMerges(w *bufio.Writer, merges []trainer.Rule) error {
	if _, err := w.WriteString(mergeFileMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, mergeFileVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(merges))); err != nil {
		return err
	}
	for _, r := range merges {
		triple := [3]uint32{uint32(r.A), uint32(r.B), uint32(r.C)}
		if err := binary.Write(w, binary.LittleEndian, triple); err != nil {
			return err
		}
	}
	return w.Flush()
}

// readMerges deserializes merges from r, validating the header and the
// §3 rule invariants (c values are dense, start at 256, strictly increasing).
func readMerges(path string, r *bufio.Reader) ([]trainer.Rule, error) {
	header := make([]byte, mergeFileHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, newMalformedMergeFileError(path, fmt.Sprintf("truncated header: %v", err))
	}

	magic := string(header[:8])
	if magic != mergeFileMagic {
		return nil, newMalformedMergeFileError(path, "magic mismatch")
	}
	version := binary.LittleEndian.Uint32(header[8:12])
	if version != mergeFileVersion {
		return nil, newMalformedMergeFileError(path, fmt.Sprintf("unsupported version %d", version))
	}
	count := binary.LittleEndian.Uint32(header[12:16])

	merges := make([]trainer.Rule, 0, count)
	buf := make([]byte, 12)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, newMalformedMergeFileError(path, fmt.Sprintf("truncated at rule %d: %v", i, err))
		}
		a := binary.LittleEndian.Uint32(buf[0:4])
		b := binary.LittleEndian.Uint32(buf[4:8])
		c := binary.LittleEndian.Uint32(buf[8:12])
		rule := trainer.Rule{A: int32(a), B: int32(b), C: int32(c)}

		wantC := int32(baseByteVocabSize) + int32(i)
		if rule.C != wantC {
			return nil, newMalformedMergeFileError(path, fmt.Sprintf("rule %d has c=%d, want %d", i, rule.C, wantC))
		}
		merges = append(merges, rule)
	}

	if uint32(len(merges)) != count {
		return nil, newMalformedMergeFileError(path, "rule count does not match header")
	}

	return merges, nil
}

// Save persists t's merge list to path in the format described in persist.go.
func (t *Tokenizer) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save merges: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeMerges(w, t.merges); err != nil {
		return fmt.Errorf("save merges: %w", err)
	}
	return nil
}

// Load reconstructs a Tokenizer from a merge file previously written by Save.
func Load(path string, opts ...Option) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load merges: %w", err)
	}
	defer f.Close()

	merges, err := readMerges(path, bufio.NewReader(f))
	if err != nil {
		return nil, err
	}

	t, err := New(opts...)
	if err != nil {
		return nil, err
	}
	t.setMerges(merges)
	return t, nil
}
