// Package shard writes an encoded token stream to fixed-size binary shard
// files suitable for downstream language-model training.
package shard

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// WriteError wraps an I/O failure encountered while writing a shard file,
// propagated to the caller unchanged as required of the shard-writer
// collaborator.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("shard write failed: %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteTokens consumes docs (one token-id slice per document, in corpus
// order) and writes them to fixed-size shardSize-element uint16
// little-endian shard files under dir, named "{rank}_{split}_{index:06d}.bin".
// Every file except possibly the last has exactly shardSize elements; the
// trailing, possibly short, file is labeled "val" when at least one full
// "train" shard preceded it, "train" otherwise - mirroring save_tokens'
// rule that a lone short corpus still counts as training data.
func WriteTokens(docs iter.Seq[[]int], dir string, shardSize, rank int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}

	w := &writer{dir: dir, shardSize: shardSize, rank: rank, split: "train"}

	for tokens := range docs {
		for len(tokens) > 0 && w.count+len(tokens) >= shardSize {
			remainder := shardSize - w.count
			if err := w.appendAndFlush(tokens[:remainder]); err != nil {
				return err
			}
			tokens = tokens[remainder:]
		}
		if len(tokens) > 0 {
			if err := w.append(tokens); err != nil {
				return err
			}
		}
	}

	if w.count != 0 {
		if w.shardIndex > 0 {
			w.split = "val"
		}
		if err := w.flush(); err != nil {
			return err
		}
	}

	return nil
}

// writer accumulates tokens for the current shard and flushes full or
// trailing-short shards to disk.
type writer struct {
	dir        string
	shardSize  int
	rank       int
	split      string
	shardIndex int
	buf        []uint16
	count      int
}

func (w *writer) append(tokens []int) error {
	if w.buf == nil {
		w.buf = make([]uint16, w.shardSize)
	}
	for _, t := range tokens {
		w.buf[w.count] = uint16(t)
		w.count++
	}
	return nil
}

// appendAndFlush fills the remainder of the current shard with tokens
// (exactly shardSize-w.count of them), writes the full shard, and resets
// the buffer for the next one. The "train" label is used unconditionally
// here - only the final trailing flush in WriteTokens may relabel to "val".
func (w *writer) appendAndFlush(tokens []int) error {
	if err := w.append(tokens); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	return nil
}

func (w *writer) flush() error {
	path := filepath.Join(w.dir, fmt.Sprintf("%d_%s_%06d.bin", w.rank, w.split, w.shardIndex))

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	if err := binary.Write(out, binary.LittleEndian, w.buf[:w.count]); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := out.Flush(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	w.shardIndex++
	w.count = 0
	return nil
}
