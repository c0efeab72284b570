// Package bpe implements a byte-pair-encoding tokenizer: training a merge
// list from pre-tokenized byte blocks and applying it to encode and decode
// arbitrary UTF-8 text.
package bpe

// DefaultPattern matches runs of letters, digits and underscores, and runs
// of other non-space characters, each optionally prefixed by one whitespace
// character, plus runs of whitespace - the default pre-tokenization
// boundary used when no WithPattern option is given. A whitespace run is
// always matched whole: a word that follows two or more whitespace
// characters gets no whitespace prefix, and the (?:\s$)? group never
// changes a match.
const DefaultPattern = `\s?[\p{L}\p{N}_]+|\s?[^\s\p{L}\p{N}_]+|\s+(?:\s$)?|\s+`

// mergeFileMagic identifies a persisted merge-list file.
const mergeFileMagic = "BPEKIT\x00\x00"

// mergeFileVersion is the only format version this package writes or reads.
const mergeFileVersion uint32 = 1

// mergeFileHeaderSize is the magic (8 bytes) plus version (4 bytes) plus
// rule count (4 bytes).
const mergeFileHeaderSize = 16

// baseByteVocabSize is the number of reserved raw-byte symbol ids, 0..255.
const baseByteVocabSize = 256

// defaultCacheSize of 0 means unlimited (a plain map, no eviction).
const defaultCacheSize = 0

// defaultWorkers of 1 disables both the training prelude's and
// EncodeStream's parallelism.
const defaultWorkers = 1
