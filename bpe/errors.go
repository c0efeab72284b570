package bpe

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidVocabSize indicates a requested vocab_size <= 256.
	ErrInvalidVocabSize = errors.New("vocab size must be greater than 256")

	// ErrEmptyCorpus indicates no block of length >= 2 was supplied to training.
	ErrEmptyCorpus = errors.New("corpus has no block of length >= 2")

	// ErrMalformedMergeFile indicates a merge file failed header or invariant
	// validation on load.
	ErrMalformedMergeFile = errors.New("malformed merge file")
)

// VocabNotReachedError reports that training ran out of pairs worth merging
// before reaching the requested vocabulary size. It is not fatal: the
// *Tokenizer returned alongside it is fully usable with its smaller,
// effective vocabulary.
type VocabNotReachedError struct {
	Requested int // vocab size that was asked for
	Reached   int // effective vocab size actually produced
}

func (e *VocabNotReachedError) Error() string {
	return fmt.Sprintf("vocab not reached: requested %d, reached %d", e.Requested, e.Reached)
}

// MalformedMergeFileError wraps the specific reason a persisted merge file
// was rejected during Load.
type MalformedMergeFileError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedMergeFileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed merge file: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed merge file: %s: %v", e.Reason, e.Err)
}

func (e *MalformedMergeFileError) Unwrap() error {
	return e.Err
}

func newMalformedMergeFileError(path, reason string) error {
	return &MalformedMergeFileError{Path: path, Reason: reason, Err: ErrMalformedMergeFile}
}
