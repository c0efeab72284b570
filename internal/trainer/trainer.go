// Package trainer drives the byte-pair-encoding merge loop on top of a
// pairindex.Index: pick the highest-count pair, assign it the next free
// symbol id, merge it, record the rule, repeat.
package trainer

import (
	"context"
	"sort"

	"github.com/bpekit/bpekit/internal/pairindex"
)

// Rule is a single learned merge: the pair (A, B) is represented by C from
// this point on. C always equals 256 plus this rule's index in the Result.
type Rule struct {
	A, B, C int32
}

// Options configures the training run.
type Options struct {
	// Workers bounds the number of goroutines used to build the pair index
	// over disjoint block partitions before the serial merge loop starts.
	// Workers <= 1 builds the index on the calling goroutine.
	Workers int
}

// Result is the outcome of a training run.
type Result struct {
	Merges []Rule
	// Reached is false when the merge loop ran out of pairs entirely
	// before reaching the requested vocabulary size. The caller surfaces
	// this as VocabNotReached; Merges still holds every rule learned so
	// far.
	Reached bool
}

// TrainFromBlocks learns an ordered merge list from pre-tokenized byte
// blocks. vocabSize must be > 256; callers are expected to have validated
// that and non-emptiness before calling (see bpe.Tokenizer.TrainFromBlocks).
// ctx is checked once per merge: cancellation returns the partial result
// collected so far, with Reached set to false.
func TrainFromBlocks(ctx context.Context, blocks [][]int32, vocabSize int, opts Options) Result {
	idx := buildIndex(blocks, opts.Workers)

	target := vocabSize - 256
	merges := make([]Rule, 0, target)

	for i := 0; i < target; i++ {
		select {
		case <-ctx.Done():
			return Result{Merges: merges, Reached: false}
		default:
		}

		pair, _, ok := idx.TopPair()
		if !ok {
			// No pair remains anywhere in the corpus: every block has been
			// reduced to a single symbol, or was too short to contribute a
			// pair in the first place. Training cannot make progress.
			return Result{Merges: merges, Reached: false}
		}

		newID := int32(256 + i)
		idx.Merge(pair, newID)
		merges = append(merges, Rule{A: pair[0], B: pair[1], C: newID})
	}

	return Result{Merges: merges, Reached: true}
}

// buildIndex builds the initial pair index, optionally splitting blocks
// across workers workers for the prelude. The merge loop that follows
// always runs serially regardless of how the prelude was parallelized.
func buildIndex(blocks [][]int32, workers int) *pairindex.Index {
	if workers <= 1 || len(blocks) <= 1 {
		return pairindex.New(blocks)
	}
	if workers > len(blocks) {
		workers = len(blocks)
	}

	partitions := partitionBlocks(blocks, workers)
	partials := make([]*pairindex.Partial, len(partitions))

	results := make(chan struct {
		i int
		p *pairindex.Partial
	}, len(partitions))
	for i, part := range partitions {
		go func(i int, part [][]int32) {
			results <- struct {
				i int
				p *pairindex.Partial
			}{i, pairindex.BuildPartial(part)}
		}(i, part)
	}
	for range partitions {
		r := <-results
		partials[r.i] = r.p
	}

	return pairindex.Combine(partials)
}

func partitionBlocks(blocks [][]int32, workers int) [][][]int32 {
	out := make([][][]int32, workers)
	for i, block := range blocks {
		w := i % workers
		out[w] = append(out[w], block)
	}
	// Drop empty partitions so Combine never sees a degenerate worker.
	nonEmpty := out[:0]
	for _, p := range out {
		if len(p) > 0 {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return nonEmpty
}

// SortedByC returns a copy of merges sorted by the C field, which is already
// their natural order for a list produced by TrainFromBlocks.
func SortedByC(merges []Rule) []Rule {
	out := make([]Rule, len(merges))
	copy(out, merges)
	sort.Slice(out, func(i, j int) bool { return out[i].C < out[j].C })
	return out
}
