// Package bpeencode applies an already-learned ordered list of merge rules
// to a byte block, using a doubly linked list of candidate merges plus a
// min-heap keyed on rule rank so the lowest-ranked (earliest learned) merge
// always applies first, with ties broken by leftmost position.
package bpeencode

import (
	"container/heap"

	"github.com/bpekit/bpekit/internal/trainer"
)

type pairKey [2]int32

// Encoder applies a fixed, trained merge list to arbitrary byte blocks.
type Encoder struct {
	rank    map[pairKey]int32
	mergeTo map[pairKey]int32
}

// New builds an Encoder from merges in the order they were learned; merges
// must already be sorted by C (see trainer.SortedByC) since rule rank is
// derived from list position, not from the C field directly.
func New(merges []trainer.Rule) *Encoder {
	e := &Encoder{
		rank:    make(map[pairKey]int32, len(merges)),
		mergeTo: make(map[pairKey]int32, len(merges)),
	}
	for i, r := range merges {
		k := pairKey{r.A, r.B}
		e.rank[k] = int32(i)
		e.mergeTo[k] = r.C
	}
	return e
}

// Encode reduces block to its final token sequence by repeatedly applying
// the lowest-rank eligible merge until none remain.
func (e *Encoder) Encode(block []int32) []int32 {
	if len(block) <= 1 {
		out := make([]int32, len(block))
		copy(out, block)
		return out
	}

	first := e.buildList(block)
	pq := newMergeQueue()
	for n := first; n != nil && n.next != nil; n = n.next {
		e.tryQueue(n, pq)
	}

	for pq.Len() > 0 {
		left := heap.Pop(pq).(*mergeNode)
		if !validMerge(left) {
			continue
		}
		first = e.applyMerge(left, first, pq)
	}

	result := make([]int32, 0, len(block))
	for n := first; n != nil; n = n.next {
		result = append(result, n.tokenID)
	}
	return result
}

func (e *Encoder) buildList(block []int32) *mergeNode {
	first := &mergeNode{origPos: 0, tokenID: block[0]}
	prev := first
	for i := 1; i < len(block); i++ {
		n := &mergeNode{origPos: i, tokenID: block[i], prev: prev}
		prev.next = n
		prev = n
	}
	return first
}

// tryQueue checks whether left and left.next form a known merge rule and, if
// so, records the rule's rank/result on left and pushes it onto pq.
func (e *Encoder) tryQueue(left *mergeNode, pq *mergeQueue) {
	if left.next == nil {
		return
	}
	k := pairKey{left.tokenID, left.next.tokenID}
	rank, ok := e.rank[k]
	if !ok {
		return
	}
	left.rank = rank
	left.mergeTo = e.mergeTo[k]
	heap.Push(pq, left)
}

func validMerge(n *mergeNode) bool {
	return n != nil && !n.deleted && n.next != nil && !n.next.deleted
}

// applyMerge merges left with left.next into a single node carrying the
// rule's result id, relinks neighbors, and queues any newly adjacent pairs
// that now also match a merge rule.
//
// left.prev is not mutated in place: a heap entry may already be queued for
// it under its old (now stale) rank. Instead a fresh copy replaces it and
// the original is marked deleted, so the stale heap entry is recognized as
// invalid the next time it is popped rather than silently reused.
func (e *Encoder) applyMerge(left, first *mergeNode, pq *mergeQueue) *mergeNode {
	right := left.next
	left.deleted = true
	right.deleted = true

	if left.prev != nil {
		first = e.replacePrev(left, first)
	}

	merged := &mergeNode{
		origPos: left.origPos,
		tokenID: left.mergeTo,
		prev:    left.prev,
		next:    right.next,
	}

	if merged.prev != nil {
		merged.prev.next = merged
		e.tryQueue(merged.prev, pq)
	} else {
		first = merged
	}
	if merged.next != nil {
		merged.next.prev = merged
		e.tryQueue(merged, pq)
	}

	return first
}

// replacePrev swaps left.prev for a fresh, identical copy and marks the
// original deleted.
func (e *Encoder) replacePrev(left, first *mergeNode) *mergeNode {
	old := left.prev
	old.deleted = true

	fresh := &mergeNode{
		origPos: old.origPos,
		tokenID: old.tokenID,
		prev:    old.prev,
		next:    old.next,
	}
	left.prev = fresh

	if fresh.prev != nil {
		fresh.prev.next = fresh
	} else {
		first = fresh
	}
	return first
}
