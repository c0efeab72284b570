package bpeencode

import "container/heap"

// mergeNode represents a position in the token sequence that is eligible to
// merge with the node following it.
type mergeNode struct {
	origPos int   // original position, used to break ties left-to-right
	tokenID int32 // token id at this position
	rank    int32 // rank of the merge rule that would apply here; lower wins
	mergeTo int32 // token id the merge produces
	prev    *mergeNode
	next    *mergeNode
	deleted bool
}

// mergeQueue is a min-heap on (rank, origPos): the earliest-learned rule
// wins, and among nodes tied on rank the leftmost position wins.
type mergeQueue []*mergeNode

func (q mergeQueue) Len() int { return len(q) }

func (q mergeQueue) Less(i, j int) bool {
	if q[i].rank != q[j].rank {
		return q[i].rank < q[j].rank
	}
	return q[i].origPos < q[j].origPos
}

func (q mergeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *mergeQueue) Push(x any) {
	*q = append(*q, x.(*mergeNode))
}

func (q *mergeQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}

func newMergeQueue() *mergeQueue {
	q := &mergeQueue{}
	heap.Init(q)
	return q
}
