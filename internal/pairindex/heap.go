package pairindex

// candidate is a snapshot of a pair's count at the time it was pushed onto
// the heap. Entries go stale as merges change counts elsewhere; TopPair
// validates a popped entry against the authoritative count before trusting
// it, following the lazy-heap approach spec'd for pair selection.
type candidate struct {
	count int
	a, b  int32
}

// candHeap is a max-heap on count, tied lexicographically on (a, b) so the
// deterministic tie-break required of top-pair selection falls directly out
// of heap ordering instead of a separate scan.
type candHeap []candidate

func (h candHeap) Len() int { return len(h) }

func (h candHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count > h[j].count
	}
	if h[i].a != h[j].a {
		return h[i].a < h[j].a
	}
	return h[i].b < h[j].b
}

func (h candHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *candHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
