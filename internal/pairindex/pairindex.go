// Package pairindex maintains adjacent-pair frequency counts and occurrence
// positions across a collection of byte blocks, supporting incremental
// merges without rescanning the corpus.
//
// Each block is an arena of nodes linked by prev/next slice indices (-1
// marks "no neighbor"). A node's symbol is tombstoned to deadSymbol once
// merged away; occurrence lists are append-only and validated lazily
// against live node state at scan time, so entries never need to be
// spliced out of the middle of a slice.
package pairindex

import "container/heap"

const deadSymbol = int32(-1)

// Pair is an ordered pair of adjacent symbol ids.
type Pair [2]int32

// Index is the mutable, single-owner pair-frequency structure used during
// training. It is not safe for concurrent use; see BuildPartial and Combine
// for the parallel-prelude path described for the training phase.
type Index struct {
	sym  []int32
	prev []int32
	next []int32

	counts map[Pair]int
	occ    map[Pair][]int32

	h candHeap
}

// New builds an Index over blocks in a single pass. blocks of length < 2
// contribute no pairs but are otherwise accepted.
func New(blocks [][]int32) *Index {
	idx := &Index{
		counts: make(map[Pair]int),
		occ:    make(map[Pair][]int32),
	}
	idx.appendBlocks(blocks)
	idx.rebuildHeap()
	return idx
}

// appendBlocks extends the arena with additional blocks, wiring block-local
// prev/next links and seeding pair counts/occurrences for adjacent symbols.
// It never links across block boundaries.
func (idx *Index) appendBlocks(blocks [][]int32) {
	for _, block := range blocks {
		n := len(block)
		if n == 0 {
			continue
		}
		base := int32(len(idx.sym))
		for _, s := range block {
			idx.sym = append(idx.sym, s)
			idx.prev = append(idx.prev, -1)
			idx.next = append(idx.next, -1)
		}
		for i := 0; i < n; i++ {
			node := base + int32(i)
			if i > 0 {
				idx.prev[node] = node - 1
			}
			if i < n-1 {
				idx.next[node] = node + 1
			}
		}
		for i := 0; i < n-1; i++ {
			node := base + int32(i)
			p := Pair{block[i], block[i+1]}
			idx.counts[p]++
			idx.occ[p] = append(idx.occ[p], node)
		}
	}
}

func (idx *Index) rebuildHeap() {
	idx.h = idx.h[:0]
	for p, c := range idx.counts {
		if c > 0 {
			idx.h = append(idx.h, candidate{count: c, a: p[0], b: p[1]})
		}
	}
	heap.Init(&idx.h)
}

// TopPair returns the pair with maximum count, ties broken by lexicographic
// order on (a, b). ok is false once no pair with count > 0 remains.
func (idx *Index) TopPair() (p Pair, count int, ok bool) {
	for idx.h.Len() > 0 {
		top := heap.Pop(&idx.h).(candidate)
		cand := Pair{top.a, top.b}
		if live := idx.counts[cand]; live == top.count && live > 0 {
			// Push it back: another caller may query TopPair again before
			// Merge is called, and Merge itself re-derives the bucket
			// directly rather than relying on heap state.
			heap.Push(&idx.h, top)
			return cand, live, true
		}
		// stale snapshot: count changed since this entry was pushed, drop it.
	}
	return Pair{}, 0, false
}

func (idx *Index) push(p Pair) {
	if c := idx.counts[p]; c > 0 {
		heap.Push(&idx.h, candidate{count: c, a: p[0], b: p[1]})
	}
}

func (idx *Index) dec(a, b int32) {
	p := Pair{a, b}
	c, ok := idx.counts[p]
	if !ok {
		return
	}
	c--
	if c <= 0 {
		delete(idx.counts, p)
		delete(idx.occ, p)
		return
	}
	idx.counts[p] = c
	idx.push(p)
}

func (idx *Index) incAndRecord(a, b int32, leftNode int32) {
	p := Pair{a, b}
	idx.counts[p]++
	idx.occ[p] = append(idx.occ[p], leftNode)
	idx.push(p)
}

// Merge replaces every non-overlapping left-to-right occurrence of pair in
// every block with newID, updating counts and occurrences of all affected
// adjacent pairs. A pair with zero live occurrences is a no-op.
func (idx *Index) Merge(pair Pair, newID int32) (merged int) {
	occurrences := idx.occ[pair]
	a, b := pair[0], pair[1]

	for _, left := range occurrences {
		if idx.sym[left] != a {
			continue
		}
		right := idx.next[left]
		if right == -1 || idx.sym[right] != b {
			continue
		}

		p := idx.prev[left]
		q := idx.next[right]

		var pv, qv int32
		if p != -1 {
			pv = idx.sym[p]
			idx.dec(pv, a)
		}
		if q != -1 {
			qv = idx.sym[q]
			idx.dec(b, qv)
		}

		idx.sym[left] = newID
		idx.sym[right] = deadSymbol
		idx.next[left] = q
		if q != -1 {
			idx.prev[q] = left
		}
		idx.prev[right] = -1
		idx.next[right] = -1

		if p != -1 {
			idx.incAndRecord(pv, newID, p)
		}
		if q != -1 {
			idx.incAndRecord(newID, qv, left)
		}

		merged++
	}

	delete(idx.counts, pair)
	delete(idx.occ, pair)

	return merged
}

// Blocks reconstructs the current symbol sequence of every block, in the
// order blocks were supplied to New/Combine. It is used once training
// completes, and in tests, to read back the post-merge state.
func (idx *Index) Blocks() [][]int32 {
	var out [][]int32
	seen := make([]bool, len(idx.sym))
	for i := range idx.sym {
		if seen[i] || idx.sym[i] == deadSymbol || idx.prev[i] != -1 {
			continue
		}
		var block []int32
		for n := int32(i); n != -1; n = idx.next[n] {
			seen[n] = true
			block = append(block, idx.sym[n])
		}
		out = append(out, block)
	}
	return out
}
