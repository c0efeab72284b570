package pairindex

// Partial is a disjoint partial index built by one prelude worker over its
// own slice of blocks. It carries no heap: combining partials is a bulk
// operation performed once by a single owner, and the heap is rebuilt after
// the combine rather than merged incrementally.
type Partial struct {
	sym, prev, next []int32
	counts          map[Pair]int
	occ             map[Pair][]int32
}

// BuildPartial indexes one partition of blocks independently of any other
// partition. Safe to call concurrently across partitions since each call
// owns its own arena.
func BuildPartial(blocks [][]int32) *Partial {
	idx := &Index{counts: make(map[Pair]int), occ: make(map[Pair][]int32)}
	idx.appendBlocks(blocks)
	return &Partial{sym: idx.sym, prev: idx.prev, next: idx.next, counts: idx.counts, occ: idx.occ}
}

// Combine merges partial indices built over disjoint block partitions into
// a single Index ready for the serial merge loop. No partition's arena
// overlaps another's, so combining is pure concatenation plus a summed
// count/occurrence merge - no synchronization is required because every
// input partial is already finalized.
func Combine(parts []*Partial) *Index {
	idx := &Index{counts: make(map[Pair]int), occ: make(map[Pair][]int32)}

	for _, part := range parts {
		offset := int32(len(idx.sym))
		idx.sym = append(idx.sym, part.sym...)
		for _, p := range part.prev {
			if p == -1 {
				idx.prev = append(idx.prev, -1)
			} else {
				idx.prev = append(idx.prev, p+offset)
			}
		}
		for _, n := range part.next {
			if n == -1 {
				idx.next = append(idx.next, -1)
			} else {
				idx.next = append(idx.next, n+offset)
			}
		}
		for pair, c := range part.counts {
			idx.counts[pair] += c
		}
		for pair, nodes := range part.occ {
			shifted := make([]int32, len(nodes))
			for i, n := range nodes {
				shifted[i] = n + offset
			}
			idx.occ[pair] = append(idx.occ[pair], shifted...)
		}
	}

	idx.rebuildHeap()
	return idx
}
