package pairindex

import "testing"

func toBlock(s string) []int32 {
	b := make([]int32, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = int32(s[i])
	}
	return b
}

func TestTopPairTieBreak(t *testing.T) {
	// blocks "ab", "ab", "cd", "cd": (a,b) and (c,d) both occur twice and
	// no other pair occurs; (a,b) must win lexicographically.
	idx := New([][]int32{toBlock("ab"), toBlock("ab"), toBlock("cd"), toBlock("cd")})

	pair, count, ok := idx.TopPair()
	if !ok {
		t.Fatal("expected a top pair")
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if want := (Pair{'a', 'b'}); pair != want {
		t.Fatalf("pair = %v, want %v", pair, want)
	}
}

func TestMergeGreedyNonOverlap(t *testing.T) {
	// merging (a,a) -> c on "aaaaa" must yield "c c a", not "a c c" or "c a c".
	idx := New([][]int32{toBlock("aaaaa")})

	pair := Pair{'a', 'a'}
	got, count, ok := idx.TopPair()
	if !ok || got != pair {
		t.Fatalf("expected (a,a) as top pair, got pair=%v ok=%v count=%d", got, ok, count)
	}

	newID := int32(256)
	idx.Merge(pair, newID)

	blocks := idx.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	want := []int32{newID, newID, 'a'}
	if !equalSlice(blocks[0], want) {
		t.Fatalf("got %v, want %v", blocks[0], want)
	}
}

func TestMergeFourInARow(t *testing.T) {
	idx := New([][]int32{toBlock("aaaa")})
	idx.Merge(Pair{'a', 'a'}, 256)

	got := idx.Blocks()
	want := []int32{256, 256}
	if !equalSlice(got[0], want) {
		t.Fatalf("got %v, want %v", got[0], want)
	}
}

func TestBuildIgnoresShortBlocks(t *testing.T) {
	idx := New([][]int32{{}, {int32('a')}, toBlock("ab")})
	_, count, ok := idx.TopPair()
	if !ok || count != 1 {
		t.Fatalf("expected single (a,b) occurrence, got ok=%v count=%d", ok, count)
	}
}

func TestMergeNoOccurrencesIsNoop(t *testing.T) {
	idx := New([][]int32{toBlock("abc")})
	merged := idx.Merge(Pair{'x', 'y'}, 999)
	if merged != 0 {
		t.Fatalf("expected 0 merges, got %d", merged)
	}
}

func TestCombinePartitions(t *testing.T) {
	p1 := BuildPartial([][]int32{toBlock("aaab")})
	p2 := BuildPartial([][]int32{toBlock("aaab")})

	combined := Combine([]*Partial{p1, p2})
	pair, count, ok := combined.TopPair()
	if !ok {
		t.Fatal("expected a top pair")
	}
	if want := (Pair{'a', 'a'}); pair != want {
		t.Fatalf("pair = %v, want %v", pair, want)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4 (2 occurrences x 2 partitions)", count)
	}
}

func equalSlice(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
