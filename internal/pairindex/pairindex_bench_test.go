package pairindex

import (
	"strings"
	"testing"
)

// =============================================================================
// Core Component Benchmarks
// =============================================================================

func BenchmarkNew(b *testing.B) {
	blocks := [][]int32{toBlock(strings.Repeat("the quick brown fox ", 50))}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = New(blocks)
	}
}

func BenchmarkTopPair(b *testing.B) {
	blocks := [][]int32{toBlock(strings.Repeat("the quick brown fox ", 50))}
	idx := New(blocks)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = idx.TopPair()
	}
}

func BenchmarkMerge(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		idx := New([][]int32{toBlock(strings.Repeat("the quick brown fox ", 50))})
		pair, _, ok := idx.TopPair()
		if !ok {
			b.Fatal("expected a top pair")
		}
		b.StartTimer()

		idx.Merge(pair, 256)
	}
}

// =============================================================================
// Training-loop simulation: New once, then merge repeatedly, as trainer.go does
// =============================================================================

func BenchmarkMergeLoop(b *testing.B) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		idx := New([][]int32{toBlock(text)})
		b.StartTimer()

		nextID := int32(256)
		for j := 0; j < 64; j++ {
			pair, count, ok := idx.TopPair()
			if !ok || count == 0 {
				break
			}
			idx.Merge(pair, nextID)
			nextID++
		}
	}
}

// =============================================================================
// Parallel prelude: BuildPartial + Combine, as internal/trainer.buildIndex does
// =============================================================================

func BenchmarkBuildPartial(b *testing.B) {
	block := toBlock(strings.Repeat("the quick brown fox jumps over the lazy dog ", 50))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildPartial([][]int32{block})
	}
}

func BenchmarkCombine(b *testing.B) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 50)
	partitions := make([][][]int32, 4)
	for i := range partitions {
		partitions[i] = [][]int32{toBlock(text)}
	}

	parts := make([]*Partial, len(partitions))
	for i, p := range partitions {
		parts[i] = BuildPartial(p)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Combine(parts)
	}
}

// =============================================================================
// Size-based benchmarks
// =============================================================================

func BenchmarkNewBySize(b *testing.B) {
	sizes := []struct {
		name   string
		repeat int
	}{
		{"small", 5},
		{"medium", 50},
		{"large", 500},
	}

	for _, sz := range sizes {
		block := toBlock(strings.Repeat("the quick brown fox jumps over the lazy dog ", sz.repeat))
		b.Run(sz.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = New([][]int32{block})
			}
		})
	}
}
