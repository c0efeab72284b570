package trainer

import (
	"context"
	"testing"
)

func blockOf(s string) []int32 {
	b := make([]int32, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = int32(s[i])
	}
	return b
}

func TestTrainFromBlocksLearnsExpectedMerges(t *testing.T) {
	// "aaabdaaabac", vocab_size=259: classic three-merge walkthrough.
	// round 1: (a,a) is most frequent -> 256
	// round 2: (256,a) and (a,b) tie at count 2; (a,b) is smaller -> 257
	// round 3: (256,257) is now most frequent -> 258
	blocks := [][]int32{blockOf("aaabdaaabac")}

	result := TrainFromBlocks(context.Background(), blocks, 259, Options{})
	if !result.Reached {
		t.Fatalf("expected vocab size to be reached, got %d merges", len(result.Merges))
	}
	if len(result.Merges) != 3 {
		t.Fatalf("expected 3 merges, got %d: %+v", len(result.Merges), result.Merges)
	}

	first := result.Merges[0]
	if first.A != 'a' || first.B != 'a' || first.C != 256 {
		t.Fatalf("first merge = %+v, want (a,a)->256", first)
	}

	for i, r := range result.Merges {
		if r.C != int32(256+i) {
			t.Fatalf("merge %d has C=%d, want %d (rule ids must be dense and ordered)", i, r.C, 256+i)
		}
	}
}

func TestTrainFromBlocksEarlyStopsWhenPairsExhausted(t *testing.T) {
	// A two-byte corpus has exactly one pair; after merging it, the block is
	// a single symbol and no pair remains anywhere. Requesting a huge vocab
	// size must report Reached=false rather than looping forever.
	blocks := [][]int32{blockOf("ab")}

	result := TrainFromBlocks(context.Background(), blocks, 100000, Options{})
	if result.Reached {
		t.Fatalf("expected early stop, got Reached=true with %d merges", len(result.Merges))
	}
	if len(result.Merges) != 1 {
		t.Fatalf("expected exactly 1 merge (a,b)->256 before exhaustion, got %d", len(result.Merges))
	}
}

func TestTrainFromBlocksRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocks := [][]int32{blockOf("aaaaaaaaaa")}
	result := TrainFromBlocks(ctx, blocks, 300, Options{})
	if result.Reached {
		t.Fatal("expected Reached=false on an already-cancelled context")
	}
	if len(result.Merges) != 0 {
		t.Fatalf("expected no merges learned before the cancellation check, got %d", len(result.Merges))
	}
}

func TestTrainFromBlocksParallelPreludeMatchesSerial(t *testing.T) {
	blocks := make([][]int32, 0, 8)
	for i := 0; i < 8; i++ {
		blocks = append(blocks, blockOf("aaabdaaabac"))
	}

	serial := TrainFromBlocks(context.Background(), blocks, 259, Options{Workers: 1})
	parallel := TrainFromBlocks(context.Background(), blocks, 259, Options{Workers: 4})

	if len(serial.Merges) != len(parallel.Merges) {
		t.Fatalf("merge count mismatch: serial=%d parallel=%d", len(serial.Merges), len(parallel.Merges))
	}
	for i := range serial.Merges {
		if serial.Merges[i] != parallel.Merges[i] {
			t.Fatalf("merge %d differs: serial=%+v parallel=%+v", i, serial.Merges[i], parallel.Merges[i])
		}
	}
}
