package shard

import (
	"encoding/binary"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func seqOf(docs [][]int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for _, d := range docs {
			if !yield(d) {
				return
			}
		}
	}
}

func readShard(t *testing.T, path string) []uint16 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data)%2 != 0 {
		t.Fatalf("%s has odd byte length %d", path, len(data))
	}
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	return out
}

func TestWriteTokensShardBoundary(t *testing.T) {
	// S5: total token count = 2*shard_size + 7, shard_size = 1024.
	const shardSize = 1024
	tokens := make([]int, 0, 2*shardSize+7)
	for i := 0; i < 2*shardSize+7; i++ {
		tokens = append(tokens, i%65536)
	}

	dir := t.TempDir()
	if err := WriteTokens(seqOf([][]int{tokens}), dir, shardSize, 0); err != nil {
		t.Fatalf("WriteTokens() error = %v", err)
	}

	names := listFiles(t, dir)
	want := []string{"0_train_000000.bin", "0_train_000001.bin", "0_val_000002.bin"}
	if !equalStrings(names, want) {
		t.Fatalf("got files %v, want %v", names, want)
	}

	s0 := readShard(t, filepath.Join(dir, "0_train_000000.bin"))
	s1 := readShard(t, filepath.Join(dir, "0_train_000001.bin"))
	s2 := readShard(t, filepath.Join(dir, "0_val_000002.bin"))

	if len(s0) != shardSize || len(s1) != shardSize || len(s2) != 7 {
		t.Fatalf("shard lengths = %d, %d, %d; want %d, %d, 7", len(s0), len(s1), len(s2), shardSize, shardSize)
	}

	var reassembled []uint16
	reassembled = append(reassembled, s0...)
	reassembled = append(reassembled, s1...)
	reassembled = append(reassembled, s2...)
	if len(reassembled) != len(tokens) {
		t.Fatalf("reassembled length %d, want %d", len(reassembled), len(tokens))
	}
	for i, v := range tokens {
		if int(reassembled[i]) != v%65536 {
			t.Fatalf("token %d = %d, want %d", i, reassembled[i], v)
		}
	}
}

func TestWriteTokensSplitsDocumentAcrossShards(t *testing.T) {
	const shardSize = 4
	docs := [][]int{{1, 2, 3, 4, 5, 6}}

	dir := t.TempDir()
	if err := WriteTokens(seqOf(docs), dir, shardSize, 2); err != nil {
		t.Fatalf("WriteTokens() error = %v", err)
	}

	s0 := readShard(t, filepath.Join(dir, "2_train_000000.bin"))
	s1 := readShard(t, filepath.Join(dir, "2_val_000001.bin"))

	if !equalUint16(s0, []uint16{1, 2, 3, 4}) {
		t.Fatalf("shard 0 = %v", s0)
	}
	if !equalUint16(s1, []uint16{5, 6}) {
		t.Fatalf("shard 1 = %v", s1)
	}
}

func TestWriteTokensSingleShortDocumentIsTrain(t *testing.T) {
	const shardSize = 100
	dir := t.TempDir()
	if err := WriteTokens(seqOf([][]int{{1, 2, 3}}), dir, shardSize, 0); err != nil {
		t.Fatalf("WriteTokens() error = %v", err)
	}

	names := listFiles(t, dir)
	want := []string{"0_train_000000.bin"}
	if !equalStrings(names, want) {
		t.Fatalf("got %v, want %v", names, want)
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func equalStrings(a, b []string) bool {
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

func equalUint16(a, b []uint16) bool {
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
