package bpeencode

import "github.com/bpekit/bpekit/internal/trainer"

// Decode expands a token sequence back to raw bytes by recursively
// substituting any token id >= 256 with the pair it was merged from, walking
// the rule list from highest id down to the base bytes.
func Decode(tokens []int32, merges []trainer.Rule) []byte {
	expand := make(map[int32][2]int32, len(merges))
	for _, r := range merges {
		expand[r.C] = [2]int32{r.A, r.B}
	}

	var out []byte
	var walk func(id int32)
	walk = func(id int32) {
		if id < 256 {
			out = append(out, byte(id))
			return
		}
		pair, ok := expand[id]
		if !ok {
			return
		}
		walk(pair[0])
		walk(pair[1])
	}

	for _, t := range tokens {
		walk(t)
	}
	return out
}
