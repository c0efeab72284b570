package bpe

import "regexp"

// Pretokenize splits text into non-overlapping, order-preserving byte
// blocks using pattern. Unmatched runs of text between matches are dropped,
// matching regexp.FindAllStringIndex's non-overlapping match semantics:
// the default pattern is constructed so its alternatives already cover
// every input character, but a caller-supplied pattern may be narrower.
func Pretokenize(text string, pattern *regexp.Regexp) [][]byte {
	if text == "" {
		return nil
	}

	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([][]byte, 0, len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]
		if end <= start {
			continue
		}
		blocks = append(blocks, []byte(text[start:end]))
	}
	return blocks
}
