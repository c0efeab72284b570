package bpe

import (
	"context"
	"regexp"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/bpekit/bpekit/internal/bpeencode"
	"github.com/bpekit/bpekit/internal/trainer"
)

// tokenizerConfig holds configuration accumulated from Options during
// construction.
type tokenizerConfig struct {
	pattern   *regexp.Regexp
	workers   int
	cacheSize int
}

func defaultConfig() *tokenizerConfig {
	return &tokenizerConfig{
		pattern:   regexp.MustCompile(DefaultPattern),
		workers:   defaultWorkers,
		cacheSize: defaultCacheSize,
	}
}

// Tokenizer owns an immutable merge list and exposes training, encoding,
// decoding, and persistence. The zero value is not usable; construct with
// New, (*Tokenizer).TrainFromBlocks, or Load.
type Tokenizer struct {
	merges  []trainer.Rule
	encoder *bpeencode.Encoder

	pattern *regexp.Regexp
	workers int
	cache   *blockCache
}

// New creates an untrained Tokenizer - one with an empty merge list, useful
// only as a base for TrainFromBlocks or as the target of Load. Encoding with
// an untrained Tokenizer returns the input bytes unchanged as one token per
// byte.
func New(opts ...Option) (*Tokenizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	t := &Tokenizer{
		pattern: cfg.pattern,
		workers: cfg.workers,
		cache:   newBlockCache(cfg.cacheSize),
	}
	t.setMerges(nil)
	return t, nil
}

func (t *Tokenizer) setMerges(merges []trainer.Rule) {
	t.merges = merges
	t.encoder = bpeencode.New(merges)
}

// TrainFromBlocks learns a merge list from pre-tokenized byte blocks and
// returns a new, independent Tokenizer - t's configuration (pattern,
// workers, cache size) is carried over but t itself is not mutated.
//
// If the merge loop runs out of pairs worth merging before reaching
// vocabSize, the returned Tokenizer is still valid (with a smaller
// effective vocabulary) and err is a non-nil *VocabNotReachedError; callers
// that want to fail on partial vocabularies should check for it explicitly.
func (t *Tokenizer) TrainFromBlocks(ctx context.Context, blocks [][]byte, vocabSize int, opts ...Option) (*Tokenizer, error) {
	cfg := &tokenizerConfig{pattern: t.pattern, workers: t.workers, cacheSize: t.cache.capacity}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if vocabSize <= baseByteVocabSize {
		return nil, ErrInvalidVocabSize
	}

	symbolBlocks := make([][]int32, 0, len(blocks))
	for _, b := range blocks {
		if len(b) < 2 {
			continue
		}
		symbolBlocks = append(symbolBlocks, bytesToSymbols(b))
	}
	if len(symbolBlocks) == 0 {
		return nil, ErrEmptyCorpus
	}

	result := trainer.TrainFromBlocks(ctx, symbolBlocks, vocabSize, trainer.Options{Workers: cfg.workers})

	out := &Tokenizer{
		pattern: cfg.pattern,
		workers: cfg.workers,
		cache:   newBlockCache(cfg.cacheSize),
	}
	out.setMerges(result.Merges)

	if !result.Reached {
		return out, &VocabNotReachedError{
			Requested: vocabSize,
			Reached:   baseByteVocabSize + len(result.Merges),
		}
	}
	return out, nil
}

func bytesToSymbols(b []byte) []int32 {
	s := make([]int32, len(b))
	for i, v := range b {
		s[i] = int32(v)
	}
	return s
}

// EncodeText pre-tokenizes text with t's pattern and encodes each resulting
// block independently, concatenating the results in document order.
func (t *Tokenizer) EncodeText(text string) []int {
	blocks := Pretokenize(text, t.pattern)
	out := make([]int, 0, len(text))
	for _, block := range blocks {
		out = append(out, t.encodeBlock(block)...)
	}
	return out
}

func (t *Tokenizer) encodeBlock(block []byte) []int {
	if cached, ok := t.cache.lookup(block); ok {
		return int32sToInts(cached)
	}

	symbols := bytesToSymbols(block)
	encoded := t.encoder.Encode(symbols)
	t.cache.store(block, encoded)
	return int32sToInts(encoded)
}

func int32sToInts(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

// EncodeStream encodes each document received on batches and sends the
// resulting token-id sequence on the returned channel, preserving no
// particular cross-document order when t.workers > 1 - callers needing
// shard layout to match input order (per spec §6) must encode
// sequentially (the default, t.workers == 1).
//
// The returned channel is closed once batches is drained and every
// in-flight encode completes, or ctx is cancelled.
func (t *Tokenizer) EncodeStream(ctx context.Context, batches <-chan string) <-chan []int {
	out := make(chan []int)

	go func() {
		defer close(out)

		if t.workers <= 1 {
			for {
				select {
				case <-ctx.Done():
					return
				case doc, ok := <-batches:
					if !ok {
						return
					}
					select {
					case out <- t.EncodeText(doc):
					case <-ctx.Done():
						return
					}
				}
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(t.workers)
		for {
			select {
			case <-gctx.Done():
				g.Wait() //nolint:errcheck
				return
			case doc, ok := <-batches:
				if !ok {
					g.Wait() //nolint:errcheck
					return
				}
				g.Go(func() error {
					encoded := t.EncodeText(doc)
					select {
					case out <- encoded:
					case <-gctx.Done():
					}
					return nil
				})
			}
		}
	}()

	return out
}

// Decode expands a token sequence back to text, substituting
// utf8.RuneError's replacement character for any byte run that is not
// valid UTF-8 - decode never fails.
func (t *Tokenizer) Decode(tokens []int) string {
	int32s := make([]int32, len(tokens))
	for i, v := range tokens {
		int32s[i] = int32(v)
	}
	raw := bpeencode.Decode(int32s, t.merges)
	if utf8.Valid(raw) {
		return string(raw)
	}
	return toValidUTF8(raw)
}

func toValidUTF8(raw []byte) string {
	out := make([]rune, 0, len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		out = append(out, r)
		i += size
	}
	return string(out)
}

// VocabSize returns 256 plus the number of learned merges.
func (t *Tokenizer) VocabSize() int {
	return baseByteVocabSize + len(t.merges)
}

// Merges returns a copy of the tokenizer's learned merge list, in learned
// (and rule-index) order.
func (t *Tokenizer) Merges() []trainer.Rule {
	out := make([]trainer.Rule, len(t.merges))
	copy(out, t.merges)
	return out
}
