package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bpekit/bpekit/bpe"
	"github.com/bpekit/bpekit/internal/dataset"
)

func main() {
	var (
		merges      = flag.String("merges", "", "Path to a saved merge list to load")
		corpus      = flag.String("corpus", "", "Corpus path to train a merge list from (used when -merges is unset)")
		vocabSize   = flag.Int("vocab-size", 512, "Target vocabulary size when training")
		text        = flag.String("text", "", "Text to tokenize")
		decode      = flag.String("decode", "", "Comma-separated token IDs to decode")
		interactive = flag.Bool("i", false, "Interactive mode")
		verbose     = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	tokenizer, err := loadOrTrain(*merges, *corpus, *vocabSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating tokenizer: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Tokenizer loaded. Vocabulary size: %d\n", tokenizer.VocabSize())
	}

	if *decode != "" {
		tokens := parseTokens(*decode)
		fmt.Println(tokenizer.Decode(tokens))
		return
	}

	if *interactive {
		runInteractive(tokenizer, *verbose)
		return
	}

	if *text != "" {
		tokens := tokenizer.EncodeText(*text)
		if *verbose {
			fmt.Printf("Text: %s\n", *text)
			fmt.Printf("Tokens (%d): %v\n", len(tokens), tokens)
			fmt.Printf("Decoded: %s\n", tokenizer.Decode(tokens))
		} else {
			fmt.Println(formatTokens(tokens))
		}
		return
	}

	flag.Usage()
}

// loadOrTrain loads a merge list from mergesPath if given, otherwise trains
// a fresh one from corpusPath - this example is meant to be runnable without
// a pre-existing tokenizer.bpe file on disk.
func loadOrTrain(mergesPath, corpusPath string, vocabSize int) (*bpe.Tokenizer, error) {
	if mergesPath != "" {
		return bpe.Load(mergesPath)
	}
	if corpusPath == "" {
		return nil, fmt.Errorf("either -merges or -corpus must be provided")
	}

	docs, err := dataset.Load(corpusPath)
	if err != nil {
		return nil, err
	}
	// Pre-tokenize each document the same way EncodeText does, so the
	// merges learned here never span a boundary EncodeText would never
	// produce at encode time.
	pattern := regexp.MustCompile(bpe.DefaultPattern)
	var blocks [][]byte
	for _, d := range docs {
		blocks = append(blocks, bpe.Pretokenize(d, pattern)...)
	}

	base, err := bpe.New()
	if err != nil {
		return nil, err
	}
	tok, err := base.TrainFromBlocks(context.Background(), blocks, vocabSize)
	var notReached *bpe.VocabNotReachedError
	if err != nil && !errors.As(err, &notReached) {
		return nil, err
	}
	if notReached != nil {
		fmt.Fprintf(os.Stderr, "warning: requested vocab size %d, reached %d\n", notReached.Requested, notReached.Reached)
	}
	return tok, nil
}

func runInteractive(tokenizer *bpe.Tokenizer, verbose bool) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("bpekit Tokenizer Interactive Mode")
	fmt.Println("Type 'quit' to exit")
	fmt.Println()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if line == "quit" || line == "exit" {
			break
		}

		if strings.HasPrefix(line, "decode ") {
			tokenStr := strings.TrimPrefix(line, "decode ")
			tokens := parseTokens(tokenStr)
			fmt.Printf("Decoded: %s\n", tokenizer.Decode(tokens))
			continue
		}

		tokens := tokenizer.EncodeText(line)
		if verbose {
			fmt.Printf("Tokens (%d): %v\n", len(tokens), tokens)
			fmt.Printf("Decoded: %s\n", tokenizer.Decode(tokens))
		} else {
			fmt.Println(formatTokens(tokens))
		}
	}
}

func parseTokens(s string) []int {
	parts := strings.Split(s, ",")
	tokens := make([]int, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		var token int
		if _, err := fmt.Sscanf(part, "%d", &token); err == nil {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

func formatTokens(tokens []int) string {
	strs := make([]string, len(tokens))
	for i, t := range tokens {
		strs[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(strs, ", ")
}
