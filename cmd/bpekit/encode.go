package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/bpe"
	"github.com/bpekit/bpekit/internal/dataset"
	"github.com/bpekit/bpekit/internal/shard"
)

var (
	// Encode command flags.
	encMerges     string
	encOutput     string
	encCount      bool
	encCountOnly  bool
	encMetrics    bool
	encCorpus    string
	encShardDir  string
	encShardSize int
	encPartition bool
)

// newEncodeCmd creates the encode subcommand.
func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode text to token IDs",
		Long: `Encode text into token IDs using a previously trained merge list.

If --corpus and --shard-dir are both given, the corpus is streamed through
the tokenizer and written out as fixed-size binary shards instead of being
printed, the same pipeline the training prelude feeds into.

Otherwise, if no text is provided as an argument, reads from stdin and
prints the resulting token IDs.

The output format can be:
  - space: Space-separated token IDs (default)
  - newline: One token ID per line
  - json: JSON array of token IDs`,
		Example: `  # Encode a simple string
  bpekit encode --merges tok.bpe "Hello, world!"

  # Encode from stdin
  echo "Hello, world!" | bpekit encode --merges tok.bpe

  # Output as JSON
  bpekit encode --merges tok.bpe --output json "Hello"

  # Encode a corpus straight to training shards
  bpekit encode --merges tok.bpe --corpus data/corpus.txt --shard-dir shards/ --shard-size 1048576`,
		RunE: runEncode,
	}

	cmd.Flags().StringVar(&encMerges, "merges", "", "path to a saved merge list (required)")
	cmd.Flags().StringVarP(&encOutput, "output", "o", "space", "output format: space, newline, json")
	cmd.Flags().BoolVar(&encCount, "count", false, "show token count with output")
	cmd.Flags().BoolVar(&encCountOnly, "count-only", false, "show only token count (no tokens)")
	cmd.Flags().BoolVar(&encMetrics, "metrics", false, "show performance metrics")
	cmd.Flags().StringVar(&encCorpus, "corpus", "", "corpus path to stream-encode into shards, instead of the positional text")
	cmd.Flags().StringVar(&encShardDir, "shard-dir", "", "directory to write shard files into (requires --corpus)")
	cmd.Flags().IntVar(&encShardSize, "shard-size", 1<<20, "tokens per shard file")
	cmd.Flags().BoolVar(&encPartition, "partition", false, "partition the corpus by OMPI rank/world-size before encoding")

	cmd.MarkFlagRequired("merges") //nolint:errcheck

	return cmd
}

func runEncode(_ *cobra.Command, args []string) error {
	tok, err := bpe.Load(encMerges)
	if err != nil {
		return fmt.Errorf("failed to load merge list: %w", err)
	}

	if encCorpus != "" && encShardDir != "" {
		return runEncodeToShards(tok)
	}

	var startTime time.Time
	if encMetrics {
		startTime = time.Now()
	}

	var text string
	var inputBytes int
	if len(args) > 0 {
		text = strings.Join(args, " ")
		inputBytes = len(text)
	} else {
		cr := &countingReader{Reader: os.Stdin}
		data, err := io.ReadAll(cr)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
		inputBytes = cr.bytesRead
	}

	tokens := tok.EncodeText(text)

	var encodeDuration time.Duration
	if encMetrics {
		encodeDuration = time.Since(startTime)
	}

	if encCountOnly {
		switch encOutput {
		case "json":
			data, err := json.Marshal(map[string]int{"count": len(tokens)})
			if err != nil {
				return fmt.Errorf("failed to marshal count: %w", err)
			}
			fmt.Println(string(data))
		default:
			fmt.Println(len(tokens))
		}
		return nil
	}

	switch encOutput {
	case "json":
		output := map[string]any{"tokens": tokens}
		if encCount {
			output["count"] = len(tokens)
		}
		if encMetrics {
			output["metrics"] = map[string]any{
				"latency":     formatLatency(encodeDuration),
				"tps":         calculateTPS(len(tokens), encodeDuration),
				"input_bytes": inputBytes,
			}
		}
		data, err := json.Marshal(output)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	case "newline":
		if encCount {
			fmt.Printf("count: %d\n", len(tokens))
		}
		for _, token := range tokens {
			fmt.Println(token)
		}
	case "space":
		if encCount {
			fmt.Printf("count: %d\n", len(tokens))
			fmt.Print("tokens: ")
		}
		for i, token := range tokens {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(token)
		}
		fmt.Println()
	default:
		return fmt.Errorf("unknown output format: %s", encOutput)
	}

	if encMetrics && encOutput != "json" {
		fmt.Println("metrics:")
		fmt.Printf("  latency: %s\n", formatLatency(encodeDuration))
		fmt.Printf("  tps: %d\n", calculateTPS(len(tokens), encodeDuration))
		fmt.Printf("  input_bytes: %d\n", inputBytes)
	}

	return nil
}

func runEncodeToShards(tok *bpe.Tokenizer) error {
	docs, err := dataset.Load(encCorpus)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	rank := 0
	if encPartition {
		var worldSize int
		rank, worldSize = dataset.RankWorldSize()
		docs = dataset.Partition(docs, rank, worldSize)
	}

	ctx := context.Background()
	batches := make(chan string)
	go func() {
		defer close(batches)
		for _, d := range docs {
			select {
			case batches <- d:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := tok.EncodeStream(ctx, batches)
	seq := func(yield func([]int) bool) {
		for tokens := range results {
			if !yield(tokens) {
				return
			}
		}
	}

	if err := shard.WriteTokens(seq, encShardDir, encShardSize, rank); err != nil {
		return fmt.Errorf("failed to write shards: %w", err)
	}

	fmt.Printf("encoded %d documents into shards under %s\n", len(docs), encShardDir)
	return nil
}

// countingReader wraps an io.Reader to count bytes read.
type countingReader struct {
	io.Reader
	bytesRead int
}

func (cr *countingReader) Read(p []byte) (n int, err error) {
	n, err = cr.Reader.Read(p)
	cr.bytesRead += n
	return
}
