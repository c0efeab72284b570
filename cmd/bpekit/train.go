package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/bpe"
	"github.com/bpekit/bpekit/internal/dataset"
)

var (
	// Train command flags.
	trainCorpus    string
	trainVocabSize int
	trainOut       string
	trainPattern   string
	trainWorkers   int
	trainPartition bool
	trainMetrics   bool
)

// newTrainCmd creates the train subcommand.
func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Learn a BPE merge list from a text corpus",
		Long: `Train a byte-pair-encoding tokenizer on a local text corpus and save the
learned merge list to disk.

The corpus may be a single .txt file (one document per line) or a directory
containing exactly one .txt file with the same shape. When run under MPI
(OMPI_COMM_WORLD_RANK / OMPI_COMM_WORLD_SIZE set), pass --partition to train
on only this rank's shard of the documents.`,
		Example: `  # Train a 4096-token vocabulary and save the merge list
  bpekit train --corpus data/corpus.txt --vocab-size 4096 --out tokenizer.bpe

  # Train on a corpus directory with 4 prelude workers
  bpekit train --corpus data/ --vocab-size 8192 --workers 4 --out tok.bpe`,
		RunE: runTrain,
	}

	cmd.Flags().StringVar(&trainCorpus, "corpus", "", "path to a .txt file or directory (required)")
	cmd.Flags().IntVar(&trainVocabSize, "vocab-size", 1024, "target vocabulary size (must exceed 256)")
	cmd.Flags().StringVar(&trainOut, "out", "tokenizer.bpe", "path to write the learned merge list")
	cmd.Flags().StringVar(&trainPattern, "pattern", "", "pre-tokenization regex (defaults to bpe.DefaultPattern)")
	cmd.Flags().IntVar(&trainWorkers, "workers", 1, "number of prelude workers for parallel index construction")
	cmd.Flags().BoolVar(&trainPartition, "partition", false, "partition the corpus by OMPI rank/world-size before training")
	cmd.Flags().BoolVar(&trainMetrics, "metrics", false, "print timing and vocabulary metrics")

	cmd.MarkFlagRequired("corpus") //nolint:errcheck

	return cmd
}

func runTrain(_ *cobra.Command, _ []string) error {
	docs, err := dataset.Load(trainCorpus)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	if trainPartition {
		rank, worldSize := dataset.RankWorldSize()
		docs = dataset.Partition(docs, rank, worldSize)
	}
	if len(docs) == 0 {
		return fmt.Errorf("corpus %q contains no documents", trainCorpus)
	}

	opts := []bpe.Option{bpe.WithWorkers(trainWorkers)}
	patternSrc := bpe.DefaultPattern
	if trainPattern != "" {
		opts = append(opts, bpe.WithPattern(trainPattern))
		patternSrc = trainPattern
	}

	base, err := bpe.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to configure tokenizer: %w", err)
	}

	pattern, err := regexp.Compile(patternSrc)
	if err != nil {
		return fmt.Errorf("invalid pre-tokenization pattern: %w", err)
	}

	// Pre-tokenize every document the same way EncodeText does, so the
	// merges learned here never span a boundary EncodeText would never
	// produce at encode time.
	var blocks [][]byte
	for _, d := range docs {
		blocks = append(blocks, bpe.Pretokenize(d, pattern)...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var startTime time.Time
	if trainMetrics {
		startTime = time.Now()
	}

	tok, err := base.TrainFromBlocks(ctx, blocks, trainVocabSize)
	var notReached *bpe.VocabNotReachedError
	if err != nil && !errors.As(err, &notReached) {
		return fmt.Errorf("training failed: %w", err)
	}

	if saveErr := tok.Save(trainOut); saveErr != nil {
		return fmt.Errorf("failed to save merge list: %w", saveErr)
	}

	if notReached != nil {
		fmt.Fprintf(os.Stderr, "warning: requested vocab size %d, reached %d (corpus exhausted)\n", notReached.Requested, notReached.Reached)
	}

	fmt.Printf("trained %d documents -> %d-token vocabulary, saved to %s\n", len(docs), tok.VocabSize(), trainOut)
	if trainMetrics {
		fmt.Printf("  duration: %s\n", time.Since(startTime))
		fmt.Printf("  merges:   %d\n", len(tok.Merges()))
	}

	return nil
}
