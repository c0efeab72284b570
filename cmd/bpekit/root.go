package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bpekit",
	Short: "A byte-pair-encoding tokenizer trainer and encoder",
	Long: `bpekit trains and runs byte-level BPE tokenizers over local text corpora.

This tool provides a unified interface for the training, encoding, decoding,
and inspection operations exposed by the bpe package.

Available operations:
  train  - Learn a merge list from a text corpus
  encode - Convert text to token IDs, optionally writing training shards
  decode - Convert token IDs back to text
  info   - Display tokenizer information`,
	Example: `  # Train a tokenizer on a corpus and save the merge list
  bpekit train --corpus data/corpus.txt --vocab-size 4096 --out tokenizer.bpe

  # Encode text with a trained tokenizer
  bpekit encode --merges tokenizer.bpe "Hello, world!"

  # Decode tokens
  bpekit decode --merges tokenizer.bpe 72 101 108 108 111

  # Get tokenizer info
  bpekit info --merges tokenizer.bpe`,
	SilenceUsage: true,
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bpekit version %s\n", version)
		if commit != "none" {
			fmt.Printf("  commit:     %s\n", commit)
		}
		if buildDate != "unknown" {
			fmt.Printf("  built:      %s\n", buildDate)
		}
		if goVersion != "unknown" {
			fmt.Printf("  go version: %s\n", goVersion)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newTrainCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newInfoCmd())
}
