package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/bpe"
)

var (
	// Decode command flags.
	decMerges string
)

// newDecodeCmd creates the decode subcommand.
func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [token_ids...]",
		Short: "Decode token IDs to text",
		Long: `Decode token IDs back to text using a previously trained merge list.

Token IDs can be provided as arguments or piped from stdin. Multiple token
IDs should be separated by spaces when provided as arguments, or by any
whitespace when reading from stdin.`,
		Example: `  # Decode token IDs from arguments
  bpekit decode --merges tok.bpe 258 100 258 97 99

  # Decode from stdin
  echo "258 100 258 97 99" | bpekit decode --merges tok.bpe

  # Round-trip through encode
  bpekit encode --merges tok.bpe "test" | bpekit decode --merges tok.bpe`,
		RunE: runDecode,
	}

	cmd.Flags().StringVar(&decMerges, "merges", "", "path to a saved merge list (required)")
	cmd.MarkFlagRequired("merges") //nolint:errcheck

	return cmd
}

func runDecode(_ *cobra.Command, args []string) error {
	tok, err := bpe.Load(decMerges)
	if err != nil {
		return fmt.Errorf("failed to load merge list: %w", err)
	}

	var tokens []int
	if len(args) > 0 {
		for _, arg := range args {
			token, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid token ID %q: %w", arg, err)
			}
			tokens = append(tokens, token)
		}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			token, err := strconv.Atoi(scanner.Text())
			if err != nil {
				return fmt.Errorf("invalid token ID %q: %w", scanner.Text(), err)
			}
			tokens = append(tokens, token)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	}

	if len(tokens) == 0 {
		return fmt.Errorf("no token IDs provided")
	}

	fmt.Print(tok.Decode(tokens))
	return nil
}
