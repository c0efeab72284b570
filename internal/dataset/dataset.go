// Package dataset discovers and partitions text corpora on the local
// filesystem, standing in for the remote-hub dataset acquisition that is
// explicitly out of scope for the BPE engine itself.
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads documents from path, which may be a single .txt file (one
// document per line) or a directory containing exactly one .txt file with
// the same shape. It mirrors get_dataset/find_txt_file's file-discovery
// contract without pulling in a dataset-hub client.
func Load(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	target := path
	if info.IsDir() {
		found, err := findTxtFile(path)
		if err != nil {
			return nil, err
		}
		target = found
	} else if filepath.Ext(path) != ".txt" {
		return nil, fmt.Errorf("dataset: unsupported file type: %s", path)
	}

	return readLines(target)
}

// findTxtFile returns the first .txt file found directly inside dir.
func findTxtFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("dataset: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".txt" {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("dataset: no .txt file found in %s", dir)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return lines, nil
}

// Partition deterministically assigns every worldSize-th document, starting
// at rank, to this process - the same node-index sharding contract as
// split_dataset_by_node, without depending on a dataset-hub client.
func Partition(docs []string, rank, worldSize int) []string {
	if worldSize <= 1 {
		return docs
	}
	out := make([]string, 0, len(docs)/worldSize+1)
	for i := rank; i < len(docs); i += worldSize {
		out = append(out, docs[i])
	}
	return out
}
