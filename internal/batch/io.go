// Package batch runs evaluations over a file of benchmark items with a
// bounded worker pool.
package batch

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bird-bench/mini-dev/internal/evaluate"
)

// IsJSONL reports whether path names a JSON Lines file.
func IsJSONL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".jsonl")
}

// ReadItems reads a JSON array of items, or one item per line when path
// ends in .jsonl. Numbers are kept as json.Number so question ids round
// trip unchanged.
func ReadItems(path string) ([]evaluate.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	items, err := DecodeItems(f, IsJSONL(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return items, nil
}

// DecodeItems decodes items from r.
func DecodeItems(r io.Reader, jsonl bool) ([]evaluate.Item, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()

	if !jsonl {
		var items []evaluate.Item
		if err := dec.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var items []evaluate.Item
	for n := 1; ; n++ {
		var item evaluate.Item
		err := dec.Decode(&item)
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		items = append(items, item)
	}
}

// WriteResults writes results to path as an indented JSON array, or one
// record per line when path ends in .jsonl. Parent directories are
// created.
func WriteResults(path string, results []evaluate.Result) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := EncodeResults(f, results, IsJSONL(path)); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// EncodeResults writes results to w. Non-ASCII text and HTML characters
// are written as is.
func EncodeResults(w io.Writer, results []evaluate.Result, jsonl bool) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	if jsonl {
		for i := range results {
			if err := enc.Encode(&results[i]); err != nil {
				return err
			}
		}
		return bw.Flush()
	}

	if results == nil {
		results = []evaluate.Result{}
	}
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}
	return bw.Flush()
}
