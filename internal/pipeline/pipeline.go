// Package pipeline provides helpers for reading and writing content item
// streams via stdin/stdout in JSONL format — the canonical pipe format.
// A whole JSON array is also accepted on input, so playlist payloads saved
// with `feed get --format json` can be piped straight back in.
package pipeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/MurthyAvanithsa/railview/internal/model"
)

// maxLine caps a single JSONL record. CMS items carry image maps and
// extension blobs, so the default scanner limit is too small.
const maxLine = 4 * 1024 * 1024

// ReadItems reads content items from r: either one JSON object per line or
// a single JSON array of objects. Blank lines and // comments are skipped.
func ReadItems(r io.Reader) ([]model.ContentItem, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	// Peek past leading whitespace to detect the array form.
	lead, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("no content items read from input (is stdin empty?)")
	}
	if lead == '[' {
		return readItemArray(br)
	}
	return readItemLines(br)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
		default:
			return b[0], nil
		}
	}
}

func readItemArray(r io.Reader) ([]model.ContentItem, error) {
	var items []model.ContentItem
	dec := json.NewDecoder(r)
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("input array holds no content items")
	}
	return items, nil
}

func readItemLines(r io.Reader) ([]model.ContentItem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	var items []model.ContentItem
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var item model.ContentItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no content items read from input (is stdin empty?)")
	}
	return items, nil
}

// ReadItemsFile reads content items from a file path, or from r when path
// is "-" or empty.
func ReadItemsFile(path string, stdin io.Reader) ([]model.ContentItem, error) {
	if path == "" || path == "-" {
		return ReadItems(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading items file: %w", err)
	}
	return ReadItems(bytes.NewReader(data))
}

// WriteItems writes content items as JSONL to w.
func WriteItems(w io.Writer, items []model.ContentItem) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// WriteCards writes resolved cards as JSONL to w.
func WriteCards(w io.Writer, cards []model.ResolvedCard) error {
	enc := json.NewEncoder(w)
	for _, c := range cards {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

// IsTTY returns true if stdout is a terminal (not a pipe).
func IsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
