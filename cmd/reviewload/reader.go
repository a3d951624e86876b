package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxLineBytes bounds one JSONL row; reviews are capped at 32KB of content.
const maxLineBytes = 1 << 20

// rowFunc receives each decoded row and its 0-based line number.
// Returning false stops the scan.
type rowFunc func(row *steamReview, line int) bool

// badRowFunc is called for lines that fail to decode.
type badRowFunc func(line int, err error)

// jsonlReader streams Steam review rows from a JSON Lines file.
type jsonlReader struct {
	path string
}

func newJSONLReader(path string) (*jsonlReader, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &jsonlReader{path: path}, nil
}

// ReadReviews calls fn for every row from line offset on, stopping after
// maxRows rows (0 = unlimited). Blank lines are skipped.
func (r *jsonlReader) ReadReviews(offset, maxRows int, fn rowFunc, bad badRowFunc) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	return scanRows(f, offset, maxRows, fn, bad)
}

func scanRows(src io.Reader, offset, maxRows int, fn rowFunc, bad badRowFunc) error {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	line, rows := -1, 0
	for sc.Scan() {
		line++
		if line < offset {
			continue
		}
		data := sc.Bytes()
		if len(data) == 0 {
			continue
		}

		var row steamReview
		if err := json.Unmarshal(data, &row); err != nil {
			if bad != nil {
				bad(line, err)
			}
			continue
		}
		if !fn(&row, line) {
			return nil
		}
		rows++
		if maxRows > 0 && rows >= maxRows {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan line %d: %w", line+1, err)
	}
	return nil
}
