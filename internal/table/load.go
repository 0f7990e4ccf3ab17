package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/quarklab/masspec/internal/sniff"
)

// Load parses the file at path into a Table using the sniffed format. Lines
// before the header are skipped; body rows that fail to parse are discarded
// rather than failing the load; ragged rows are padded or truncated to the
// header width. Columns empty in every row are dropped afterwards, since
// trailing delimiters commonly manufacture them.
func Load(path string, f sniff.Format) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	for i := 0; i < f.HeaderLine; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, &ParseError{Path: path, Delimiter: f.Delimiter, HeaderLine: f.HeaderLine,
				Err: fmt.Errorf("skip preamble line %d: %w", i, err)}
		}
	}

	r := csv.NewReader(br)
	r.Comma = f.Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, &ParseError{Path: path, Delimiter: f.Delimiter, HeaderLine: f.HeaderLine,
			Err: fmt.Errorf("read header: %w", err)}
	}
	names := uniqueNames(trimmed(header))

	t := &Table{
		names: names,
		text:  make(map[string][]string, len(names)),
	}
	for _, name := range names {
		t.text[name] = nil
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// Malformed row: stray quoting, embedded delimiter
				// in unquoted text. One row lost, not the run.
				t.SkippedRows++
				continue
			}
			return nil, &ParseError{Path: path, Delimiter: f.Delimiter, HeaderLine: f.HeaderLine, Err: err}
		}
		for i, name := range names {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			t.text[name] = append(t.text[name], v)
		}
		t.rows++
	}

	t.dropEmptyColumns()
	return t, nil
}

// uniqueNames disambiguates duplicate header names with a numeric suffix so
// the column map stays lossless.
func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		n := seen[name]
		seen[name] = n + 1
		if n > 0 {
			name = fmt.Sprintf("%s.%d", name, n)
		}
		out[i] = name
	}
	return out
}

func (t *Table) dropEmptyColumns() {
	kept := t.names[:0]
	for _, name := range t.names {
		empty := true
		for _, v := range t.text[name] {
			if v != "" {
				empty = false
				break
			}
		}
		if empty && t.rows > 0 {
			delete(t.text, name)
			continue
		}
		kept = append(kept, name)
	}
	t.names = kept
}
