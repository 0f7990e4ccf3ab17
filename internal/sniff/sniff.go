// Package sniff infers the shape of a delimited text file — where the header
// row starts and which character separates fields — from a bounded sample of
// raw lines. Exported datasets routinely carry metadata preambles and
// non-comma delimiters, so neither can be assumed.
package sniff

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Format is the detected layout of a delimited file.
type Format struct {
	// HeaderLine is the zero-based index of the line naming the columns.
	HeaderLine int
	// Delimiter separates fields on the header line and every data line.
	Delimiter rune
}

// SampleLines is the number of raw lines read for detection.
const SampleLines = 80

const (
	// headerMatchThreshold is how many expected column names must appear
	// on a line before it is accepted as the header.
	headerMatchThreshold = 5
	// delimiterWindow is how many lines from the header onward are
	// consulted when counting delimiter candidates.
	delimiterWindow = 20
)

// candidates in priority order; earlier wins a tie.
var candidates = []rune{',', ';', '\t', '|'}

// ReadSample returns up to n raw lines from the head of the file. The sample
// is used only for detection and is discarded afterwards.
func ReadSample(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < n && sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return lines, nil
}

// Detect infers the header line index and field delimiter from sample.
// expected is the set of column names the header is likely to contain.
// Detect never fails: a degenerate sample falls back to line 0 and a comma.
func Detect(sample []string, expected []string) Format {
	header := detectHeader(sample, expected)
	delim := detectDelimiter(sample, header)
	return Format{HeaderLine: header, Delimiter: delim}
}

func detectHeader(sample []string, expected []string) int {
	// First pass: the line naming enough of the expected columns.
	for i, line := range sample {
		hits := 0
		for _, name := range expected {
			if strings.Contains(line, name) {
				hits++
			}
		}
		if hits >= headerMatchThreshold {
			return i
		}
	}
	// Second pass: the first line that at least looks like a delimited
	// header, for files with unexpected column names.
	for i, line := range sample {
		if containsAnyDelimiter(line) && containsLetter(line) {
			return i
		}
	}
	return 0
}

func detectDelimiter(sample []string, headerLine int) rune {
	if headerLine >= len(sample) {
		return ','
	}
	window := sample[headerLine:]
	if len(window) > delimiterWindow {
		window = window[:delimiterWindow]
	}

	counts := make(map[rune]int, len(candidates))
	for _, line := range window {
		for _, c := range candidates {
			counts[c] += strings.Count(line, string(c))
		}
	}
	best, bestCount := ',', 0
	for _, c := range candidates {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	if bestCount > 0 {
		return best
	}

	// Secondary inference for degenerate samples: any candidate that
	// actually splits the header line into more than one field.
	for _, c := range candidates {
		if len(strings.Split(window[0], string(c))) > 1 {
			return c
		}
	}
	return ','
}

func containsAnyDelimiter(line string) bool {
	for _, c := range candidates {
		if strings.ContainsRune(line, c) {
			return true
		}
	}
	return false
}

func containsLetter(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
