package sniff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var expectedCols = []string{"E1", "px1", "py1", "pz1", "E2", "px2", "py2", "pz2", "M"}

func TestDetectHeaderAfterPreamble(t *testing.T) {
	sample := []string{
		"# CMS open data export",
		"# run 2011A, dimuon selection",
		"E1,px1,py1,pz1,E2,px2,py2,pz2,M,extra",
		"48.2,9.6,-3.3,47.0,9.7,2.1,-0.5,-9.4,17.5,x",
	}
	f := Detect(sample, expectedCols)
	if f.HeaderLine != 2 {
		t.Fatalf("header line = %d, want 2", f.HeaderLine)
	}
	if f.Delimiter != ',' {
		t.Fatalf("delimiter = %q, want ','", f.Delimiter)
	}
}

func TestDetectSemicolonDelimiter(t *testing.T) {
	sample := []string{
		"E1;px1;py1;pz1;E2;px2;py2;pz2;M",
		"48.2;9.6;-3.3;47.0;9.7;2.1;-0.5;-9.4;17.5",
		"12.1;1.2;0.3;-12.0;8.8;-2.2;1.5;8.4;3.1",
	}
	f := Detect(sample, expectedCols)
	if f.HeaderLine != 0 || f.Delimiter != ';' {
		t.Fatalf("got header %d delim %q, want 0 ';'", f.HeaderLine, f.Delimiter)
	}
}

func TestDetectTabDelimiter(t *testing.T) {
	sample := []string{
		"E1\tpx1\tpy1\tpz1\tE2\tpx2\tpy2\tpz2\tM",
		"1\t2\t3\t4\t5\t6\t7\t8\t9",
	}
	f := Detect(sample, expectedCols)
	if f.Delimiter != '\t' {
		t.Fatalf("delimiter = %q, want tab", f.Delimiter)
	}
}

func TestDetectFallbackUnknownColumns(t *testing.T) {
	// No expected names at all; the first delimiter-bearing line with a
	// letter should be taken as the header.
	sample := []string{
		"3141592653",
		"alpha|beta|gamma",
		"1|2|3",
	}
	f := Detect(sample, expectedCols)
	if f.HeaderLine != 1 {
		t.Fatalf("header line = %d, want 1", f.HeaderLine)
	}
	if f.Delimiter != '|' {
		t.Fatalf("delimiter = %q, want '|'", f.Delimiter)
	}
}

func TestDetectDegenerateSampleDefaults(t *testing.T) {
	f := Detect([]string{"justoneword"}, expectedCols)
	if f.HeaderLine != 0 || f.Delimiter != ',' {
		t.Fatalf("got header %d delim %q, want defaults 0 ','", f.HeaderLine, f.Delimiter)
	}
}

func TestDetectEmptySample(t *testing.T) {
	f := Detect(nil, expectedCols)
	if f.HeaderLine != 0 || f.Delimiter != ',' {
		t.Fatalf("got header %d delim %q, want defaults", f.HeaderLine, f.Delimiter)
	}
}

func TestReadSampleBounded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.csv")
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("1,2,3\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	lines, err := ReadSample(path, SampleLines)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != SampleLines {
		t.Fatalf("sample size = %d, want %d", len(lines), SampleLines)
	}
}

func TestReadSampleMissingFile(t *testing.T) {
	if _, err := ReadSample(filepath.Join(t.TempDir(), "nope.csv"), 10); err == nil {
		t.Fatal("expected error for missing file")
	}
}
