// Package locate resolves the single input data file for a run. The dataset
// layout is not under our control: archives unpack to a bare file, or to one
// subdirectory holding the file next to checksums and readme droppings.
package locate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrDirNotFound reports that the configured data directory does not exist.
	ErrDirNotFound = errors.New("data directory does not exist")
	// ErrNoDataFile reports that the directory holds no candidate data file.
	ErrNoDataFile = errors.New("no data file found")
)

// listingLimit bounds how many directory entries a not-found error enumerates.
const listingLimit = 30

// dataExtensions are the tabular-data extensions admitted as candidates.
var dataExtensions = []string{".csv", ".tsv", ".dat", ".txt"}

// NotFoundError wraps the two environment failures with enough context to
// diagnose them from the message alone.
type NotFoundError struct {
	Kind    error
	Dir     string
	Listing []string
}

func (e *NotFoundError) Error() string {
	if len(e.Listing) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Dir)
	}
	return fmt.Sprintf("%s in %s\nfiles present:\n%s",
		e.Kind.Error(), e.Dir, strings.Join(e.Listing, "\n"))
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

// Find returns the path of the single data file under dir. With multiple
// candidates the lexicographically first path wins; that tie-break is
// deterministic but otherwise arbitrary.
func Find(dir string) (string, error) {
	all, err := FindAll(dir)
	if err != nil {
		return "", err
	}
	return all[0], nil
}

// FindAll returns every candidate data file under dir, sorted by path.
// Immediate entries are searched first; only when none match does the search
// descend exactly one level of subdirectories. Callers that care about
// ambiguity can inspect the length.
func FindAll(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Kind: ErrDirNotFound, Dir: dir}
		}
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() && isDataFile(entry.Name()) {
			found = append(found, filepath.Join(dir, entry.Name()))
		}
	}

	if len(found) == 0 {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			sub, err := os.ReadDir(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			for _, se := range sub {
				if !se.IsDir() && isDataFile(se.Name()) {
					found = append(found, filepath.Join(dir, entry.Name(), se.Name()))
				}
			}
		}
	}

	if len(found) == 0 {
		return nil, &NotFoundError{Kind: ErrNoDataFile, Dir: dir, Listing: listContents(dir)}
	}

	sort.Strings(found)
	return found, nil
}

func isDataFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range dataExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// listContents walks dir and collects up to listingLimit relative paths.
// Purely a debugging aid for the not-found message.
func listContents(dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == dir {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		out = append(out, rel)
		if len(out) >= listingLimit {
			return fs.SkipAll
		}
		return nil
	})
	return out
}
