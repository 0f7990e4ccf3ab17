package table

import (
	"math"
	"strconv"
	"strings"
)

// CoerceRequired converts every required column to float64, then removes any
// row holding an unparseable value in any of them. It returns how many rows
// were dropped; partial loss is the caller's diagnostic to surface, not an
// error. An empty table after coercion is fatal: there is nothing to analyze.
func (t *Table) CoerceRequired() (dropped int, err error) {
	var missing []string
	for _, name := range RequiredColumns {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return 0, &SchemaError{Missing: missing, Found: t.Columns()}
	}

	if t.numeric == nil {
		t.numeric = make(map[string][]float64, len(RequiredColumns))
	}
	for _, name := range RequiredColumns {
		vals := make([]float64, t.rows)
		for i, s := range t.text[name] {
			x, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if perr != nil {
				x = math.NaN()
			}
			vals[i] = x
		}
		t.numeric[name] = vals
		delete(t.text, name)
	}

	keep := make([]bool, t.rows)
	kept := 0
	for i := 0; i < t.rows; i++ {
		ok := true
		for _, name := range RequiredColumns {
			if math.IsNaN(t.numeric[name][i]) {
				ok = false
				break
			}
		}
		keep[i] = ok
		if ok {
			kept++
		}
	}

	dropped = t.rows - kept
	if dropped > 0 {
		t.filterRows(keep, kept)
	}
	t.rows = kept

	if t.rows == 0 {
		return dropped, ErrNoValidRows
	}
	return dropped, nil
}

// filterRows applies the same row mask to every column, numeric and text,
// preserving the equal-length invariant.
func (t *Table) filterRows(keep []bool, kept int) {
	for name, vals := range t.numeric {
		out := make([]float64, 0, kept)
		for i, v := range vals {
			if keep[i] {
				out = append(out, v)
			}
		}
		t.numeric[name] = out
	}
	for name, vals := range t.text {
		out := make([]string, 0, kept)
		for i, v := range vals {
			if keep[i] {
				out = append(out, v)
			}
		}
		t.text[name] = out
	}
}
