// Package physics reconstructs the two-particle invariant mass and validates
// it against the dataset's own reference column.
package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/quarklab/masspec/internal/table"
)

// MassResult holds the per-row reconstruction and its aggregate statistics.
// It is produced once per run and never mutated afterwards.
type MassResult struct {
	// Mass is the computed invariant mass per row.
	Mass []float64
	// Residual is computed minus reference mass per row, signed.
	Residual []float64

	Events       int
	ResidualMean float64
	// ResidualRMS is the population standard deviation of the residuals
	// (divide by N, not N-1).
	ResidualRMS float64
	MinMass     float64
	MaxMass     float64
}

// Reconstruct computes the invariant mass of the two-particle system for
// every row of the coerced table and the signed residual against the M
// column. Pure: the table is read, never written.
//
// m² can come out slightly negative from floating-point cancellation on
// near-threshold combinations; it is clamped to zero before the square root
// so such rows yield mass 0 instead of NaN. The clamp is a contract, not a
// nicety.
func Reconstruct(t *table.Table) (*MassResult, error) {
	n := t.Len()
	if n == 0 {
		return nil, fmt.Errorf("reconstruct: empty table")
	}
	cols := make(map[string][]float64, len(table.RequiredColumns))
	for _, name := range table.RequiredColumns {
		vals := t.Numeric(name)
		if vals == nil {
			return nil, fmt.Errorf("reconstruct: column %s not coerced", name)
		}
		cols[name] = vals
	}

	e1, px1, py1, pz1 := cols["E1"], cols["px1"], cols["py1"], cols["pz1"]
	e2, px2, py2, pz2 := cols["E2"], cols["px2"], cols["py2"], cols["pz2"]
	ref := cols["M"]

	res := &MassResult{
		Mass:     make([]float64, n),
		Residual: make([]float64, n),
		Events:   n,
		MinMass:  math.Inf(1),
		MaxMass:  math.Inf(-1),
	}
	for i := 0; i < n; i++ {
		eSum := e1[i] + e2[i]
		pxSum := px1[i] + px2[i]
		pySum := py1[i] + py2[i]
		pzSum := pz1[i] + pz2[i]

		m2 := eSum*eSum - pxSum*pxSum - pySum*pySum - pzSum*pzSum
		mass := math.Sqrt(math.Max(m2, 0))

		res.Mass[i] = mass
		res.Residual[i] = mass - ref[i]
		if mass < res.MinMass {
			res.MinMass = mass
		}
		if mass > res.MaxMass {
			res.MaxMass = mass
		}
	}

	res.ResidualMean = stat.Mean(res.Residual, nil)
	res.ResidualRMS = stat.PopStdDev(res.Residual, nil)
	return res, nil
}
