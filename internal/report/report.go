// Package report turns a reconstruction result into the run's artifacts:
// histogram figures, a metrics record, and a human-readable summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Metrics is the flat key-value record persisted as metrics.json. Field
// order is the serialization order; the file carries no timestamp so two
// runs over unchanged input produce identical bytes.
type Metrics struct {
	Events       int     `json:"events"`
	ResidualMean float64 `json:"residual_mean"`
	ResidualRMS  float64 `json:"residual_rms"`
	CSVFile      string  `json:"csv_file"`
	MinMassCalc  float64 `json:"min_mass_calc"`
	MaxMassCalc  float64 `json:"max_mass_calc"`
}

// interpretiveNote is fixed text carried into every report.
const interpretiveNote = "Resonant structure appears only after aggregating many events. " +
	"Invariant mass is not an event-level property but a statistical construct " +
	"derived from Lorentz-invariant constraints."

// WriteMetrics persists the metrics record under outDir.
func WriteMetrics(m Metrics, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir out dir: %w", err)
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(filepath.Join(outDir, "metrics.json"), b, 0o644); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// WriteReport writes results.md under outDir, referencing the figures by
// their path relative to the report.
func WriteReport(m Metrics, figures []string, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir out dir: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Dimuon Invariant Mass\n\n")
	fmt.Fprintf(&b, "_Generated on %s UTC_\n\n", time.Now().UTC().Format("2006-01-02T15:04:05"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Events analyzed: **%d**\n", m.Events)
	fmt.Fprintf(&b, "- Residual mean: **%.3e GeV**\n", m.ResidualMean)
	fmt.Fprintf(&b, "- Residual RMS: **%.3e GeV**\n", m.ResidualRMS)
	fmt.Fprintf(&b, "- Computed mass range: **%.3f - %.3f GeV**\n", m.MinMassCalc, m.MaxMassCalc)
	fmt.Fprintf(&b, "- Input file: `%s`\n\n", m.CSVFile)

	b.WriteString("## Figures\n\n")
	for _, fig := range figures {
		fmt.Fprintf(&b, "![%s](figures/%s)\n", fig, fig)
	}
	b.WriteString("\n## Interpretation\n\n")
	b.WriteString(interpretiveNote)
	b.WriteString("\n")

	if err := os.WriteFile(filepath.Join(outDir, "results.md"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
