// Package pipeline composes one analysis run: locate the data file, sniff
// its format, load and coerce the table, reconstruct the invariant mass, and
// emit the metrics and figure artifacts. Stages run strictly in sequence;
// any fatal error aborts the run before artifacts are written, so the output
// directory holds either a complete result set or nothing new.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quarklab/masspec/internal/config"
	"github.com/quarklab/masspec/internal/locate"
	"github.com/quarklab/masspec/internal/physics"
	"github.com/quarklab/masspec/internal/report"
	"github.com/quarklab/masspec/internal/sniff"
	"github.com/quarklab/masspec/internal/table"
)

// RunResult is what a completed run hands to the report writer.
type RunResult struct {
	RunID     string
	InputPath string
	Metrics   report.Metrics
	Figures   []string
}

// Run executes the full pipeline for one configuration.
func Run(cfg *config.Run, log *slog.Logger) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	runID := uuid.NewString()
	log = log.With("run_id", runID)

	candidates, err := locate.FindAll(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	path := candidates[0]
	if len(candidates) > 1 {
		// File choice falls back to lexical order; make the ambiguity visible.
		log.Info("multiple candidate data files, picking first by path sort",
			"candidates", len(candidates), "chosen", path)
	}
	log.Info("loading data", "stage", "locate", "file", path)

	sample, err := sniff.ReadSample(path, sniff.SampleLines)
	if err != nil {
		return nil, err
	}
	format := sniff.Detect(sample, table.RequiredColumns)
	log.Debug("format detected", "stage", "sniff",
		"header_line", format.HeaderLine, "delimiter", string(format.Delimiter))

	tab, err := table.Load(path, format)
	if err != nil {
		return nil, err
	}
	if tab.SkippedRows > 0 {
		log.Warn("discarded malformed rows during load",
			"stage", "load", "skipped", tab.SkippedRows, "kept", tab.Len())
	}

	rowsBefore := tab.Len()
	dropped, err := tab.CoerceRequired()
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.Warn("dropped rows with non-numeric required values",
			"stage", "coerce", "rows_before", rowsBefore, "rows_after", tab.Len(), "dropped", dropped)
	}

	res, err := physics.Reconstruct(tab)
	if err != nil {
		return nil, err
	}
	log.Info("reconstruction complete", "stage", "reconstruct",
		"events", res.Events, "residual_rms", res.ResidualRMS)

	metrics := report.Metrics{
		Events:       res.Events,
		ResidualMean: res.ResidualMean,
		ResidualRMS:  res.ResidualRMS,
		CSVFile:      path,
		MinMassCalc:  res.MinMass,
		MaxMassCalc:  res.MaxMass,
	}

	figures, err := report.WriteFigures(res, cfg, cfg.OutDir, log)
	if err != nil {
		return nil, err
	}
	if err := report.WriteMetrics(metrics, cfg.OutDir); err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:     runID,
		InputPath: path,
		Metrics:   metrics,
		Figures:   figures,
	}, nil
}
