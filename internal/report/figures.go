package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/quarklab/masspec/internal/config"
	"github.com/quarklab/masspec/internal/physics"
)

const (
	figWidth  = 8 * vg.Inch
	figHeight = 5 * vg.Inch
)

// WriteFigures renders the histogram artifacts under outDir/figures and
// returns the figure file names in render order. A spectrum with no events
// inside the configured mass range still renders on the linear scale, but
// the log-scale figure is skipped with a warning: gonum's LogScale cannot
// draw an all-zero histogram.
func WriteFigures(res *physics.MassResult, cfg *config.Run, outDir string, log *slog.Logger) ([]string, error) {
	figDir := filepath.Join(outDir, "figures")
	if err := os.MkdirAll(figDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir figures dir: %w", err)
	}

	var figures []string
	save := func(name string, p *hplot.Plot) error {
		if err := p.Save(figWidth, figHeight, filepath.Join(figDir, name)); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		figures = append(figures, name)
		return nil
	}

	spectrum, inRange := fillHist(res.Mass, cfg.Bins, cfg.MassMin, cfg.MassMax)

	p := spectrumPlot(spectrum, false)
	p.Title.Text = "Dimuon Invariant Mass Spectrum"
	if err := save("mass_spectrum.png", p); err != nil {
		return nil, err
	}

	if inRange > 0 {
		p = spectrumPlot(spectrum, true)
		p.Title.Text = "Dimuon Invariant Mass Spectrum (log scale)"
		p.Y.Label.Text = "Events (log)"
		if err := save("mass_spectrum_log.png", p); err != nil {
			return nil, err
		}
	} else {
		log.Warn("no events inside configured mass range, skipping log-scale spectrum",
			"mass_min", cfg.MassMin, "mass_max", cfg.MassMax, "events", res.Events)
	}

	lo, hi := residualRange(res.Residual)
	residuals, _ := fillHist(res.Residual, cfg.ResidualBins, lo, hi)
	p = hplot.New()
	p.Title.Text = "Invariant Mass Residuals"
	p.X.Label.Text = "M_calc - M_given [GeV]"
	p.Y.Label.Text = "Events"
	p.Add(stepH1D(residuals, false))
	if err := save("mass_residuals.png", p); err != nil {
		return nil, err
	}

	for _, z := range cfg.ZoomWindows {
		zoomed, _ := fillHist(res.Mass, cfg.Bins, z.Lo, z.Hi)
		p = spectrumPlot(zoomed, false)
		p.Title.Text = fmt.Sprintf("Dimuon Invariant Mass, %s window", z.Name)
		if err := save(fmt.Sprintf("mass_zoom_%s.png", z.Name), p); err != nil {
			return nil, err
		}
	}

	return figures, nil
}

// fillHist bins vals into [lo, hi) and additionally reports how many values
// landed inside the range; values outside only feed the flow bins, so the
// fill count is what decides whether the histogram can be drawn on a log
// scale.
func fillHist(vals []float64, bins int, lo, hi float64) (*hbook.H1D, int) {
	h := hbook.NewH1D(bins, lo, hi)
	inRange := 0
	for _, v := range vals {
		h.Fill(v, 1)
		if v >= lo && v < hi {
			inRange++
		}
	}
	return h, inRange
}

func spectrumPlot(h *hbook.H1D, logY bool) *hplot.Plot {
	p := hplot.New()
	p.X.Label.Text = "Invariant Mass [GeV]"
	p.Y.Label.Text = "Events"
	if logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(stepH1D(h, logY))
	return p
}

func stepH1D(h *hbook.H1D, logY bool) *hplot.H1D {
	var opts []hplot.Options
	if logY {
		opts = append(opts, hplot.WithLogY(true))
	}
	hh := hplot.NewH1D(h, opts...)
	hh.FillColor = nil
	hh.Infos.Style = hplot.HInfoNone
	return hh
}

// residualRange pads a degenerate (all-equal) residual span so the histogram
// always has a non-empty axis.
func residualRange(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	return lo, hi
}
