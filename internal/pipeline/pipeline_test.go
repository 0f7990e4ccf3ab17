package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarklab/masspec/internal/config"
	"github.com/quarklab/masspec/internal/locate"
	"github.com/quarklab/masspec/internal/table"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Run {
	t.Helper()
	return &config.Run{
		DataDir:      filepath.Join(t.TempDir(), "data"),
		OutDir:       filepath.Join(t.TempDir(), "out"),
		Bins:         50,
		MassMin:      0,
		MassMax:      120,
		ResidualBins: 40,
		ZoomWindows:  []config.Zoom{},
	}
}

// writeEvents writes a CSV of n valid rows (mass exactly 10) with optional
// preamble lines and bad rows substituted at the front.
func writeEvents(t *testing.T, dir string, n, bad int, preamble ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	lines := append([]string{}, preamble...)
	lines = append(lines, strings.Join(table.RequiredColumns, ","))
	for i := 0; i < n; i++ {
		e1 := "5"
		if i < bad {
			e1 = "not-a-number"
		}
		lines = append(lines, fmt.Sprintf("%s,0,0,3,5,0,0,-3,10", e1))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.csv"),
		[]byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeEvents(t, cfg.DataDir, 20, 0, "# preamble", "# more preamble")

	res, err := Run(cfg, discard())
	require.NoError(t, err)

	assert.Equal(t, 20, res.Metrics.Events)
	assert.InDelta(t, 0.0, res.Metrics.ResidualMean, 1e-9)
	assert.InDelta(t, 0.0, res.Metrics.ResidualRMS, 1e-9)
	assert.InDelta(t, 10.0, res.Metrics.MinMassCalc, 1e-9)
	assert.InDelta(t, 10.0, res.Metrics.MaxMassCalc, 1e-9)
	assert.NotEmpty(t, res.RunID)

	// Artifacts exist.
	_, err = os.Stat(filepath.Join(cfg.OutDir, "metrics.json"))
	require.NoError(t, err)
	require.Len(t, res.Figures, 3)
	for _, fig := range res.Figures {
		_, err := os.Stat(filepath.Join(cfg.OutDir, "figures", fig))
		require.NoError(t, err, fig)
	}
}

func TestRunDropsBadRows(t *testing.T) {
	cfg := testConfig(t)
	writeEvents(t, cfg.DataDir, 100, 10)

	res, err := Run(cfg, discard())
	require.NoError(t, err)
	assert.Equal(t, 90, res.Metrics.Events)
}

func TestRunMetricsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	writeEvents(t, cfg.DataDir, 10, 0)

	_, err := Run(cfg, discard())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(cfg.OutDir, "metrics.json"))
	require.NoError(t, err)

	_, err = Run(cfg, discard())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(cfg.OutDir, "metrics.json"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunMissingDataDir(t *testing.T) {
	cfg := testConfig(t)
	// DataDir intentionally never created.
	_, err := Run(cfg, discard())
	require.ErrorIs(t, err, locate.ErrDirNotFound)
	assertNoArtifacts(t, cfg.OutDir)
}

func TestRunMissingColumnFailsBeforeArtifacts(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "events.csv"),
		[]byte("E1,px1,py1,pz1,E2,px2,py2,M\n1,2,3,4,5,6,7,8\n"), 0o644))

	_, err := Run(cfg, discard())
	var serr *table.SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, []string{"pz2"}, serr.Missing)
	assertNoArtifacts(t, cfg.OutDir)
}

func TestRunAllRowsInvalid(t *testing.T) {
	cfg := testConfig(t)
	writeEvents(t, cfg.DataDir, 5, 5)

	_, err := Run(cfg, discard())
	require.ErrorIs(t, err, table.ErrNoValidRows)
	assertNoArtifacts(t, cfg.OutDir)
}

func TestRunSpacelikeRowsClamped(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	body := strings.Join(table.RequiredColumns, ",") + "\n" +
		"1,10,0,0,1,10,0,0,0\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "events.csv"), []byte(body), 0o644))

	res, err := Run(cfg, discard())
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Metrics.MinMassCalc)
	assert.False(t, math.IsNaN(res.Metrics.MaxMassCalc))
}

func TestRunCompletesWhenMassRangeMissesAllEvents(t *testing.T) {
	// Valid dataset, mismatched configured mass range: every computed
	// mass (10 GeV) lies above the window. The run must still finish
	// with metrics and the linear figures; only the log-scale spectrum
	// is omitted.
	cfg := testConfig(t)
	cfg.MassMax = 5
	writeEvents(t, cfg.DataDir, 10, 0)

	res, err := Run(cfg, discard())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Metrics.Events)
	assert.NotContains(t, res.Figures, "mass_spectrum_log.png")
	assert.Contains(t, res.Figures, "mass_spectrum.png")

	_, err = os.Stat(filepath.Join(cfg.OutDir, "metrics.json"))
	require.NoError(t, err)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bins = 0
	_, err := Run(cfg, discard())
	require.Error(t, err)
}

func assertNoArtifacts(t *testing.T, outDir string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(outDir, "metrics.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "metrics.json must not exist after a fatal error")
}
