package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightcurve-data/photometry.report/internal/photometry"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("computes scatter and span for a flat light curve", func(t *testing.T) {
		t.Parallel()
		res := &photometry.CleanResult{
			Flux: []float64{0.99, 1.0, 1.01, 1.0},
			Time: []float64{2455000.5, 2455000.6, 2455000.7, 2455000.9},
			X:    []float64{-0.1, 0.1, -0.1, 0.1},
			Y:    []float64{0.2, -0.2, 0.2, -0.2},
			Meta: photometry.RunMeta{
				SourcePath: "t.dat",
				RowsIn:     5,
				RowsOut:    4,
				MaskedRows: 1,
				NormFactor: 0.5,
				Sigma:      6,
			},
		}
		s := Build(res)

		assert.Equal(t, 5, s.RowsIn)
		assert.Equal(t, 4, s.RowsOut)
		assert.Equal(t, 1, s.MaskedRows)
		assert.InDelta(t, 0.5, s.NormFactor, 1e-12)

		// RMS about 1.0 of [−0.01, 0, 0.01, 0].
		assert.InDelta(t, math.Sqrt(0.0002/4), s.FluxRMS, 1e-12)

		assert.InDelta(t, 2455000.5, s.TimeStartJD, 1e-9)
		assert.InDelta(t, 2455000.9, s.TimeEndJD, 1e-9)
		// Gaps are 0.1, 0.1, 0.2.
		assert.InDelta(t, 0.1, s.MedianCadence, 1e-9)
	})

	t.Run("perfectly correlated flux and centroid", func(t *testing.T) {
		t.Parallel()
		res := &photometry.CleanResult{
			Flux: []float64{1, 2, 3, 4},
			Time: []float64{1, 2, 3, 4},
			X:    []float64{10, 20, 30, 40},
			Y:    []float64{40, 30, 20, 10},
		}
		s := Build(res)
		assert.InDelta(t, 1.0, s.FluxXCorr, 1e-9)
		assert.InDelta(t, -1.0, s.FluxYCorr, 1e-9)
	})

	t.Run("too few finite samples yields NaN statistics", func(t *testing.T) {
		t.Parallel()
		nan := math.NaN()
		res := &photometry.CleanResult{
			Flux: []float64{1.0, nan},
			Time: []float64{nan, nan},
			X:    []float64{nan, 0.5},
			Y:    []float64{nan, nan},
		}
		s := Build(res)
		assert.True(t, math.IsNaN(s.FluxXCorr))
		assert.True(t, math.IsNaN(s.FluxP50))
		assert.True(t, math.IsNaN(s.TimeStartJD))
		assert.True(t, math.IsNaN(s.MedianCadence))
	})

	t.Run("empty result yields NaN statistics", func(t *testing.T) {
		t.Parallel()
		s := Build(&photometry.CleanResult{})
		assert.True(t, math.IsNaN(s.FluxRMS))
		assert.True(t, math.IsNaN(s.TimeEndJD))
	})
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	t.Run("renders NaN fields as n/a", func(t *testing.T) {
		t.Parallel()
		s := Build(&photometry.CleanResult{
			Meta: photometry.RunMeta{Sigma: 6},
		})
		var buf bytes.Buffer
		s.WriteText(&buf)
		out := buf.String()
		require.NotEmpty(t, out)
		assert.Contains(t, out, "n/a")
		assert.Contains(t, out, "rows in")
		assert.NotContains(t, out, "NaN")
	})

	t.Run("includes source path and tallies", func(t *testing.T) {
		t.Parallel()
		s := Build(&photometry.CleanResult{
			Flux: []float64{1, 1, 1},
			Time: []float64{1, 2, 3},
			X:    []float64{0, 0, 0},
			Y:    []float64{0, 0, 0},
			Meta: photometry.RunMeta{
				SourcePath: "target_ch2.dat",
				RowsIn:     4,
				RowsOut:    3,
				MaskedFlux: 1,
				Sigma:      6,
			},
		})
		var buf bytes.Buffer
		s.WriteText(&buf)
		lines := strings.Split(buf.String(), "\n")
		assert.Contains(t, lines[0], "target_ch2.dat")
		assert.Contains(t, buf.String(), "flux=1")
	})
}
