// Package plot renders cleaned light curves and centroid tracks to PNG
// files for quick visual inspection of a reduction.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lightcurve-data/photometry.report/internal/photometry"
)

// ErrNoData is returned when a result has no plottable points. Callers
// should skip the output file rather than write an empty frame.
var ErrNoData = errors.New("no data points to plot")

// LightCurvePNG writes a flux-versus-time scatter of the cleaned series
// to outPath.
func LightCurvePNG(res *photometry.CleanResult, outPath string) error {
	pts := finiteXYs(res.Time, res.Flux)
	if len(pts) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Cleaned light curve"
	p.X.Label.Text = "Time (JD)"
	p.Y.Label.Text = "Relative flux"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build flux scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Color = color.RGBA{R: 40, G: 80, B: 200, A: 255}
	p.Add(scatter)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save light curve plot: %w", err)
	}
	return nil
}

// CentroidPNG writes the recentered x and y centroid tracks against time
// to outPath, one line per axis.
func CentroidPNG(res *photometry.CleanResult, outPath string) error {
	xPts := finiteXYs(res.Time, res.X)
	yPts := finiteXYs(res.Time, res.Y)
	if len(xPts) == 0 && len(yPts) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Centroid drift"
	p.X.Label.Text = "Time (JD)"
	p.Y.Label.Text = "Offset from mean (px)"

	if len(xPts) > 0 {
		xLine, err := plotter.NewLine(xPts)
		if err != nil {
			return fmt.Errorf("build x line: %w", err)
		}
		xLine.Color = color.RGBA{R: 200, G: 60, B: 60, A: 255}
		xLine.Width = vg.Points(1)
		p.Add(xLine)
		p.Legend.Add("x", xLine)
	}
	if len(yPts) > 0 {
		yLine, err := plotter.NewLine(yPts)
		if err != nil {
			return fmt.Errorf("build y line: %w", err)
		}
		yLine.Color = color.RGBA{R: 60, G: 140, B: 60, A: 255}
		yLine.Width = vg.Points(1)
		p.Add(yLine)
		p.Legend.Add("y", yLine)
	}

	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save centroid plot: %w", err)
	}
	return nil
}

// finiteXYs pairs the two series by index, keeping points where both
// values are finite.
func finiteXYs(xs, ys []float64) plotter.XYs {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	return pts
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
