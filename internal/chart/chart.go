// Package chart writes an interactive HTML view of a cleaned light
// curve using go-echarts. The output is a standalone file; open it in a
// browser to zoom and hover individual frames.
package chart

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lightcurve-data/photometry.report/internal/photometry"
)

// ErrNoData is returned when a result has no plottable points.
var ErrNoData = errors.New("no data points to chart")

// WriteLightCurveHTML renders flux against time as a scatter chart,
// coloured by flux so dips stand out, and writes it to outPath.
func WriteLightCurveHTML(res *photometry.CleanResult, outPath string) error {
	data := make([]opts.ScatterData, 0, len(res.Flux))
	minFlux := math.Inf(1)
	maxFlux := math.Inf(-1)
	for i := range res.Flux {
		f, t := res.Flux[i], res.Time[i]
		if !isFinite(f) || !isFinite(t) {
			continue
		}
		if f < minFlux {
			minFlux = f
		}
		if f > maxFlux {
			maxFlux = f
		}
		data = append(data, opts.ScatterData{Value: []interface{}{t, f, f}})
	}
	if len(data) == 0 {
		return ErrNoData
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Cleaned light curve", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cleaned light curve", Subtitle: fmt.Sprintf("source=%s points=%d", res.Meta.SourcePath, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: "dataMin", Max: "dataMax", Name: "Time (JD)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Relative flux", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minFlux),
			Max:        float32(maxFlux),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)

	scatter.AddSeries("flux", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
