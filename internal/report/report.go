// Package report summarises a cleaning run for display. It computes the
// diagnostic numbers an observer scans before trusting a reduction: how
// many rows survived, how tight the normalised flux is, and whether the
// flux still correlates with the centroid drift the clean was supposed
// to decouple it from.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/lightcurve-data/photometry.report/internal/photometry"
)

// Summary holds the diagnostics for one cleaning run. Statistical fields
// are NaN when fewer than two finite samples were available.
type Summary struct {
	SourcePath string

	RowsIn     int
	RowsCut    int
	RowsOut    int
	MaskedRows int

	// Per-column clip tallies. The flux uncertainty tally is
	// informational; its mask never removes rows.
	MaskedFlux    int
	MaskedFluxErr int
	MaskedX       int
	MaskedY       int
	MaskedPSFXW   int
	MaskedPSFYW   int

	NormFactor float64

	// FluxRMS is the root-mean-square scatter of the normalised flux
	// about 1.0.
	FluxRMS float64

	// Pearson correlation of flux against the recentered centroids. A
	// clean decorrelated light curve sits near zero.
	FluxXCorr float64
	FluxYCorr float64

	// Normalised flux quantiles.
	FluxP05 float64
	FluxP50 float64
	FluxP95 float64

	// Time coverage in JD, and the median gap between consecutive
	// frames in days.
	TimeStartJD   float64
	TimeEndJD     float64
	MedianCadence float64

	Sigma float64
	Cut   int
}

// Build computes the summary for a clean result.
func Build(res *photometry.CleanResult) *Summary {
	s := &Summary{
		SourcePath:    res.Meta.SourcePath,
		RowsIn:        res.Meta.RowsIn,
		RowsCut:       res.Meta.RowsCut,
		RowsOut:       res.Meta.RowsOut,
		MaskedRows:    res.Meta.MaskedRows,
		MaskedFlux:    res.Meta.MaskedFlux,
		MaskedFluxErr: res.Meta.MaskedFluxErr,
		MaskedX:       res.Meta.MaskedX,
		MaskedY:       res.Meta.MaskedY,
		MaskedPSFXW:   res.Meta.MaskedPSFXW,
		MaskedPSFYW:   res.Meta.MaskedPSFYW,
		NormFactor:    res.Meta.NormFactor,
		Sigma:         res.Meta.Sigma,
		Cut:           res.Meta.Cut,
	}

	s.FluxRMS = rmsAbout(res.Flux, 1.0)
	s.FluxXCorr = finiteCorrelation(res.Flux, res.X)
	s.FluxYCorr = finiteCorrelation(res.Flux, res.Y)
	s.FluxP05, s.FluxP50, s.FluxP95 = fluxQuantiles(res.Flux)
	s.TimeStartJD, s.TimeEndJD = timeSpan(res.Time)
	s.MedianCadence = medianCadence(res.Time)

	return s
}

// WriteText renders the summary as an aligned text block.
func (s *Summary) WriteText(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if s.SourcePath != "" {
		fmt.Fprintf(tw, "source\t%s\n", s.SourcePath)
	}
	fmt.Fprintf(tw, "rows in\t%d\n", s.RowsIn)
	if s.RowsCut > 0 {
		fmt.Fprintf(tw, "rows cut\t%d\n", s.RowsCut)
	}
	fmt.Fprintf(tw, "rows out\t%d\n", s.RowsOut)
	fmt.Fprintf(tw, "rows masked\t%d\n", s.MaskedRows)
	fmt.Fprintf(tw, "masked per column\tflux=%d flux_err=%d x=%d y=%d psfxw=%d psfyw=%d\n",
		s.MaskedFlux, s.MaskedFluxErr, s.MaskedX, s.MaskedY, s.MaskedPSFXW, s.MaskedPSFYW)
	fmt.Fprintf(tw, "norm factor\t%s\n", fmtVal(s.NormFactor, "%.6g"))
	fmt.Fprintf(tw, "flux rms\t%s\n", fmtVal(s.FluxRMS, "%.6g"))
	fmt.Fprintf(tw, "flux~x corr\t%s\n", fmtVal(s.FluxXCorr, "%+.4f"))
	fmt.Fprintf(tw, "flux~y corr\t%s\n", fmtVal(s.FluxYCorr, "%+.4f"))
	fmt.Fprintf(tw, "flux p05/p50/p95\t%s / %s / %s\n",
		fmtVal(s.FluxP05, "%.6g"), fmtVal(s.FluxP50, "%.6g"), fmtVal(s.FluxP95, "%.6g"))
	fmt.Fprintf(tw, "time span (JD)\t%s – %s\n",
		fmtVal(s.TimeStartJD, "%.5f"), fmtVal(s.TimeEndJD, "%.5f"))
	fmt.Fprintf(tw, "median cadence (d)\t%s\n", fmtVal(s.MedianCadence, "%.6g"))
	fmt.Fprintf(tw, "clip\t%.3g sigma\n", s.Sigma)
	tw.Flush()
}

// fmtVal formats a value, rendering NaN and infinities as "n/a".
func fmtVal(v float64, format string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf(format, v)
}

// rmsAbout computes the root-mean-square deviation of the finite entries
// about center. NaN with fewer than one finite entry.
func rmsAbout(xs []float64, center float64) float64 {
	var sum float64
	n := 0
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		d := v - center
		sum += d * d
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return math.Sqrt(sum / float64(n))
}

// finiteCorrelation computes the Pearson correlation over index pairs
// where both entries are finite. NaN for fewer than two such pairs.
func finiteCorrelation(xs, ys []float64) float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	fx := make([]float64, 0, n)
	fy := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			fx = append(fx, xs[i])
			fy = append(fy, ys[i])
		}
	}
	if len(fx) < 2 {
		return math.NaN()
	}
	return stat.Correlation(fx, fy, nil)
}

// fluxQuantiles computes the 5th, 50th and 95th percentiles of the
// finite flux entries.
func fluxQuantiles(flux []float64) (p05, p50, p95 float64) {
	vals := make([]float64, 0, len(flux))
	for _, v := range flux {
		if isFinite(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) < 2 {
		nan := math.NaN()
		return nan, nan, nan
	}
	sort.Float64s(vals)
	p05 = stat.Quantile(0.05, stat.Empirical, vals, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, vals, nil)
	p95 = stat.Quantile(0.95, stat.Empirical, vals, nil)
	return p05, p50, p95
}

// timeSpan returns the first and last finite timestamps of the sorted
// time series. NaN when none are finite.
func timeSpan(times []float64) (start, end float64) {
	start, end = math.NaN(), math.NaN()
	for _, t := range times {
		if !isFinite(t) {
			continue
		}
		if math.IsNaN(start) {
			start = t
		}
		end = t
	}
	return start, end
}

// medianCadence returns the median gap between consecutive finite
// timestamps.
func medianCadence(times []float64) float64 {
	var gaps []float64
	prev := math.NaN()
	for _, t := range times {
		if !isFinite(t) {
			continue
		}
		if !math.IsNaN(prev) {
			gaps = append(gaps, t-prev)
		}
		prev = t
	}
	if len(gaps) == 0 {
		return math.NaN()
	}
	return photometry.NaNMedian(gaps)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
