package photometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/lightcurve-data/photometry.report/internal/timescale"
)

const (
	// DefaultSigma is the clip threshold applied to every clipped column.
	DefaultSigma = 6.0
	// DefaultMaxIters caps the clip at a single pass.
	DefaultMaxIters = 1
)

// Options adjust a cleaning pass. The zero value selects the standard
// reduction: no leading trim, a 6 sigma threshold, one clip pass and the
// default table layout.
type Options struct {
	// Cut drops this many of the earliest observations after sorting
	// and before outlier rejection. Trimming the detector settling ramp
	// at the start of an observation is the usual reason. Negative
	// values are an error; a cut at or past the end leaves no rows.
	Cut int

	// Sigma is the clip threshold in standard deviations. Zero or
	// negative selects DefaultSigma.
	Sigma float64

	// MaxIters caps the number of clip passes per column. Zero or
	// negative selects DefaultMaxIters.
	MaxIters int

	// Layout overrides the table column layout. Nil selects
	// DefaultLayout.
	Layout *Layout
}

// RunMeta records what a cleaning pass did to the table.
type RunMeta struct {
	SourcePath string // input table, empty for in-memory cleans

	RowsIn  int // parsed data rows
	RowsCut int // rows dropped by the leading cut
	RowsOut int // surviving rows

	// NormFactor is the reciprocal of the median raw flux. NaN when the
	// flux column had no non-NaN entries.
	NormFactor float64

	// Flagged entries per clipped column. The flux uncertainty tally is
	// informational only; its mask never removes rows.
	MaskedFlux    int
	MaskedFluxErr int
	MaskedX       int
	MaskedY       int
	MaskedPSFXW   int
	MaskedPSFYW   int

	// MaskedRows is the number of rows removed by the combined mask.
	MaskedRows int

	Sigma    float64
	MaxIters int
	Cut      int
}

// CleanResult holds the cleaned series. The four slices share one length
// and index alignment: entry i of each series came from the same table
// row.
type CleanResult struct {
	Flux []float64 // normalised flux
	Time []float64 // JD
	X    []float64 // centroid x, zero mean
	Y    []float64 // centroid y, zero mean

	Meta RunMeta
}

// LoadAndClean loads the photometry table at path and runs the standard
// cleaning pass over it: normalise flux by the reciprocal of its median,
// sort by time, clip each column at the sigma threshold, drop flagged
// rows, recenter the centroids about their means and convert timestamps
// from BMJD to JD.
//
// Degenerate values never fail the pass. A flux column that is entirely
// NaN makes the normalisation factor NaN, every flux entry NaN, and
// every row clipped, so the result is empty; a table with no data rows
// comes back empty the same way. Errors are limited to unreadable
// files, short rows, unparseable fields and a negative cut.
func LoadAndClean(path string, opts Options) (*CleanResult, error) {
	layout := DefaultLayout()
	if opts.Layout != nil {
		layout = *opts.Layout
	}
	obs, err := LoadTable(path, layout)
	if err != nil {
		return nil, err
	}
	res, err := Clean(obs, opts)
	if err != nil {
		return nil, err
	}
	res.Meta.SourcePath = path
	return res, nil
}

// Clean runs the cleaning pass over already-loaded observations. The
// input slice is not modified. See LoadAndClean for the transform.
func Clean(obs []Observation, opts Options) (*CleanResult, error) {
	if opts.Cut < 0 {
		return nil, fmt.Errorf("cut must be non-negative, got %d", opts.Cut)
	}
	sigma := opts.Sigma
	if sigma <= 0 {
		sigma = DefaultSigma
	}
	maxIters := opts.MaxIters
	if maxIters <= 0 {
		maxIters = DefaultMaxIters
	}

	meta := RunMeta{
		RowsIn:   len(obs),
		Sigma:    sigma,
		MaxIters: maxIters,
		Cut:      opts.Cut,
	}

	rows := append([]Observation(nil), obs...)

	meta.NormFactor = normalize(rows)
	sortByTime(rows)

	if opts.Cut > 0 {
		cut := opts.Cut
		if cut > len(rows) {
			cut = len(rows)
		}
		rows = rows[cut:]
		meta.RowsCut = cut
	}

	fluxMask := SigmaClip(Fluxes(rows), sigma, maxIters)
	ferrMask := SigmaClip(FluxErrs(rows), sigma, maxIters)
	xMask := SigmaClip(Xs(rows), sigma, maxIters)
	yMask := SigmaClip(Ys(rows), sigma, maxIters)
	psfxwMask := SigmaClip(PSFXWidths(rows), sigma, maxIters)
	psfywMask := SigmaClip(PSFYWidths(rows), sigma, maxIters)

	meta.MaskedFlux = countMasked(fluxMask)
	meta.MaskedFluxErr = countMasked(ferrMask)
	meta.MaskedX = countMasked(xMask)
	meta.MaskedY = countMasked(yMask)
	meta.MaskedPSFXW = countMasked(psfxwMask)
	meta.MaskedPSFYW = countMasked(psfywMask)

	// A row goes when flux, centroid or PSF width flags it. The flux
	// uncertainty mask is tallied above but does not remove rows; the
	// timestamp is never clipped at all.
	kept := make([]Observation, 0, len(rows))
	for i, o := range rows {
		if fluxMask[i] || xMask[i] || yMask[i] || psfxwMask[i] || psfywMask[i] {
			continue
		}
		kept = append(kept, o)
	}
	meta.MaskedRows = len(rows) - len(kept)

	midX := NaNMean(Xs(kept))
	midY := NaNMean(Ys(kept))
	for i := range kept {
		kept[i].X -= midX
		kept[i].Y -= midY
		kept[i].Time = timescale.BMJDToJD(kept[i].Time)
	}

	meta.RowsOut = len(kept)
	return &CleanResult{
		Flux: Fluxes(kept),
		Time: Times(kept),
		X:    Xs(kept),
		Y:    Ys(kept),
		Meta: meta,
	}, nil
}

// normalize rescales every flux by the reciprocal of the median raw flux
// and returns that factor. The uncertainty column is then rescaled from
// the already-normalised flux rather than from itself, so the stored
// value works out to factor*factor times the raw flux. That is what the
// photometry routine this loader pairs with has always produced, the
// value is not returned to callers, and downstream fits depend on the
// masks it feeds staying put, so it is preserved as is.
func normalize(rows []Observation) float64 {
	factor := 1 / NaNMedian(Fluxes(rows))
	for i := range rows {
		rows[i].Flux *= factor
		rows[i].FluxErr = factor * rows[i].Flux
	}
	return factor
}

// sortByTime orders observations by ascending timestamp. NaN timestamps
// sort after every finite timestamp; ties keep their input order.
func sortByTime(rows []Observation) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := rows[i].Time, rows[j].Time
		if math.IsNaN(ti) {
			return false
		}
		if math.IsNaN(tj) {
			return true
		}
		return ti < tj
	})
}
