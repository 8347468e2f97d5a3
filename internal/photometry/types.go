// Package photometry loads and cleans time-series photometry tables.
// It implements the standard preparation pass applied to a binned light
// curve before model fitting: median normalisation, time ordering,
// sigma-clipped outlier rejection, centroid recentering and epoch
// conversion.
package photometry

// Observation is one reduced frame from a photometry table: the
// extracted flux with its uncertainty, the frame timestamp, the fitted
// centroid position and the PSF widths. Keeping the seven quantities in
// one record means sorting and filtering move whole rows, so the columns
// cannot drift out of alignment.
type Observation struct {
	Flux      float64 // integrated flux for the frame
	FluxErr   float64 // uncertainty on Flux
	Time      float64 // frame timestamp, BMJD on load
	X         float64 // centroid column, pixels
	Y         float64 // centroid row, pixels
	PSFXWidth float64 // fitted PSF width along x, pixels
	PSFYWidth float64 // fitted PSF width along y, pixels
}

// Fluxes extracts the flux column in row order.
func Fluxes(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Flux
	}
	return out
}

// FluxErrs extracts the flux uncertainty column in row order.
func FluxErrs(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.FluxErr
	}
	return out
}

// Times extracts the timestamp column in row order.
func Times(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Time
	}
	return out
}

// Xs extracts the centroid x column in row order.
func Xs(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.X
	}
	return out
}

// Ys extracts the centroid y column in row order.
func Ys(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Y
	}
	return out
}

// PSFXWidths extracts the PSF x-width column in row order.
func PSFXWidths(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.PSFXWidth
	}
	return out
}

// PSFYWidths extracts the PSF y-width column in row order.
func PSFYWidths(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.PSFYWidth
	}
	return out
}
