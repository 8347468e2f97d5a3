package photometry

import (
	"math"
	"sort"
)

// NaNMedian calculates the median of a slice ignoring NaN entries. The
// median of an even count is the mean of the two middle values. Returns
// NaN when no non-NaN entries remain.
func NaNMedian(xs []float64) float64 {
	vals := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}

// NaNMean calculates the arithmetic mean of a slice ignoring NaN entries.
// Returns NaN when no non-NaN entries remain.
func NaNMean(xs []float64) float64 {
	var sum float64
	n := 0
	for _, v := range xs {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// SigmaClip flags outliers in a column. Non-finite entries are flagged
// unconditionally; the remaining entries are flagged when they lie more
// than sigma standard deviations from the mean of the unflagged entries.
// The mean and deviation are recomputed for up to maxIters passes, and a
// pass that flags nothing ends the loop early.
func SigmaClip(xs []float64, sigma float64, maxIters int) []bool {
	mask := make([]bool, len(xs))
	for i, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			mask[i] = true
		}
	}

	for iter := 0; iter < maxIters; iter++ {
		mean, stddev := maskedMeanStddev(xs, mask)
		changed := false
		for i, v := range xs {
			if mask[i] {
				continue
			}
			if math.Abs(v-mean) > sigma*stddev {
				mask[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return mask
}

// maskedMeanStddev calculates the mean and population standard deviation
// over the unmasked entries. Returns (0, 0) when every entry is masked.
func maskedMeanStddev(xs []float64, mask []bool) (mean float64, stddev float64) {
	var sum float64
	n := 0
	for i, v := range xs {
		if mask[i] {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)

	var sdSum float64
	for i, v := range xs {
		if mask[i] {
			continue
		}
		d := v - mean
		sdSum += d * d
	}
	stddev = math.Sqrt(sdSum / float64(n))
	return mean, stddev
}

func countMasked(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}
